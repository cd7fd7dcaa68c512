package authentication

// KeyString keeps the access token in the OS keyring, one entry per API URL.
import (
	"encoding/json"
	"errors"
	"time"

	"github.com/zalando/go-keyring"
)

const serviceName = "yamdb-cli"

// ErrNoCredentials is returned when nothing is stored for the API URL.
var ErrNoCredentials = errors.New("not logged in")

type StoredCredentials struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

func StoreToken(apiURL string, creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, apiURL, string(data))
}

func GetToken(apiURL string) (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, apiURL)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteToken forgets the stored token; deleting a missing entry is not an error.
func DeleteToken(apiURL string) error {
	if err := keyring.Delete(serviceName, apiURL); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
