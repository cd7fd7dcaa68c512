package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// CodeAlphabet is the character set confirmation codes are drawn from.
const CodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces random confirmation codes.
type CodeGenerator interface {
	Generate(length int) (string, error)
}

// RandomCodeGenerator draws codes from CodeAlphabet using crypto/rand.
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("code length must be positive")
	}
	max := big.NewInt(int64(len(CodeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		buf[i] = CodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashCode creates a bcrypt hash of a confirmation code so it is never stored in clear.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided code matches the stored hash. The
// comparison is exact and case-sensitive.
func VerifyCode(hashedCode, providedCode string) bool {
	if hashedCode == "" || providedCode == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode)) == nil
}
