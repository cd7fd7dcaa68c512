package client

// http_client.go talks to the yamdb HTTP API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/microservices/http-api/dto"
)

// APIError is a non-2xx response. Fields holds the field-level messages of a
// 400/409 body when the server sent them.
type APIError struct {
	Status int
	Fields map[string][]string
	Detail string
}

func (e *APIError) Error() string {
	status := fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msgs := range e.Fields {
			parts = append(parts, field+": "+strings.Join(msgs, ", "))
		}
		sort.Strings(parts)
		return status + ": " + strings.Join(parts, "; ")
	}
	if e.Detail != "" {
		return status + ": " + e.Detail
	}
	return status
}

// HTTPClient wraps the API base URL, an http.Client and an optional token.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client; apiURL includes the /api/v1 prefix
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Signup asks the server to send a confirmation code to email.
func (c *HTTPClient) Signup(request *dto.SignupRequest) (*dto.SignupResponse, error) {
	var result dto.SignupResponse
	if err := c.do(http.MethodPost, "/auth/signup/", request, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ObtainToken exchanges a confirmation code for an access token.
func (c *HTTPClient) ObtainToken(request *dto.TokenRequest) (*dto.TokenResponse, error) {
	var result dto.TokenResponse
	if err := c.do(http.MethodPost, "/auth/token/", request, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the profile of the token owner.
func (c *HTTPClient) Me() (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodGet, "/users/me/", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTitles returns one page of titles matching the filter.
func (c *HTTPClient) ListTitles(filter dto.TitleQuery, page int) (*dto.Paginated[dto.TitleResponse], error) {
	q := url.Values{}
	if filter.Genre != "" {
		q.Set("genre", filter.Genre)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Year != 0 {
		q.Set("year", strconv.Itoa(filter.Year))
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}

	path := "/titles/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var result dto.Paginated[dto.TitleResponse]
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListReviews returns one page of reviews for a title, newest first.
func (c *HTTPClient) ListReviews(titleID int64, page int) (*dto.Paginated[dto.ReviewResponse], error) {
	path := fmt.Sprintf("/titles/%d/reviews/", titleID)
	if page > 1 {
		path += "?page=" + strconv.Itoa(page)
	}
	var result dto.Paginated[dto.ReviewResponse]
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateReview posts a review as the token owner.
func (c *HTTPClient) CreateReview(titleID int64, request *dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	var result dto.ReviewResponse
	if err := c.do(http.MethodPost, fmt.Sprintf("/titles/%d/reviews/", titleID), request, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads {"error": "..."} or {"field": ["..."]} bodies.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		apiErr.Detail = strings.TrimSpace(string(raw))
		return apiErr
	}
	for key, value := range generic {
		var msg string
		if key == "error" && json.Unmarshal(value, &msg) == nil {
			apiErr.Detail = msg
			continue
		}
		var msgs []string
		if json.Unmarshal(value, &msgs) == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = map[string][]string{}
			}
			apiErr.Fields[key] = msgs
		}
	}
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
