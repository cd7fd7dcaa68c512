package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/signup/":
			var req dto.SignupRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(dto.SignupResponse{Username: req.Username, Email: req.Email})
		case "/api/v1/auth/token/":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"confirmation_code":["invalid confirmation code"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/v1/")

	resp, err := c.Signup(&dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	_, err = c.ObtainToken(&dto.TokenRequest{Username: "alice", ConfirmationCode: "x"})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "confirmation_code: invalid confirmation code")
}

func TestListTitles_QueryAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/titles/", r.URL.Path)
		assert.Equal(t, "drama", r.URL.Query().Get("genre"))
		assert.Equal(t, "1972", r.URL.Query().Get("year"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"count":11,"page":2,"page_size":10,"total_pages":2,
			"results":[{"id":1,"name":"Solaris","year":1972,"rating":null,"genre":[],"category":null}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/v1")
	c.SetToken("tok")

	page, err := c.ListTitles(dto.TitleQuery{Genre: "drama", Year: 1972}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 11, page.Count)
	require.Len(t, page.Results, 1)
	assert.Nil(t, page.Results[0].Rating)
}

func TestDecodeError_Detail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token has expired"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Me()

	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "401 Unauthorized: token has expired", err.Error())
}
