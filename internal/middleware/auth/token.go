package auth

import (
	"errors"
	"fmt"
	"time"

	"yamdb/internal/shared"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenSigner issues and verifies access tokens.
type TokenSigner interface {
	Issue(identity shared.AuthClaims) (string, error)
	Verify(token string) (*shared.AuthClaims, error)
}

type accessClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTSigner signs HS256 access tokens.
type JWTSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewJWTSigner(secret string, ttl time.Duration) (*JWTSigner, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &JWTSigner{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *JWTSigner) Issue(identity shared.AuthClaims) (string, error) {
	if identity.UserID == "" {
		return "", errors.New("cannot issue a token without a user id")
	}
	now := s.now()
	claims := accessClaims{
		Username:  identity.UserName,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTSigner) Verify(tokenString string) (*shared.AuthClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != "access" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &shared.AuthClaims{UserID: claims.Subject, UserName: claims.Username}, nil
}
