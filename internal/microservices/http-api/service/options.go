package service

import (
	"context"

	"yamdb/internal/config"
)

// Options are the identity and authentication settings shared by the auth
// and user services.
type Options struct {
	UsernameForbiddenPatterns []config.UsernamePattern
	ConfirmationCodeLength    int
	// ConfirmationCodeSingleUse clears the stored code after a successful
	// token exchange.
	ConfirmationCodeSingleUse bool
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UsernameForbiddenPatterns: cfg.UsernameForbiddenPatterns,
		ConfirmationCodeLength:    cfg.ConfirmationCodeLength,
		ConfirmationCodeSingleUse: cfg.ConfirmationCodeSingleUse,
	}
}

// Notifier delivers a message to an email address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SignupLimiter reports whether another signup for key is allowed now.
type SignupLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
