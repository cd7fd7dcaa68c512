package service

import (
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid confirmation code")
	ErrThrottled          = errors.New("too many requests")
)

// FieldError is a validation failure attached to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation on a field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// notFound maps a missing row to ErrNotFound and passes other errors through.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// conflictField guesses the offending field from the unique constraint name
// carried by a repository.ErrDuplicate.
func conflictField(err error, fallback string) string {
	msg := err.Error()
	for _, field := range []string{"username", "email", "slug"} {
		if strings.Contains(msg, field) {
			return field
		}
	}
	return fallback
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
