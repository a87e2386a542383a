// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrPersistence  = errors.New("persistence failure")
	ErrConflict     = errors.New("concurrent update conflict")
	ErrDuplicate    = errors.New("already exists")
)

// NotFound wraps ErrNotFound with the kind of record that was missing.
func NotFound(kind string) error {
	return fmt.Errorf("%s %w", kind, ErrNotFound)
}

// Invalid wraps ErrInvalidInput with a user facing message.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// Retryable reports whether the caller may safely repeat the request.
func Retryable(err error) bool {
	return errors.Is(err, ErrPersistence) || errors.Is(err, ErrConflict)
}
