// Package common defines shared sentinel errors used across the layers of
// the get-a-pet backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Business-rule errors reported to clients.
	ErrEmailTaken         = errors.New("email already taken")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("password confirmation mismatch")

	// Hashing errors. Both are reported to clients as ErrInternal.
	ErrHashing           = errors.New("hashing error")
	ErrInvalidHashFormat = errors.New("invalid hash format")
)

// ValidationError reports a missing or malformed request field. Message is
// the client-facing text, Field the request field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Field
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
