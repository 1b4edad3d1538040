package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in the handler layer.
var (
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
	ErrUsernameRequired       = errors.New("username is required")

	ErrRegistrationNotFound = errors.New("registration not found")
)

// ValidationError carries every rule violation of a submission. Violations
// are collected, not fail-fast, so one response lists them all.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
