package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateAttendeeCode = errors.New("attendee code already in use")
	ErrRegistrationClosed    = errors.New("registrations are closed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrEmailRejected         = errors.New("email rejected by provider")
)

// ValidationError carries one message per rejected field.
// errors.Is(err, ErrValidation) reports true for it.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns a ValidationError for the given messages.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
