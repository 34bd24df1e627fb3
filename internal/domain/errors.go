package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrCardNotFound is returned when a patch targets an identifier that is
	// absent from a fresh extraction of the document.
	ErrCardNotFound = errors.New("card not found")

	// ErrRemoteUnavailable is returned when the remote note store cannot be
	// queried. A sync run cannot proceed without it.
	ErrRemoteUnavailable = errors.New("remote note store unavailable")

	// ErrCardIDEmpty is returned when a card has no identifier.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardIDInvalid is returned when an identifier cannot be stored in a marker.
	ErrCardIDInvalid = errors.New("invalid card ID")

	// ErrCardContentInvalid is returned when question or answer text would
	// break the marker grammar once written into a document.
	ErrCardContentInvalid = errors.New("invalid card content")

	// ErrValidation is returned when a domain entity fails validation.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
