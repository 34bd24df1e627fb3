package ankiconnect

import (
	"fmt"

	"github.com/phrazzld/scry-sync/internal/domain"
)

// APIError is a request that reached AnkiConnect and was rejected by it.
type APIError struct {
	Action  string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// Unwrap lets callers match the error with errors.Is(err, domain.ErrRemoteUnavailable).
func (e *APIError) Unwrap() error {
	return domain.ErrRemoteUnavailable
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Action     string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("ankiconnect %s: unexpected status %d: %s", e.Action, e.StatusCode, e.Body)
}

// Unwrap lets callers match the error with errors.Is(err, domain.ErrRemoteUnavailable).
func (e *StatusError) Unwrap() error {
	return domain.ErrRemoteUnavailable
}

// retryable reports whether the status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode >= 500
}
