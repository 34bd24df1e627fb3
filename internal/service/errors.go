package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	// ErrDeckRequired is returned when a sync run is started without a deck.
	ErrDeckRequired = errors.New("deck name is required")

	// ErrConfirmerRequired is returned when an interactive run has no way to ask.
	ErrConfirmerRequired = errors.New("interactive sync requires a confirmer")
)

// SyncServiceError wraps errors from the sync service with context.
type SyncServiceError struct {
	// Operation is the operation that failed (e.g., "load_local", "fetch_remote")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for SyncServiceError.
func (e *SyncServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("sync service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SyncServiceError) Unwrap() error {
	return e.Err
}

// NewSyncServiceError creates a new SyncServiceError.
// It returns service sentinel errors directly without wrapping.
func NewSyncServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDeckRequired) || errors.Is(err, ErrConfirmerRequired) {
		return err
	}

	return &SyncServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
