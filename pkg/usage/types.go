package usage

import (
	"context"
	"fmt"
	"time"
)

// Record is one usage log entry. It captures metadata only: what was
// asked of which provider and how it went, never the conversation.
type Record struct {
	// ID is the unique record identifier (UUID)
	ID string

	// Time is when the request reached its terminal event
	Time time.Time

	// SessionID identifies the WebSocket session
	SessionID string

	// RequestID is the client-chosen request correlation ID
	RequestID string

	// Provider is the provider identifier ("openai", "claude", ...)
	Provider string

	// Model is the requested model, empty if the provider default applied
	Model string

	// Status is the terminal outcome ("success" or "error")
	Status string

	// Tokens is the number of stream fragments relayed
	Tokens int

	// DurationMS is the request wall time in milliseconds
	DurationMS int64

	// Error holds the error message for failed requests
	Error string
}

// Storage persists usage records.
type Storage interface {
	// Store persists one record
	Store(ctx context.Context, record *Record) error

	// Count returns the total number of stored records
	Count(ctx context.Context) (int64, error)

	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]*Record, error)

	// DeleteOlderThan removes records older than cutoff and reports how
	// many were deleted
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases backend resources
	Close() error
}

// StorageError wraps a storage backend failure with the backend name and
// the operation that failed.
type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("usage storage %s: %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, err error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Err: err}
}
