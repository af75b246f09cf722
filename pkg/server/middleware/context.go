package middleware

// contextKey is a private type for context values set by this package,
// preventing collisions with keys from other packages.
type contextKey string

const (
	// RequestIDKey is the context key holding the request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey is the context key holding the request start time.
	StartTimeKey contextKey = "start_time"
)
