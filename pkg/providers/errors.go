package providers

import (
	"fmt"
	"time"
)

// UnknownProviderError is returned when a provider identifier does not
// name one of the known adapters.
type UnknownProviderError struct {
	// Name is the unrecognized provider identifier
	Name string
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}

// NotConfiguredError is returned when an adapter is invoked without the
// credential it requires.
type NotConfiguredError struct {
	// Provider is the name of the unconfigured provider
	Provider string
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("provider %s not configured. Please provide API key.", e.Provider)
}

// ProviderError represents an upstream transport failure: a network error
// or a non-2xx HTTP response.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// Message is the error message or upstream response body
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a request that exceeded the configured timeout.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred
	Provider string

	// Timeout is the configured timeout duration
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// ParseError represents a malformed upstream response. During streaming,
// per-chunk parse failures are skipped rather than surfaced; ParseError is
// reserved for responses that are structurally unusable.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents an invalid request rejected before any
// network call is made.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}
