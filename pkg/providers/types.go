package providers

import "time"

// ChatMessage represents a single message in a conversation.
// It is provider-agnostic and is transformed to provider-specific formats
// by each adapter. Order within a conversation is chronological and
// semantically meaningful.
type ChatMessage struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// Config contains the configuration for a single adapter instance.
// It is immutable once passed to an adapter; the relay builds a fresh
// Config for every request.
type Config struct {
	// APIKey is the authentication credential. Optional: adapters are
	// constructible without one and report it through IsConfigured.
	APIKey string

	// Model is the model identifier. Empty selects the adapter's default.
	Model string

	// BaseURL overrides the adapter's default API endpoint.
	BaseURL string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the number of generated tokens.
	MaxTokens int

	// Timeout bounds each upstream HTTP round trip, including the full
	// read of a streamed body. Guards against a hung backend.
	Timeout time.Duration
}

// Default generation parameters, applied by ApplyDefaults.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
	DefaultTimeout     = 120 * time.Second
)

// ApplyDefaults fills zero-valued generation parameters.
// Model and BaseURL defaults are per-adapter and applied there.
func (c *Config) ApplyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
