package providers

import "context"

// Provider is the capability contract every backend adapter implements.
// It provides a uniform abstraction over heterogeneous upstream chat APIs.
//
// All blocking methods accept a context.Context for cancellation. Adapters
// must stop producing and release transport resources promptly when the
// context is cancelled.
type Provider interface {
	// Name returns the provider identifier ("openai", "claude", "gemini",
	// "ollama").
	Name() string

	// IsConfigured reports whether the adapter received the credential it
	// requires. Adapters that need no credential (Ollama) always return true.
	IsConfigured() bool

	// Chat performs one non-streaming round trip and returns the full
	// generated text. The role-tagged message sequence is translated to the
	// backend's required shape; systemPrompt is injected however the backend
	// expects system instructions to arrive.
	//
	// Returns a NotConfiguredError if invoked while IsConfigured is false.
	Chat(ctx context.Context, messages []ChatMessage, systemPrompt string) (string, error)

	// ChatStream performs a streaming round trip and returns a channel of
	// incremental text fragments in exact transport arrival order.
	//
	// The caller must drain the channel. The producer closes it when the
	// stream ends; a chunk carrying a non-nil Err is terminal and no further
	// chunks follow it. Concatenating all Text values yields, best effort,
	// what Chat would have returned for the same inputs.
	ChatStream(ctx context.Context, messages []ChatMessage, systemPrompt string) (<-chan StreamChunk, error)
}

// StreamChunk is one incremental piece of a streaming response.
type StreamChunk struct {
	// Text is the decoded text fragment. Empty for a terminal error chunk.
	Text string

	// Err is set on the terminal chunk if the stream failed mid-flight.
	Err error
}
