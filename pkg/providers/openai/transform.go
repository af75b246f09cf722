package openai

import "lifelayer/relay/pkg/providers"

// OpenAI API request/response types

// Request represents an OpenAI chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Message represents a message in OpenAI format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents an OpenAI chat completion response.
type Response struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice represents a completion choice in OpenAI format.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// StreamResponse represents a chunk in OpenAI's SSE stream.
type StreamResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice represents a choice in a stream chunk.
type StreamChoice struct {
	Index        int         `json:"index"`
	Delta        StreamDelta `json:"delta"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// StreamDelta represents the incremental content in a stream chunk.
type StreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// transformMessages translates the role-tagged conversation to OpenAI
// format. A non-empty systemPrompt becomes a leading "system" message.
func transformMessages(messages []providers.ChatMessage, systemPrompt string) []Message {
	formatted := make([]Message, 0, len(messages)+1)

	if systemPrompt != "" {
		formatted = append(formatted, Message{
			Role:    providers.RoleSystem,
			Content: systemPrompt,
		})
	}

	for _, msg := range messages {
		formatted = append(formatted, Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return formatted
}
