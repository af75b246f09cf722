package claude

import "lifelayer/relay/pkg/providers"

// Anthropic API request/response types

// Request represents an Anthropic messages request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Message represents a message in Anthropic format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents an Anthropic messages response.
type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// StreamEvent represents an event in Anthropic's SSE stream.
// Only the fields needed for text streaming are decoded; other event
// payloads (message_start, content_block_start) are ignored.
type StreamEvent struct {
	Type  string      `json:"type"`
	Index int         `json:"index,omitempty"`
	Delta *EventDelta `json:"delta,omitempty"`
}

// EventDelta represents incremental content in a content_block_delta event.
type EventDelta struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// transformMessages translates the conversation to Anthropic format.
//
// System instructions travel only in the request's system field, sourced
// from the explicit systemPrompt ("" when absent). System-role messages in
// the conversation are dropped, never forwarded as chat turns.
func transformMessages(messages []providers.ChatMessage) []Message {
	formatted := make([]Message, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == providers.RoleSystem {
			continue
		}
		formatted = append(formatted, Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return formatted
}
