package relay

import (
	"encoding/json"
	"time"
)

// Inbound actions.
const (
	ActionChat      = "chat"
	ActionConfigure = "configure"
)

// Outbound event types.
const (
	EventStream   = "stream"
	EventResponse = "response"
	EventError    = "error"
)

// RequestIDUnknown is the sentinel request identifier echoed when the
// inbound envelope is too malformed to yield one.
const RequestIDUnknown = "unknown"

// InboundEnvelope is the unit received over the duplex connection.
type InboundEnvelope struct {
	// Action selects the handler ("chat" or "configure")
	Action string `json:"action"`

	// RequestID is the caller-supplied correlation identifier. It is
	// echoed, not validated: the system makes no uniqueness guarantee.
	RequestID string `json:"request_id"`

	// Data is the action-specific payload, decoded per action
	Data json.RawMessage `json:"data"`
}

// ChatData is the payload of a "chat" action.
type ChatData struct {
	Prompt       string `json:"prompt"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	APIKey       string `json:"api_key,omitempty"`
	BaseURL      string `json:"base_url,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Stream selects between token streaming (default) and a single
	// non-streaming round trip. Absent means streaming.
	Stream *bool `json:"stream,omitempty"`
}

// ConfigureData is the payload of a "configure" action.
type ConfigureData struct {
	APIKeys map[string]string `json:"api_keys"`
}

// OutboundEnvelope is the unit sent over the duplex connection.
type OutboundEnvelope struct {
	// Type tags the payload ("stream", "response", "error")
	Type string `json:"type"`

	// Payload is the type-specific body
	Payload interface{} `json:"payload"`

	// Timestamp is the emission time in RFC 3339 UTC
	Timestamp string `json:"timestamp"`
}

// StreamPayload carries one text fragment of an in-flight chat request.
type StreamPayload struct {
	RequestID string `json:"request_id"`
	Token     string `json:"token"`
}

// ChatResponsePayload is the terminal success event of a chat request.
type ChatResponsePayload struct {
	RequestID string `json:"request_id"`
	Content   string `json:"content"`
	Success   bool   `json:"success"`
}

// ConfigureResponsePayload acknowledges a configure action.
type ConfigureResponsePayload struct {
	RequestID  string   `json:"request_id"`
	Success    bool     `json:"success"`
	Configured []string `json:"configured"`
}

// ErrorPayload is the terminal failure event of a request.
type ErrorPayload struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

// now returns the envelope timestamp in RFC 3339 UTC.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewStreamEvent builds a stream envelope for one fragment.
func NewStreamEvent(requestID, token string) *OutboundEnvelope {
	return &OutboundEnvelope{
		Type:      EventStream,
		Payload:   StreamPayload{RequestID: requestID, Token: token},
		Timestamp: now(),
	}
}

// NewChatResponseEvent builds the terminal response envelope of a chat
// request carrying the full accumulated content.
func NewChatResponseEvent(requestID, content string) *OutboundEnvelope {
	return &OutboundEnvelope{
		Type:      EventResponse,
		Payload:   ChatResponsePayload{RequestID: requestID, Content: content, Success: true},
		Timestamp: now(),
	}
}

// NewConfigureResponseEvent builds the acknowledgment envelope of a
// configure action, listing the provider keys that were set.
func NewConfigureResponseEvent(requestID string, configured []string) *OutboundEnvelope {
	return &OutboundEnvelope{
		Type:      EventResponse,
		Payload:   ConfigureResponsePayload{RequestID: requestID, Success: true, Configured: configured},
		Timestamp: now(),
	}
}

// NewErrorEvent builds the terminal error envelope of a request.
func NewErrorEvent(requestID, message string) *OutboundEnvelope {
	return &OutboundEnvelope{
		Type:      EventError,
		Payload:   ErrorPayload{RequestID: requestID, Error: message},
		Timestamp: now(),
	}
}
