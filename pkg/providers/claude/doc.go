// Package claude implements the provider adapter for Anthropic's Messages
// API.
//
// The adapter defaults to model "claude-3-opus-20240229" and authenticates
// with the x-api-key header. Anthropic has no "system" role in the message
// array: any system-role message in the conversation is stripped and its
// content routed to the request's dedicated system field (an explicit
// system prompt takes precedence; the field falls back to empty string).
// Streaming responses arrive as named SSE events; only content_block_delta
// text deltas produce fragments, message_stop ends the stream, and events
// that fail to decode are skipped.
package claude
