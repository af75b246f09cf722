// Package openai implements the provider adapter for OpenAI's chat
// completions API.
//
// The adapter defaults to model "gpt-4o" and base URL
// https://api.openai.com/v1, and authenticates with a bearer token. A
// system prompt is prepended as a leading "system" role message. Streaming
// responses arrive as Server-Sent Events; each "data:" line carries a JSON
// chunk with an incremental content delta, and the literal "[DONE]" marks
// the end of the stream. Chunks that fail to decode are skipped so a single
// malformed frame never aborts the stream.
package openai
