// Package providers defines the adapter contract for upstream chat backends
// and the shared HTTP plumbing used by the concrete adapters.
//
// Each backend (OpenAI, Claude, Gemini, Ollama) is wrapped by an adapter in
// a subpackage that normalizes request construction, authentication, and
// incremental stream decoding behind the Provider interface. The relay
// constructs one adapter per inbound request from a Config snapshot; adapters
// hold no mutable state beyond their HTTP client.
//
// Streaming uses a channel of StreamChunk values. The channel is finite and
// non-restartable: the producer closes it after the final chunk, and a chunk
// with a non-nil Err is always terminal.
package providers
