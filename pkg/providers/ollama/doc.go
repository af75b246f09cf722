// Package ollama implements the provider adapter for a local Ollama server.
//
// The adapter defaults to base URL http://localhost:11434 and model
// "llama2", posts to /api/chat, and needs no credential: IsConfigured is
// always true. In streaming mode the response body is newline-delimited
// JSON; every line is parsed independently, so one bad line never prevents
// the lines after it from being processed.
package ollama
