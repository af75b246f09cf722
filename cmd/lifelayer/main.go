// Lifelayer Relay is a WebSocket gateway that bridges browser and CLI
// clients to streaming LLM providers.
//
// Clients open one WebSocket connection and send JSON envelopes; the
// relay forwards each chat request to the selected provider (OpenAI,
// Claude, Gemini, or a local Ollama instance) and streams response
// fragments back as they arrive, always ending the request with exactly
// one response or error event.
//
// Usage:
//
//	# Start with default configuration
//	lifelayer run
//
//	# Start with a configuration file
//	lifelayer run --config /etc/lifelayer/config.yaml
//
//	# Validate configuration without starting
//	lifelayer run --dry-run
//
//	# Show version information
//	lifelayer version
package main

func main() {
	Execute()
}
