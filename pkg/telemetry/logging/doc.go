// Package logging configures the process-wide slog logger and provides a
// Redactor that masks credentials before they reach log output. The relay
// handles raw API keys on every request path, so every log site that could
// touch one goes through the redactor.
package logging
