// Package gemini implements the provider adapter for Google's Gemini
// generateContent API.
//
// The adapter defaults to model "gemini-pro" and authenticates with the API
// key in the query string. Gemini has no native system-message channel, so
// a system prompt is synthesized as a leading exchange placed before the
// real conversation: a user turn carrying the instructions behind a
// "System instructions:" label, then a model turn acknowledging them.
// Streaming uses the streamGenerateContent endpoint with alt=sse framing.
package gemini
