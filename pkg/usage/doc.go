// Package usage records per-request metadata after each chat request
// reaches its terminal event: provider, model, outcome, fragment count,
// and latency. Records never contain prompts, responses, or API keys.
//
// Records flow through an asynchronous Recorder into a Storage backend
// (SQLite or in-memory), and a cron-driven Pruner enforces retention.
package usage
