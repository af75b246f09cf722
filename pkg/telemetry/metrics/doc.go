// Package metrics provides the Prometheus instrumentation for the relay:
// active connection count, per-provider request and stream-token counters,
// and provider latency. The Collector is nil-safe so instrumented code
// never has to guard against metrics being disabled.
package metrics
