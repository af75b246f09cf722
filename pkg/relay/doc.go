// Package relay implements the connection-scoped message protocol: one
// Session per WebSocket connection, a Hub tracking live sessions, and a
// Dispatcher that turns each inbound envelope into an ordered sequence of
// outbound events.
//
// The protocol guarantee is per-request determinism: every accepted chat
// request produces zero or more stream events followed by exactly one
// terminal event (response or error), all correlated by the caller's
// request_id. Adapter failures become terminal error events; only a
// failure of the transport itself ends a session.
package relay
