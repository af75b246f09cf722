// Package middleware provides the HTTP middleware chain for the relay
// server: panic recovery, request ID propagation, request logging, and
// CORS. The chain wraps every route including the WebSocket upgrade, so
// the response writer wrapper preserves http.Hijacker.
package middleware
