// Package server provides the HTTP surface of the relay: the WebSocket
// endpoint that carries chat traffic, the REST configuration endpoint,
// and the status, health, and metrics endpoints.
package server
