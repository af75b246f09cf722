package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"lifelayer/relay/pkg/relay"
)

// statusResponse is the body of the root status endpoint.
type statusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// configureRequest is the body accepted by POST /configure.
type configureRequest struct {
	APIKeys map[string]string `json:"api_keys"`
}

// configureResponse is the body returned by POST /configure.
type configureResponse struct {
	Status     string   `json:"status"`
	Configured []string `json:"configured"`
}

// handleStatus reports service identity at the root path.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	// ServeMux routes every unregistered path here
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Service: s.config.Server.ServiceName,
	})
}

// handleHealth reports liveness with a current timestamp.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConfigure merges API keys into the shared key store. The REST
// path mirrors the WebSocket configure action for clients that set keys
// before opening a session.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	configured := s.keys.Update(req.APIKeys)

	slog.InfoContext(r.Context(), "api keys configured",
		"providers", configured,
	)

	writeJSON(w, http.StatusOK, configureResponse{
		Status:     "ok",
		Configured: configured,
	})
}

// handleWebSocket upgrades the connection and runs a relay session for
// its lifetime.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	s.collector.ConnectionOpened()
	defer s.collector.ConnectionClosed()

	session := relay.NewSession(r.Context(), conn, s.hub, s.dispatcher)
	session.Run()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
