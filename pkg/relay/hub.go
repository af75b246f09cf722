package relay

import (
	"log/slog"
	"sync"
)

// Hub is the process-wide registry of active sessions. Sessions register
// on accept and remove themselves on disconnect; mutation is safe under
// concurrent session lifecycle events.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates an empty session registry.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
	}
}

// Add registers a session.
func (h *Hub) Add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	total := len(h.sessions)
	h.mu.Unlock()

	slog.Info("client connected",
		"session_id", s.ID(),
		"total_connections", total,
	)
}

// Remove unregisters a session by ID. Removing an unknown ID is a no-op,
// so the disconnect path is idempotent.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	total := len(h.sessions)
	h.mu.Unlock()

	if ok {
		slog.Info("client disconnected",
			"session_id", id,
			"total_connections", total,
		)
	}
}

// Contains reports whether the session ID is registered.
func (h *Hub) Contains(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.sessions[id]
	return ok
}

// Len returns the number of active sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions)
}

// CloseAll closes every registered session's transport. Used during
// server shutdown; each session then unwinds through its own read loop.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
