package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session owns one WebSocket connection for its lifetime. It reads inbound
// envelopes sequentially; chat handlers run as their own goroutines so a
// slow upstream never blocks the read loop, while configure envelopes are
// handled inline so credential updates apply in receive order. A write
// mutex keeps outbound frames whole; events of a single request stay in
// order because one handler goroutine emits them sequentially.
type Session struct {
	id         string
	conn       *websocket.Conn
	hub        *Hub
	dispatcher *Dispatcher

	// writeMu serializes frames from concurrent request handlers
	writeMu sync.Mutex

	// ctx is cancelled on disconnect so in-flight handlers stop pulling
	// from their upstream streams
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// NewSession creates a session over an accepted connection and registers
// it in the hub.
func NewSession(ctx context.Context, conn *websocket.Conn, hub *Hub, dispatcher *Dispatcher) *Session {
	sessionCtx, cancel := context.WithCancel(ctx)

	s := &Session{
		id:         uuid.NewString(),
		conn:       conn,
		hub:        hub,
		dispatcher: dispatcher,
		ctx:        sessionCtx,
		cancel:     cancel,
	}

	hub.Add(s)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run reads inbound messages until the transport fails or disconnects,
// then unregisters the session. In-flight requests are abandoned, not
// cancelled upstream: closing the connection is the only signal the
// backend receives.
func (s *Session) Run() {
	defer s.teardown()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed",
					"session_id", s.id,
					"error", err,
				)
			}
			return
		}

		if isChat(raw) {
			go s.dispatcher.HandleMessage(s.ctx, s, raw)
		} else {
			s.dispatcher.HandleMessage(s.ctx, s, raw)
		}
	}
}

// isChat reports whether raw carries a chat action. Only chat handlers run
// concurrently: a configure received before a chat must be applied before
// the chat resolves its credentials, so everything else stays inline.
func isChat(raw []byte) bool {
	var head struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return false
	}
	return head.Action == ActionChat
}

// Send serializes one envelope and writes it as a single text frame.
// Safe for concurrent use by multiple request handlers.
func (s *Session) Send(ev *OutboundEnvelope) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteJSON(ev)
}

// Close tears the transport down, which unwinds Run.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.conn.Close()
	})
}

// teardown removes the session from the hub and releases the connection.
func (s *Session) teardown() {
	s.cancel()
	s.hub.Remove(s.id)
	s.conn.Close()
}
