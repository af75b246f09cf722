package relay

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"lifelayer/relay/pkg/providerfactory"
	"lifelayer/relay/pkg/providers"
)

// dialTestSession starts a WebSocket endpoint that runs a Session over
// each accepted connection and returns the client side plus the session.
func dialTestSession(t *testing.T, hub *Hub, d *Dispatcher) (*websocket.Conn, *Session) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	accepted := make(chan *Session, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s := NewSession(r.Context(), conn, hub, d)
		accepted <- s
		s.Run()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	select {
	case s := <-accepted:
		return conn, s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session")
		return nil, nil
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev map[string]any
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	return ev
}

func TestSessionAppliesConfigureInReceiveOrder(t *testing.T) {
	keys := providerfactory.NewKeyStore()
	d := NewDispatcher(keys, nil, nil)
	hub := NewHub()
	conn, _ := dialTestSession(t, hub, d)

	// Back-to-back configure envelopes for the same provider must land in
	// receive order, so the second key is the one a later chat resolves.
	for round := 0; round < 20; round++ {
		first := fmt.Sprintf("sk-old-%d", round)
		second := fmt.Sprintf("sk-new-%d", round)

		for _, key := range []string{first, second} {
			err := conn.WriteJSON(map[string]any{
				"action":     "configure",
				"request_id": "cfg",
				"data":       map[string]any{"api_keys": map[string]string{"openai": key}},
			})
			if err != nil {
				t.Fatalf("failed to send configure: %v", err)
			}
		}

		for i := 0; i < 2; i++ {
			if ev := readEvent(t, conn); ev["type"] != EventResponse {
				t.Fatalf("expected configure ack, got %v", ev["type"])
			}
		}

		if got, _ := keys.Lookup("openai"); got != second {
			t.Fatalf("round %d: expected last-received key %q, got %q", round, second, got)
		}
	}
}

func TestSessionDisconnectMidStreamRemovesFromHub(t *testing.T) {
	d := NewDispatcher(providerfactory.NewKeyStore(), nil, nil)
	d.newProvider = func(name string, cfg providers.Config) (providers.Provider, error) {
		return &fakeProvider{
			name:       name,
			configured: true,
			chunks:     []providers.StreamChunk{{Text: "tick"}},
			hold:       true,
		}, nil
	}
	hub := NewHub()
	conn, s := dialTestSession(t, hub, d)

	if !hub.Contains(s.ID()) {
		t.Fatal("session must be registered after accept")
	}

	err := conn.WriteJSON(map[string]any{
		"action":     "chat",
		"request_id": "req-1",
		"data":       map[string]any{"prompt": "hi"},
	})
	if err != nil {
		t.Fatalf("failed to send chat: %v", err)
	}

	// Wait for the stream to be in flight, then drop the client.
	if ev := readEvent(t, conn); ev["type"] != EventStream {
		t.Fatalf("expected stream event, got %v", ev["type"])
	}
	conn.Close()

	deadline := time.After(2 * time.Second)
	for hub.Contains(s.ID()) {
		select {
		case <-deadline:
			t.Fatal("session not removed from hub after mid-stream disconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
