package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"lifelayer/relay/pkg/config"
	"lifelayer/relay/pkg/providerfactory"
	"lifelayer/relay/pkg/relay"
)

func newTestServer() (*Server, *providerfactory.KeyStore) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	keys := providerfactory.NewKeyStore()
	hub := relay.NewHub()
	dispatcher := relay.NewDispatcher(keys, nil, nil)

	return NewServer(cfg, hub, dispatcher, keys, nil), keys
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if body.Service != config.DefaultServiceName {
		t.Errorf("expected service %q, got %q", config.DefaultServiceName, body.Service)
	}
}

func TestStatusEndpointUnknownPath(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", body.Status)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp not RFC 3339: %q", body.Timestamp)
	}
}

func TestConfigureEndpoint(t *testing.T) {
	s, keys := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/configure", "application/json",
		strings.NewReader(`{"api_keys":{"openai":"sk-1","claude":"ck-1"}}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status     string   `json:"status"`
		Configured []string `json:"configured"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if len(body.Configured) != 2 || body.Configured[0] != "claude" || body.Configured[1] != "openai" {
		t.Errorf("expected sorted configured list, got %v", body.Configured)
	}

	if key, ok := keys.Lookup("openai"); !ok || key != "sk-1" {
		t.Errorf("expected key stored, got %q (ok=%v)", key, ok)
	}
}

func TestConfigureEndpointRejectsGet(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/configure")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestConfigureEndpointRejectsBadJSON(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/configure", "application/json", strings.NewReader("{oops"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for disabled metrics, got %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

// wsEnvelope decodes one outbound envelope with a raw payload.
type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func TestWebSocketErrorRoundTrip(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Unknown provider fails before any upstream call and yields exactly
	// one terminal error event.
	req := `{"action":"chat","request_id":"req-1","data":{"prompt":"hi","provider":"grok"}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if env.Type != relay.EventError {
		t.Fatalf("expected error event, got %q", env.Type)
	}
	var payload struct {
		RequestID string `json:"request_id"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.RequestID != "req-1" {
		t.Errorf("expected request_id req-1, got %q", payload.RequestID)
	}
	if payload.Error != "unknown provider: grok" {
		t.Errorf("unexpected error message: %q", payload.Error)
	}
}

func TestWebSocketConfigureRoundTrip(t *testing.T) {
	s, keys := newTestServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	req := `{"action":"configure","request_id":"req-1","data":{"api_keys":{"gemini":"gk-1"}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if env.Type != relay.EventResponse {
		t.Fatalf("expected response event, got %q", env.Type)
	}

	if key, ok := keys.Lookup("gemini"); !ok || key != "gk-1" {
		t.Errorf("expected key stored via websocket configure, got %q (ok=%v)", key, ok)
	}
}
