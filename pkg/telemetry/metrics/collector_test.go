package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDisabledCollectorIsNil(t *testing.T) {
	c := NewCollector(Config{Enabled: false}, nil)
	if c != nil {
		t.Fatal("disabled config must yield a nil collector")
	}

	// Every method must be a safe no-op on nil
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.RecordRequest("openai", "chat", "success")
	c.RecordStreamToken("openai")
	c.ObserveProviderLatency("openai", "gpt-4o", 1.5)

	if c.Registry() != nil {
		t.Error("nil collector must have nil registry")
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from disabled handler, got %d", rec.Code)
	}
}

func TestCollectorRecords(t *testing.T) {
	c := NewCollector(Config{Enabled: true}, nil)
	if c == nil {
		t.Fatal("enabled config must yield a collector")
	}

	c.ConnectionOpened()
	c.RecordRequest("claude", "chat", "success")
	c.RecordStreamToken("claude")
	c.ObserveProviderLatency("claude", "claude-3-opus-20240229", 0.7)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, metric := range []string{
		"lifelayer_relay_active_connections 1",
		`lifelayer_relay_requests_total{action="chat",provider="claude",status="success"} 1`,
		`lifelayer_relay_stream_tokens_total{provider="claude"} 1`,
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %q", metric)
		}
	}
}
