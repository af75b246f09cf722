package relay

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStreamEventShape(t *testing.T) {
	ev := NewStreamEvent("req-1", "Hel")

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			RequestID string `json:"request_id"`
			Token     string `json:"token"`
		} `json:"payload"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Type != EventStream {
		t.Errorf("expected type stream, got %q", decoded.Type)
	}
	if decoded.Payload.RequestID != "req-1" || decoded.Payload.Token != "Hel" {
		t.Errorf("unexpected payload: %+v", decoded.Payload)
	}
	if _, err := time.Parse(time.RFC3339, decoded.Timestamp); err != nil {
		t.Errorf("timestamp not RFC 3339: %q", decoded.Timestamp)
	}
}

func TestErrorEventShape(t *testing.T) {
	ev := NewErrorEvent("req-2", "something broke")

	if ev.Type != EventError {
		t.Errorf("expected type error, got %q", ev.Type)
	}
	p := ev.Payload.(ErrorPayload)
	if p.RequestID != "req-2" || p.Error != "something broke" {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestChatDataStreamFlag(t *testing.T) {
	var data ChatData
	if err := json.Unmarshal([]byte(`{"prompt":"hi"}`), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if data.Stream != nil {
		t.Error("absent stream flag must decode as nil (streaming default)")
	}

	if err := json.Unmarshal([]byte(`{"prompt":"hi","stream":false}`), &data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if data.Stream == nil || *data.Stream {
		t.Error("explicit stream:false must decode as non-nil false")
	}
}
