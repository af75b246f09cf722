package claude

import (
	"context"
	"encoding/json"
	"testing"

	"lifelayer/relay/internal/providertest"
	"lifelayer/relay/pkg/providers"
)

func newTestProvider(baseURL string) *Provider {
	return New(providers.Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
}

func userMessage(content string) []providers.ChatMessage {
	return []providers.ChatMessage{{Role: providers.RoleUser, Content: content}}
}

func TestChat(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/messages", providertest.MockResponse{
		Body: providertest.ClaudeResponse("hello from claude", DefaultModel),
	})

	p := newTestProvider(mock.URL())

	content, err := p.Chat(context.Background(), userMessage("hi"), "be helpful")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if content != "hello from claude" {
		t.Errorf("expected %q, got %q", "hello from claude", content)
	}

	req := mock.LastRequest()
	if req == nil {
		t.Fatal("no request captured")
	}
	if got := req.Header.Get("x-api-key"); got != "test-key" {
		t.Errorf("expected x-api-key header, got %q", got)
	}
	if got := req.Header.Get("anthropic-version"); got != APIVersion {
		t.Errorf("expected anthropic-version %q, got %q", APIVersion, got)
	}

	var body Request
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	if body.System != "be helpful" {
		t.Errorf("expected system field %q, got %q", "be helpful", body.System)
	}
	if body.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, body.Model)
	}
}

func TestChatEmptySystemWithoutPrompt(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/messages", providertest.MockResponse{
		Body: providertest.ClaudeResponse("ok", DefaultModel),
	})

	p := newTestProvider(mock.URL())

	messages := []providers.ChatMessage{
		{Role: providers.RoleSystem, Content: "ignored"},
		{Role: providers.RoleUser, Content: "hi"},
	}
	if _, err := p.Chat(context.Background(), messages, ""); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	var body Request
	if err := json.Unmarshal(mock.LastRequest().Body, &body); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	if body.System != "" {
		t.Errorf("system field must stay empty without an explicit prompt, got %q", body.System)
	}
	if len(body.Messages) != 1 || body.Messages[0].Content != "hi" {
		t.Errorf("system-role message must be dropped, got %+v", body.Messages)
	}
}

func TestChatStream(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/messages", providertest.MockResponse{
		StreamFormat: providertest.StreamSSE,
		StreamChunks: []string{
			`{"type":"message_start","message":{"id":"msg_123"}}`,
			providertest.ClaudeStreamDelta("Hel"),
			providertest.ClaudeStreamDelta("lo"),
			providertest.ClaudeStreamStop,
		},
	})

	p := newTestProvider(mock.URL())

	chunks, err := p.ChatStream(context.Background(), userMessage("hi"), "")
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	var got []string
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Err)
		}
		got = append(got, chunk.Text)
	}

	if len(got) != 2 || got[0] != "Hel" || got[1] != "lo" {
		t.Errorf("expected [Hel lo], got %v", got)
	}
}
