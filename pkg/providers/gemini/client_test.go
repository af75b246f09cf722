package gemini

import (
	"context"
	"strings"
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

	mock.SetResponse("/models/gemini-pro:generateContent", providertest.MockResponse{
		Body: providertest.GeminiResponse("hello from gemini"),
	})

	p := newTestProvider(mock.URL())

	content, err := p.Chat(context.Background(), userMessage("hi"), "")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if content != "hello from gemini" {
		t.Errorf("expected %q, got %q", "hello from gemini", content)
	}

	req := mock.LastRequest()
	if req == nil {
		t.Fatal("no request captured")
	}
	if !strings.Contains(req.Query, "key=test-key") {
		t.Errorf("expected API key in query string, got %q", req.Query)
	}
	if strings.Contains(req.Query, "alt=sse") {
		t.Errorf("non-streaming call must not request SSE, got %q", req.Query)
	}
}

func TestChatStream(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/models/gemini-pro:streamGenerateContent", providertest.MockResponse{
		StreamFormat: providertest.StreamSSE,
		StreamChunks: []string{
			providertest.GeminiStreamChunk("Hel"),
			providertest.GeminiStreamChunk("lo"),
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

	if q := mock.LastRequest().Query; !strings.Contains(q, "alt=sse") {
		t.Errorf("streaming call must request SSE, got query %q", q)
	}
}
