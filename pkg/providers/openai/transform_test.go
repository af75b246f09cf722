package openai

import (
	"testing"

	"lifelayer/relay/pkg/providers"
)

func TestTransformMessages(t *testing.T) {
	messages := []providers.ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
		{Role: "user", Content: "how are you"},
	}

	formatted := transformMessages(messages, "")

	if len(formatted) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(formatted))
	}
	for i, msg := range messages {
		if formatted[i].Role != msg.Role || formatted[i].Content != msg.Content {
			t.Errorf("message %d: got %+v, want %+v", i, formatted[i], msg)
		}
	}
}

func TestTransformMessagesWithSystemPrompt(t *testing.T) {
	messages := []providers.ChatMessage{
		{Role: "user", Content: "hello"},
	}

	formatted := transformMessages(messages, "be brief")

	if len(formatted) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(formatted))
	}
	if formatted[0].Role != "system" {
		t.Errorf("expected leading system message, got role %q", formatted[0].Role)
	}
	if formatted[0].Content != "be brief" {
		t.Errorf("expected system content %q, got %q", "be brief", formatted[0].Content)
	}
	if formatted[1].Content != "hello" {
		t.Errorf("expected user message second, got %q", formatted[1].Content)
	}
}
