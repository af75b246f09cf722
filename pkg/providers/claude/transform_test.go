package claude

import (
	"testing"

	"lifelayer/relay/pkg/providers"
)

func TestTransformMessagesDropsSystemRole(t *testing.T) {
	messages := []providers.ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}

	formatted := transformMessages(messages)

	if len(formatted) != 2 {
		t.Fatalf("expected 2 messages after dropping system role, got %d", len(formatted))
	}
	if formatted[0].Role != "user" || formatted[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", formatted[0])
	}
	if formatted[1].Role != "assistant" || formatted[1].Content != "hi" {
		t.Errorf("unexpected second message: %+v", formatted[1])
	}
}

func TestTransformMessagesPreservesOrder(t *testing.T) {
	messages := []providers.ChatMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
	}

	formatted := transformMessages(messages)

	if len(formatted) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(formatted))
	}
	for i, want := range []string{"one", "two", "three"} {
		if formatted[i].Content != want {
			t.Errorf("message %d: expected %q, got %q", i, want, formatted[i].Content)
		}
	}
}
