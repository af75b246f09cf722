package providertest

import "fmt"

// OpenAIResponse builds a chat completion response body.
func OpenAIResponse(content, model string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

// OpenAIStreamChunk builds one SSE chunk payload with a content delta.
func OpenAIStreamChunk(delta string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-123","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`, delta)
}

// ClaudeResponse builds a messages API response body.
func ClaudeResponse(content, model string) map[string]any {
	return map[string]any{
		"id":    "msg_123",
		"type":  "message",
		"role":  "assistant",
		"model": model,
		"content": []map[string]any{
			{"type": "text", "text": content},
		},
		"stop_reason": "end_turn",
	}
}

// ClaudeStreamDelta builds one content_block_delta event payload.
func ClaudeStreamDelta(text string) string {
	return fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%q}}`, text)
}

// ClaudeStreamStop is the terminal message_stop event payload.
const ClaudeStreamStop = `{"type":"message_stop"}`

// GeminiResponse builds a generateContent response body.
func GeminiResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

// GeminiStreamChunk builds one streamed candidate payload.
func GeminiStreamChunk(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

// OllamaChunk builds one NDJSON chat line.
func OllamaChunk(content string, done bool) string {
	return fmt.Sprintf(`{"model":"llama2","message":{"role":"assistant","content":%q},"done":%t}`, content, done)
}

// OllamaResponse builds a non-streaming chat response body.
func OllamaResponse(content, model string) map[string]any {
	return map[string]any{
		"model": model,
		"message": map[string]any{
			"role":    "assistant",
			"content": content,
		},
		"done": true,
	}
}
