package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"lifelayer/relay/pkg/providers"
)

// readStream decodes OpenAI's SSE stream into a channel of text fragments.
// The returned channel is closed when the stream ends; a chunk with a
// non-nil Err is terminal. Malformed data lines are skipped, never fatal.
func readStream(ctx context.Context, provider string, body io.ReadCloser) <-chan providers.StreamChunk {
	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := scanner.Text()

			if line == "" {
				continue
			}
			if !strings.HasPrefix(line, "data: ") {
				// Skip non-data lines (comments, event types, etc.)
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var chunk StreamResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				slog.Debug("skipping malformed stream chunk",
					"provider", provider,
					"error", err,
				)
				continue
			}

			if len(chunk.Choices) == 0 {
				continue
			}

			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case chunks <- providers.StreamChunk{Text: delta}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			chunks <- providers.StreamChunk{
				Err: &providers.ProviderError{
					Provider: provider,
					Message:  "failed to read stream",
					Cause:    err,
				},
			}
		}
	}()

	return chunks
}
