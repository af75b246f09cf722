package claude

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"lifelayer/relay/pkg/providers"
)

// readStream decodes Anthropic's SSE event stream into a channel of text
// fragments. Only content_block_delta events carry text; message_stop ends
// the stream. Undecodable events are skipped, never fatal.
func readStream(ctx context.Context, provider string, body io.ReadCloser) <-chan providers.StreamChunk {
	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := scanner.Text()

			// SSE frames here are "event: <type>" / "data: <json>" pairs.
			// The data payload repeats the type, so event: lines can be
			// ignored and each data line handled on its own.
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")

			var event StreamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				slog.Debug("skipping malformed stream event",
					"provider", provider,
					"error", err,
				)
				continue
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta == nil || event.Delta.Text == "" {
					continue
				}
				select {
				case chunks <- providers.StreamChunk{Text: event.Delta.Text}:
				case <-ctx.Done():
					return
				}

			case "message_stop":
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
