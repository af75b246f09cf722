package gemini

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"lifelayer/relay/pkg/providers"
)

// readStream decodes Gemini's alt=sse stream into a channel of text
// fragments. Each data line is a full Response whose first candidate
// carries the incremental text. Undecodable lines are skipped.
func readStream(ctx context.Context, provider string, body io.ReadCloser) <-chan providers.StreamChunk {
	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := scanner.Text()

			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")

			var resp Response
			if err := json.Unmarshal([]byte(data), &resp); err != nil {
				slog.Debug("skipping malformed stream chunk",
					"provider", provider,
					"error", err,
				)
				continue
			}

			text := candidateText(&resp)
			if text == "" {
				continue
			}

			select {
			case chunks <- providers.StreamChunk{Text: text}:
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
