package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"lifelayer/relay/pkg/providers"
)

// readStream decodes Ollama's newline-delimited JSON stream into a channel
// of text fragments. Each line is parsed independently; a parse failure on
// one line does not prevent subsequent lines from being processed.
func readStream(ctx context.Context, provider string, body io.ReadCloser) <-chan providers.StreamChunk {
	chunks := make(chan providers.StreamChunk)

	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var resp Response
			if err := json.Unmarshal(line, &resp); err != nil {
				slog.Debug("skipping malformed stream line",
					"provider", provider,
					"error", err,
				)
				continue
			}

			if resp.Message.Content != "" {
				select {
				case chunks <- providers.StreamChunk{Text: resp.Message.Content}:
				case <-ctx.Done():
					return
				}
			}

			if resp.Done {
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
