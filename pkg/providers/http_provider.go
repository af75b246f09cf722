package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HTTPProvider is the base implementation for HTTP-based adapters.
// It provides connection pooling, timeout handling, and JSON/stream request
// helpers. Concrete adapters embed this struct and implement the Provider
// interface methods on top of it.
//
// There is deliberately no retry loop here: a retried call after fragments
// have already been relayed would duplicate output, and the relay's contract
// is a single ordered fragment sequence followed by one terminal event.
type HTTPProvider struct {
	// name is the provider identifier
	name string

	// config is the immutable per-request configuration
	config Config

	// client is the HTTP client with connection pooling
	client *http.Client
}

// NewHTTPProvider creates a new base HTTP provider for the named adapter.
// Generation-parameter defaults are applied to the config snapshot.
func NewHTTPProvider(name string, config Config) *HTTPProvider {
	config.ApplyDefaults()

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		name:   name,
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Config returns the provider's configuration snapshot.
func (p *HTTPProvider) Config() Config {
	return p.config
}

// DoRequest performs one HTTP request and returns the response on 2xx.
// Non-2xx responses are drained and converted to a ProviderError carrying
// the upstream status and body; the caller never sees a half-read response.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ProviderError{
			Provider: p.name,
			Message:  "request failed",
			Cause:    err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	resp.Body.Close()

	return nil, &ProviderError{
		Provider:   p.name,
		StatusCode: resp.StatusCode,
		Message:    string(errorBody),
	}
}

// DoJSONRequest performs a JSON round trip: marshals reqBody, sends it,
// and decodes the full response into respBody.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: p.name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    p.name,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// DoStreamRequest performs a streaming round trip and returns the open
// response body for incremental decoding. The caller owns the body and
// must close it.
func (p *HTTPProvider) DoStreamRequest(ctx context.Context, url string, reqBody interface{}, headers map[string]string) (io.ReadCloser, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.DoRequest(ctx, http.MethodPost, url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// ValidateMessages rejects an empty conversation before any network call.
// Every adapter shares this check; the Gemini API in particular has
// undefined behavior for an empty contents array.
func ValidateMessages(messages []ChatMessage) error {
	if len(messages) == 0 {
		return &ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}
	return nil
}
