package gemini

import (
	"context"
	"fmt"
	"net/url"

	"lifelayer/relay/pkg/providers"
)

const (
	// DefaultBaseURL is the Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "gemini-pro"
)

// Provider is the Gemini provider adapter.
// It implements the providers.Provider interface for the generateContent API.
type Provider struct {
	*providers.HTTPProvider
}

// New creates a new Gemini adapter bound to the given config.
func New(config providers.Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider("gemini", config),
	}
}

// IsConfigured reports whether an API key was supplied.
func (p *Provider) IsConfigured() bool {
	return p.Config().APIKey != ""
}

// Chat performs one non-streaming generateContent round trip.
func (p *Provider) Chat(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (string, error) {
	if !p.IsConfigured() {
		return "", &providers.NotConfiguredError{Provider: p.Name()}
	}
	if err := providers.ValidateMessages(messages); err != nil {
		return "", err
	}

	var resp Response
	if err := p.DoJSONRequest(ctx, "POST", p.endpoint("generateContent", false), p.buildRequest(messages, systemPrompt), &resp, nil); err != nil {
		return "", err
	}

	return candidateText(&resp), nil
}

// ChatStream performs a streaming generateContent round trip.
func (p *Provider) ChatStream(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (<-chan providers.StreamChunk, error) {
	if !p.IsConfigured() {
		return nil, &providers.NotConfiguredError{Provider: p.Name()}
	}
	if err := providers.ValidateMessages(messages); err != nil {
		return nil, err
	}

	body, err := p.DoStreamRequest(ctx, p.endpoint("streamGenerateContent", true), p.buildRequest(messages, systemPrompt), nil)
	if err != nil {
		return nil, err
	}

	return readStream(ctx, p.Name(), body), nil
}

func (p *Provider) buildRequest(messages []providers.ChatMessage, systemPrompt string) *Request {
	cfg := p.Config()
	return &Request{
		Contents: buildContents(messages, systemPrompt),
		GenerationConfig: &GenerationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
		},
	}
}

// endpoint builds the model-scoped API URL with the key in the query
// string, e.g. .../models/gemini-pro:streamGenerateContent?alt=sse&key=K.
func (p *Provider) endpoint(method string, sse bool) string {
	cfg := p.Config()
	query := url.Values{"key": {cfg.APIKey}}
	if sse {
		query.Set("alt", "sse")
	}
	return fmt.Sprintf("%s/models/%s:%s?%s", cfg.BaseURL, cfg.Model, method, query.Encode())
}
