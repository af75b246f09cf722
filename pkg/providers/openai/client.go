package openai

import (
	"context"
	"fmt"

	"lifelayer/relay/pkg/providers"
)

const (
	// DefaultBaseURL is the OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "gpt-4o"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for the chat completions API.
type Provider struct {
	*providers.HTTPProvider
}

// New creates a new OpenAI adapter bound to the given config.
// A missing API key is not an error here; it is reported through
// IsConfigured and rejected when a call is attempted.
func New(config providers.Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider("openai", config),
	}
}

// IsConfigured reports whether an API key was supplied.
func (p *Provider) IsConfigured() bool {
	return p.Config().APIKey != ""
}

// Chat performs one non-streaming chat completion round trip.
func (p *Provider) Chat(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (string, error) {
	if !p.IsConfigured() {
		return "", &providers.NotConfiguredError{Provider: p.Name()}
	}
	if err := providers.ValidateMessages(messages); err != nil {
		return "", err
	}

	cfg := p.Config()
	req := &Request{
		Model:       cfg.Model,
		Messages:    transformMessages(messages, systemPrompt),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	var resp Response
	if err := p.DoJSONRequest(ctx, "POST", p.completionsURL(), req, &resp, p.headers()); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", &providers.ParseError{
			Provider: p.Name(),
			Cause:    fmt.Errorf("no choices in response"),
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// ChatStream performs a streaming chat completion round trip.
func (p *Provider) ChatStream(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (<-chan providers.StreamChunk, error) {
	if !p.IsConfigured() {
		return nil, &providers.NotConfiguredError{Provider: p.Name()}
	}
	if err := providers.ValidateMessages(messages); err != nil {
		return nil, err
	}

	cfg := p.Config()
	req := &Request{
		Model:       cfg.Model,
		Messages:    transformMessages(messages, systemPrompt),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      true,
	}

	headers := p.headers()
	headers["Accept"] = "text/event-stream"

	body, err := p.DoStreamRequest(ctx, p.completionsURL(), req, headers)
	if err != nil {
		return nil, err
	}

	return readStream(ctx, p.Name(), body), nil
}

func (p *Provider) completionsURL() string {
	return fmt.Sprintf("%s/chat/completions", p.Config().BaseURL)
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.Config().APIKey,
		"Content-Type":  "application/json",
	}
}
