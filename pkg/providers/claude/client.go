package claude

import (
	"context"
	"fmt"

	"lifelayer/relay/pkg/providers"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "claude-3-opus-20240229"

	// APIVersion is the anthropic-version header value.
	APIVersion = "2023-06-01"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for the Messages API.
type Provider struct {
	*providers.HTTPProvider
}

// New creates a new Claude adapter bound to the given config.
func New(config providers.Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider("claude", config),
	}
}

// IsConfigured reports whether an API key was supplied.
func (p *Provider) IsConfigured() bool {
	return p.Config().APIKey != ""
}

// Chat performs one non-streaming messages round trip.
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
		Messages:    transformMessages(messages),
		System:      systemPrompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var resp Response
	if err := p.DoJSONRequest(ctx, "POST", p.messagesURL(), req, &resp, p.headers()); err != nil {
		return "", err
	}

	if len(resp.Content) == 0 {
		return "", nil
	}

	return resp.Content[0].Text, nil
}

// ChatStream performs a streaming messages round trip.
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
		Messages:    transformMessages(messages),
		System:      systemPrompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Stream:      true,
	}

	headers := p.headers()
	headers["Accept"] = "text/event-stream"

	body, err := p.DoStreamRequest(ctx, p.messagesURL(), req, headers)
	if err != nil {
		return nil, err
	}

	return readStream(ctx, p.Name(), body), nil
}

func (p *Provider) messagesURL() string {
	return fmt.Sprintf("%s/v1/messages", p.Config().BaseURL)
}

func (p *Provider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.Config().APIKey,
		"anthropic-version": APIVersion,
		"Content-Type":      "application/json",
	}
}
