package ollama

import (
	"context"
	"fmt"

	"lifelayer/relay/pkg/providers"
)

const (
	// DefaultBaseURL is the local Ollama server address.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "llama2"
)

// Provider is the Ollama provider adapter.
// It implements the providers.Provider interface for the local chat API.
type Provider struct {
	*providers.HTTPProvider
}

// Request represents an Ollama /api/chat request.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  Options   `json:"options"`
}

// Message represents a message in Ollama format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries generation options.
type Options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// Response represents one /api/chat response object. In streaming mode the
// same shape arrives once per line, with Done set on the last line.
type Response struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// New creates a new Ollama adapter bound to the given config.
func New(config providers.Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider("ollama", config),
	}
}

// IsConfigured always reports true: local models need no API key.
func (p *Provider) IsConfigured() bool {
	return true
}

// Chat performs one non-streaming chat round trip.
func (p *Provider) Chat(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (string, error) {
	if err := providers.ValidateMessages(messages); err != nil {
		return "", err
	}

	var resp Response
	if err := p.DoJSONRequest(ctx, "POST", p.chatURL(), p.buildRequest(messages, systemPrompt, false), &resp, nil); err != nil {
		return "", err
	}

	return resp.Message.Content, nil
}

// ChatStream performs a streaming chat round trip.
func (p *Provider) ChatStream(ctx context.Context, messages []providers.ChatMessage, systemPrompt string) (<-chan providers.StreamChunk, error) {
	if err := providers.ValidateMessages(messages); err != nil {
		return nil, err
	}

	body, err := p.DoStreamRequest(ctx, p.chatURL(), p.buildRequest(messages, systemPrompt, true), nil)
	if err != nil {
		return nil, err
	}

	return readStream(ctx, p.Name(), body), nil
}

// buildRequest translates the conversation to Ollama format. A non-empty
// systemPrompt becomes a leading "system" message, which Ollama accepts
// natively.
func (p *Provider) buildRequest(messages []providers.ChatMessage, systemPrompt string, stream bool) *Request {
	cfg := p.Config()

	formatted := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		formatted = append(formatted, Message{
			Role:    providers.RoleSystem,
			Content: systemPrompt,
		})
	}
	for _, msg := range messages {
		formatted = append(formatted, Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return &Request{
		Model:    cfg.Model,
		Messages: formatted,
		Stream:   stream,
		Options: Options{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		},
	}
}

func (p *Provider) chatURL() string {
	return fmt.Sprintf("%s/api/chat", p.Config().BaseURL)
}
