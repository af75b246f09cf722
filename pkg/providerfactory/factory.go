package providerfactory

import (
	"log/slog"

	"lifelayer/relay/pkg/providers"
	"lifelayer/relay/pkg/providers/claude"
	"lifelayer/relay/pkg/providers/gemini"
	"lifelayer/relay/pkg/providers/ollama"
	"lifelayer/relay/pkg/providers/openai"
)

// Known provider identifiers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// New creates a fresh adapter for the named provider, bound to the given
// config. An unrecognized name returns an UnknownProviderError.
//
// Construction never performs network I/O and never fails on a missing
// credential; callers check IsConfigured before driving the adapter.
func New(name string, config providers.Config) (providers.Provider, error) {
	slog.Debug("creating provider",
		"name", name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	switch name {
	case ProviderOpenAI:
		return openai.New(config), nil
	case ProviderClaude:
		return claude.New(config), nil
	case ProviderGemini:
		return gemini.New(config), nil
	case ProviderOllama:
		return ollama.New(config), nil
	default:
		return nil, &providers.UnknownProviderError{Name: name}
	}
}

// RequiresKey reports whether the named provider needs an API key to be
// considered configured. Only the local Ollama adapter does not.
func RequiresKey(name string) bool {
	return name != ProviderOllama
}
