package config

import (
	"fmt"
	"net/url"
	"strings"
)

// knownProviders are the identifiers the factory accepts; configuration
// entries outside this set are rejected at load time rather than at the
// first request that touches them.
var knownProviders = map[string]struct{}{
	"openai": {},
	"claude": {},
	"gemini": {},
	"ollama": {},
}

// Validate checks the configuration for errors. It is called by
// LoadConfig after defaults are applied, and again after environment
// overrides.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address must not be empty")
	}
	if cfg.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must not be negative")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	for name, pc := range cfg.Providers {
		if _, ok := knownProviders[name]; !ok {
			return fmt.Errorf("providers.%s: unknown provider", name)
		}
		if pc.BaseURL != "" {
			u, err := url.Parse(pc.BaseURL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("providers.%s.base_url: invalid URL %q", name, pc.BaseURL)
			}
		}
	}

	switch cfg.Telemetry.Logging.Format {
	case "json", "text", "":
	default:
		return fmt.Errorf("telemetry.logging.format: must be \"json\" or \"text\", got %q", cfg.Telemetry.Logging.Format)
	}
	switch strings.ToLower(cfg.Telemetry.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("telemetry.logging.level: unknown level %q", cfg.Telemetry.Logging.Level)
	}

	if cfg.Usage.Enabled {
		switch cfg.Usage.Backend {
		case "sqlite":
			if cfg.Usage.Path == "" {
				return fmt.Errorf("usage.path must not be empty for the sqlite backend")
			}
		case "memory":
		default:
			return fmt.Errorf("usage.backend: must be \"sqlite\" or \"memory\", got %q", cfg.Usage.Backend)
		}
		if cfg.Usage.RetentionDays < 0 {
			return fmt.Errorf("usage.retention_days must not be negative")
		}
	}

	return nil
}

// APIKeys extracts the provider credentials present in the configuration,
// for seeding the key store at startup and on credential reload.
func (c *Config) APIKeys() map[string]string {
	keys := make(map[string]string)
	for name, pc := range c.Providers {
		if pc.APIKey != "" {
			keys[name] = pc.APIKey
		}
	}
	return keys
}
