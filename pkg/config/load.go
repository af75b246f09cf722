package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention LIFELAYER_SECTION_FIELD (e.g., LIFELAYER_SERVER_LISTEN_ADDRESS)
// and always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a runnable configuration without reading any
// file, for running with no config file at all.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LIFELAYER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("LIFELAYER_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Provider credentials follow the conventional upstream variable
	// names so an operator can reuse the same environment as the SDKs.
	overrideProviderKey(cfg, "openai", "OPENAI_API_KEY")
	overrideProviderKey(cfg, "claude", "ANTHROPIC_API_KEY")
	overrideProviderKey(cfg, "gemini", "GEMINI_API_KEY")
	if val := os.Getenv("OLLAMA_BASE_URL"); val != "" {
		pc := cfg.Providers["ollama"]
		pc.BaseURL = val
		cfg.Providers["ollama"] = pc
	}

	if val := os.Getenv("LIFELAYER_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("LIFELAYER_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("LIFELAYER_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("LIFELAYER_USAGE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Usage.Enabled = b
		}
	}
	if val := os.Getenv("LIFELAYER_USAGE_PATH"); val != "" {
		cfg.Usage.Path = val
	}
}

func overrideProviderKey(cfg *Config, name, envVar string) {
	val := os.Getenv(envVar)
	if val == "" {
		return
	}
	pc := cfg.Providers[name]
	pc.APIKey = val
	cfg.Providers[name] = pc
}
