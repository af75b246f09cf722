package config

import (
	"time"

	"lifelayer/relay/pkg/telemetry/logging"
	"lifelayer/relay/pkg/telemetry/metrics"
)

// Config is the root configuration for the relay process.
type Config struct {
	// Server contains HTTP listener and lifecycle settings
	Server ServerConfig `yaml:"server"`

	// CORS contains cross-origin settings for the HTTP surface
	CORS CORSConfig `yaml:"cors"`

	// Providers maps provider identifiers to their default credentials
	// and endpoints. Entries here seed the key store at startup.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Telemetry contains logging and metrics settings
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Usage contains usage-record storage settings
	Usage UsageConfig `yaml:"usage"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address to bind (e.g., ":8000")
	ListenAddress string `yaml:"listen_address"`

	// ServiceName is reported by the root status endpoint
	ServiceName string `yaml:"service_name"`

	// ReadTimeout is the maximum duration for reading a request.
	// It does not apply to WebSocket connections after upgrade.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// It does not apply to WebSocket connections after upgrade.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// CORSConfig contains cross-origin settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// ProviderConfig contains per-provider defaults applied when a request
// omits the corresponding field.
type ProviderConfig struct {
	// APIKey is the default credential for the provider
	APIKey string `yaml:"api_key"`

	// Model overrides the provider's built-in default model
	Model string `yaml:"model"`

	// BaseURL overrides the provider's API endpoint
	BaseURL string `yaml:"base_url"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging logging.Config `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`
}

// UsageConfig contains usage-record storage settings. Records hold
// request metadata only, never conversation content.
type UsageConfig struct {
	// Enabled toggles usage recording
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend ("sqlite" or "memory")
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path
	Path string `yaml:"path"`

	// RetentionDays is how long records are kept before pruning
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for the retention job
	PruneSchedule string `yaml:"prune_schedule"`
}
