package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultListenAddress   = ":8000"
	DefaultServiceName     = "lifelayer-relay"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MB

	DefaultUsageBackend  = "sqlite"
	DefaultUsagePath     = "lifelayer-usage.db"
	DefaultRetentionDays = 30
	DefaultPruneSchedule = "0 3 * * *"
)

// ApplyDefaults fills in zero-valued fields with sensible defaults.
// It is called by LoadConfig before validation; a zero Config after
// ApplyDefaults is a runnable configuration.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ServiceName == "" {
		cfg.Server.ServiceName = DefaultServiceName
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.CORS.Enabled {
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
		if len(cfg.CORS.AllowedMethods) == 0 {
			cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(cfg.CORS.AllowedHeaders) == 0 {
			cfg.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
		}
		if cfg.CORS.MaxAge == 0 {
			cfg.CORS.MaxAge = 3600
		}
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}

	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = DefaultUsageBackend
	}
	if cfg.Usage.Path == "" {
		cfg.Usage.Path = DefaultUsagePath
	}
	if cfg.Usage.RetentionDays == 0 {
		cfg.Usage.RetentionDays = DefaultRetentionDays
	}
	if cfg.Usage.PruneSchedule == "" {
		cfg.Usage.PruneSchedule = DefaultPruneSchedule
	}
}
