package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lifelayer/relay/pkg/config"
	"lifelayer/relay/pkg/providerfactory"
	"lifelayer/relay/pkg/relay"
	"lifelayer/relay/pkg/server"
	"lifelayer/relay/pkg/telemetry/logging"
	"lifelayer/relay/pkg/telemetry/metrics"
	"lifelayer/relay/pkg/usage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watchConfig   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay server",
	Long: `Start the relay server with the specified configuration.

The server accepts WebSocket connections on /ws and REST requests on
/configure, /health, and /metrics.

Examples:
  # Start with defaults (no config file needed)
  lifelayer run

  # Start with a config file
  lifelayer run --config /etc/lifelayer/config.yaml

  # Override listen address
  lifelayer run --listen 0.0.0.0:9000

  # Validate config without starting the server
  lifelayer run --config config.yaml --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
	runCmd.Flags().BoolVar(&runFlags.watchConfig, "watch-config", false, "reload provider credentials when the config file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration; without a file the relay runs on defaults and
	// environment variables alone.
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, os.Stdout); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Credential store, seeded from config
	keys := providerfactory.NewKeyStore()
	if seeded := keys.Update(cfg.APIKeys()); len(seeded) > 0 {
		slog.Info("provider credentials loaded", "providers", seeded)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	// Usage recording (metadata only)
	var sink relay.UsageSink
	if cfg.Usage.Enabled {
		storage, err := newUsageStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize usage storage: %w", err)
		}
		defer storage.Close()

		recorder := usage.NewRecorder(storage, nil)
		defer recorder.Close()
		sink = recorder

		pruner := usage.NewPruner(storage, usage.PrunerConfig{
			RetentionDays: cfg.Usage.RetentionDays,
			PruneSchedule: cfg.Usage.PruneSchedule,
		})
		scheduler := usage.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
	}

	hub := relay.NewHub()
	dispatcher := relay.NewDispatcher(keys, collector, sink)
	dispatcher.SetProviderDefaults(providerDefaults(cfg))

	// Credential and provider-default hot-reload
	if runFlags.watchConfig && cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, slog.Default())
		go func() {
			if err := watcher.Watch(ctx, func(fresh *config.Config) {
				if updated := keys.Update(fresh.APIKeys()); len(updated) > 0 {
					slog.Info("provider credentials reloaded", "providers", updated)
				}
				dispatcher.SetProviderDefaults(providerDefaults(fresh))
			}); err != nil {
				slog.Error("config watcher failed", "error", err)
			}
		}()
	}

	srv := server.NewServer(cfg, hub, dispatcher, keys, collector)
	return srv.Start(ctx)
}

// providerDefaults extracts the configured model and endpoint fallbacks
// applied to chat requests that omit them.
func providerDefaults(cfg *config.Config) map[string]relay.ProviderDefaults {
	defaults := make(map[string]relay.ProviderDefaults)
	for name, pc := range cfg.Providers {
		if pc.Model == "" && pc.BaseURL == "" {
			continue
		}
		defaults[name] = relay.ProviderDefaults{Model: pc.Model, BaseURL: pc.BaseURL}
	}
	return defaults
}

func newUsageStorage(cfg *config.Config) (usage.Storage, error) {
	switch cfg.Usage.Backend {
	case "memory":
		return usage.NewMemoryStorage(), nil
	default:
		sqliteCfg := usage.DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Usage.Path
		return usage.NewSQLiteStorage(sqliteCfg)
	}
}
