package usage

import (
	"context"
	"log/slog"
	"time"
)

// PrunerConfig contains retention settings.
type PrunerConfig struct {
	// RetentionDays is how long records are kept; 0 disables pruning
	RetentionDays int

	// PruneSchedule is the cron expression driving the scheduler
	PruneSchedule string
}

// Pruner deletes usage records past the retention window.
type Pruner struct {
	storage Storage
	config  PrunerConfig
	logger  *slog.Logger
}

// NewPruner creates a pruner for the given storage backend.
func NewPruner(storage Storage, config PrunerConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "usage.pruner"),
	}
}

// Prune deletes records older than the retention window and reports how
// many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("pruned usage records",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}

	return deleted, nil
}
