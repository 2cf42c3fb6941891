package core

// scheduler.go provides background job scheduling for maintenance tasks.
//
// Currently implements job history pruning, which deletes translation job
// records older than the retention window.
//
// The scheduler is long-running and stops when its context is cancelled. It
// logs progress and errors but never fails the application if a single
// pruning run fails.

import (
	"context"
	"log/slog"
	"time"
)

// Pruning defaults applied to zero-valued HistoryPruneConfig fields.
const (
	DefaultHistoryRetentionDays = 90
	DefaultHistoryCheckInterval = 24 * time.Hour
)

// HistoryPruneConfig holds configuration for the history pruner.
type HistoryPruneConfig struct {
	RetentionDays int           // Days to keep job records (default: 90)
	CheckInterval time.Duration // How often to run (default: 24h)
}

func (c HistoryPruneConfig) withDefaults() HistoryPruneConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultHistoryRetentionDays
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultHistoryCheckInterval
	}
	return c
}

// StartHistoryPruner periodically removes old job records.
// It runs immediately on start, then every CheckInterval, until ctx is
// cancelled. It returns at once when job history is disabled.
func (s *Service) StartHistoryPruner(ctx context.Context, cfg HistoryPruneConfig) {
	if s.jobs == nil {
		return
	}
	cfg = cfg.withDefaults()

	slog.Info("history pruner started",
		"retention_days", cfg.RetentionDays,
		"check_interval", cfg.CheckInterval.String(),
	)

	s.runPruneJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.runPruneJob(ctx, cfg)
		}
	}
}

// runPruneJob performs one pruning cycle.
func (s *Service) runPruneJob(ctx context.Context, cfg HistoryPruneConfig) {
	start := time.Now()

	pruned, err := s.jobs.Prune(ctx, time.Duration(cfg.RetentionDays)*24*time.Hour)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}

	slog.Info("pruned job history",
		"jobs_pruned", pruned,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
