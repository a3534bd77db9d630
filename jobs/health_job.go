package jobs

import (
	"context"
	"log/slog"
	"time"

	"medmind-server/metrics"
	"medmind-server/repository"
)

// HealthJob pings the record store on an interval, keeps the store_up gauge
// current and logs connectivity changes.
type HealthJob struct {
	store    repository.Pinger
	metrics  *metrics.Metrics
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration

	up    bool
	known bool
}

// NewHealthJob creates a new health job
func NewHealthJob(store repository.Pinger, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *HealthJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HealthJob{
		store:    store,
		metrics:  m,
		logger:   logger,
		interval: interval,
		timeout:  5 * time.Second,
	}
}

// Run checks once immediately, then on every tick until ctx is cancelled.
func (j *HealthJob) Run(ctx context.Context) {
	j.logger.Info("health job started", "interval", j.interval.String())
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Check(ctx)
	for {
		select {
		case <-ticker.C:
			j.Check(ctx)
		case <-ctx.Done():
			j.logger.Info("health job stopped")
			return
		}
	}
}

// Check pings the store once and reports whether it answered.
func (j *HealthJob) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	err := j.store.Ping(ctx)
	up := err == nil
	j.metrics.StoreUp(up)

	if !j.known || up != j.up {
		if up {
			j.logger.Info("record store reachable")
		} else {
			j.logger.Error("record store unreachable", "error", err)
		}
	}
	j.up, j.known = up, true
	return up
}
