package usecase

import (
	"context"
	"log/slog"
	"time"

	"JaundiceScanner/internal/ports"
)

// Scheduler wires the interval driver with the feed monitor.
type Scheduler struct {
	driver  ports.Scheduler
	monitor *Monitor
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring scans.
func NewScheduler(driver ports.Scheduler, monitor *Monitor, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, monitor: monitor, logger: logger}
}

// Start registers the monitor with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.monitor == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.monitor.Scan(ctx, trigger); err != nil && s.logger != nil {
			s.logger.Error("feed scan failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
