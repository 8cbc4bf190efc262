package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/logfields"
	"github.com/go-co-op/gocron/v2"
)

// Scheduler triggers refreshes on a fixed interval, independent of
// filesystem events. Useful when sources are refreshed by an external cron
// that touches many files at once.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler invoking refresh every interval.
func NewScheduler(interval time.Duration, refresh func(context.Context)) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled refresh", slog.Duration("interval", interval))
			refresh(context.Background())
		}),
		gocron.WithName("scheduled-refresh"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

// Start begins interval scheduling.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		return err
	}
	return nil
}
