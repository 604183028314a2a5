// Package scheduler runs the background price-refresh loop on a fixed cadence.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Poller executes one refresh tick over the watched symbols.
type Poller interface {
	PollAll(ctx context.Context)
}

// Scheduler drives the Poller from a cron timer. A tick that is still running
// when the next one is due is skipped rather than queued, so slow upstream
// calls can never pile up unbounded work.
type Scheduler struct {
	cron   *cron.Cron
	poller Poller
	ctx    context.Context
}

// New creates a Scheduler. ctx bounds the lifetime of all ticks; cancelling it
// makes in-flight upstream calls return early.
func New(ctx context.Context, poller Poller) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		poller: poller,
		ctx:    ctx,
	}
}

// Register schedules the poll loop at the given interval.
func (s *Scheduler) Register(interval time.Duration) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.poller.PollAll(s.ctx)
	}); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}
