package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

// Scheduler runs poll cycles back to back with a fixed wait in between
type Scheduler struct {
	poller   interfaces.PollUseCase
	interval time.Duration

	mu   sync.RWMutex
	last *model.CycleReport
}

var _ interfaces.CycleStatus = (*Scheduler)(nil)

// NewScheduler creates a Scheduler
func NewScheduler(poller interfaces.PollUseCase, interval time.Duration) *Scheduler {
	return &Scheduler{
		poller:   poller,
		interval: interval,
	}
}

// Run starts a cycle immediately and then one per interval until ctx is
// cancelled. Cycles never overlap, and a running cycle is not interrupted:
// cancellation is observed only while waiting for the next one.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := ctxlog.From(ctx)
	logger.Info("Scheduler started", slog.Duration("interval", s.interval))

	for {
		// errors are logged by the poller; an aborted cycle is retried next interval
		report, _ := s.poller.RunOnce(context.WithoutCancel(ctx))
		s.setLast(report)

		logger.Info("Waiting for next poll", slog.Duration("interval", s.interval))

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Scheduler stopped")
			return nil
		case <-timer.C:
		}
	}
}

// LastCycle returns the report of the most recent cycle, or nil before the first one ends
func (s *Scheduler) LastCycle() *model.CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Scheduler) setLast(report *model.CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = report
}
