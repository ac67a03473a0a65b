/*
scheduler.go - Automated rollover and consistency scheduler

PURPOSE:
  Periodically rolls recurring targets whose period has lapsed into
  fresh periods, and refreshes cached progress from source (the nightly
  consistency sweep). Both passes delegate to the lifecycle manager;
  this file only owns the ticking.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - First check fires immediately on Start
  - Each run is recorded in the sweep run log for audit and UI display
  - The sweep itself is idempotent, so overlapping manual triggers are
    harmless: already-rolled targets no longer match the selection
    predicate

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour; the sweep is
    intended to run at least daily)
  - Recalculate: Whether the consistency pass runs after rollover

USAGE:
  scheduler := NewSweepScheduler(manager, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Manual sweep triggers
  - target/lifecycle.go: RolloverSweep, RecalculateAll
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/target-engine/target"
)

// SweepScheduler runs the rollover and consistency sweeps on a timer.
type SweepScheduler struct {
	Manager       *target.Manager
	Log           logrus.FieldLogger
	CheckInterval time.Duration
	Recalculate   bool

	ticker *time.Ticker
	cancel context.CancelFunc
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSweepScheduler creates a new scheduler with default settings.
func NewSweepScheduler(manager *target.Manager, log logrus.FieldLogger) *SweepScheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SweepScheduler{
		Manager:       manager,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		Recalculate:   true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (s *SweepScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return // already running
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stop = make(chan struct{})
	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run(ctx)

	s.Log.WithField("interval", s.CheckInterval.String()).Info("sweep scheduler started")
}

// Stop stops the scheduler. In-flight sweep units finish; no new units
// are scheduled.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.cancel()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Log.Info("sweep scheduler stopped")
}

func (s *SweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Run immediately on start
	s.sweep(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return
		}
	}
}

func (s *SweepScheduler) sweep(ctx context.Context) {
	now := time.Now()

	result, err := s.Manager.RolloverSweep(ctx, now)
	if err != nil {
		s.Log.WithField("error", err).Warn("scheduled rollover sweep failed")
	} else {
		s.Log.WithFields(logrus.Fields{
			"processed": result.Processed,
			"failed":    result.Failed,
		}).Info("scheduled rollover sweep completed")
	}

	if !s.Recalculate || ctx.Err() != nil {
		return
	}

	recalc, err := s.Manager.RecalculateAll(ctx)
	if err != nil {
		s.Log.WithField("error", err).Warn("scheduled recalculation sweep failed")
		return
	}
	s.Log.WithFields(logrus.Fields{
		"processed": recalc.Processed,
		"failed":    recalc.Failed,
	}).Info("scheduled recalculation sweep completed")
}
