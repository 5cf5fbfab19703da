// Package scheduler hosts the in-process periodic jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/loam-dev/loam/internal/application/subscription/usecases"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// SubscriptionScheduler runs the expiry sweep and notification pass on
// a fixed interval. The sweep is idempotent, so overlapping deployments
// or a restart mid-interval never double-process anything.
type SubscriptionScheduler struct {
	sweepAndNotifyUC *subscriptionUsecases.SweepAndNotifyUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

// NewSubscriptionScheduler creates a new SubscriptionScheduler
func NewSubscriptionScheduler(
	sweepAndNotifyUC *subscriptionUsecases.SweepAndNotifyUseCase,
	interval time.Duration,
	logger logger.Interface,
) *SubscriptionScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &SubscriptionScheduler{
		sweepAndNotifyUC: sweepAndNotifyUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

// Start starts the scheduler
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear anything that lapsed while
	// the process was down.
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *SubscriptionScheduler) runSweep(ctx context.Context) {
	s.logger.Debugw("subscription sweep started")

	startTime := time.Now()

	report, err := s.sweepAndNotifyUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("subscription sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if report.ExpiredCount > 0 || report.NotifiedCount > 0 {
		s.logger.Infow("subscription sweep completed",
			"expired_count", report.ExpiredCount,
			"notified_count", report.NotifiedCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("subscription sweep found nothing to do",
			"duration", time.Since(startTime),
		)
	}
}
