package fees

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const claimPassTimeout = 30 * time.Minute

// Scheduler runs periodic claim passes over all active tokens.
type Scheduler struct {
	engine       *Engine
	cache        *AggregateCache
	interval     time.Duration
	initialDelay time.Duration
	logger       *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a claim scheduler. cache may be nil when no
// aggregate cache needs invalidating after a pass.
func NewScheduler(
	engine *Engine,
	cache *AggregateCache,
	interval, initialDelay time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		engine:       engine,
		cache:        cache,
		interval:     interval,
		initialDelay: initialDelay,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start launches the background claim loop. The first pass runs after
// the initial delay, then every interval.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Info("started periodic fee claims",
			zap.Duration("interval", s.interval),
			zap.Duration("initial_delay", s.initialDelay),
		)

		delay := time.NewTimer(s.initialDelay)
		defer delay.Stop()
		select {
		case <-delay.C:
		case <-s.stopCh:
			return
		}

		s.runPass()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runPass()
			case <-s.stopCh:
				s.logger.Info("stopping periodic fee claims")
				return
			}
		}
	}()
}

func (s *Scheduler) runPass() {
	ctx, cancel := context.WithTimeout(context.Background(), claimPassTimeout)
	defer cancel()

	if _, err := s.engine.ClaimAll(ctx); err != nil {
		s.logger.Error("periodic claim pass failed", zap.Error(err))
		return
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// Stop stops the claim loop and waits for an in-flight pass to finish
// its current token. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}
