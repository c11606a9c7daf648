package scheduler

import (
	"context"
	"log/slog"
	"time"

	"marketing_engine/internal/domain"
)

// Publisher runs one publish pass over the posts due at now.
type Publisher interface {
	RunOnce(ctx context.Context, now time.Time) (*domain.PublishStats, error)
}

type Scheduler struct {
	publisher  Publisher
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewScheduler(publisher Publisher, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &Scheduler{
		publisher:  publisher,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger,
		now:        time.Now,
	}
}

// Start publishes immediately and then on every tick until ctx is cancelled.
// Other scheduler processes may run against the same database at the same time.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "run_timeout", s.runTimeout)

	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if _, err := s.publisher.RunOnce(passCtx, s.now()); err != nil {
		s.logger.Error("publish pass failed", "error", err)
	}
}
