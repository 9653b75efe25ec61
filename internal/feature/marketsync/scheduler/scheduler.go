// Package scheduler runs every configured index once at startup and then daily at a fixed wall-clock time.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

// Runner is satisfied by usecase.BatchUsecase.
type Runner interface {
	RunAll(ctx context.Context, force bool, period, interval string) ([]entity.BatchResult, error)
}

type Config struct {
	Hour     int
	Minute   int
	Location *time.Location
	Force    bool
	Period   string
	Interval string
}

type Scheduler struct {
	runner Runner
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
}

func New(runner Runner, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		cfg:    cfg,
		logger: logger.With("component", "scheduler"),
		now:    time.Now,
		after:  time.After,
	}
}

// Run blocks until ctx is cancelled. It returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runOnce(ctx)
	for {
		wait := UntilNext(s.now(), s.cfg.Hour, s.cfg.Minute, s.cfg.Location)
		s.logger.Info("next scheduled update", "in", wait.Round(time.Second).String())
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-s.after(wait):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := s.now()
	s.logger.Info("starting scheduled update", "force", s.cfg.Force)
	results, err := s.runner.RunAll(ctx, s.cfg.Force, s.cfg.Period, s.cfg.Interval)
	if errors.Is(err, usecase.ErrRunInProgress) {
		s.logger.Warn("skipping scheduled update, another run holds the lock")
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("scheduled update failed", "error", err)
	}
	for _, r := range results {
		s.logger.Info("index processed",
			"index", r.IndexName, "success", r.SuccessCount, "failed", r.FailedCount, "error", r.Error)
	}
	s.logger.Info("scheduled update finished", "elapsed", s.now().Sub(start).Round(time.Millisecond).String())
}

// UntilNext returns how long to wait from now until the next hour:minute in loc.
// A now that falls exactly on the target waits a full day.
func UntilNext(now time.Time, hour, minute int, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next.Sub(now)
}
