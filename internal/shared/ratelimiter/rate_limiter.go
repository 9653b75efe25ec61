// Package ratelimiter throttles calls to third-party market data APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface limits how often an operation such as an API call may run.
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per fixed window of length interval.
// It is safe for concurrent use by the sync worker pool.
type RateLimiter struct {
	mu          sync.Mutex
	limit       int
	interval    time.Duration
	count       int
	windowStart time.Time
	logger      *slog.Logger
}

// NewRateLimiter creates a RateLimiter. A non-positive limit disables throttling.
func NewRateLimiter(limit int, interval time.Duration, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		limit:       limit,
		interval:    interval,
		windowStart: time.Now(),
		logger:      logger,
	}
}

// Wait blocks until a call is allowed in the current window or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 || rl.interval <= 0 {
		return ctx.Err()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rl.mu.Lock()
		now := time.Now()
		// reset the window once interval has elapsed
		if now.Sub(rl.windowStart) >= rl.interval {
			rl.count = 0
			rl.windowStart = now
		}
		if rl.count < rl.limit {
			rl.count++
			rl.mu.Unlock()
			return nil
		}
		sleep := rl.interval - now.Sub(rl.windowStart)
		rl.mu.Unlock()

		rl.logger.Info("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
