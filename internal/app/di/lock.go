package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/lock"
)

// NewRunLock returns a Redis lock shared by every process when Redis is
// available, and an in-process lock otherwise.
func NewRunLock(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) usecase.RunLock {
	if rdb != nil {
		return lock.NewRedisLock(rdb, "lock", ttl, logger)
	}
	return lock.NewLocalLock()
}
