// Package redis builds the shared Redis client.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is read from REDIS_* variables. An empty Host disables Redis.
type Config struct {
	Host     string        `env:"HOST"`
	Port     string        `env:"PORT, default=6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB, default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL, default=10m"`
	LockTTL  time.Duration `env:"LOCK_TTL, default=5m"`
}

func (c Config) Enabled() bool { return c.Host != "" }

func (c Config) Addr() string { return c.Host + ":" + c.Port }

// NewRedisClient connects and pings Redis. It returns nil, nil when Redis is disabled.
func NewRedisClient(ctx context.Context, cfg Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
