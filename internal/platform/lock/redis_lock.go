package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stock_sync/internal/feature/marketsync/usecase"
)

const defaultLockTTL = 5 * time.Minute

// Only the owner's token may delete or extend the key.
var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// RedisLock guards runs across processes sharing a Redis instance.
// A held lock is kept alive until released; a crashed holder's lock expires after ttl.
type RedisLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

var _ usecase.RunLock = (*RedisLock)(nil)

// NewRedisLock creates a RedisLock. If ttl is 0, it defaults to 5 minutes.
func NewRedisLock(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLock{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (l *RedisLock) lockKey(key string) string {
	if l.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", l.prefix, key)
}

func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	k := l.lockKey(key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", k, err)
	}
	if !ok {
		return nil, usecase.ErrRunInProgress
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(k, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			if err := releaseScript.Run(context.Background(), l.client, []string{k}, token).Err(); err != nil {
				l.logger.Warn("failed to release lock", "key", k, "error", err)
			}
		})
	}, nil
}

func (l *RedisLock) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := refreshScript.Run(context.Background(), l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			if errors.Is(err, redis.ErrClosed) {
				return
			}
			if err != nil {
				l.logger.Warn("failed to refresh lock", "key", key, "error", err)
				continue
			}
			if n == 0 {
				l.logger.Error("lock lost", "key", key)
				return
			}
		}
	}
}
