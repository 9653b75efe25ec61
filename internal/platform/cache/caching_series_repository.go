package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

// CachingSeriesRepository caches whole series reads per symbol and
// invalidates them whenever the series is replaced.
type CachingSeriesRepository struct {
	inner     usecase.RecordRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.RecordRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository decorates a RecordRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "series".
func NewCachingSeriesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.RecordRepository, namespace string) *CachingSeriesRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingSeriesRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *CachingSeriesRepository) Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error {
	if err := c.inner.Replace(ctx, symbol, records); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, cacheKey(c.namespace, symbol)).Err() // best effort
	return nil
}

func (c *CachingSeriesRepository) Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol)
	}

	key := cacheKey(c.namespace, symbol)
	var cached []entity.TimeSeriesRecord
	if getJSON(ctx, c.rdb, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Find(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		setJSON(ctx, c.rdb, key, out, c.ttl)
	}
	return out, nil
}
