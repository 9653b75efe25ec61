// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

// CachingMetadataRepository decorates a MetadataRepository with Redis caching.
// Redis failures never fail a call; the inner repository stays the source of truth.
type CachingMetadataRepository struct {
	inner     usecase.MetadataRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MetadataRepository = (*CachingMetadataRepository)(nil)

// NewCachingMetadataRepository decorates a MetadataRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "metadata".
func NewCachingMetadataRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MetadataRepository, namespace string) *CachingMetadataRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "metadata"
	}
	return &CachingMetadataRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Find checks the cache first, then falls back to the inner repository.
// Absent symbols are not cached.
func (c *CachingMetadataRepository) Find(ctx context.Context, symbol string) (*entity.SymbolMetadata, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol)
	}

	key := cacheKey(c.namespace, symbol)
	var cached entity.SymbolMetadata
	if getJSON(ctx, c.rdb, key, &cached) {
		return &cached, nil
	}

	meta, err := c.inner.Find(ctx, symbol)
	if err != nil || meta == nil {
		return meta, err
	}
	setJSON(ctx, c.rdb, key, meta, c.ttl)
	return meta, nil
}

// Upsert writes to the inner repository and drops the cached entry.
func (c *CachingMetadataRepository) Upsert(ctx context.Context, meta entity.SymbolMetadata) error {
	if err := c.inner.Upsert(ctx, meta); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, cacheKey(c.namespace, meta.Symbol)).Err() // best effort
	return nil
}

// getJSON reports whether key held a decodable value. Corrupted entries are deleted.
func getJSON(ctx context.Context, rdb *redis.Client, key string, dst any) bool {
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func setJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) {
	if b, err := json.Marshal(v); err == nil {
		_ = rdb.Set(ctx, key, b, ttl).Err()
	}
}

func cacheKey(namespace, symbol string) string {
	return fmt.Sprintf("%s:%s", namespace, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
