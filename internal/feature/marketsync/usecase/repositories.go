// Package usecase implements symbol synchronization and batch runs.
package usecase

import (
	"context"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

// Interfaces are defined here, by the consumer, not by the adapters that implement them.

// MarketRepository fetches a symbol's OHLCV series from an external provider.
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, period, interval string) ([]entity.TimeSeriesRecord, error)
}

// RecordRepository persists whole series. Replace overwrites everything stored for the symbol.
type RecordRepository interface {
	Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error
	Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error)
}

// MetadataRepository keeps one SymbolMetadata per symbol.
// Find returns (nil, nil) when the symbol has no readable record.
type MetadataRepository interface {
	Find(ctx context.Context, symbol string) (*entity.SymbolMetadata, error)
	Upsert(ctx context.Context, meta entity.SymbolMetadata) error
}

// BatchResultRepository is the append-only batch history.
type BatchResultRepository interface {
	Append(ctx context.Context, result entity.BatchResult) error
	ListRecent(ctx context.Context, limit int) ([]entity.BatchResult, error)
}

// IndexCatalog resolves an index name to its constituent symbols.
// Unknown names resolve to an empty slice.
type IndexCatalog interface {
	Resolve(ctx context.Context, indexName string) []string
}

// RunLock serializes batch runs across the CLI, the scheduler and the HTTP API.
type RunLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
