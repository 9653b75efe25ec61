package usecase

import (
	"context"
	"fmt"
	"time"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/domain/policy"
)

const (
	DefaultBatchListLimit = 20
	MaxBatchListLimit     = 200
)

// SymbolStatus is the stored sync state of a symbol together with the current freshness verdict.
type SymbolStatus struct {
	Metadata     entity.SymbolMetadata
	Market       entity.Market
	NeedsRefresh bool
}

// StatusUsecase answers read queries about stored series, metadata and batch history.
type StatusUsecase struct {
	records  RecordRepository
	metadata MetadataRepository
	results  BatchResultRepository
	now      func() time.Time
}

func NewStatusUsecase(records RecordRepository, metadata MetadataRepository, results BatchResultRepository) *StatusUsecase {
	return &StatusUsecase{records: records, metadata: metadata, results: results, now: time.Now}
}

func (u *StatusUsecase) SymbolStatus(ctx context.Context, symbol string) (SymbolStatus, error) {
	meta, err := u.metadata.Find(ctx, symbol)
	if err != nil {
		return SymbolStatus{}, fmt.Errorf("failed to read metadata for %s: %w", symbol, err)
	}
	if meta == nil {
		return SymbolStatus{}, ErrSymbolNotFound
	}
	market := entity.ClassifyMarket(symbol)
	var last *time.Time
	if meta.Status == entity.StatusSuccess {
		last = &meta.LastUpdated
	}
	return SymbolStatus{
		Metadata:     *meta,
		Market:       market,
		NeedsRefresh: policy.ShouldRefresh(last, market, u.now(), false),
	}, nil
}

func (u *StatusUsecase) Series(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	records, err := u.records.Find(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to read series for %s: %w", symbol, err)
	}
	if len(records) == 0 {
		return nil, ErrSymbolNotFound
	}
	return records, nil
}

// RecentBatches returns the newest batch results first. limit is clamped to [1, MaxBatchListLimit];
// non-positive values use DefaultBatchListLimit.
func (u *StatusUsecase) RecentBatches(ctx context.Context, limit int) ([]entity.BatchResult, error) {
	switch {
	case limit <= 0:
		limit = DefaultBatchListLimit
	case limit > MaxBatchListLimit:
		limit = MaxBatchListLimit
	}
	return u.results.ListRecent(ctx, limit)
}
