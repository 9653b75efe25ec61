package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/domain/policy"
	"stock_sync/internal/shared/ratelimiter"
)

const (
	// DefaultPeriod and DefaultInterval match the provider defaults: five years of daily bars.
	DefaultPeriod   = "5y"
	DefaultInterval = "1d"
)

// SyncRequest describes one symbol synchronization.
type SyncRequest struct {
	Symbol   string
	Period   string
	Interval string
	Force    bool
}

// SyncUsecase fetches one symbol's series and writes it to the stores when it is stale.
type SyncUsecase struct {
	market        MarketRepository
	records       RecordRepository
	metadata      MetadataRepository
	rateLimiter   ratelimiter.RateLimiterInterface
	logger        *slog.Logger
	now           func() time.Time
	symbolTimeout time.Duration
}

// SyncOption customizes a SyncUsecase.
type SyncOption func(*SyncUsecase)

// WithClock replaces the wall clock used for freshness checks and metadata timestamps.
func WithClock(now func() time.Time) SyncOption {
	return func(s *SyncUsecase) { s.now = now }
}

// WithSymbolTimeout bounds the provider call and both writes for a single symbol.
func WithSymbolTimeout(d time.Duration) SyncOption {
	return func(s *SyncUsecase) { s.symbolTimeout = d }
}

// NewSyncUsecase creates a SyncUsecase.
func NewSyncUsecase(market MarketRepository, records RecordRepository, metadata MetadataRepository,
	rateLimiter ratelimiter.RateLimiterInterface, logger *slog.Logger, opts ...SyncOption) *SyncUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SyncUsecase{
		market:      market,
		records:     records,
		metadata:    metadata,
		rateLimiter: rateLimiter,
		logger:      logger.With("component", "sync"),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync synchronizes a single symbol. It never returns an error; failures,
// including panics raised by a provider or store, are reported in the Outcome
// so that a batch can carry on with the next symbol.
func (s *SyncUsecase) Sync(ctx context.Context, req SyncRequest) (out entity.Outcome) {
	log := s.logger.With("symbol", req.Symbol)
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic", "panic", r)
			out = entity.Failed(req.Symbol, fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()
	if req.Period == "" {
		req.Period = DefaultPeriod
	}
	if req.Interval == "" {
		req.Interval = DefaultInterval
	}

	if !req.Force {
		last := s.lastSuccessfulUpdate(ctx, req.Symbol, log)
		if !policy.ShouldRefresh(last, entity.ClassifyMarket(req.Symbol), s.now(), false) {
			log.Info("skipping symbol, data is up-to-date", "last_updated", last)
			return entity.SkippedFresh(req.Symbol)
		}
	}

	if s.symbolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.symbolTimeout)
		defer cancel()
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			log.Error("rate limiter wait aborted", "error", err)
			return entity.Failed(req.Symbol, err)
		}
	}

	log.Info("fetching data", "period", req.Period, "interval", req.Interval)
	records, err := s.market.GetTimeSeries(ctx, req.Symbol, req.Period, req.Interval)
	if err != nil {
		log.Error("provider request failed", "error", err)
		return entity.Failed(req.Symbol, fmt.Errorf("%w: %v", ErrProvider, err))
	}
	if len(records) == 0 {
		log.Error("no data received")
		return entity.Failed(req.Symbol, fmt.Errorf("%w for %s", ErrNoData, req.Symbol))
	}

	records = normalize(records)

	// The series write must land before metadata claims the symbol is current.
	if err := s.records.Replace(ctx, req.Symbol, records); err != nil {
		log.Error("failed to write series", "error", err)
		return entity.Failed(req.Symbol, fmt.Errorf("%w: series: %v", ErrStoreWrite, err))
	}
	meta := entity.SymbolMetadata{Symbol: req.Symbol, LastUpdated: s.now(), Status: entity.StatusSuccess}
	if err := s.metadata.Upsert(ctx, meta); err != nil {
		log.Error("failed to write metadata", "error", err)
		return entity.Failed(req.Symbol, fmt.Errorf("%w: metadata: %v", ErrStoreWrite, err))
	}

	log.Info("saved series", "records", len(records))
	return entity.Succeeded(req.Symbol, len(records))
}

// lastSuccessfulUpdate reads the symbol's metadata and fails open: any read
// error or non-success record is treated as "never synced".
func (s *SyncUsecase) lastSuccessfulUpdate(ctx context.Context, symbol string, log *slog.Logger) *time.Time {
	meta, err := s.metadata.Find(ctx, symbol)
	if err != nil {
		log.Warn("metadata unreadable, treating as absent", "error", err)
		return nil
	}
	if meta == nil || meta.Status != entity.StatusSuccess || meta.LastUpdated.IsZero() {
		return nil
	}
	t := meta.LastUpdated
	return &t
}

// normalize returns a copy of records with UTC dates, sorted ascending by date.
func normalize(records []entity.TimeSeriesRecord) []entity.TimeSeriesRecord {
	out := make([]entity.TimeSeriesRecord, len(records))
	for i, r := range records {
		r.Date = r.Date.UTC()
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
