package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

const (
	// DefaultWorkers keeps concurrency low enough for free market data APIs.
	DefaultWorkers = 4
	runLockKey     = "marketsync:batch"
)

// Synchronizer synchronizes a single symbol.
type Synchronizer interface {
	Sync(ctx context.Context, req SyncRequest) entity.Outcome
}

// BatchConfig tunes batch execution.
type BatchConfig struct {
	Workers    int           // size of the worker pool
	Delay      time.Duration // pause between dispatching two symbols
	IndexPause time.Duration // pause between two indices in RunAll
	Indices    []string      // indices processed by RunAll, in order
	Period     string        // history window used when a request leaves it empty
	Interval   string        // bar interval used when a request leaves it empty
}

// BatchRequest describes one batch run over an index.
type BatchRequest struct {
	Index    string
	Force    bool
	Period   string
	Interval string
}

// BatchUsecase runs the synchronizer over every symbol of an index and records a summary.
type BatchUsecase struct {
	catalog IndexCatalog
	syncer  Synchronizer
	results BatchResultRepository
	lock    RunLock
	cfg     BatchConfig
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewBatchUsecase creates a BatchUsecase. lock may be nil when runs cannot overlap.
func NewBatchUsecase(catalog IndexCatalog, syncer Synchronizer, results BatchResultRepository,
	lock RunLock, cfg BatchConfig, logger *slog.Logger) *BatchUsecase {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchUsecase{
		catalog: catalog,
		syncer:  syncer,
		results: results,
		lock:    lock,
		cfg:     cfg,
		logger:  logger.With("component", "batch"),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// RunBatch synchronizes every symbol of req.Index and persists one BatchResult.
//
// Per-symbol failures are reported in the result and never returned as errors.
// The returned error is ErrUnknownIndex when the index has no symbols, or
// ErrRunInProgress when another run holds the lock; in both cases nothing is persisted.
func (b *BatchUsecase) RunBatch(ctx context.Context, req BatchRequest) (entity.BatchResult, error) {
	release, err := b.acquire(ctx)
	if err != nil {
		return b.rejected(req.Index, err), err
	}
	defer release()

	return b.runBatch(ctx, req)
}

// SyncSymbol synchronizes one symbol under the same run lock as batch runs,
// so a manual sync never writes a symbol that a running batch is also writing.
// It returns ErrRunInProgress when another run holds the lock.
func (b *BatchUsecase) SyncSymbol(ctx context.Context, req SyncRequest) (entity.Outcome, error) {
	release, err := b.acquire(ctx)
	if err != nil {
		return entity.Failed(req.Symbol, err), err
	}
	defer release()

	req.Period, req.Interval = b.defaults(req.Period, req.Interval)
	return b.syncOne(ctx, req), nil
}

// RunAll runs every configured index in order, pausing between indices.
// It stops early, without error, when ctx is done.
func (b *BatchUsecase) RunAll(ctx context.Context, force bool, period, interval string) ([]entity.BatchResult, error) {
	release, err := b.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	results := make([]entity.BatchResult, 0, len(b.cfg.Indices))
	for i, index := range b.cfg.Indices {
		if i > 0 && !sleepCtx(ctx, b.cfg.IndexPause) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		b.logger.Info("processing index", "index", index)
		res, err := b.runBatch(ctx, BatchRequest{Index: index, Force: force, Period: period, Interval: interval})
		if err != nil {
			b.logger.Warn("index skipped", "index", index, "error", err)
		}
		results = append(results, res)
	}
	b.logger.Info("all indices processed", "indices", len(results))
	return results, nil
}

func (b *BatchUsecase) runBatch(ctx context.Context, req BatchRequest) (entity.BatchResult, error) {
	log := b.logger.With("index", req.Index)
	req.Period, req.Interval = b.defaults(req.Period, req.Interval)

	symbols := dedupe(b.catalog.Resolve(ctx, req.Index))
	if len(symbols) == 0 {
		err := fmt.Errorf("%w: %s", ErrUnknownIndex, req.Index)
		log.Error("no stocks found for index")
		return b.rejected(req.Index, err), err
	}

	total := len(symbols)
	log.Info("starting batch process", "total", total, "workers", b.cfg.Workers, "force", req.Force)

	outcomes := make([]entity.Outcome, total)
	dispatched := 0

	var g errgroup.Group
	g.SetLimit(b.cfg.Workers)
	for i, symbol := range symbols {
		if i > 0 && !sleepCtx(ctx, b.cfg.Delay) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			log.Info("processing symbol", "position", i+1, "total", total, "symbol", symbol)
			outcomes[i] = b.syncOne(ctx, SyncRequest{
				Symbol:   symbol,
				Period:   req.Period,
				Interval: req.Interval,
				Force:    req.Force,
			})
			return nil
		})
	}
	_ = g.Wait()

	if dispatched < total {
		cause := fmt.Errorf("batch aborted before dispatch: %w", context.Cause(ctx))
		log.Warn("batch aborted", "dispatched", dispatched, "total", total)
		for i := dispatched; i < total; i++ {
			outcomes[i] = entity.Failed(symbols[i], cause)
		}
	}

	result := b.summarize(req.Index, outcomes)

	// The summary is persisted even when the run was aborted.
	if err := b.results.Append(context.WithoutCancel(ctx), result); err != nil {
		log.Error("failed to persist batch result", "error", err)
	}

	log.Info("batch process completed", "success", result.SuccessCount, "failed", result.FailedCount)
	return result, nil
}

// syncOne runs the synchronizer for one symbol and turns a panic into a failed outcome.
func (b *BatchUsecase) syncOne(ctx context.Context, req SyncRequest) (out entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("recovered from panic", "symbol", req.Symbol, "panic", r)
			out = entity.Failed(req.Symbol, fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()
	return b.syncer.Sync(ctx, req)
}

func (b *BatchUsecase) summarize(index string, outcomes []entity.Outcome) entity.BatchResult {
	res := entity.BatchResult{
		ID:               b.newID(),
		IndexName:        index,
		Timestamp:        b.now(),
		Total:            len(outcomes),
		SucceededSymbols: []string{},
		FailedSymbols:    []string{},
	}
	for _, o := range outcomes {
		if o.Success {
			res.SucceededSymbols = append(res.SucceededSymbols, o.Symbol)
		} else {
			res.FailedSymbols = append(res.FailedSymbols, o.Symbol)
		}
	}
	res.SuccessCount = len(res.SucceededSymbols)
	res.FailedCount = len(res.FailedSymbols)
	return res
}

func (b *BatchUsecase) rejected(index string, err error) entity.BatchResult {
	return entity.BatchResult{
		IndexName:        index,
		Timestamp:        b.now(),
		SucceededSymbols: []string{},
		FailedSymbols:    []string{},
		Error:            err.Error(),
	}
}

// defaults fills an empty period or interval from the configured ones.
func (b *BatchUsecase) defaults(period, interval string) (string, string) {
	if period == "" {
		period = b.cfg.Period
	}
	if interval == "" {
		interval = b.cfg.Interval
	}
	return period, interval
}

func (b *BatchUsecase) acquire(ctx context.Context) (func(), error) {
	if b.lock == nil {
		return func() {}, nil
	}
	release, err := b.lock.Acquire(ctx, runLockKey)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRunInProgress, err)
	}
	return release, nil
}

// dedupe drops repeated symbols so a run never syncs the same symbol twice at once.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
