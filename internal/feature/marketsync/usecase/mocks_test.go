package usecase

import (
	"context"
	"errors"
	"sync"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

var (
	errMarketAPI = errors.New("market API error")
	errDB        = errors.New("database error")
)

// mockMarketRepository is a mock implementation of MarketRepository.
type mockMarketRepository struct {
	mu                 sync.Mutex
	GetTimeSeriesFunc  func(ctx context.Context, symbol, period, interval string) ([]entity.TimeSeriesRecord, error)
	GetTimeSeriesCalls []string
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, symbol, period, interval string) ([]entity.TimeSeriesRecord, error) {
	m.mu.Lock()
	m.GetTimeSeriesCalls = append(m.GetTimeSeriesCalls, symbol)
	m.mu.Unlock()
	if m.GetTimeSeriesFunc != nil {
		return m.GetTimeSeriesFunc(ctx, symbol, period, interval)
	}
	return nil, errors.New("GetTimeSeriesFunc is not implemented")
}

// callLog records the order of store writes across repositories.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(s string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, s)
}

// mockRecordRepository is a mock implementation of RecordRepository.
type mockRecordRepository struct {
	mu           sync.Mutex
	log          *callLog
	ReplaceFunc  func(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error
	ReplaceCalls int
	Stored       map[string][]entity.TimeSeriesRecord
}

func (m *mockRecordRepository) Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error {
	m.mu.Lock()
	m.ReplaceCalls++
	m.mu.Unlock()
	m.log.add("replace:" + symbol)
	if m.ReplaceFunc != nil {
		if err := m.ReplaceFunc(ctx, symbol, records); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Stored == nil {
		m.Stored = map[string][]entity.TimeSeriesRecord{}
	}
	m.Stored[symbol] = records
	return nil
}

func (m *mockRecordRepository) Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Stored[symbol], nil
}

// mockMetadataRepository is a mock implementation of MetadataRepository.
type mockMetadataRepository struct {
	mu          sync.Mutex
	log         *callLog
	FindFunc    func(ctx context.Context, symbol string) (*entity.SymbolMetadata, error)
	UpsertFunc  func(ctx context.Context, meta entity.SymbolMetadata) error
	UpsertCalls []entity.SymbolMetadata
}

func (m *mockMetadataRepository) Find(ctx context.Context, symbol string) (*entity.SymbolMetadata, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol)
	}
	return nil, nil
}

func (m *mockMetadataRepository) Upsert(ctx context.Context, meta entity.SymbolMetadata) error {
	m.log.add("upsert:" + meta.Symbol)
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, meta); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, meta)
	return nil
}

// mockBatchResultRepository is a mock implementation of BatchResultRepository.
type mockBatchResultRepository struct {
	mu         sync.Mutex
	AppendFunc     func(ctx context.Context, result entity.BatchResult) error
	ListRecentFunc func(ctx context.Context, limit int) ([]entity.BatchResult, error)
	Appended       []entity.BatchResult
}

func (m *mockBatchResultRepository) Append(ctx context.Context, result entity.BatchResult) error {
	m.mu.Lock()
	m.Appended = append(m.Appended, result)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, result)
	}
	return nil
}

func (m *mockBatchResultRepository) ListRecent(ctx context.Context, limit int) ([]entity.BatchResult, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Appended, nil
}

// mockCatalog is a mock implementation of IndexCatalog.
type mockCatalog map[string][]string

func (m mockCatalog) Resolve(ctx context.Context, indexName string) []string {
	return m[indexName]
}

// mockRateLimiter returns immediately.
type mockRateLimiter struct {
	mu    sync.Mutex
	Err   error
	Calls int
}

func (m *mockRateLimiter) Wait(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}

// mockRunLock hands out a single lock.
type mockRunLock struct {
	mu   sync.Mutex
	held bool
}

func (m *mockRunLock) Acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held {
		return nil, ErrRunInProgress
	}
	m.held = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.held = false
	}, nil
}
