package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

type mockSeriesRepository struct {
	findFn    func(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error)
	replaceFn func(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error
	findCalls int
}

func (m *mockSeriesRepository) Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	m.findCalls++
	if m.findFn != nil {
		return m.findFn(ctx, symbol)
	}
	return nil, nil
}

func (m *mockSeriesRepository) Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, symbol, records)
	}
	return nil
}

func TestCachingSeriesRepository(t *testing.T) {
	t.Parallel()

	series := []entity.TimeSeriesRecord{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: decimal.RequireFromString("187.15"), Volume: 10},
	}
	seriesJSON, err := json.Marshal(series)
	require.NoError(t, err)

	t.Run("success: cache miss reads through and stores", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("series:AAPL").RedisNil()
		mock.ExpectSet("series:AAPL", seriesJSON, 5*time.Minute).SetVal("OK")

		inner := &mockSeriesRepository{findFn: func(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
			return series, nil
		}}
		repo := NewCachingSeriesRepository(rdb, 0, inner, "")

		got, err := repo.Find(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, series, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: cache hit skips the inner repository", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("series:AAPL").SetVal(string(seriesJSON))

		inner := &mockSeriesRepository{}
		repo := NewCachingSeriesRepository(rdb, 0, inner, "")

		got, err := repo.Find(context.Background(), "AAPL")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, series[0].Close.Equal(got[0].Close))
		assert.Zero(t, inner.findCalls)
	})

	t.Run("success: empty series is not cached", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("series:NONE").RedisNil()

		repo := NewCachingSeriesRepository(rdb, 0, &mockSeriesRepository{}, "")
		got, err := repo.Find(context.Background(), "NONE")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: replace invalidates the symbol", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectDel("series:AAPL").SetVal(1)

		repo := NewCachingSeriesRepository(rdb, 0, &mockSeriesRepository{}, "")
		require.NoError(t, repo.Replace(context.Background(), "AAPL", series))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
