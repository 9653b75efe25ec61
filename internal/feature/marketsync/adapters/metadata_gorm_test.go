package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

func TestMetadataGorm(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("success: unknown symbol is absent", func(t *testing.T) {
		repo := NewMetadataRepository(setupTestDB(t))
		got, err := repo.Find(ctx, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("success: upsert inserts then overwrites a single row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMetadataRepository(db)

		require.NoError(t, repo.Upsert(ctx, entity.SymbolMetadata{Symbol: "AAPL", LastUpdated: first, Status: entity.StatusFailed}))
		require.NoError(t, repo.Upsert(ctx, entity.SymbolMetadata{Symbol: "AAPL", LastUpdated: first.Add(time.Hour), Status: entity.StatusSuccess}))

		var count int64
		db.Model(&SymbolMetadataModel{}).Count(&count)
		assert.Equal(t, int64(1), count, "one record per symbol")

		got, err := repo.Find(ctx, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entity.StatusSuccess, got.Status)
		assert.True(t, got.LastUpdated.Equal(first.Add(time.Hour)))
	})

	t.Run("success: updating one symbol leaves siblings intact", func(t *testing.T) {
		repo := NewMetadataRepository(setupTestDB(t))

		require.NoError(t, repo.Upsert(ctx, entity.SymbolMetadata{Symbol: "AAPL", LastUpdated: first, Status: entity.StatusSuccess}))
		require.NoError(t, repo.Upsert(ctx, entity.SymbolMetadata{Symbol: "TCS.NS", LastUpdated: first, Status: entity.StatusSuccess}))
		require.NoError(t, repo.Upsert(ctx, entity.SymbolMetadata{Symbol: "TCS.NS", LastUpdated: first.Add(time.Hour), Status: entity.StatusSuccess}))

		got, err := repo.Find(ctx, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.LastUpdated.Equal(first))
	})
}
