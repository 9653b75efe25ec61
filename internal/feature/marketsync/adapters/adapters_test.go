package adapters

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(Models()...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func record(date time.Time, close int64) entity.TimeSeriesRecord {
	return entity.TimeSeriesRecord{
		Date:   date,
		Open:   decimal.NewFromInt(close - 1),
		High:   decimal.NewFromInt(close + 1),
		Low:    decimal.NewFromInt(close - 2),
		Close:  decimal.NewFromInt(close),
		Volume: 1000,
	}
}
