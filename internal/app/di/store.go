package di

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_sync/internal/feature/marketsync/adapters"
	"stock_sync/internal/feature/marketsync/adapters/filestore"
	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/cache"
	"stock_sync/internal/platform/config"
)

// Stores groups the persistence ports of the sync engine.
type Stores struct {
	Records  usecase.RecordRepository
	Metadata usecase.MetadataRepository
	Results  usecase.BatchResultRepository
}

// NewStores selects the gorm or flat-file stores. When rdb is non-nil the
// series and metadata stores are wrapped in read-through Redis caches.
func NewStores(cfg config.StoreConfig, db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) (Stores, error) {
	var s Stores
	switch cfg.Backend {
	case config.StoreDB:
		if db == nil {
			return Stores{}, fmt.Errorf("store backend %q requires a database", cfg.Backend)
		}
		s = Stores{
			Records:  adapters.NewSeriesRepository(db),
			Metadata: adapters.NewMetadataRepository(db),
			Results:  adapters.NewBatchResultRepository(db),
		}
	case config.StoreFile:
		layout := filestore.NewLayout(cfg.DataDir)
		s = Stores{
			Records:  filestore.NewSeriesRepository(layout),
			Metadata: filestore.NewMetadataRepository(layout),
			Results:  filestore.NewBatchResultRepository(layout),
		}
	default:
		return Stores{}, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if rdb != nil {
		s.Records = cache.NewCachingSeriesRepository(rdb, cacheTTL, s.Records, "series")
		s.Metadata = cache.NewCachingMetadataRepository(rdb, cacheTTL, s.Metadata, "metadata")
	}
	return s, nil
}
