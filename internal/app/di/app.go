package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogadapters "stock_sync/internal/feature/indexcatalog/adapters"
	catalogentity "stock_sync/internal/feature/indexcatalog/domain/entity"
	catalogusecase "stock_sync/internal/feature/indexcatalog/usecase"
	syncadapters "stock_sync/internal/feature/marketsync/adapters"
	"stock_sync/internal/feature/marketsync/adapters/filestore"
	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/config"
	"stock_sync/internal/platform/db"
	healthhandler "stock_sync/internal/platform/http/handler"
	platformredis "stock_sync/internal/platform/redis"
	"stock_sync/internal/shared/ratelimiter"
)

// App holds the fully wired application shared by the CLI and the HTTP server.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Stores  Stores
	Catalog *catalogusecase.CatalogUsecase
	Sync    *usecase.SyncUsecase
	Batch   *usecase.BatchUsecase
	Status  *usecase.StatusUsecase

	constituents catalogusecase.ConstituentRepository
}

// NewApp connects the configured backends and builds every usecase.
// Close must be called to release connections.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	if cfg.Store.Backend == config.StoreDB || cfg.Catalog.Source == config.CatalogDB {
		models := append(syncadapters.Models(), &catalogentity.IndexConstituent{})
		gdb, err := db.OpenDB(cfg.DB, logger, models...)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.DB = gdb
	}

	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		// continue with uncached stores and the in-process lock
		logger.Warn("redis unavailable, continuing without cache", "error", err)
		rdb = nil
	}
	app.Redis = rdb

	app.Stores, err = NewStores(cfg.Store, app.DB, rdb, cfg.Redis.CacheTTL)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.constituents, err = NewConstituentRepository(cfg.Catalog, app.DB, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Catalog = catalogusecase.NewCatalogUsecase(app.constituents, logger)

	market, err := NewMarket(cfg.Provider)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	limiter := ratelimiter.NewRateLimiter(cfg.Sync.RateLimit, cfg.Sync.RateWindow, logger)
	app.Sync = usecase.NewSyncUsecase(market, app.Stores.Records, app.Stores.Metadata, limiter, logger,
		usecase.WithSymbolTimeout(cfg.Sync.SymbolTimeout))
	app.Batch = usecase.NewBatchUsecase(app.Catalog, app.Sync, app.Stores.Results,
		NewRunLock(rdb, cfg.Redis.LockTTL, logger),
		usecase.BatchConfig{
			Workers:    cfg.Sync.Workers,
			Delay:      cfg.Sync.Delay,
			IndexPause: cfg.Sync.IndexPause,
			Indices:    cfg.Sync.Indices,
			Period:     cfg.Sync.Period,
			Interval:   cfg.Sync.Interval,
		}, logger)
	app.Status = usecase.NewStatusUsecase(app.Stores.Records, app.Stores.Metadata, app.Stores.Results)

	return app, nil
}

// Provision prepares storage for a first run. The file backend gets its
// partition directories and an empty metadata document; a database catalog
// with no rows is seeded from the embedded index lists.
func (a *App) Provision(ctx context.Context) error {
	if a.Config.Store.Backend == config.StoreFile {
		if err := filestore.NewLayout(a.Config.Store.DataDir).Provision(); err != nil {
			return fmt.Errorf("failed to provision data directory: %w", err)
		}
		a.Logger.Info("data directory ready", "dir", a.Config.Store.DataDir)
	}
	if a.Config.Catalog.Source == config.CatalogFile {
		if err := os.MkdirAll(a.Config.Catalog.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	if a.Config.Catalog.Source == config.CatalogDB {
		return SeedCatalog(ctx, catalogadapters.NewConstituentRepository(a.DB), a.Logger)
	}
	return nil
}

// HealthProbes returns one probe per connected backend.
func (a *App) HealthProbes() map[string]healthhandler.Probe {
	probes := map[string]healthhandler.Probe{}
	if a.DB != nil {
		probes["db"] = func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if a.Redis != nil {
		probes["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	if a.Config.Store.Backend == config.StoreFile {
		probes["data_dir"] = func(context.Context) error {
			_, err := os.Stat(a.Config.Store.DataDir)
			return err
		}
	}
	return probes
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
