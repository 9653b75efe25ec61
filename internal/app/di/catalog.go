package di

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"stock_sync/internal/feature/indexcatalog/adapters"
	"stock_sync/internal/feature/indexcatalog/usecase"
	"stock_sync/internal/platform/config"
)

// NewConstituentRepository selects the catalog source.
func NewConstituentRepository(cfg config.CatalogConfig, db *gorm.DB, logger *slog.Logger) (usecase.ConstituentRepository, error) {
	switch cfg.Source {
	case config.CatalogEmbedded:
		return adapters.NewEmbeddedRepository(), nil
	case config.CatalogFile:
		return adapters.NewJSONFileRepository(cfg.Dir, adapters.NewEmbeddedRepository(), logger), nil
	case config.CatalogDB:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q requires a database", cfg.Source)
		}
		return adapters.NewConstituentRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
