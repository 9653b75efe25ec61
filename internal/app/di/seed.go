package di

import (
	"context"
	"fmt"
	"log/slog"

	"stock_sync/internal/feature/indexcatalog/adapters"
	"stock_sync/internal/feature/indexcatalog/domain/entity"
)

type catalogSeeder interface {
	Count(ctx context.Context) (int64, error)
	Seed(ctx context.Context, index string, list []entity.Constituent) error
}

// SeedCatalog copies the embedded index lists into an empty database catalog.
func SeedCatalog(ctx context.Context, repo catalogSeeder, logger *slog.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count catalog rows: %w", err)
	}
	if n > 0 {
		logger.Info("catalog already seeded", "rows", n)
		return nil
	}
	embedded := adapters.NewEmbeddedRepository()
	names, err := embedded.IndexNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		list, err := embedded.ListActive(ctx, name)
		if err != nil {
			return err
		}
		if err := repo.Seed(ctx, name, list); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
		logger.Info("catalog seeded", "index", name, "constituents", len(list))
	}
	return nil
}
