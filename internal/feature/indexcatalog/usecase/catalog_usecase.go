// Package usecase resolves index names to the symbols the batch runner synchronizes.
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
)

// ErrIndexNotFound is returned when an index has no active constituents.
var ErrIndexNotFound = errors.New("index not found")

// ConstituentRepository abstracts where index membership is read from.
type ConstituentRepository interface {
	// ListActive returns the active constituents of index in catalog order.
	// Unknown indices yield an empty slice and no error.
	ListActive(ctx context.Context, index string) ([]entity.Constituent, error)
	IndexNames(ctx context.Context) ([]string, error)
}

// CatalogUsecase serves index membership to the sync engine and the HTTP API.
type CatalogUsecase struct {
	repo   ConstituentRepository
	logger *slog.Logger
}

func NewCatalogUsecase(repo ConstituentRepository, logger *slog.Logger) *CatalogUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogUsecase{repo: repo, logger: logger.With("component", "indexcatalog")}
}

// Resolve returns the symbols of the named index. Lookup failures and unknown
// names both resolve to an empty slice so that the caller reports them uniformly.
func (u *CatalogUsecase) Resolve(ctx context.Context, name string) []string {
	list, err := u.repo.ListActive(ctx, entity.CanonicalIndexName(name))
	if err != nil {
		u.logger.Error("failed to load index constituents", "index", name, "error", err)
		return []string{}
	}
	symbols := make([]string, 0, len(list))
	for _, c := range list {
		symbols = append(symbols, c.Symbol)
	}
	return symbols
}

// Names lists the indices the catalog knows about.
func (u *CatalogUsecase) Names(ctx context.Context) []string {
	names, err := u.repo.IndexNames(ctx)
	if err != nil {
		u.logger.Error("failed to list indices", "error", err)
		return []string{}
	}
	return names
}

// Constituents returns the members of an index, or ErrIndexNotFound when it has none.
func (u *CatalogUsecase) Constituents(ctx context.Context, name string) ([]entity.Constituent, error) {
	list, err := u.repo.ListActive(ctx, entity.CanonicalIndexName(name))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrIndexNotFound
	}
	return list, nil
}
