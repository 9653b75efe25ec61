package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
	"stock_sync/internal/feature/indexcatalog/usecase"
)

// jsonFileCatalog reads <dir>/<index>.json files of the form [{"name":..,"symbol":..}]
// and falls back to another repository when a file is missing or unreadable.
type jsonFileCatalog struct {
	dir      string
	fallback usecase.ConstituentRepository
	logger   *slog.Logger
}

var _ usecase.ConstituentRepository = (*jsonFileCatalog)(nil)

func NewJSONFileRepository(dir string, fallback usecase.ConstituentRepository, logger *slog.Logger) *jsonFileCatalog {
	if fallback == nil {
		fallback = NewEmbeddedRepository()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &jsonFileCatalog{dir: dir, fallback: fallback, logger: logger}
}

func (r *jsonFileCatalog) ListActive(ctx context.Context, index string) ([]entity.Constituent, error) {
	index = entity.CanonicalIndexName(index)
	list, err := r.readFile(index)
	if err != nil {
		r.logger.Warn("falling back to embedded index list", "index", index, "error", err)
		return r.fallback.ListActive(ctx, index)
	}
	return list, nil
}

func (r *jsonFileCatalog) readFile(index string) ([]entity.Constituent, error) {
	if index == "" || strings.ContainsAny(index, `/\`) || index == "." || index == ".." {
		return nil, fmt.Errorf("invalid index name %q", index)
	}
	raw, err := os.ReadFile(filepath.Join(r.dir, index+".json"))
	if err != nil {
		return nil, err
	}
	var items []entity.Constituent
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse %s.json: %w", index, err)
	}
	out := make([]entity.Constituent, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Symbol) == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// IndexNames lists the fallback indices followed by any extra files in dir.
func (r *jsonFileCatalog) IndexNames(ctx context.Context) ([]string, error) {
	names, err := r.fallback.IndexNames(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}

	matches, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var extra []string
	for _, m := range matches {
		n := strings.TrimSuffix(filepath.Base(m), ".json")
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		extra = append(extra, n)
	}
	sort.Strings(extra)
	return append(names, extra...), nil
}
