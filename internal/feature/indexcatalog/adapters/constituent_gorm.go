package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
	"stock_sync/internal/feature/indexcatalog/usecase"
)

type constituentGorm struct {
	db *gorm.DB
}

var _ usecase.ConstituentRepository = (*constituentGorm)(nil)

func NewConstituentRepository(db *gorm.DB) *constituentGorm {
	return &constituentGorm{db: db}
}

// ListActive returns the active constituents of index ordered by sort_key.
func (r *constituentGorm) ListActive(ctx context.Context, index string) ([]entity.Constituent, error) {
	var rows []entity.IndexConstituent
	if err := r.db.WithContext(ctx).
		Where("index_name = ? AND is_active = ?", entity.CanonicalIndexName(index), true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Constituent, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Constituent{Name: row.Name, Symbol: row.Symbol})
	}
	return out, nil
}

func (r *constituentGorm) IndexNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&entity.IndexConstituent{}).
		Where("is_active = ?", true).
		Distinct("index_name").
		Order("index_name ASC").
		Pluck("index_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Seed replaces the membership of index with list, keeping list order as sort_key.
func (r *constituentGorm) Seed(ctx context.Context, index string, list []entity.Constituent) error {
	index = entity.CanonicalIndexName(index)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("index_name = ?", index).Delete(&entity.IndexConstituent{}).Error; err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		rows := make([]entity.IndexConstituent, 0, len(list))
		for i, c := range list {
			rows = append(rows, entity.IndexConstituent{
				IndexName: index,
				Symbol:    c.Symbol,
				Name:      c.Name,
				SortKey:   i + 1,
				IsActive:  true,
			})
		}
		return tx.Create(&rows).Error
	})
}

// Count reports how many constituent rows are stored.
func (r *constituentGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.IndexConstituent{}).Count(&n).Error
	return n, err
}
