package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

type metadataGorm struct {
	db *gorm.DB
}

var _ usecase.MetadataRepository = (*metadataGorm)(nil)

func NewMetadataRepository(db *gorm.DB) *metadataGorm {
	return &metadataGorm{db: db}
}

type SymbolMetadataModel struct {
	Symbol      string    `gorm:"primaryKey;size:32"`
	LastUpdated time.Time `gorm:"not null"`
	Status      string    `gorm:"size:16;not null"`
}

func (SymbolMetadataModel) TableName() string {
	return "symbol_metadata"
}

// Find returns nil, nil when the symbol has never been recorded.
func (r *metadataGorm) Find(ctx context.Context, symbol string) (*entity.SymbolMetadata, error) {
	var m SymbolMetadataModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity.SymbolMetadata{
		Symbol:      m.Symbol,
		LastUpdated: m.LastUpdated.UTC(),
		Status:      entity.SyncStatus(m.Status),
	}, nil
}

func (r *metadataGorm) Upsert(ctx context.Context, meta entity.SymbolMetadata) error {
	m := SymbolMetadataModel{
		Symbol:      meta.Symbol,
		LastUpdated: meta.LastUpdated.UTC(),
		Status:      string(meta.Status),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated", "status"}),
	}).Create(&m).Error
}
