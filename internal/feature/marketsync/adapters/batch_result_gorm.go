package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

type batchResultGorm struct {
	db *gorm.DB
}

var _ usecase.BatchResultRepository = (*batchResultGorm)(nil)

func NewBatchResultRepository(db *gorm.DB) *batchResultGorm {
	return &batchResultGorm{db: db}
}

type BatchResultModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	IndexName        string    `gorm:"size:64;not null;index"`
	Timestamp        time.Time `gorm:"not null;index"`
	Total            int       `gorm:"not null"`
	SuccessCount     int       `gorm:"not null"`
	FailedCount      int       `gorm:"not null"`
	SucceededSymbols []string  `gorm:"serializer:json"`
	FailedSymbols    []string  `gorm:"serializer:json"`
	Error            string    `gorm:"size:512"`
}

func (BatchResultModel) TableName() string {
	return "batch_results"
}

// Append inserts a new row. Batch results are never updated.
func (r *batchResultGorm) Append(ctx context.Context, res entity.BatchResult) error {
	m := BatchResultModel{
		ID:               res.ID,
		IndexName:        res.IndexName,
		Timestamp:        res.Timestamp.UTC(),
		Total:            res.Total,
		SuccessCount:     res.SuccessCount,
		FailedCount:      res.FailedCount,
		SucceededSymbols: res.SucceededSymbols,
		FailedSymbols:    res.FailedSymbols,
		Error:            res.Error,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListRecent returns up to limit results, newest first. limit <= 0 means no limit.
func (r *batchResultGorm) ListRecent(ctx context.Context, limit int) ([]entity.BatchResult, error) {
	var rows []BatchResultModel
	q := r.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.BatchResult, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.BatchResult{
			ID:               m.ID,
			IndexName:        m.IndexName,
			Timestamp:        m.Timestamp.UTC(),
			Total:            m.Total,
			SuccessCount:     m.SuccessCount,
			FailedCount:      m.FailedCount,
			SucceededSymbols: nonNil(m.SucceededSymbols),
			FailedSymbols:    nonNil(m.FailedSymbols),
			Error:            m.Error,
		})
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Models lists the tables owned by this package, for AutoMigrate.
func Models() []any {
	return []any{&SeriesRecordModel{}, &SymbolMetadataModel{}, &BatchResultModel{}}
}
