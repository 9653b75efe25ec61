// Package adapters contains the gorm-backed stores for the marketsync feature.
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

const insertBatchSize = 500

type seriesGorm struct {
	db *gorm.DB
}

var _ usecase.RecordRepository = (*seriesGorm)(nil)

func NewSeriesRepository(db *gorm.DB) *seriesGorm {
	return &seriesGorm{db: db}
}

type SeriesRecordModel struct {
	ID        uint      `gorm:"primaryKey"`
	Partition string    `gorm:"column:market_partition;size:32;not null;index"`
	Symbol    string    `gorm:"size:32;not null;uniqueIndex:series_sym_date,priority:1"`
	Date      time.Time `gorm:"not null;uniqueIndex:series_sym_date,priority:2"`

	Open   decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	High   decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Low    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Close  decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Volume int64           `gorm:"not null;default:0"`
}

func (SeriesRecordModel) TableName() string {
	return "series_records"
}

func toSeriesModel(symbol, partition string, e entity.TimeSeriesRecord) SeriesRecordModel {
	return SeriesRecordModel{
		Partition: partition,
		Symbol:    symbol,
		Date:      e.Date.UTC(),
		Open:      e.Open,
		High:      e.High,
		Low:       e.Low,
		Close:     e.Close,
		Volume:    e.Volume,
	}
}

// Replace swaps the whole stored series of symbol in one transaction,
// so readers see either the old series or the new one.
func (r *seriesGorm) Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error {
	partition := entity.ClassifyMarket(symbol).Partition()
	ms := make([]SeriesRecordModel, 0, len(records))
	for _, e := range records {
		ms = append(ms, toSeriesModel(symbol, partition, e))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ?", symbol).Delete(&SeriesRecordModel{}).Error; err != nil {
			return err
		}
		if len(ms) == 0 {
			return nil
		}
		return tx.CreateInBatches(&ms, insertBatchSize).Error
	})
}

// Find returns the stored series of symbol in ascending date order.
func (r *seriesGorm) Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	var rows []SeriesRecordModel
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.TimeSeriesRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.TimeSeriesRecord{
			Date:   m.Date.UTC(),
			Open:   m.Open,
			High:   m.High,
			Low:    m.Low,
			Close:  m.Close,
			Volume: m.Volume,
		})
	}
	return out, nil
}
