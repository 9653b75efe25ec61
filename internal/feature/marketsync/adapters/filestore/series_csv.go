package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

var seriesHeader = []string{"date", "open", "high", "low", "close", "volume"}

type seriesCSV struct {
	layout Layout
}

var _ usecase.RecordRepository = (*seriesCSV)(nil)

func NewSeriesRepository(layout Layout) *seriesCSV {
	return &seriesCSV{layout: layout}
}

// Replace rewrites the symbol's CSV file. The new file is renamed over the old
// one, so a reader never sees a partially written series.
func (r *seriesCSV) Replace(ctx context.Context, symbol string, records []entity.TimeSeriesRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.layout.SeriesPath(symbol)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(seriesHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Date.UTC().Format(entity.DateLayout),
			rec.Open.String(),
			rec.High.String(),
			rec.Low.String(),
			rec.Close.String(),
			strconv.FormatInt(rec.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return writeFileAtomic(path, buf.Bytes())
}

// Find reads the symbol's series. A missing file yields an empty series.
func (r *seriesCSV) Find(ctx context.Context, symbol string) ([]entity.TimeSeriesRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.layout.SeriesPath(symbol)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.TimeSeriesRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(seriesHeader)
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []entity.TimeSeriesRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var out []entity.TimeSeriesRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		out = append(out, rec)
	}
	if out == nil {
		out = []entity.TimeSeriesRecord{}
	}
	return out, nil
}

func parseRow(row []string) (entity.TimeSeriesRecord, error) {
	date, err := time.Parse(entity.DateLayout, row[0])
	if err != nil {
		return entity.TimeSeriesRecord{}, err
	}
	var prices [4]decimal.Decimal
	for i := range prices {
		prices[i], err = decimal.NewFromString(row[i+1])
		if err != nil {
			return entity.TimeSeriesRecord{}, err
		}
	}
	volume, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return entity.TimeSeriesRecord{}, err
	}
	return entity.TimeSeriesRecord{
		Date:   date.UTC(),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
