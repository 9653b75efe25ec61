// Package yahoo provides a MarketRepository backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/externalapi"
)

// Intervals accepted by the chart endpoint.
var intervals = map[string]datetime.Interval{
	"1m":  datetime.Interval("1m"),
	"2m":  datetime.Interval("2m"),
	"5m":  datetime.Interval("5m"),
	"15m": datetime.Interval("15m"),
	"30m": datetime.Interval("30m"),
	"60m": datetime.Interval("60m"),
	"90m": datetime.Interval("90m"),
	"1h":  datetime.Interval("1h"),
	"1d":  datetime.OneDay,
	"5d":  datetime.Interval("5d"),
	"1wk": datetime.Interval("1wk"),
	"1mo": datetime.Interval("1mo"),
	"3mo": datetime.Interval("3mo"),
}

// barIterator is the part of *chart.Iter the market reads.
type barIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// Market fetches historical bars through finance-go.
type Market struct {
	fetch func(*chart.Params) barIterator
	now   func() time.Time
}

var _ usecase.MarketRepository = (*Market)(nil)

func NewMarket() *Market {
	return &Market{
		fetch: func(p *chart.Params) barIterator { return chart.Get(p) },
		now:   time.Now,
	}
}

// ChartParams converts a period and interval into a chart request for symbol.
func ChartParams(ctx context.Context, symbol, period, interval string, now time.Time) (*chart.Params, error) {
	iv, ok := intervals[interval]
	if !ok {
		return nil, fmt.Errorf("yahoo: unsupported interval %q", interval)
	}
	start, err := externalapi.PeriodStart(period, now)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}
	end := now
	p := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: iv,
	}
	p.Context = &ctx
	return p, nil
}

func (m *Market) GetTimeSeries(ctx context.Context, symbol, period, interval string) ([]entity.TimeSeriesRecord, error) {
	params, err := ChartParams(ctx, symbol, period, interval, m.now())
	if err != nil {
		return nil, err
	}

	iter := m.fetch(params)
	var records []entity.TimeSeriesRecord
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		if bar == nil || emptyBar(bar) {
			continue
		}
		records = append(records, entity.TimeSeriesRecord{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}
	return records, nil
}

// emptyBar reports a bar whose prices were all null in the chart response
// (holidays, halted sessions); finance-go decodes those as zero.
func emptyBar(bar *finance.ChartBar) bool {
	return bar.Open.IsZero() && bar.High.IsZero() && bar.Low.IsZero() && bar.Close.IsZero()
}
