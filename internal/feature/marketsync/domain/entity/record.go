package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of a record date in files and JSON.
const DateLayout = time.RFC3339

// TimeSeriesRecord is one OHLCV row of a symbol's series.
type TimeSeriesRecord struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}
