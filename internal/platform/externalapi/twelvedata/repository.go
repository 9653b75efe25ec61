package twelvedata

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/externalapi"
	"stock_sync/internal/platform/externalapi/twelvedata/dto"
)

// maxOutputSize is the largest page Twelve Data serves in one call.
const maxOutputSize = 5000

var intervalNames = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"45m": "45min",
	"1h":  "1h",
	"2h":  "2h",
	"4h":  "4h",
	"1d":  "1day",
	"1wk": "1week",
	"1mo": "1month",
}

// TwelveDataMarket is a MarketRepository backed by the Twelve Data REST API.
type TwelveDataMarket struct {
	cfg    Config
	client *resty.Client
	now    func() time.Time
}

var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket wraps httpClient in a resty client bound to cfg.BaseURL.
func NewTwelveDataMarket(cfg Config, httpClient *http.Client) *TwelveDataMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	client := resty.NewWithClient(httpClient).SetBaseURL(cfg.BaseURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &TwelveDataMarket{cfg: cfg, client: client, now: time.Now}
}

// GetTimeSeries fetches enough bars to cover period at the given interval.
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, period, interval string) ([]entity.TimeSeriesRecord, error) {
	name, ok := intervalNames[interval]
	if !ok {
		return nil, fmt.Errorf("twelvedata: unsupported interval %q", interval)
	}
	size, err := OutputSize(period, interval, t.now())
	if err != nil {
		return nil, fmt.Errorf("twelvedata: %w", err)
	}

	var body dto.TimeSeriesResponse
	res, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"interval":   name,
			"outputsize": strconv.Itoa(size),
			"timezone":   "UTC",
			"apikey":     t.cfg.APIKey,
		}).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/time_series")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode())
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	records := make([]entity.TimeSeriesRecord, 0, len(body.Values))
	for _, v := range body.Values {
		rec, err := toRecord(v)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// OutputSize estimates the number of bars covering period, capped at the API maximum.
func OutputSize(period, interval string, now time.Time) (int, error) {
	start, err := externalapi.PeriodStart(period, now)
	if err != nil {
		return 0, err
	}
	step, err := externalapi.IntervalDuration(interval)
	if err != nil {
		return 0, err
	}
	n := int(math.Ceil(float64(now.Sub(start)) / float64(step)))
	return min(max(n, 1), maxOutputSize), nil
}

func toRecord(v dto.TimeSeriesValue) (entity.TimeSeriesRecord, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse("2006-01-02", v.Datetime)
		if err != nil {
			return entity.TimeSeriesRecord{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	var prices [4]decimal.Decimal
	for i, s := range []string{v.Open, v.High, v.Low, v.Close} {
		prices[i], err = decimal.NewFromString(s)
		if err != nil {
			return entity.TimeSeriesRecord{}, fmt.Errorf("parse price %q: %w", s, err)
		}
	}
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.TimeSeriesRecord{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return entity.TimeSeriesRecord{
		Date:   tm.UTC(),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: vol,
	}, nil
}
