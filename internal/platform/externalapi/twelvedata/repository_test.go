package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

func newTestMarket(t *testing.T, handler http.HandlerFunc) *TwelveDataMarket {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := NewTwelveDataMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())
	m.now = func() time.Time { return fixedNow }
	return m
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewTwelveDataMarket(t *testing.T) {
	t.Parallel()

	market := NewTwelveDataMarket(Config{APIKey: "test-key"}, &http.Client{})

	require.NotNil(t, market)
	assert.Equal(t, "test-key", market.cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, market.cfg.BaseURL)
}

func TestTwelveDataMarket_GetTimeSeries_Success(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "1day", q.Get("interval"))
		assert.Equal(t, "30", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		writeJSON(w, http.StatusOK, `{
			"meta": {"symbol": "AAPL", "interval": "1day", "exchange": "NASDAQ"},
			"status": "ok",
			"values": [
				{"datetime": "2025-01-15", "open": "150.00", "high": "155.00", "low": "149.00", "close": "154.50", "volume": "1000000"},
				{"datetime": "2025-01-14 09:30:00", "open": "148.00", "high": "151.00", "low": "147.50", "close": "150.00", "volume": "900000"}
			]
		}`)
	})

	records, err := market.GetTimeSeries(context.Background(), "AAPL", "30d", "1d")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.True(t, decimal.RequireFromString("150").Equal(records[0].Open))
	assert.True(t, decimal.RequireFromString("154.5").Equal(records[0].Close))
	assert.Equal(t, int64(1000000), records[0].Volume)
	assert.Equal(t, time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC), records[1].Date)
}

func TestTwelveDataMarket_GetTimeSeries_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		interval string
		errPart  string
	}{
		{name: "error: http status", status: http.StatusInternalServerError, body: `{}`, interval: "1d", errPart: "twelvedata http 500"},
		{name: "error: api status", status: http.StatusOK, body: `{"status":"error","code":400,"message":"symbol not found"}`, interval: "1d", errPart: "symbol not found"},
		{name: "error: invalid json", status: http.StatusOK, body: `{invalid`, interval: "1d", errPart: ""},
		{name: "error: invalid datetime", status: http.StatusOK, body: `{"status":"ok","values":[{"datetime":"15/01/2025","open":"1","high":"1","low":"1","close":"1","volume":"1"}]}`, interval: "1d", errPart: "parse time"},
		{name: "error: invalid price", status: http.StatusOK, body: `{"status":"ok","values":[{"datetime":"2025-01-15","open":"abc","high":"1","low":"1","close":"1","volume":"1"}]}`, interval: "1d", errPart: "parse price"},
		{name: "error: invalid volume", status: http.StatusOK, body: `{"status":"ok","values":[{"datetime":"2025-01-15","open":"1","high":"1","low":"1","close":"1","volume":"x"}]}`, interval: "1d", errPart: "parse volume"},
		{name: "error: unsupported interval", status: http.StatusOK, body: `{}`, interval: "3d", errPart: "unsupported interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := market.GetTimeSeries(context.Background(), "AAPL", "5d", tt.interval)
			require.Error(t, err)
			if tt.errPart != "" {
				assert.True(t, strings.Contains(err.Error(), tt.errPart), "got %v", err)
			}
		})
	}
}

func TestTwelveDataMarket_GetTimeSeries_EmptyValuesAndMissingVolume(t *testing.T) {
	t.Parallel()

	t.Run("success: empty values", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"ok","values":[]}`)
		})
		records, err := market.GetTimeSeries(context.Background(), "AAPL", "5d", "1d")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("success: missing volume reads as zero", func(t *testing.T) {
		market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"status":"ok","values":[{"datetime":"2025-01-15","open":"1","high":"2","low":"0.5","close":"1.5"}]}`)
		})
		records, err := market.GetTimeSeries(context.Background(), "EUR/USD", "5d", "1d")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Zero(t, records[0].Volume)
	})
}

func TestTwelveDataMarket_GetTimeSeries_ContextCancellation(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, `{"status":"ok","values":[]}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := market.GetTimeSeries(ctx, "AAPL", "5d", "1d")
	assert.Error(t, err)
}

func TestOutputSize(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		period, interval string
		want             int
	}{
		{"5d", "1d", 5},
		{"1mo", "1d", 29},
		{"1y", "1wk", 53},
		{"5y", "1d", 1827},
		{"5y", "1h", 5000},
		{"1d", "1wk", 1},
	}
	for _, tt := range tests {
		got, err := OutputSize(tt.period, tt.interval, now)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s", tt.period, tt.interval)
	}

	_, err := OutputSize("forever", "1d", now)
	assert.Error(t, err)
}
