package externalapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		period  string
		want    time.Time
		wantErr bool
	}{
		{name: "success: days", period: "5d", want: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
		{name: "success: weeks", period: "2wk", want: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{name: "success: months", period: "3mo", want: time.Date(2023, 12, 15, 12, 0, 0, 0, time.UTC)},
		{name: "success: years", period: "5y", want: time.Date(2019, 3, 15, 12, 0, 0, 0, time.UTC)},
		{name: "success: year to date", period: "YTD", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "success: max", period: "max", want: now.Add(-MaxHistory)},
		{name: "error: empty", period: "", wantErr: true},
		{name: "error: no unit", period: "10", wantErr: true},
		{name: "error: zero", period: "0d", wantErr: true},
		{name: "error: unknown unit", period: "3q", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	t.Parallel()

	tests := map[string]time.Duration{
		"1m":  time.Minute,
		"15m": 15 * time.Minute,
		"1h":  time.Hour,
		"1d":  24 * time.Hour,
		"1wk": 7 * 24 * time.Hour,
		"1mo": 30 * 24 * time.Hour,
	}
	for in, want := range tests {
		got, err := IntervalDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := IntervalDuration("1y")
	assert.Error(t, err)
	_, err = IntervalDuration("d")
	assert.Error(t, err)
}
