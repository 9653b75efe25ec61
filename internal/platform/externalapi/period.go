// Package externalapi holds helpers shared by the market data providers.
package externalapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// MaxHistory bounds the "max" period.
const MaxHistory = 50 * 365 * 24 * time.Hour

// PeriodStart returns the first instant covered by a lookback period such as
// "5d", "1mo", "5y", "ytd" or "max", counted back from now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	switch p {
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case "max":
		return now.Add(-MaxHistory), nil
	}

	n, unit, err := splitAmount(p)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidPeriod, period)
	}
	switch unit {
	case "d":
		return now.AddDate(0, 0, -n), nil
	case "wk":
		return now.AddDate(0, 0, -7*n), nil
	case "mo":
		return now.AddDate(0, -n, 0), nil
	case "y":
		return now.AddDate(-n, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidPeriod, period)
}

// splitAmount splits "15m" into 15 and "m".
func splitAmount(s string) (int, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, "", fmt.Errorf("malformed amount %q", s)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 {
		return 0, "", fmt.Errorf("malformed amount %q", s)
	}
	return n, s[i:], nil
}

// IntervalDuration returns the nominal length of a bar interval such as
// "1m", "15m", "1h", "1d", "1wk" or "1mo".
func IntervalDuration(interval string) (time.Duration, error) {
	n, unit, err := splitAmount(strings.ToLower(strings.TrimSpace(interval)))
	if err != nil {
		return 0, err
	}
	day := 24 * time.Hour
	switch unit {
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "d":
		return time.Duration(n) * day, nil
	case "wk":
		return time.Duration(n) * 7 * day, nil
	case "mo":
		return time.Duration(n) * 30 * day, nil
	}
	return 0, fmt.Errorf("unsupported interval %q", interval)
}
