// Package policy decides whether a symbol's stored series is stale enough to refetch.
package policy

import (
	"time"

	"stock_sync/internal/feature/marketsync/domain/entity"
)

const (
	// CoolDown is the minimum age of the last successful sync before another is attempted.
	CoolDown = 30 * time.Minute
	// USSessionCloseHourET is the Eastern-time hour after which same-day US data is refetched.
	USSessionCloseHourET = 17
	// ApproxETOffsetHours is a fixed UTC->ET offset. It ignores daylight saving time.
	ApproxETOffsetHours = 5
)

// ShouldRefresh reports whether a symbol needs to be fetched again.
//
// force bypasses every rule. A missing lastUpdated always refreshes. Inside the
// cool-down window nothing refreshes. US symbols additionally wait until the
// approximate Eastern-time session close when they already hold same-day data.
// Evaluation never fails: anything unexpected resolves to a refresh.
func ShouldRefresh(lastUpdated *time.Time, market entity.Market, now time.Time, force bool) (refresh bool) {
	if force || lastUpdated == nil || lastUpdated.IsZero() {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			refresh = true
		}
	}()

	now = now.UTC()
	last := lastUpdated.UTC()

	if now.Sub(last) < CoolDown {
		return false
	}

	if market == entity.MarketUS {
		if ApproxETHour(now) < USSessionCloseHourET && sameDate(last, now) {
			return false
		}
	}
	return true
}

// ApproxETHour converts the UTC hour of t to an approximate Eastern-time hour.
func ApproxETHour(t time.Time) int {
	return (t.UTC().Hour() - ApproxETOffsetHours + 24) % 24
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
