// Package entity defines the domain models for the marketsync feature.
package entity

import "strings"

// Market classifies a symbol by the exchange its suffix points to.
type Market string

const (
	MarketUS    Market = "US"
	MarketUK    Market = "UK"
	MarketIndia Market = "IN"
)

// Storage partitions, one per market. Stores use them as a directory or column value.
const (
	PartitionUS    = "us_stocks"
	PartitionUK    = "ftse100"
	PartitionIndia = "nifty50"
)

// ClassifyMarket derives the market from the symbol suffix.
// ".NS" is India, ".L" is the UK, anything else is treated as US.
func ClassifyMarket(symbol string) Market {
	switch {
	case strings.HasSuffix(symbol, ".NS"):
		return MarketIndia
	case strings.HasSuffix(symbol, ".L"):
		return MarketUK
	default:
		return MarketUS
	}
}

// Partition returns the storage partition for the market.
func (m Market) Partition() string {
	switch m {
	case MarketIndia:
		return PartitionIndia
	case MarketUK:
		return PartitionUK
	default:
		return PartitionUS
	}
}

// Partitions lists every storage partition.
func Partitions() []string {
	return []string{PartitionIndia, PartitionUK, PartitionUS}
}
