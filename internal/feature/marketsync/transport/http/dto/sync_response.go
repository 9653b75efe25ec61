// Package dto defines data transfer objects for the marketsync HTTP API.
package dto

import "github.com/shopspring/decimal"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SymbolStatusResponse struct {
	Symbol       string `json:"symbol"`
	Market       string `json:"market"`
	Partition    string `json:"partition"`
	LastUpdated  string `json:"last_updated"`
	Status       string `json:"status"`
	NeedsRefresh bool   `json:"needs_refresh"`
}

type SeriesPoint struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// BatchResultResponse mirrors the persisted batch summary.
type BatchResultResponse struct {
	ID               string   `json:"id"`
	Index            string   `json:"index"`
	Timestamp        string   `json:"timestamp"`
	Total            int      `json:"total"`
	SuccessCount     int      `json:"success_count"`
	FailedCount      int      `json:"failed_count"`
	SucceededSymbols []string `json:"success"`
	FailedSymbols    []string `json:"failed_symbols"`
	Error            string   `json:"error,omitempty"`
}

// SyncIndexRequest is the optional body of POST /indices/:name/sync.
type SyncIndexRequest struct {
	Force    bool   `json:"force"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}
