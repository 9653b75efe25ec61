package entity

import "time"

// SyncStatus is the outcome recorded in a symbol's metadata.
type SyncStatus string

const (
	StatusSuccess SyncStatus = "success"
	StatusFailed  SyncStatus = "failed"
)

// SymbolMetadata tracks when a symbol was last synchronized.
// There is exactly one record per symbol.
type SymbolMetadata struct {
	Symbol      string     `json:"symbol"`
	LastUpdated time.Time  `json:"last_updated"`
	Status      SyncStatus `json:"status"`
}
