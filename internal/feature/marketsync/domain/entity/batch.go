package entity

import "time"

// BatchResult is the auditable summary of one batch run over an index.
// It is created once per run and never modified afterwards.
type BatchResult struct {
	ID               string    `json:"id"`
	IndexName        string    `json:"index"`
	Timestamp        time.Time `json:"timestamp"`
	Total            int       `json:"total"`
	SuccessCount     int       `json:"success_count"`
	FailedCount      int       `json:"failed_count"`
	SucceededSymbols []string  `json:"success"`
	FailedSymbols    []string  `json:"failed_symbols"`
	Error            string    `json:"error,omitempty"`
}

// HasFailures reports whether the run should be surfaced as unsuccessful.
func (b BatchResult) HasFailures() bool {
	return b.FailedCount > 0 || b.Error != ""
}
