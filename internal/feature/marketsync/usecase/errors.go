package usecase

import "errors"

var (
	// ErrProvider wraps transport or API failures from the market data provider.
	ErrProvider = errors.New("market data provider error")
	// ErrNoData is returned when the provider answers with an empty series.
	ErrNoData = errors.New("no data received")
	// ErrStoreWrite wraps failures persisting a series or its metadata.
	ErrStoreWrite = errors.New("store write failed")
	// ErrPanic wraps a panic recovered while synchronizing one symbol.
	ErrPanic = errors.New("symbol sync panicked")
	// ErrUnknownIndex is reported when an index resolves to no symbols.
	ErrUnknownIndex = errors.New("no symbols found for index")
	// ErrRunInProgress is returned when another batch run holds the run lock.
	ErrRunInProgress = errors.New("batch run already in progress")
	// ErrSymbolNotFound is returned by read queries for symbols that were never synchronized.
	ErrSymbolNotFound = errors.New("symbol not found")
)
