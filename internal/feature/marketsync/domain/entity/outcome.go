package entity

// Outcome is the result of synchronizing a single symbol.
// A skipped symbol (data still fresh) is a success.
type Outcome struct {
	Symbol  string
	Success bool
	Skipped bool
	Records int
	Err     error
}

// Succeeded builds a successful outcome.
func Succeeded(symbol string, records int) Outcome {
	return Outcome{Symbol: symbol, Success: true, Records: records}
}

// SkippedFresh builds the outcome for a symbol whose data did not need a refresh.
func SkippedFresh(symbol string) Outcome {
	return Outcome{Symbol: symbol, Success: true, Skipped: true}
}

// Failed builds a failed outcome carrying the reason.
func Failed(symbol string, err error) Outcome {
	return Outcome{Symbol: symbol, Err: err}
}

// Reason returns the failure message, or an empty string on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
