package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the ticker universe could not be resolved
	ErrSourceUnavailable = errors.New("ticker source unavailable")

	// ErrUnknownSymbol means the history provider does not know the symbol
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrEmptyHistory means the provider answered without observations
	ErrEmptyHistory = errors.New("empty history")
)

// ExclusionInsufficientHistory is the exclusion reason for short series
const ExclusionInsufficientHistory = "insufficient_history"

// FetchFailure records a ticker dropped by the history loader
type FetchFailure struct {
	Ticker Ticker `json:"ticker"`
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

func (f FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s (%s): %s", f.Ticker, f.Symbol, f.Reason)
}

// RunStatus is the terminal outcome of a ranking run
type RunStatus string

const (
	StatusOK            RunStatus = "ok"
	StatusEmptyUniverse RunStatus = "empty_universe"
	StatusNoHistory     RunStatus = "no_history"
	StatusNoMetrics     RunStatus = "no_metrics"
	StatusEmptyResult   RunStatus = "empty_result"
	StatusFailed        RunStatus = "failed"
)

// IsNormal reports whether the status is a normal (non-error) outcome
func (s RunStatus) IsNormal() bool {
	return s != StatusFailed
}
