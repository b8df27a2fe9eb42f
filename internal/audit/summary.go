package audit

import (
	"github.com/onlystock/stock-momentum/internal/contracts"
)

// Summary is the headline outcome of one ranking run
// ⭐ SSOT: 실행 요약 집계는 여기서만
type Summary struct {
	TotalTickers    int                      `json:"total_tickers"`
	Downloaded      int                      `json:"downloaded"`
	FetchFailures   []contracts.FetchFailure `json:"fetch_failures"`
	TotalAnalyzed   int                      `json:"total_analyzed"`
	Excluded        int                      `json:"excluded"`
	AboveAverage    int                      `json:"above_average"`
	Selected        int                      `json:"selected"`
	AverageMomentum float64                  `json:"-"` // may be non-finite
	AverageDisplay  string                   `json:"average_momentum"`
	Tickers         []contracts.Ticker       `json:"tickers"`
}

// Inputs collects the stage outputs a summary is built from
type Inputs struct {
	TotalTickers int
	Downloaded   int
	Failures     []contracts.FetchFailure
	Metrics      *contracts.MetricSet
	Passed       []contracts.MetricRow
	Portfolio    *contracts.RankedPortfolio
}

// NewSummary aggregates stage outputs; nil stages count as empty
func NewSummary(in Inputs) *Summary {
	s := &Summary{
		TotalTickers:  in.TotalTickers,
		Downloaded:    in.Downloaded,
		FetchFailures: in.Failures,
		AboveAverage:  len(in.Passed),
		Tickers:       []contracts.Ticker{},
	}
	if s.FetchFailures == nil {
		s.FetchFailures = []contracts.FetchFailure{}
	}

	if in.Metrics != nil {
		s.TotalAnalyzed = in.Metrics.Count()
		s.Excluded = len(in.Metrics.Excluded)
	}

	if in.Portfolio != nil {
		s.Selected = in.Portfolio.Len()
		s.AverageMomentum = in.Portfolio.AverageMomentum()
		s.Tickers = in.Portfolio.Tickers()
	}
	s.AverageDisplay = FormatPercent(s.AverageMomentum)

	return s
}

// FailureRate returns failed downloads over attempted downloads
func (s *Summary) FailureRate() float64 {
	attempted := s.Downloaded + len(s.FetchFailures)
	if attempted == 0 {
		return 0
	}
	return float64(len(s.FetchFailures)) / float64(attempted)
}
