package audit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/onlystock/stock-momentum/internal/contracts"
)

// ReportRow is a display-ready ranked row
type ReportRow struct {
	Rank          int              `json:"rank"`
	Ticker        contracts.Ticker `json:"ticker"`
	AsOfDate      string           `json:"as_of_date"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	MovingAverage decimal.Decimal  `json:"moving_average"`
	Momentum      string           `json:"momentum"`
	MomentumRatio *float64         `json:"momentum_ratio"` // null when not finite
}

// Report is the display form of a portfolio with its summary
type Report struct {
	Rows            []ReportRow `json:"rows"`
	AverageMomentum string      `json:"average_momentum"`
	Summary         *Summary    `json:"summary"`
}

// NewReport rounds prices to cents and formats momentum as a percentage
func NewReport(portfolio *contracts.RankedPortfolio, summary *Summary) *Report {
	report := &Report{Rows: []ReportRow{}, Summary: summary}
	if portfolio == nil {
		report.AverageMomentum = FormatPercent(0)
		return report
	}

	for _, r := range portfolio.Rows {
		price, _ := Round(r.CurrentPrice, 2)
		ma, _ := Round(r.MovingAverage, 2)

		row := ReportRow{
			Rank:          r.Rank,
			Ticker:        r.Ticker,
			AsOfDate:      r.AsOfDate.Format(time.DateOnly),
			CurrentPrice:  price,
			MovingAverage: ma,
			Momentum:      FormatPercent(r.Momentum),
		}
		if d, ok := Round(r.Momentum, 6); ok {
			f := d.InexactFloat64()
			row.MomentumRatio = &f
		}
		report.Rows = append(report.Rows, row)
	}

	report.AverageMomentum = FormatPercent(portfolio.AverageMomentum())
	return report
}
