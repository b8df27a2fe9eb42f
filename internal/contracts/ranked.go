package contracts

// RankedRow is a metric row with its 1-based rank
type RankedRow struct {
	Rank int `json:"rank"`
	MetricRow
}

// RankedPortfolio is the final ordered selection passed from S4 to presentation
// ⭐ SSOT: S4 → 출력 랭킹 결과 전달
type RankedPortfolio struct {
	Rows []RankedRow `json:"rows"`
}

// Len returns the number of selected tickers
func (p *RankedPortfolio) Len() int {
	return len(p.Rows)
}

// IsEmpty reports whether nothing was selected
func (p *RankedPortfolio) IsEmpty() bool {
	return len(p.Rows) == 0
}

// Tickers returns the selected tickers in rank order
func (p *RankedPortfolio) Tickers() []Ticker {
	tickers := make([]Ticker, len(p.Rows))
	for i, r := range p.Rows {
		tickers[i] = r.Ticker
	}
	return tickers
}

// AverageMomentum returns the mean momentum of the selection (0 when empty)
func (p *RankedPortfolio) AverageMomentum() float64 {
	if len(p.Rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range p.Rows {
		sum += r.Momentum
	}
	return sum / float64(len(p.Rows))
}
