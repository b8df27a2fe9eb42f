package contracts

import "time"

// MetricRow holds the computed metrics of one ticker (S2 → S3/S4)
// ⭐ SSOT: S2 → S3/S4 지표 전달
type MetricRow struct {
	Ticker        Ticker    `json:"ticker"`
	AsOfDate      time.Time `json:"as_of_date"`
	CurrentPrice  float64   `json:"current_price"`
	Momentum      float64   `json:"momentum"`       // 비율 (0.15 = +15%)
	MovingAverage float64   `json:"moving_average"` // 단순 이동평균
}

// AboveAverage reports whether the trend condition holds (strict)
func (m *MetricRow) AboveAverage() bool {
	return m.CurrentPrice > m.MovingAverage
}

// MetricSet is the pre-filter output of the metric engine
type MetricSet struct {
	Rows     []MetricRow       `json:"rows"`
	Excluded map[Ticker]string `json:"excluded"` // 제외 종목: 사유
}

// Count returns the number of metric rows
func (m *MetricSet) Count() int {
	return len(m.Rows)
}

// IsExcluded checks if a ticker was excluded with reason
func (m *MetricSet) IsExcluded(ticker Ticker) (bool, string) {
	reason, exists := m.Excluded[ticker]
	return exists, reason
}
