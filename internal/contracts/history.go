package contracts

import (
	"sort"
	"time"
)

// TradingDaysPerMonth converts month-based windows into observation counts
const TradingDaysPerMonth = 21

// DefaultPeriod is the fixed lookback requested from the history provider
const DefaultPeriod = "1y"

// Ticker is an opaque instrument identifier, unique within a run
type Ticker = string

// MonthsToWindow returns the observation count for a window of whole months
func MonthsToWindow(months int) int {
	return months * TradingDaysPerMonth
}

// Bar is a single daily observation
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoryRecord is the daily series of one ticker passed from S1 to S2
// ⭐ SSOT: S1 → S2 히스토리 전달
type HistoryRecord struct {
	Ticker Ticker `json:"ticker"` // 소스 원본 코드
	Symbol string `json:"symbol"` // 벤더 포맷 심볼
	Bars   []Bar  `json:"bars"`
}

// NewHistoryRecord builds a record with normalized bars
func NewHistoryRecord(ticker Ticker, symbol string, bars []Bar) HistoryRecord {
	return HistoryRecord{
		Ticker: ticker,
		Symbol: symbol,
		Bars:   NormalizeBars(bars),
	}
}

// Len returns the number of observations
func (h *HistoryRecord) Len() int {
	return len(h.Bars)
}

// Last returns the most recent bar
func (h *HistoryRecord) Last() (Bar, bool) {
	if len(h.Bars) == 0 {
		return Bar{}, false
	}
	return h.Bars[len(h.Bars)-1], true
}

// Closes returns the close series in date order
func (h *HistoryRecord) Closes() []float64 {
	closes := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		closes[i] = b.Close
	}
	return closes
}

// NormalizeBars returns a copy of bars with dates converted to UTC
// (location dropped), sorted ascending, and duplicate dates collapsed.
// The last bar seen for a given date wins.
func NormalizeBars(bars []Bar) []Bar {
	if len(bars) == 0 {
		return []Bar{}
	}

	normalized := make([]Bar, len(bars))
	for i, b := range bars {
		b.Date = NormalizeDate(b.Date)
		normalized[i] = b
	}

	// stable: input order decides which duplicate is "last"
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})

	out := normalized[:0]
	for _, b := range normalized {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// NormalizeDate converts t to a naive UTC timestamp
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}

// Instrument pairs a source ticker with its vendor-format symbol
type Instrument struct {
	Ticker Ticker `json:"ticker"`
	Symbol string `json:"symbol"`
}
