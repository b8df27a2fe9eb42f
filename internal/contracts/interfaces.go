package contracts

import "context"

// TickerSource resolves the ticker universe (S0)
// ⭐ SSOT: S0 종목 목록 인터페이스
type TickerSource interface {
	Name() string
	Resolve(ctx context.Context) ([]Ticker, error)
}

// HistorySource downloads daily bars for one vendor symbol (S1)
// ⭐ SSOT: S1 히스토리 다운로드 인터페이스
type HistorySource interface {
	FetchDailyHistory(ctx context.Context, symbol, period string) ([]Bar, error)
}

// MetricEngine computes momentum and moving average (S2)
// ⭐ SSOT: S2 지표 계산 인터페이스
type MetricEngine interface {
	Compute(records []HistoryRecord) *MetricSet
}

// Screener keeps rows passing the trend filter (S3)
// ⭐ SSOT: S3 스크리닝 인터페이스
type Screener interface {
	Screen(rows []MetricRow) []MetricRow
}

// Ranker orders and truncates the survivors (S4)
// ⭐ SSOT: S4 랭킹 인터페이스
type Ranker interface {
	Rank(rows []MetricRow, walletSize int) *RankedPortfolio
}
