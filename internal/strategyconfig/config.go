package strategyconfig

import (
	"time"

	"github.com/onlystock/stock-momentum/internal/s2_signals"
)

// Config는 랭킹 전략의 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Signals   Signals   `yaml:"signals" json:"signals"`
	Portfolio Portfolio `yaml:"portfolio" json:"portfolio"`
	Schedule  Schedule  `yaml:"schedule" json:"schedule"`
	Cache     Cache     `yaml:"cache" json:"cache"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID  string `yaml:"strategy_id" json:"strategy_id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
	Timezone    string `yaml:"timezone" json:"timezone"` // IANA, 예: America/Sao_Paulo
}

// Universe S0: 종목 소스
type Universe struct {
	Source string `yaml:"source" json:"source"` // ibrx100 | sp500 | sp100
}

// Signals S2: 윈도우 (개월 단위, 1개월 = 21 거래일)
type Signals struct {
	MomentumMonths      int `yaml:"momentum_months" json:"momentum_months"`
	MovingAverageMonths int `yaml:"moving_average_months" json:"moving_average_months"`
}

// Portfolio S4: 선택 종목 수
type Portfolio struct {
	WalletSize int `yaml:"wallet_size" json:"wallet_size"`
}

// Schedule 정기 리밸런싱
type Schedule struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Cron    string `yaml:"cron" json:"cron"` // 5 필드 표준 cron
}

// Cache 히스토리 캐시 정책
type Cache struct {
	RetainOnSuccess bool `yaml:"retain_on_success" json:"retain_on_success"`
}

// SignalsConfig converts the month windows to the engine config
func (c *Config) SignalsConfig() s2_signals.Config {
	return s2_signals.Config{
		MomentumMonths:      c.Signals.MomentumMonths,
		MovingAverageMonths: c.Signals.MovingAverageMonths,
	}
}

// Location returns the schedule timezone (UTC when unset)
func (c *Config) Location() (*time.Location, error) {
	if c.Meta.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Meta.Timezone)
}

// Default returns the 6/6 month, five ticker IBRX100 profile
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "ibrx100_dual_momentum",
			Version:    "1.0.0",
			Timezone:   "America/Sao_Paulo",
		},
		Universe: Universe{Source: "ibrx100"},
		Signals: Signals{
			MomentumMonths:      6,
			MovingAverageMonths: 6,
		},
		Portfolio: Portfolio{WalletSize: 5},
		Schedule: Schedule{
			Enabled: false,
			Cron:    "0 19 1 * *",
		},
	}
}

// Snapshot records which profile produced a run
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}
