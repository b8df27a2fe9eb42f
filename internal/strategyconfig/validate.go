package strategyconfig

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/onlystock/stock-momentum/internal/s0_universe"
)

// MaxWindowMonths is the longest window a one year download can satisfy
const MaxWindowMonths = 12

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Universe ===
	if !s0_universe.IsValidName(cfg.Universe.Source) {
		return ValidationError{"universe.source", fmt.Sprintf("must be one of %v", s0_universe.Names())}
	}

	// === Signals ===
	if err := ValidateMonths(cfg.Signals.MomentumMonths); err != nil {
		return ValidationError{"signals.momentum_months", err.Error()}
	}
	if err := ValidateMonths(cfg.Signals.MovingAverageMonths); err != nil {
		return ValidationError{"signals.moving_average_months", err.Error()}
	}

	// === Portfolio ===
	if cfg.Portfolio.WalletSize < 1 {
		return ValidationError{"portfolio.wallet_size", "must be >= 1"}
	}

	// === Schedule ===
	if cfg.Schedule.Enabled {
		if cfg.Schedule.Cron == "" {
			return ValidationError{"schedule.cron", "required when schedule is enabled"}
		}
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			return ValidationError{"schedule.cron", err.Error()}
		}
	}

	return nil
}

// ValidateMonths checks a window length in months
func ValidateMonths(months int) error {
	if months < 1 || months > MaxWindowMonths {
		return fmt.Errorf("must be in [1, %d]", MaxWindowMonths)
	}
	return nil
}

// Warn returns recommendations that do not block a run
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 1년 일봉은 252개 안팎, 12개월 윈도우는 휴장일에 따라 부족할 수 있음
	longest := max(cfg.Signals.MomentumMonths, cfg.Signals.MovingAverageMonths)
	if longest >= MaxWindowMonths {
		warnings = append(warnings, Warning{
			Code:    "WINDOW_NEAR_LOOKBACK",
			Message: fmt.Sprintf("%d month window needs %d observations; a one year download may be shorter", longest, longest*21),
		})
	}

	if cfg.Portfolio.WalletSize > 20 {
		warnings = append(warnings, Warning{
			Code:    "LARGE_WALLET",
			Message: fmt.Sprintf("wallet_size %d is large for a concentrated momentum portfolio", cfg.Portfolio.WalletSize),
		})
	}

	if cfg.Schedule.Enabled && cfg.Meta.Timezone == "" {
		warnings = append(warnings, Warning{
			Code:    "SCHEDULE_UTC",
			Message: "schedule runs in UTC because meta.timezone is empty",
		})
	}

	return warnings
}
