package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/brain"
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/s1_history"
	"github.com/onlystock/stock-momentum/internal/s2_signals"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "듀얼 모멘텀 랭킹 실행",
	Long: `종목 소스의 일봉을 내려받아 모멘텀/이동평균을 계산하고
현재가 > 이동평균 종목을 모멘텀 순으로 상위 N개 선택합니다.

윈도우는 개월 단위 (1개월 = 21 거래일).
--momentum-days / --ma-days 는 30/90/180 프리셋을 개월로 변환합니다 (days / 30).
생략된 값은 전략 프로필(--strategy)을 따릅니다.

Ctrl+C로 다운로드를 중단할 수 있습니다.

Example:
  go run ./cmd/quant rank
  go run ./cmd/quant rank --source sp500 --momentum-months 3 --ma-months 6 --wallet 10
  go run ./cmd/quant rank --source sp100 --momentum-days 90 --json`,
	RunE: runRank,
}

var (
	rankSource         string
	rankMomentumMonths int
	rankMomentumDays   int
	rankMAMonths       int
	rankMADays         int
	rankWallet         int
	rankJSON           bool
	rankRetainCache    bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankSource, "source", "", "ticker source: ibrx100, sp500, sp100")
	rankCmd.Flags().IntVar(&rankMomentumMonths, "momentum-months", 0, "momentum window in months")
	rankCmd.Flags().IntVar(&rankMomentumDays, "momentum-days", 0, "momentum window preset in days (30, 90, 180)")
	rankCmd.Flags().IntVar(&rankMAMonths, "ma-months", 0, "moving average window in months")
	rankCmd.Flags().IntVar(&rankMADays, "ma-days", 0, "moving average window preset in days (30, 90, 180)")
	rankCmd.Flags().IntVar(&rankWallet, "wallet", 0, "number of tickers to select")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the report as JSON")
	rankCmd.Flags().BoolVar(&rankRetainCache, "retain-cache", false, "keep downloaded history cached after success")
}

// rankOptions are the flag values that override the profile
type rankOptions struct {
	Source         string
	MomentumMonths int
	MomentumDays   int
	MAMonths       int
	MADays         int
	Wallet         int
	RetainCache    bool
}

// applyRankOptions merges flag overrides into a copy of the profile.
// Months win over days; zero values keep the profile's setting.
func applyRankOptions(profile *strategyconfig.Config, opts rankOptions) (*strategyconfig.Config, error) {
	merged := *profile

	if opts.Source != "" {
		merged.Universe.Source = opts.Source
	}

	switch {
	case opts.MomentumMonths != 0:
		merged.Signals.MomentumMonths = opts.MomentumMonths
	case opts.MomentumDays != 0:
		merged.Signals.MomentumMonths = s2_signals.MonthsFromDays(opts.MomentumDays)
	}

	switch {
	case opts.MAMonths != 0:
		merged.Signals.MovingAverageMonths = opts.MAMonths
	case opts.MADays != 0:
		merged.Signals.MovingAverageMonths = s2_signals.MonthsFromDays(opts.MADays)
	}

	if opts.Wallet != 0 {
		merged.Portfolio.WalletSize = opts.Wallet
	}
	if opts.RetainCache {
		merged.Cache.RetainOnSuccess = true
	}

	if err := strategyconfig.Validate(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func runRank(cmd *cobra.Command, args []string) error {
	var progress s1_history.ProgressFunc
	if !rankJSON {
		progress = func(done, total int, ticker contracts.Ticker) {
			PrintProgress("History", ticker, done, total)
		}
	}

	a, err := newApp(progress)
	if err != nil {
		return err
	}
	defer a.Close()

	profile, snapshot, err := a.profile()
	if err != nil {
		return err
	}

	run, err := applyRankOptions(profile, rankOptions{
		Source:         rankSource,
		MomentumMonths: rankMomentumMonths,
		MomentumDays:   rankMomentumDays,
		MAMonths:       rankMAMonths,
		MADays:         rankMADays,
		Wallet:         rankWallet,
		RetainCache:    rankRetainCache,
	})
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	universe, err := a.universe(run.Universe.Source)
	if err != nil {
		return err
	}

	// Ctrl+C 시 진행 중인 다운로드 중단
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	signals := run.SignalsConfig()
	if !rankJSON {
		PrintHeader("Dual Momentum Ranking", []string{"Source", "Momentum", "Moving avg", "Wallet", "Profile"}, map[string]string{
			"Source":     run.Universe.Source,
			"Momentum":   fmt.Sprintf("%d months (%d days)", signals.MomentumMonths, signals.MomentumWindow()),
			"Moving avg": fmt.Sprintf("%d months (%d days)", signals.MovingAverageMonths, signals.MovingAverageWindow()),
			"Wallet":     strconv.Itoa(run.Portfolio.WalletSize),
			"Profile":    snapshot.ConfigHash[:12],
		})
	}

	result, err := a.orchestrator.Run(ctx, brain.RunConfig{
		Universe:    universe,
		Signals:     signals,
		WalletSize:  run.Portfolio.WalletSize,
		RetainCache: run.Cache.RetainOnSuccess,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			PrintWarning("Run cancelled; downloaded history stays cached for a retry")
		}
		return err
	}

	report := audit.NewReport(result.Portfolio, result.Summary)
	if rankJSON {
		return PrintJSON(report)
	}

	PrintReport(result, report)
	return nil
}
