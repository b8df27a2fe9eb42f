package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onlystock/stock-momentum/internal/strategyconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "전략 프로필 관리",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "전략 프로필 검증",
	Long: `전략 프로필 YAML 을 검증하고 해시와 경고를 출력합니다.
알 수 없는 필드는 오류입니다.

Example:
  go run ./cmd/quant config check
  go run ./cmd/quant config check config/strategy/sp500_momentum.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigCheck,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	path := strategyFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()
		path = a.cfg.StrategyFile
	}

	return checkProfile(path)
}

// checkProfile loads, validates and summarizes one profile file
func checkProfile(path string) error {
	cfg, _, err := strategyconfig.Load(path)
	if err != nil {
		PrintError(fmt.Sprintf("%s: %v", path, err))
		return fmt.Errorf("invalid strategy profile")
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash profile: %w", err)
	}

	schedule := "disabled"
	if cfg.Schedule.Enabled {
		schedule = fmt.Sprintf("%s (%s)", cfg.Schedule.Cron, cfg.Meta.Timezone)
	}

	PrintHeader("Strategy Profile", []string{"File", "Strategy", "Version", "Source", "Windows", "Wallet", "Schedule", "Hash"}, map[string]string{
		"File":     path,
		"Strategy": cfg.Meta.StrategyID,
		"Version":  cfg.Meta.Version,
		"Source":   cfg.Universe.Source,
		"Windows":  fmt.Sprintf("momentum %dm / ma %dm", cfg.Signals.MomentumMonths, cfg.Signals.MovingAverageMonths),
		"Wallet":   strconv.Itoa(cfg.Portfolio.WalletSize),
		"Schedule": schedule,
		"Hash":     hash,
	})

	warnings := strategyconfig.Warn(cfg)
	if len(warnings) > 0 {
		items := make([]string, 0, len(warnings))
		for _, w := range warnings {
			items = append(items, fmt.Sprintf("[%s] %s", w.Code, w.Message))
		}
		PrintWarning(strings.Join(items, "\n   "))
	}

	PrintSuccess("Profile is valid")
	return nil
}
