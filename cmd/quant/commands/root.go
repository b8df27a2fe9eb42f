package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Dual momentum stock ranking",
	Long: `Dual momentum stock ranking CLI

모멘텀 + 이동평균 듀얼 팩터 랭킹.
S0 종목 소스 → S1 일봉 다운로드 → S2 시그널 → S3 필터 → S4 랭킹.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant rank --source ibrx100 --wallet 5
  go run ./cmd/quant rank --source sp500 --momentum-days 90 --ma-days 180
  go run ./cmd/quant universe sp100
  go run ./cmd/quant api
  go run ./cmd/quant scheduler start
  go run ./cmd/quant config check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy profile YAML (default is STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
