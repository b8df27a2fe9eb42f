package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/onlystock/stock-momentum/internal/s0_universe"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe [source]",
	Short: "종목 소스 조회",
	Long: `종목 소스를 해석하고 다운로드에 사용할 심볼 목록을 출력합니다.

Sources: ` + strings.Join(s0_universe.Names(), ", ") + `

Example:
  go run ./cmd/quant universe
  go run ./cmd/quant universe sp500 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUniverse,
}

var universeJSON bool

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.Flags().BoolVar(&universeJSON, "json", false, "print instruments as JSON")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		profile, _, err := a.profile()
		if err != nil {
			return err
		}
		name = profile.Universe.Source
	}

	universe, err := a.universe(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	instruments, err := a.orchestrator.ResolveUniverse(ctx, universe)
	if err != nil {
		return err
	}

	if universeJSON {
		return PrintJSON(instruments)
	}

	if len(instruments) == 0 {
		PrintWarning(fmt.Sprintf("%s returned no tickers", name))
		return nil
	}

	widths := []int{5, 10, 12}
	PrintTableHeader([]string{"#", "Ticker", "Symbol"}, widths)
	for i, inst := range instruments {
		PrintTableRow([]string{fmt.Sprintf("%d", i+1), inst.Ticker, inst.Symbol}, widths)
	}
	fmt.Fprintln(out)
	PrintSuccess(fmt.Sprintf("%s: %d tickers", name, len(instruments)))

	return nil
}
