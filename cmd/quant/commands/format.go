package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/brain"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// out is where command output goes (tests swap it)
var out io.Writer = os.Stdout

// PrintHeader prints a titled block of key-value lines
func PrintHeader(title string, keys []string, values map[string]string) {
	fmt.Fprintln(out)
	PrintDoubleSeparator()
	fmt.Fprintf(out, "  %s\n", title)
	PrintSeparator()
	for _, k := range keys {
		fmt.Fprintf(out, "  %-12s: %s\n", k, values[k])
	}
	PrintSeparator()
}

// PrintProgress prints a progress step with counter
// Example: [History] PETR4.SA [3/98]
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Fprintf(out, "[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "⚠️  %s\n", message)
	fmt.Fprintln(out)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(out, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(out, "❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(out, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(out, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(out, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(out, "  ")
		}
	}
	fmt.Fprintln(out)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Fprintf(out, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintReport prints the ranked table followed by the run summary
func PrintReport(result *brain.RunResult, report *audit.Report) {
	fmt.Fprintln(out)
	if len(report.Rows) == 0 {
		PrintWarning(fmt.Sprintf("No ticker passed the filter (status: %s)", result.Status))
	} else {
		widths := []int{4, 10, 10, 12, 12, 10}
		PrintTableHeader([]string{"Rank", "Ticker", "As of", "Price", "MA", "Momentum"}, widths)
		for _, row := range report.Rows {
			PrintTableRow([]string{
				strconv.Itoa(row.Rank),
				row.Ticker,
				row.AsOfDate,
				row.CurrentPrice.StringFixed(2),
				row.MovingAverage.StringFixed(2),
				row.Momentum,
			}, widths)
		}
	}

	s := report.Summary
	if s == nil {
		return
	}

	fmt.Fprintln(out)
	PrintSeparator()
	PrintKeyValue("Run ID", result.RunID, 16)
	PrintKeyValue("Status", string(result.Status), 16)
	PrintKeyValue("Tickers", strconv.Itoa(s.TotalTickers), 16)
	PrintKeyValue("Downloaded", strconv.Itoa(s.Downloaded), 16)
	PrintKeyValue("Total analyzed", strconv.Itoa(s.TotalAnalyzed), 16)
	PrintKeyValue("Above average", strconv.Itoa(s.AboveAverage), 16)
	PrintKeyValue("Selected", strconv.Itoa(s.Selected), 16)
	PrintKeyValue("Avg momentum", s.AverageDisplay, 16)
	PrintKeyValue("Duration", result.Duration.Round(time.Millisecond).String(), 16)

	if len(s.FetchFailures) > 0 {
		PrintKeyValue("Failure rate", audit.FormatPercent(s.FailureRate()), 16)
		fmt.Fprintln(out)
		PrintInfo(fmt.Sprintf("%d ticker(s) could not be downloaded:", len(s.FetchFailures)))
		items := make([]string, 0, len(s.FetchFailures))
		for _, f := range s.FetchFailures {
			items = append(items, fmt.Sprintf("%s (%s): %s", f.Ticker, f.Symbol, f.Reason))
		}
		PrintList(items)
	}
}
