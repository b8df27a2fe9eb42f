package s0_universe

import (
	"strings"

	"github.com/onlystock/stock-momentum/internal/contracts"
)

// B3Suffix is the vendor suffix for Brazilian listings
const B3Suffix = ".SA"

// Transformer maps a source ticker to the history vendor's symbol
type Transformer func(ticker contracts.Ticker) string

// Identity leaves tickers unchanged
func Identity() Transformer {
	return func(ticker contracts.Ticker) string { return ticker }
}

// SuffixTransformer appends an exchange suffix (PETR4 → PETR4.SA)
func SuffixTransformer(suffix string) Transformer {
	return func(ticker contracts.Ticker) string {
		if strings.HasSuffix(ticker, suffix) {
			return ticker
		}
		return ticker + suffix
	}
}

// ShareClassTransformer maps share-class dots to dashes (BRK.B → BRK-B)
func ShareClassTransformer() Transformer {
	return func(ticker contracts.Ticker) string {
		return strings.ReplaceAll(ticker, ".", "-")
	}
}

// Apply transforms tickers into instruments, preserving order.
// Blank and duplicate tickers are dropped.
func Apply(tickers []contracts.Ticker, transform Transformer) []contracts.Instrument {
	if transform == nil {
		transform = Identity()
	}

	seen := make(map[contracts.Ticker]bool, len(tickers))
	out := make([]contracts.Instrument, 0, len(tickers))
	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, contracts.Instrument{Ticker: t, Symbol: transform(t)})
	}
	return out
}
