package s0_universe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/config"
	"github.com/onlystock/stock-momentum/pkg/httputil"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Source names accepted by New
const (
	SourceIBRX100 = "ibrx100"
	SourceSP500   = "sp500"
	SourceSP100   = "sp100"
)

// Universe bundles a ticker source with the transform that maps its codes to
// vendor symbols
type Universe struct {
	Source    contracts.TickerSource
	Transform Transformer
}

// Names returns the supported source names in stable order
func Names() []string {
	names := []string{SourceIBRX100, SourceSP500, SourceSP100}
	sort.Strings(names)
	return names
}

// IsValidName checks if name is a supported source
func IsValidName(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// New builds the universe for a named source
// ⭐ SSOT: 소스 이름 → 구현 매핑은 여기서만
func New(name string, cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) (*Universe, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SourceIBRX100:
		return &Universe{
			Source:    NewIBRX100Source(cfg.Universe.IBRX100Path, log),
			Transform: SuffixTransformer(B3Suffix),
		}, nil
	case SourceSP500:
		return &Universe{
			Source:    NewSP500Source(httpClient, cfg.Universe.SP500URL, log),
			Transform: ShareClassTransformer(),
		}, nil
	case SourceSP100:
		return &Universe{
			Source:    NewSP100Source(httpClient, cfg.Universe.SP100URL, log),
			Transform: ShareClassTransformer(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown universe source %q (valid: %s)", name, strings.Join(Names(), ", "))
	}
}
