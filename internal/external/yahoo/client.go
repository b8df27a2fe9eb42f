package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/httputil"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// DefaultBaseURL is the public chart API host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client handles communication with the Yahoo Finance chart API
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

var _ contracts.HistorySource = (*Client)(nil)

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchDailyHistory downloads daily bars for symbol over period (e.g. "1y").
// An unknown symbol or a series without closes is reported as an error so the
// caller can record a fetch failure.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol, period string) ([]contracts.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", contracts.ErrUnknownSymbol)
	}
	if period == "" {
		period = contracts.DefaultPeriod
	}

	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", "1d")
	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		if httputil.IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrUnknownSymbol)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily history")

	return bars, nil
}

// IsUnknownSymbol reports whether err means the vendor rejected the symbol
func IsUnknownSymbol(err error) bool {
	return errors.Is(err, contracts.ErrUnknownSymbol)
}
