package yahoo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/onlystock/stock-momentum/internal/contracts"
)

// chartResponse mirrors the subset of /v8/finance/chart used here
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int    `json:"gmtoffset"` // seconds east of UTC
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// parseChart converts a chart payload into bars.
// Rows whose close is null are dropped. Each bar is dated at midnight UTC of
// the exchange-local trading day. When adjclose is present the bar carries
// the dividend and split adjusted close, with open/high/low scaled by the
// same factor; otherwise the raw close is kept.
func parseChart(body []byte) ([]contracts.Bar, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%s: %w", resp.Chart.Error.Description, contracts.ErrUnknownSymbol)
		}
		return nil, fmt.Errorf("chart API error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, contracts.ErrEmptyHistory
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, contracts.ErrEmptyHistory
	}
	quote := result.Indicators.Quote[0]

	var adjusted []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjusted = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice, ok := at(quote.Close, i)
		if !ok {
			continue
		}

		bar := contracts.Bar{
			Date:  tradingDay(ts, result.Meta.GMTOffset),
			Close: closePrice,
		}
		bar.Open, _ = at(quote.Open, i)
		bar.High, _ = at(quote.High, i)
		bar.Low, _ = at(quote.Low, i)
		if adj, ok := at(adjusted, i); ok && closePrice != 0 {
			factor := adj / closePrice
			bar.Close = adj
			bar.Open *= factor
			bar.High *= factor
			bar.Low *= factor
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, contracts.ErrEmptyHistory
	}

	return bars, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

// tradingDay maps a unix timestamp to the exchange-local calendar day at 00:00 UTC
func tradingDay(ts int64, gmtOffset int) time.Time {
	local := time.Unix(ts+int64(gmtOffset), 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
