package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/config"
	"github.com/onlystock/stock-momentum/pkg/httputil"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// 2025-06-02 and 2025-06-03, 13:00 UTC (10:00 in Sao Paulo)
const chartOK = `{"chart":{"result":[{
  "meta":{"symbol":"PETR4.SA","currency":"BRL","gmtoffset":-10800},
  "timestamp":[1748869200,1748955600,1749042000],
  "indicators":{"quote":[{
    "open":[30.1,30.5,null],
    "high":[30.9,31.0,null],
    "low":[29.8,30.2,null],
    "close":[30.4,30.8,null],
    "volume":[1000,2000,null]
  }]}
}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newTestClient(baseURL string) *Client {
	log := logger.Nop()
	httpClient := httputil.New(&config.Config{HTTPTimeout: 5 * time.Second}, log)
	return NewClient(httpClient, log, baseURL)
}

func TestParseChart(t *testing.T) {
	bars, err := parseChart([]byte(chartOK))
	require.NoError(t, err)
	require.Len(t, bars, 2, "null close row is dropped")

	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), bars[1].Date)
	assert.Equal(t, 30.4, bars[0].Close)
	assert.Equal(t, 30.1, bars[0].Open)
	assert.Equal(t, int64(2000), bars[1].Volume)
}

func TestParseChart_AdjustedClose(t *testing.T) {
	body := `{"chart":{"result":[{
  "meta":{"gmtoffset":0},
  "timestamp":[1748822400,1748908800],
  "indicators":{
    "quote":[{"open":[100,100],"high":[110,100],"low":[80,100],"close":[100,100],"volume":[1,1]}],
    "adjclose":[{"adjclose":[90,100]}]
  }
}],"error":null}}`

	bars, err := parseChart([]byte(body))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.InDelta(t, 90.0, bars[0].Close, 1e-9)
	assert.InDelta(t, 90.0, bars[0].Open, 1e-9)
	assert.InDelta(t, 99.0, bars[0].High, 1e-9)
	assert.InDelta(t, 72.0, bars[0].Low, 1e-9)
	assert.InDelta(t, 100.0, bars[1].Close, 1e-9)

	momentum := bars[1].Close/bars[0].Close - 1
	assert.InDelta(t, 0.1111, momentum, 1e-4, "momentum follows the adjusted series")
}

func TestParseChart_AdjustedCloseFallback(t *testing.T) {
	body := `{"chart":{"result":[{
  "meta":{"gmtoffset":0},
  "timestamp":[1748822400,1748908800],
  "indicators":{
    "quote":[{"close":[100,100]}],
    "adjclose":[{"adjclose":[null,95]}]
  }
}],"error":null}}`

	bars, err := parseChart([]byte(body))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 100.0, bars[0].Close, "null adjclose keeps the raw close")
	assert.Equal(t, 95.0, bars[1].Close)
}

func TestParseChart_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"not found", chartNotFound, contracts.ErrUnknownSymbol},
		{"empty result", `{"chart":{"result":[],"error":null}}`, contracts.ErrEmptyHistory},
		{"no timestamps", `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{}]}}],"error":null}}`, contracts.ErrEmptyHistory},
		{"all closes null", `{"chart":{"result":[{"meta":{},"timestamp":[1],"indicators":{"quote":[{"close":[null]}]}}],"error":null}}`, contracts.ErrEmptyHistory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseChart([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParseChart_Malformed(t *testing.T) {
	_, err := parseChart([]byte("<html>"))
	assert.Error(t, err)
}

func TestFetchDailyHistory(t *testing.T) {
	var gotPath, gotRange, gotInterval string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartOK))
	}))
	defer server.Close()

	bars, err := newTestClient(server.URL).FetchDailyHistory(context.Background(), "PETR4.SA", "")
	require.NoError(t, err)

	assert.Len(t, bars, 2)
	assert.Equal(t, "/v8/finance/chart/PETR4.SA", gotPath)
	assert.Equal(t, "1y", gotRange)
	assert.Equal(t, "1d", gotInterval)
}

func TestFetchDailyHistory_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(chartNotFound))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchDailyHistory(context.Background(), "NOPE.SA", "1y")
	require.Error(t, err)
	assert.True(t, IsUnknownSymbol(err))
}

func TestFetchDailyHistory_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchDailyHistory(context.Background(), "PETR4.SA", "1y")
	require.Error(t, err)
	assert.False(t, IsUnknownSymbol(err))
}

func TestFetchDailyHistory_EmptySymbol(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:0").FetchDailyHistory(context.Background(), "", "1y")
	assert.True(t, IsUnknownSymbol(err))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(nil, logger.Nop(), "")
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient(nil, logger.Nop(), "http://localhost:9/")
	assert.Equal(t, "http://localhost:9", c.baseURL)
}
