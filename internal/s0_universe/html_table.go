package s0_universe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/httputil"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Default index pages
const (
	DefaultSP500URL = "https://www.slickcharts.com/sp500"
	DefaultSP100URL = "https://en.wikipedia.org/w/index.php?title=S%26P_100&oldid=1260310089"
)

// symbolHeader is the column holding the ticker in both index pages
const symbolHeader = "Symbol"

// TableSource scrapes tickers from the first HTML table whose header row has
// a Symbol column
type TableSource struct {
	name       string
	url        string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewSP500Source creates the slickcharts S&P 500 source
func NewSP500Source(httpClient *httputil.Client, url string, log *logger.Logger) *TableSource {
	if url == "" {
		url = DefaultSP500URL
	}
	return &TableSource{name: SourceSP500, url: url, httpClient: httpClient, logger: log}
}

// NewSP100Source creates the S&P 100 source pinned to a Wikipedia revision
func NewSP100Source(httpClient *httputil.Client, url string, log *logger.Logger) *TableSource {
	if url == "" {
		url = DefaultSP100URL
	}
	return &TableSource{name: SourceSP100, url: url, httpClient: httpClient, logger: log}
}

// Name returns the source name
func (s *TableSource) Name() string {
	return s.name
}

// Resolve downloads the page and extracts the Symbol column
func (s *TableSource) Resolve(ctx context.Context) ([]contracts.Ticker, error) {
	body, err := s.httpClient.GetBody(ctx, s.url)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch %s page: %w", s.name, err))
	}

	tickers, err := ParseSymbolTable(body)
	if err != nil {
		return nil, s.fail(fmt.Errorf("parse %s page: %w", s.name, err))
	}

	s.logger.WithFields(map[string]interface{}{
		"source": s.name,
		"count":  len(tickers),
	}).Info("Extracted index tickers")

	return tickers, nil
}

func (s *TableSource) fail(err error) error {
	s.logger.WithError(err).WithFields(map[string]interface{}{
		"source": s.name,
		"url":    s.url,
	}).Error("Ticker source failed")
	return err
}

// ParseSymbolTable returns the Symbol column of the first matching table
func ParseSymbolTable(html []byte) ([]contracts.Ticker, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var (
		tickers []contracts.Ticker
		found   bool
	)

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := symbolColumn(table)
		if col < 0 {
			return true
		}
		found = true

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= col {
				return
			}
			symbol := strings.TrimSpace(cells.Eq(col).Text())
			if symbol != "" {
				tickers = append(tickers, symbol)
			}
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no table with a %q column", symbolHeader)
	}
	return tickers, nil
}

// symbolColumn returns the index of the Symbol header cell, or -1
func symbolColumn(table *goquery.Selection) int {
	col := -1
	table.Find("tr").First().Find("th, td").EachWithBreak(func(i int, cell *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(cell.Text()), symbolHeader) {
			col = i
			return false
		}
		return true
	})
	return col
}
