package s0_universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// ibrx100FooterRows are the trailing summary lines (quantity / reducer)
const ibrx100FooterRows = 2

// IBRX100Source reads the B3 IBRX100 theoretical portfolio export.
// The file is latin-1, ';' separated, with a title line, a header line,
// one row per constituent and two footer rows.
type IBRX100Source struct {
	path   string
	logger *logger.Logger
}

// NewIBRX100Source creates a source for the file at path
func NewIBRX100Source(path string, log *logger.Logger) *IBRX100Source {
	return &IBRX100Source{path: path, logger: log}
}

// Name returns the source name
func (s *IBRX100Source) Name() string {
	return SourceIBRX100
}

// Resolve reads the constituent codes
func (s *IBRX100Source) Resolve(ctx context.Context) ([]contracts.Ticker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, s.fail(fmt.Errorf("open IBRX100 file: %w", err))
	}
	defer f.Close()

	tickers, err := ParseIBRX100(f)
	if err != nil {
		return nil, s.fail(fmt.Errorf("parse IBRX100 file %s: %w", s.path, err))
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  s.path,
		"count": len(tickers),
	}).Info("Extracted IBRX100 tickers")

	return tickers, nil
}

func (s *IBRX100Source) fail(err error) error {
	s.logger.WithError(err).WithFields(map[string]interface{}{
		"source": SourceIBRX100,
		"path":   s.path,
	}).Error("Ticker source failed")
	return err
}

// ParseIBRX100 extracts the first field of each constituent row
func ParseIBRX100(r io.Reader) ([]contracts.Ticker, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	// title + header + footer
	if len(rows) < 2+ibrx100FooterRows {
		return nil, fmt.Errorf("unexpected layout: %d lines", len(rows))
	}

	body := rows[2 : len(rows)-ibrx100FooterRows]
	tickers := make([]contracts.Ticker, 0, len(body))
	for _, row := range body {
		if len(row) == 0 {
			continue
		}
		code := strings.TrimSpace(row[0])
		if code == "" {
			continue
		}
		tickers = append(tickers, code)
	}

	return tickers, nil
}
