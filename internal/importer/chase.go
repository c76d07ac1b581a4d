package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ChaseParser parses Chase checking account CSV exports.
type ChaseParser struct{}

const chaseDateFormat = "01/02/2006"

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns BankTransactions. Columns are located
// by header name, so column order does not matter.
func (p *ChaseParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Chase pads some rows with a trailing comma

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := locate(records[0], "Posting Date", "Description", "Amount", "Type")
	if err != nil {
		return nil, fmt.Errorf("chase CSV: %w", err)
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		txn, err := parseChaseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseChaseRow(rec []string, cols []int) (model.BankTransaction, error) {
	if len(rec) <= maxIndex(cols) {
		return model.BankTransaction{}, fmt.Errorf("expected at least %d fields, got %d", maxIndex(cols)+1, len(rec))
	}

	date, err := time.Parse(chaseDateFormat, strings.TrimSpace(rec[cols[0]]))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[cols[0]], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[cols[2]]))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", rec[cols[2]], err)
	}

	return model.BankTransaction{
		Date:        date,
		Description: strings.TrimSpace(rec[cols[1]]),
		Amount:      amount,
		Type:        strings.TrimSpace(rec[cols[3]]),
	}, nil
}

// locate returns the index of each named header column, case-insensitively.
func locate(header []string, names ...string) ([]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, len(names))
	for i, name := range names {
		c, ok := idx[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("missing %q column", name)
		}
		cols[i] = c
	}
	return cols, nil
}

func maxIndex(cols []int) int {
	m := 0
	for _, c := range cols {
		m = max(m, c)
	}
	return m
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
