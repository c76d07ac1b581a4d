package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// GenericParser reads a plain "date,description,amount[,category]" CSV with
// ISO dates and signed amounts.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := locate(records[0], "date", "description", "amount")
	if err != nil {
		return nil, fmt.Errorf("generic CSV: %w", err)
	}
	catCol := -1
	if c, err := locate(records[0], "category"); err == nil {
		catCol = c[0]
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rec) <= maxIndex(cols) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", i+2, maxIndex(cols)+1, len(rec))
		}

		date, err := model.ParseDate(strings.TrimSpace(rec[cols[0]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[cols[2]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[cols[2]], err)
		}

		txn := model.BankTransaction{
			Date:        date.Time,
			Description: strings.TrimSpace(rec[cols[1]]),
			Amount:      amount,
		}
		if catCol >= 0 && catCol < len(rec) {
			txn.Category = strings.TrimSpace(rec[catCol])
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
