package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// CSVHeader is the header of a transactions CSV export. The first four
// columns are what the generic bank importer reads back.
const CSVHeader = "date,description,amount,category,type,recurring,id"

const (
	numCSVFields = 7
	colDate      = 0
	colDesc      = 1
	colAmount    = 2
	colCategory  = 3
	colType      = 4
	colRecurring = 5
	colID        = 6
)

// WriteCSV writes txs as a spreadsheet-friendly CSV (including header).
// Expenses get a negative amount.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txs {
		if err := cw.Write(MarshalCSVRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCSVRow converts a Transaction to a CSV row.
func MarshalCSVRow(t model.Transaction) []string {
	row := make([]string, numCSVFields)
	row[colDate] = t.Date.String()
	row[colDesc] = t.Description

	amount := t.Amount
	if t.IsExpense() {
		amount = amount.Neg()
	}
	row[colAmount] = amount.StringFixed(2)

	row[colCategory] = t.Category
	row[colType] = string(t.Type)
	if t.IsRecurring {
		row[colRecurring] = "true"
	}
	row[colID] = t.ID
	return row
}
