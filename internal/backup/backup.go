// Package backup writes and restores the single-file JSON backup of a
// tally home.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Version is written into every exported document.
const Version = "1.0"

var (
	// ErrInvalidJSON is returned when an import file is not JSON.
	ErrInvalidJSON = errors.New("invalid JSON file")
	// ErrInvalidFormat is returned when an import document lacks the
	// transactions or categories array.
	ErrInvalidFormat = errors.New("invalid file format")
)

// Document is the exported file.
type Document struct {
	Transactions []model.Transaction `json:"transactions"`
	Categories   []model.Category    `json:"categories"`
	ExportDate   time.Time           `json:"exportDate"`
	Version      string              `json:"version"`
}

// Source is what Export reads from. *tracker.Tracker satisfies it.
type Source interface {
	Transactions() []model.Transaction
	Categories() []model.Category
}

// FileName is the suggested name of a backup taken at now.
func FileName(now time.Time) string {
	return "expense-tracker-backup-" + now.UTC().Format(model.DateFormat) + ".json"
}

// Export writes src as an indented backup document stamped with now.
func Export(w io.Writer, src Source, now time.Time) error {
	doc := Document{
		Transactions: src.Transactions(),
		Categories:   src.Categories(),
		ExportDate:   now.UTC().Truncate(time.Millisecond),
		Version:      Version,
	}
	if doc.Transactions == nil {
		doc.Transactions = []model.Transaction{}
	}
	if doc.Categories == nil {
		doc.Categories = []model.Category{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// rawDocument keeps the arrays exactly as they appear in the file.
type rawDocument struct {
	Transactions json.RawMessage `json:"transactions"`
	Categories   json.RawMessage `json:"categories"`
}

// Import overwrites the transactions and categories keys of st with the
// arrays in the document read from r. Records are stored verbatim, without
// validation or merging. A document that is not JSON, lacks either array, or
// holds records that do not decode as transactions and categories changes
// nothing.
//
// Callers holding a tracker over st must Reload it afterwards.
func Import(r io.Reader, st store.Store) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: document is not an object", ErrInvalidFormat)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !isArray(doc.Transactions) {
		return fmt.Errorf("%w: missing transactions array", ErrInvalidFormat)
	}
	if !isArray(doc.Categories) {
		return fmt.Errorf("%w: missing categories array", ErrInvalidFormat)
	}
	// The tracker must be able to hydrate whatever is written.
	if err := json.Unmarshal(doc.Transactions, new([]model.Transaction)); err != nil {
		return fmt.Errorf("%w: transactions: %v", ErrInvalidFormat, err)
	}
	if err := json.Unmarshal(doc.Categories, new([]model.Category)); err != nil {
		return fmt.Errorf("%w: categories: %v", ErrInvalidFormat, err)
	}

	prev, hadPrev, err := st.Get(store.KeyTransactions)
	if err != nil {
		return fmt.Errorf("reading current transactions: %w", err)
	}
	if err := st.Set(store.KeyTransactions, compact(doc.Transactions)); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	if err := st.Set(store.KeyCategories, compact(doc.Categories)); err != nil {
		restore(st, prev, hadPrev)
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}

func restore(st store.Store, prev []byte, hadPrev bool) {
	if hadPrev {
		_ = st.Set(store.KeyTransactions, prev)
		return
	}
	_ = st.Delete(store.KeyTransactions)
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// compact drops the indentation of an exported array.
func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
