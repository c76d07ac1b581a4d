// Package importer reads bank statement CSV files into transactions.
package importer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// DefaultCategory files imported rows that carry no category.
const DefaultCategory = "Uncategorized"

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry maps format names to parsers. Lookups ignore case.
type Registry map[string]Parser

// NewRegistry builds a registry over parsers. Two parsers with the same
// format name panic.
func NewRegistry(parsers ...Parser) Registry {
	r := make(Registry, len(parsers))
	for _, p := range parsers {
		name := strings.ToLower(p.Format())
		if _, dup := r[name]; dup {
			panic("importer: format registered twice: " + name)
		}
		r[name] = p
	}
	return r
}

// Builtin returns the parsers tally ships with.
func Builtin() Registry {
	return NewRegistry(&ChaseParser{}, &GenericParser{})
}

// Lookup returns the parser for format, or an error naming the known formats.
func (r Registry) Lookup(format string) (Parser, error) {
	if p, ok := r[strings.ToLower(format)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(r.Formats(), ", "))
}

// Formats lists the registered format names, sorted.
func (r Registry) Formats() []string {
	return slices.Sorted(maps.Keys(r))
}

// ToNewTransactions converts parsed rows into transaction payloads. Rows with
// a zero amount carry no money movement and are skipped.
func ToNewTransactions(rows []model.BankTransaction, category string) []model.NewTransaction {
	if category == "" {
		category = DefaultCategory
	}
	out := make([]model.NewTransaction, 0, len(rows))
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}
		out = append(out, row.ToNewTransaction(category))
	}
	return out
}
