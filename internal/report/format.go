// Package report renders tally data as plain text for the terminal.
package report

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Money formats d with two decimals, thousands separators and the currency
// symbol: "$1,234.50", "-$12.00".
func Money(d decimal.Decimal, symbol string) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n, ok := new(big.Int).SetString(intPart, 10)
	if ok {
		intPart = humanize.BigComma(n)
	}

	sign := ""
	if d.IsNegative() && fixed != "0.00" {
		sign = "-"
	}
	return sign + symbol + intPart + "." + frac
}

// SignedMoney prefixes the amount with + for income and - for expenses.
func SignedMoney(t model.Transaction, symbol string) string {
	if t.IsIncome() {
		return "+" + Money(t.Amount, symbol)
	}
	return "-" + Money(t.Amount, symbol)
}

// Bytes formats a data size in IEC units ("1.2 KiB").
func Bytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Plural returns "1 transaction" or "3 transactions". Nouns ending in "y"
// take "ies".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if stem, ok := strings.CutSuffix(noun, "y"); ok {
		noun = stem + "ie"
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
