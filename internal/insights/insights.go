// Package insights derives dashboard figures from the transaction and
// category collections. Every function is pure: the same inputs (including
// the reference time) give the same result.
package insights

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Dashboard defaults. config.Default uses them for a new tally.yaml.
const (
	DefaultRecentDays   = 7
	DefaultRecentWindow = DefaultRecentDays * 24 * time.Hour
	DefaultRecentLimit  = 5
	DefaultTrendMonths  = 6

	// trendStepDays is the fixed step between trend buckets. It only
	// approximates a calendar month, so a bucket can be skipped or repeated.
	trendStepDays = 30
)

// Summary holds the headline totals.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// Healthy reports whether the balance is not negative.
func (s Summary) Healthy() bool {
	return !s.Balance.IsNegative()
}

// Summarize computes income, expenses and balance in one pass.
func Summarize(txs []model.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case model.TypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.TypeExpense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// TotalIncome sums the amounts of income transactions.
func TotalIncome(txs []model.Transaction) decimal.Decimal {
	return sumWhere(txs, func(t model.Transaction) bool { return t.IsIncome() })
}

// TotalExpenses sums the amounts of expense transactions.
func TotalExpenses(txs []model.Transaction) decimal.Decimal {
	return sumWhere(txs, func(t model.Transaction) bool { return t.IsExpense() })
}

// Balance is total income minus total expenses.
func Balance(txs []model.Transaction) decimal.Decimal {
	return TotalIncome(txs).Sub(TotalExpenses(txs))
}

// SpentIn sums the expenses filed under the category name.
func SpentIn(txs []model.Transaction, category string) decimal.Decimal {
	return sumWhere(txs, func(t model.Transaction) bool {
		return t.IsExpense() && t.Category == category
	})
}

func sumWhere(txs []model.Transaction, keep func(model.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if keep(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// CategoryStat is the usage of one category.
type CategoryStat struct {
	Category model.Category
	Count    int             // transactions of any type naming the category
	Spent    decimal.Decimal // expense total
}

// CategoryStats returns one stat per category, in category order.
// Transactions naming a category that no longer exists are not counted
// anywhere.
func CategoryStats(txs []model.Transaction, cats []model.Category) []CategoryStat {
	byName := make(map[string]*CategoryStat, len(cats))
	stats := make([]CategoryStat, len(cats))
	for i, c := range cats {
		stats[i] = CategoryStat{Category: c, Spent: decimal.Zero}
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = &stats[i]
		}
	}

	for _, t := range txs {
		st, ok := byName[t.Category]
		if !ok {
			continue
		}
		st.Count++
		if t.IsExpense() {
			st.Spent = st.Spent.Add(t.Amount)
		}
	}

	// Categories sharing a name report the same figures.
	for i := range stats {
		first := byName[stats[i].Category.Name]
		stats[i].Count = first.Count
		stats[i].Spent = first.Spent
	}
	return stats
}

// SpendingByCategory is CategoryStats restricted to categories with spending.
func SpendingByCategory(txs []model.Transaction, cats []model.Category) []CategoryStat {
	var out []CategoryStat
	for _, st := range CategoryStats(txs, cats) {
		if st.Spent.IsPositive() {
			out = append(out, st)
		}
	}
	return out
}

// Orphans returns the transactions whose category name matches no category.
func Orphans(txs []model.Transaction, cats []model.Category) []model.Transaction {
	names := make(map[string]bool, len(cats))
	for _, c := range cats {
		names[c.Name] = true
	}
	var out []model.Transaction
	for _, t := range txs {
		if !names[t.Category] {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns up to limit transactions dated strictly after now-window,
// in collection order. A limit <= 0 means no limit.
func Recent(txs []model.Transaction, now time.Time, window time.Duration, limit int) []model.Transaction {
	cutoff := now.Add(-window)
	var out []model.Transaction
	for _, t := range txs {
		if limit > 0 && len(out) == limit {
			break
		}
		if t.Date.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// MonthBucket is one point of the monthly trend.
type MonthBucket struct {
	Label    string // "Jan"
	Year     int
	Month    time.Month
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// MonthlyTrend buckets income and expenses by calendar month for the months
// containing now, now-30d, now-60d, ... (months buckets), oldest first.
func MonthlyTrend(txs []model.Transaction, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		return nil
	}
	buckets := make([]MonthBucket, months)
	for i := 0; i < months; i++ {
		ref := model.DateOf(now.AddDate(0, 0, -trendStepDays*i))
		b := MonthBucket{
			Label:    ref.Format("Jan"),
			Year:     ref.Year(),
			Month:    ref.Month(),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		for _, t := range txs {
			if !t.Date.SameMonth(ref) {
				continue
			}
			switch t.Type {
			case model.TypeIncome:
				b.Income = b.Income.Add(t.Amount)
			case model.TypeExpense:
				b.Expenses = b.Expenses.Add(t.Amount)
			}
		}
		buckets[months-1-i] = b
	}
	return buckets
}

// Query selects transactions for listing. Zero fields match everything.
type Query struct {
	Search   string // case-insensitive substring of description or category
	Category string // exact category name
	Type     model.TransactionType
}

// Filter returns the transactions matching q, in collection order.
func Filter(txs []model.Transaction, q Query) []model.Transaction {
	search := strings.ToLower(q.Search)
	var out []model.Transaction
	for _, t := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		out = append(out, t)
	}
	return out
}
