package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/model"
)

// Dashboard is everything the summary screen shows.
type Dashboard struct {
	Now      time.Time
	Summary  insights.Summary
	Trend    []insights.MonthBucket
	Spending []insights.CategoryStat
	Recent   []model.Transaction
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteDashboard renders d.
func WriteDashboard(w io.Writer, d Dashboard, symbol string) error {
	status := "Healthy balance"
	if !d.Summary.Healthy() {
		status = "Budget deficit"
	}

	fmt.Fprintln(w, d.Now.Format("Monday, January 2, 2006"))
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintf(tw, "Total income\t%s\n", Money(d.Summary.Income, symbol))
	fmt.Fprintf(tw, "Total expenses\t%s\n", Money(d.Summary.Expenses, symbol))
	fmt.Fprintf(tw, "Balance\t%s\t%s\n", Money(d.Summary.Balance, symbol), status)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Monthly trend")
	tw = newTable(w)
	fmt.Fprintln(tw, "  MONTH\tINCOME\tEXPENSES")
	for _, b := range d.Trend {
		fmt.Fprintf(tw, "  %s %d\t%s\t%s\n", b.Label, b.Year, Money(b.Income, symbol), Money(b.Expenses, symbol))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Spending by category")
	if len(d.Spending) == 0 {
		fmt.Fprintln(w, "  No expense data available")
	} else {
		total := d.Summary.Expenses
		tw = newTable(w)
		for _, s := range d.Spending {
			share := "-"
			if total.IsPositive() {
				share = s.Spent.Div(total).Shift(2).StringFixed(0) + "%"
			}
			fmt.Fprintf(tw, "  %s %s\t%s\t%s\n", s.Category.Icon, s.Category.Name, Money(s.Spent, symbol), share)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent transactions")
	if len(d.Recent) == 0 {
		fmt.Fprintln(w, "  No recent transactions")
		return nil
	}
	tw = newTable(w)
	for _, t := range d.Recent {
		fmt.Fprintf(tw, "  %s\t%s • %s\t%s\n", t.Description, t.Category, t.Date.Format("Jan 2"), SignedMoney(t, symbol))
	}
	return tw.Flush()
}

// WriteTransactions renders a transaction list.
func WriteTransactions(w io.Writer, txs []model.Transaction, symbol string) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "No transactions found")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\tRECURRING")
	for _, t := range txs {
		recurring := ""
		if t.IsRecurring {
			recurring = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Type, SignedMoney(t, symbol), t.Category, t.Description, recurring)
	}
	return tw.Flush()
}

// WriteCategories renders categories with their usage.
func WriteCategories(w io.Writer, stats []insights.CategoryStat, symbol string) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No categories yet")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tICON\tNAME\tCOLOR\tUSAGE\tSPENT")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Category.ID, s.Category.Icon, s.Category.Name, s.Category.Color,
			Plural(s.Count, "transaction"), Money(s.Spent, symbol))
	}
	return tw.Flush()
}
