package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

func newTxCommand(opts *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Manage transactions",
	}
	txCmd.AddCommand(
		newTxAddCommand(opts),
		newTxListCommand(opts),
		newTxEditCommand(opts),
		newTxRemoveCommand(opts),
	)
	return txCmd
}

// txFlags are the transaction fields accepted by add and edit.
type txFlags struct {
	amount      string
	description string
	category    string
	typ         string
	date        string
	recurring   bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, always positive (e.g. 12.50)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&f.typ, "type", "t", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "mark as recurring (informational)")
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func newTxAddCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(f.amount)
			if err != nil {
				return err
			}
			date := model.DateOf(opts.now())
			if f.date != "" {
				if date, err = model.ParseDate(f.date); err != nil {
					return err
				}
			}

			n := model.NewTransaction{
				Amount:      amount,
				Description: f.description,
				Category:    f.category,
				Type:        model.TransactionType(f.typ),
				Date:        date,
				IsRecurring: f.recurring,
			}
			if errs := model.ValidateTransaction(n); len(errs) > 0 {
				return fmt.Errorf("invalid transaction: %s", model.JoinErrors(errs))
			}

			return opts.withSession(cmd, func(s *session) error {
				if _, ok := s.tracker.CategoryByName(n.Category); !ok {
					s.log.WithField("category", n.Category).Warn("category does not exist; transaction will not appear in category totals")
				}
				tx, err := s.tracker.AddTransaction(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", tx.Type, report.Money(tx.Amount, s.symbol()), tx.ID)
				return nil
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newTxListCommand(opts *rootOptions) *cobra.Command {
	var q insights.Query
	var typ string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Type = model.TransactionType(typ)
			if q.Type != "" && !q.Type.Valid() {
				return fmt.Errorf("invalid type %q: want income or expense", typ)
			}
			return opts.withSession(cmd, func(s *session) error {
				txs := insights.Filter(s.tracker.Transactions(), q)
				return report.WriteTransactions(cmd.OutOrStdout(), txs, s.symbol())
			})
		},
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "match description or category, case-insensitive")
	cmd.Flags().StringVarP(&q.Category, "category", "c", "", "only this category")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "only income or expense")

	return cmd
}

func newTxEditCommand(opts *rootOptions) *cobra.Command {
	var f txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID := args[0]
			if !id.Valid(txID) {
				return fmt.Errorf("invalid transaction id %q", txID)
			}
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			return opts.withSession(cmd, func(s *session) error {
				current, ok := s.tracker.Transaction(txID)
				if !ok {
					return fmt.Errorf("transaction %s not found", txID)
				}
				updated := patch.Apply(current)
				if errs := model.ValidateTransaction(payloadOf(updated)); len(errs) > 0 {
					return fmt.Errorf("invalid transaction: %s", model.JoinErrors(errs))
				}
				if err := s.tracker.UpdateTransaction(txID, patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", txID)
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

// patch builds a TransactionPatch from the flags the user actually set.
func (f *txFlags) patch(cmd *cobra.Command) (model.TransactionPatch, error) {
	var p model.TransactionPatch
	flags := cmd.Flags()

	if flags.Changed("amount") {
		amount, err := parseAmount(f.amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if flags.Changed("description") {
		p.Description = &f.description
	}
	if flags.Changed("category") {
		p.Category = &f.category
	}
	if flags.Changed("type") {
		typ := model.TransactionType(f.typ)
		p.Type = &typ
	}
	if flags.Changed("date") {
		date, err := model.ParseDate(f.date)
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	if flags.Changed("recurring") {
		p.IsRecurring = &f.recurring
	}
	return p, nil
}

func payloadOf(t model.Transaction) model.NewTransaction {
	return model.NewTransaction{
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date,
		IsRecurring: t.IsRecurring,
	}
}

func newTxRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				for _, txID := range args {
					if _, ok := s.tracker.Transaction(txID); !ok {
						fmt.Fprintf(out, "No transaction %s\n", txID)
						continue
					}
					if err := s.tracker.DeleteTransaction(txID); err != nil {
						return err
					}
					fmt.Fprintf(out, "Deleted transaction %s\n", txID)
				}
				return nil
			})
		},
	}
}
