package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/report"
)

func newCategoryCommand(opts *rootOptions) *cobra.Command {
	catCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	catCmd.AddCommand(
		newCategoryAddCommand(opts),
		newCategoryListCommand(opts),
		newCategoryEditCommand(opts),
		newCategoryRemoveCommand(opts),
	)
	return catCmd
}

// usageOf counts the transactions filed under name.
func usageOf(s *session, name string) int {
	n := 0
	for _, t := range s.tracker.Transactions() {
		if t.Category == name {
			n++
		}
	}
	return n
}

func newCategoryAddCommand(opts *rootOptions) *cobra.Command {
	var n model.NewCategory

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n.Name = args[0]
			if errs := model.ValidateCategory(n); len(errs) > 0 {
				return fmt.Errorf("invalid category: %s", model.JoinErrors(errs))
			}
			return opts.withSession(cmd, func(s *session) error {
				if _, ok := s.tracker.CategoryByName(n.Name); ok {
					s.log.WithField("name", n.Name).Warn("a category with this name already exists; both will share totals")
				}
				c, err := s.tracker.AddCategory(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %s (%s)\n", c.Icon, c.Name, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&n.Color, "color", "#95A5A6", "display color as #RRGGBB")
	cmd.Flags().StringVar(&n.Icon, "icon", "📁", "display icon")

	return cmd
}

func newCategoryListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories with usage and spending",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				txs := s.tracker.Transactions()
				cats := s.tracker.Categories()

				out := cmd.OutOrStdout()
				if err := report.WriteCategories(out, insights.CategoryStats(txs, cats), s.symbol()); err != nil {
					return err
				}
				if orphans := insights.Orphans(txs, cats); len(orphans) > 0 {
					fmt.Fprintf(out, "\n%s filed under a missing category\n", report.Plural(len(orphans), "transaction"))
				}
				return nil
			})
		},
	}
}

func newCategoryEditCommand(opts *rootOptions) *cobra.Command {
	var name, color, icon string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a category's name, color or icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catID := args[0]

			var patch model.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = &icon
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to change: pass --name, --color or --icon")
			}

			return opts.withSession(cmd, func(s *session) error {
				current, ok := s.tracker.Category(catID)
				if !ok {
					return fmt.Errorf("category %s not found", catID)
				}
				updated := patch.Apply(current)
				if errs := model.ValidateCategory(model.NewCategory{Name: updated.Name, Color: updated.Color, Icon: updated.Icon}); len(errs) > 0 {
					return fmt.Errorf("invalid category: %s", model.JoinErrors(errs))
				}
				if err := s.tracker.UpdateCategory(catID, patch); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Updated category %s\n", catID)
				if updated.Name != current.Name {
					if n := usageOf(s, current.Name); n > 0 {
						fmt.Fprintf(out, "%s still filed under %q\n", report.Plural(n, "transaction"), current.Name)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name (transactions keep the old one)")
	cmd.Flags().StringVar(&color, "color", "", "new color as #RRGGBB")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon")

	return cmd
}

func newCategoryRemoveCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a category",
		Long: "Delete a category. Transactions filed under it keep the category name\n" +
			"and stop counting towards any category total.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catID := args[0]
			return opts.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				c, ok := s.tracker.Category(catID)
				if !ok {
					fmt.Fprintf(out, "No category %s\n", catID)
					return nil
				}
				if n := usageOf(s, c.Name); n > 0 && !yes {
					return fmt.Errorf("category %q is used by %s; pass --yes to delete it anyway", c.Name, report.Plural(n, "transaction"))
				}
				if err := s.tracker.DeleteCategory(catID); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted category %s\n", c.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete even if transactions use the category")
	return cmd
}
