package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/report"
)

func newImportCSVCommand(opts *rootOptions) *cobra.Command {
	var format string
	var category string

	cmd := &cobra.Command{
		Use:   "import-csv [file...]",
		Short: "Add transactions from bank statement CSV files",
		Long: "Add transactions from bank statement CSV files. Negative amounts become\n" +
			"expenses and positive amounts income. With no files, every CSV in\n" +
			"<home>/import is imported and then moved to <home>/import/processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := importer.Builtin().Lookup(format)
			if err != nil {
				return err
			}

			return opts.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()

				if len(args) > 0 {
					for _, path := range args {
						if err := importCSV(cmd, s, parser, path, category); err != nil {
							return err
						}
					}
					return nil
				}

				inbox := importer.HomeInbox(s.home)
				pending, err := inbox.Pending()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintf(out, "No CSV files in %s\n", inbox.Dir)
					return nil
				}
				for _, path := range pending {
					if err := importCSV(cmd, s, parser, path, category); err != nil {
						return err
					}
					if err := inbox.Archive(path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "chase", "CSV layout (chase or generic)")
	cmd.Flags().StringVarP(&category, "category", "c", importer.DefaultCategory, "category for rows that carry none")

	return cmd
}

func importCSV(cmd *cobra.Command, s *session, parser importer.Parser, path, category string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	added := 0
	for _, n := range importer.ToNewTransactions(rows, category) {
		if _, err := s.tracker.AddTransaction(n); err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		added++
	}

	s.log.WithFields(logrus.Fields{
		"file":   path,
		"format": parser.Format(),
		"rows":   len(rows),
		"added":  added,
	}).Info("bank statement imported")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s from %s\n", report.Plural(added, "transaction"), filepath.Base(path))
	return nil
}
