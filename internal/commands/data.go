package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/backup"
	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/report"
	"github.com/tally-dev/tally/internal/tracker"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions and categories to a JSON backup",
		Long: "Write all transactions and categories to a JSON backup that import can\n" +
			"restore. With --format csv only transactions are written, as a\n" +
			"spreadsheet that import-csv --format generic can read back.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, *session, time.Time) error
			switch format {
			case "json":
				write = func(w io.Writer, s *session, now time.Time) error {
					return backup.Export(w, s.tracker, now)
				}
			case "csv":
				write = func(w io.Writer, s *session, _ time.Time) error {
					return backup.WriteCSV(w, s.tracker.Transactions())
				}
			default:
				return fmt.Errorf("unknown export format %q: want json or csv", format)
			}

			return opts.withSession(cmd, func(s *session) error {
				now := opts.now()
				if output == "-" {
					return write(cmd.OutOrStdout(), s, now)
				}

				path := output
				if path == "" {
					path = strings.TrimSuffix(backup.FileName(now), ".json") + "." + format
				}
				if err := writeFile(path, func(w io.Writer) error { return write(w, s, now) }); err != nil {
					return err
				}
				u, err := s.tracker.Usage()
				if err != nil {
					return err
				}
				if format == "csv" {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", report.Plural(u.Transactions, "transaction"), path)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s and %s to %s\n",
					report.Plural(u.Transactions, "transaction"), report.Plural(u.Categories, "category"), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default expense-tracker-backup-<date>.<format>)")
	cmd.Flags().StringVar(&format, "format", "json", "json (full backup) or csv (transactions only)")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the contents of a JSON backup",
		Long: "Replace all transactions and categories with those in a backup file.\n" +
			"The file must contain both a transactions and a categories array;\n" +
			"otherwise nothing is changed. Use - to read from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(cmd, func(s *session) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("opening backup: %w", err)
					}
					defer f.Close()
					r = f
				}

				if err := backup.Import(r, s.store); err != nil {
					if errors.Is(err, backup.ErrInvalidFormat) || errors.Is(err, backup.ErrInvalidJSON) {
						return fmt.Errorf("%s: %w", args[0], err)
					}
					return err
				}
				if err := s.hydrate(); err != nil {
					return fmt.Errorf("reloading imported data: %w", err)
				}

				u, err := s.tracker.Usage()
				if err != nil {
					return err
				}
				s.log.WithField("file", args[0]).Info("backup imported")
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s and %s\n",
					report.Plural(u.Transactions, "transaction"), report.Plural(u.Categories, "category"))
				return nil
			})
		},
	}
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all transactions and restore the default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("this deletes every transaction and category; pass --yes to confirm")
			}
			return opts.withStore(cmd, func(s *session) error {
				if err := tracker.Clear(s.store); err != nil {
					return err
				}
				s.log.Info("all data cleared")
				fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all data")
	return cmd
}

func newInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show version, storage location and data size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				u, err := s.tracker.Usage()
				if err != nil {
					return err
				}

				backend := s.cfg.Storage.Backend
				if backend == "" {
					backend = "dir"
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Version\t%s\n", buildinfo.String())
				fmt.Fprintf(tw, "Home\t%s\n", s.home)
				fmt.Fprintf(tw, "Storage\t%s (%s)\n", backend, s.cfg.StoragePath(s.home))
				fmt.Fprintf(tw, "Transactions\t%d\n", u.Transactions)
				fmt.Fprintf(tw, "Categories\t%d\n", u.Categories)
				fmt.Fprintf(tw, "Data size\t%s\n", report.Bytes(u.Bytes))
				return tw.Flush()
			})
		},
	}
}
