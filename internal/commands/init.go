package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/store"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var backend string
	var currency string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a tally home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := filepath.Abs(opts.home)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(home, backend, currency); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tally home at %s (%s storage)\n", home, backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "dir", "storage backend (dir or sqlite)")
	cmd.Flags().StringVar(&currency, "currency", "$", "currency symbol used in reports")

	return cmd
}

func runInit(home, backend, currency string) error {
	cfgPath := filepath.Join(home, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if err := importer.HomeInbox(home).Create(); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	if backend == "sqlite" {
		cfg.Storage.Path = store.SQLiteFileName
	}
	cfg.Display.CurrencySymbol = currency

	// Create the storage up front so a bad backend fails here.
	st, err := store.Open(cfg.Storage, home)
	if err != nil {
		return fmt.Errorf("creating storage: %w", err)
	}
	if err := store.Close(st); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
