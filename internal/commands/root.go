package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/logging"
	"github.com/tally-dev/tally/internal/store"
	"github.com/tally-dev/tally/internal/tracker"
)

// HomeEnv names the environment variable that overrides the default home.
const HomeEnv = "TALLY_HOME"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	home     string
	logLevel string
	now      func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	opts := &rootOptions{now: now}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal income and expense tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", defaultHome(), "tally home directory (env "+HomeEnv+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides tally.yaml (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newTxCommand(opts),
		newCategoryCommand(opts),
		newSummaryCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newImportCSVCommand(opts),
		newClearCommand(opts),
		newInfoCommand(opts),
	)

	return rootCmd
}

func defaultHome() string {
	if h := os.Getenv(HomeEnv); h != "" {
		return h
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".tally")
	}
	return ".tally"
}

// session is an opened tally home.
type session struct {
	home    string
	cfg     *config.Config
	log     *logrus.Logger
	store   store.Store
	tracker *tracker.Tracker
}

// openStore loads the config, builds the logger and opens the store. The
// tracker is left nil until hydrate. Callers must Close the session.
func (o *rootOptions) openStore(cmd *cobra.Command) (*session, error) {
	home, err := filepath.Abs(o.home)
	if err != nil {
		return nil, fmt.Errorf("resolving home: %w", err)
	}

	cfg, err := config.LoadOrDefault(home)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Storage, home)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"home":    home,
		"backend": cfg.Storage.Backend,
	}).Debug("store opened")

	return &session{home: home, cfg: cfg, log: logger, store: st}, nil
}

// hydrate builds the tracker from what the store holds.
func (s *session) hydrate() error {
	tr, err := tracker.Open(s.store, tracker.WithLogger(s.log))
	if err != nil {
		return err
	}
	s.tracker = tr
	return nil
}

// Close releases the store.
func (s *session) Close() error {
	return store.Close(s.store)
}

// symbol is the configured currency symbol.
func (s *session) symbol() string {
	return s.cfg.Display.CurrencySymbol
}

// withStore opens the home without reading the collections, runs fn and
// closes the home again. Commands that replace the data use it so a blob the
// tracker cannot decode never blocks them.
func (o *rootOptions) withStore(cmd *cobra.Command, fn func(*session) error) error {
	s, err := o.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// withSession is withStore with the tracker hydrated.
func (o *rootOptions) withSession(cmd *cobra.Command, fn func(*session) error) error {
	return o.withStore(cmd, func(s *session) error {
		if err := s.hydrate(); err != nil {
			return err
		}
		return fn(s)
	})
}
