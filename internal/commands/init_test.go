package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/config"
)

var testNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

type result struct {
	stdout string
	stderr string
}

// execute runs the command tree in-process against home with a fixed clock.
func execute(t *testing.T, home string, args ...string) (result, error) {
	t.Helper()
	cmd := newRootCommand(func() time.Time { return testNow })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String()}, err
}

func runTally(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	res, err := execute(t, home, args...)
	return res.stdout, err
}

func mustRun(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := runTally(t, home, args...)
	require.NoError(t, err, "tally %v", args)
	return out
}

var createdID = regexp.MustCompile(`\(([^()]+)\)\n$`)

// addTx records a transaction and returns its ID.
func addTx(t *testing.T, home string, args ...string) string {
	t.Helper()
	out := mustRun(t, home, append([]string{"tx", "add"}, args...)...)
	m := createdID.FindStringSubmatch(out)
	require.NotNil(t, m, "no id in %q", out)
	return m[1]
}

func TestInit_CreatesStructure(t *testing.T) {
	home := filepath.Join(t.TempDir(), "tally")
	out := mustRun(t, home, "init")
	assert.Contains(t, out, "Initialized tally home at "+home)

	for _, d := range []string{"import", filepath.Join("import", "processed"), "data"} {
		info, err := os.Stat(filepath.Join(home, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--currency", "€")

	data, err := os.ReadFile(filepath.Join(home, "tally.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "backend: dir")
	assert.Contains(t, contents, "recent_days: 7")
	assert.Contains(t, contents, "trend_months: 6")

	cfg, err := config.Load(filepath.Join(home, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "€", cfg.Display.CurrencySymbol)
}

func TestInit_Twice(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init")

	_, err := runTally(t, home, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_SQLite(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--backend", "sqlite")

	_, err := os.Stat(filepath.Join(home, "tally.db"))
	require.NoError(t, err)

	addTx(t, home, "--amount", "9.99", "-d", "Movie", "-c", "Entertainment")
	out := mustRun(t, home, "tx", "list")
	assert.Contains(t, out, "Movie")
	assert.Contains(t, out, "-$9.99")

	out = mustRun(t, home, "info")
	assert.Contains(t, out, "sqlite")
}

func TestInit_UnknownBackend(t *testing.T) {
	home := t.TempDir()
	_, err := runTally(t, home, "init", "--backend", "cloud")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(home, "tally.yaml"))
	assert.True(t, os.IsNotExist(statErr), "config should not be written")
}

func TestDefaultHome(t *testing.T) {
	t.Setenv(HomeEnv, "/srv/tally")
	assert.Equal(t, "/srv/tally", defaultHome())

	t.Setenv(HomeEnv, "")
	assert.Equal(t, ".tally", filepath.Base(defaultHome()))
}

func TestLogLevelFlag(t *testing.T) {
	home := t.TempDir()
	res, err := execute(t, home, "--log-level", "debug", "tx", "list")
	require.NoError(t, err)
	assert.Contains(t, res.stderr, "hydrated from store")

	res, err = execute(t, home, "tx", "list")
	require.NoError(t, err)
	assert.NotContains(t, res.stderr, "hydrated from store")

	_, err = execute(t, home, "--log-level", "chatty", "tx", "list")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "--version")
	assert.Contains(t, out, "tally version dev (commit: none")
}
