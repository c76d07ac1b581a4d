package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/insights"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = "tally.db"
	cfg.Display.CurrencySymbol = "€"
	cfg.Dashboard.TrendMonths = 12

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "dir", cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.Path)
	assert.Equal(t, "$", cfg.Display.CurrencySymbol)
	assert.Equal(t, 7, cfg.Dashboard.RecentDays)
	assert.Equal(t, 5, cfg.Dashboard.RecentLimit)
	assert.Equal(t, 6, cfg.Dashboard.TrendMonths)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	assert.Equal(t, insights.DefaultRecentWindow, time.Duration(cfg.Dashboard.RecentDays)*24*time.Hour,
		"the default window matches what the summary command computes")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	home := t.TempDir()

	cfg, err := LoadOrDefault(home)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte("storage:\n  backend: sqlite\n"), 0o644))
	cfg, err = LoadOrDefault(home)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.Path, "unset fields keep their defaults")
	assert.Equal(t, 6, cfg.Dashboard.TrendMonths)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("storage: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestStoragePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/home/u/.tally", "data"), cfg.StoragePath("/home/u/.tally"))

	cfg.Storage.Path = "/var/lib/tally"
	assert.Equal(t, "/var/lib/tally", cfg.StoragePath("/home/u/.tally"))
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: dir")
	assert.Contains(t, contents, "currency_symbol:")
	assert.Contains(t, contents, "recent_days: 7")
	assert.Contains(t, contents, "trend_months: 6")
}
