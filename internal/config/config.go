package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/insights"
)

// FileName is the config file kept in the tally home directory.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Display   DisplayConfig   `yaml:"display"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
}

// StorageConfig selects where the transactions and categories blobs live.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "dir" or "sqlite"
	Path    string `yaml:"path"`    // relative paths resolve against the home directory
}

// DisplayConfig controls CLI rendering.
type DisplayConfig struct {
	CurrencySymbol string `yaml:"currency_symbol"`
}

// DashboardConfig sizes the summary views.
type DashboardConfig struct {
	RecentDays  int `yaml:"recent_days"`
	RecentLimit int `yaml:"recent_limit"`
	TrendMonths int `yaml:"trend_months"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a tally.yaml file from disk. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads <home>/tally.yaml, or returns defaults when it does not exist.
func LoadOrDefault(home string) (*Config, error) {
	cfg, err := Load(filepath.Join(home, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new home directory.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "dir",
			Path:    "data",
		},
		Display: DisplayConfig{
			CurrencySymbol: "$",
		},
		Dashboard: DashboardConfig{
			RecentDays:  insights.DefaultRecentDays,
			RecentLimit: insights.DefaultRecentLimit,
			TrendMonths: insights.DefaultTrendMonths,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// StoragePath resolves the storage path against home.
func (c *Config) StoragePath(home string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(home, c.Storage.Path)
}
