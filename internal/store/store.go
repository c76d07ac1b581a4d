// Package store persists named JSON blobs in a local key-value store.
//
// A Store knows nothing about what the blobs contain; serialization of the
// collections happens in the tracker.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/tally-dev/tally/internal/config"
)

// Keys of the two collections.
const (
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
)

// SQLiteFileName is the database file used when the configured sqlite path
// names a directory.
const SQLiteFileName = "tally.db"

var (
	// ErrUnknownBackend is returned by Open for an unsupported storage backend.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrInvalidKey is returned for keys that cannot be stored.
	ErrInvalidKey = errors.New("invalid key")
)

// Store reads and writes whole values by key.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set replaces the value stored under key.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Closer is implemented by stores that hold resources.
type Closer interface {
	Close() error
}

// Close releases st if it holds resources.
func Close(st Store) error {
	if c, ok := st.(Closer); ok {
		return c.Close()
	}
	return nil
}

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the store selected by cfg, rooted at home.
func Open(cfg config.StorageConfig, home string) (Store, error) {
	path := cfg.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}

	switch cfg.Backend {
	case "", "dir":
		return NewDir(path)
	case "sqlite":
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, SQLiteFileName)
		}
		return NewSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
