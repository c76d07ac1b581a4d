package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Inbox is the drop directory of a tally home. Statements saved there are
// imported by "tally import-csv" and then archived.
type Inbox struct {
	Dir string
}

// HomeInbox returns the inbox of the tally home at home.
func HomeInbox(home string) Inbox {
	return Inbox{Dir: filepath.Join(home, "import")}
}

// ArchiveDir holds statements that were already imported.
func (in Inbox) ArchiveDir() string {
	return filepath.Join(in.Dir, "processed")
}

// Create makes the inbox and its archive.
func (in Inbox) Create() error {
	if err := os.MkdirAll(in.ArchiveDir(), 0o755); err != nil {
		return fmt.Errorf("creating inbox: %w", err)
	}
	return nil
}

// Pending returns the paths of the CSV files waiting in the inbox, in name
// order. A missing inbox has nothing pending.
func (in Inbox) Pending() ([]string, error) {
	entries, err := os.ReadDir(in.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing inbox: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			paths = append(paths, filepath.Join(in.Dir, e.Name()))
		}
	}
	return paths, nil
}

// Archive moves an imported statement into ArchiveDir, replacing any
// earlier file of the same name.
func (in Inbox) Archive(path string) error {
	if err := in.Create(); err != nil {
		return err
	}
	dst := filepath.Join(in.ArchiveDir(), filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("archiving %s: %w", filepath.Base(path), err)
	}
	return nil
}
