package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	assert.Equal(t, "dev (commit: none, built: unknown)", String())

	Version, Commit, Date = "v1.2.0", "abc1234", "2025-06-01"
	assert.Equal(t, "v1.2.0 (commit: abc1234, built: 2025-06-01)", String())
}
