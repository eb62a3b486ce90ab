package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("person\nbicycle\r\ncar\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, "person", table.Name(0))
	assert.Equal(t, "bicycle", table.Name(1), "CRLF ending must be stripped")
	assert.Equal(t, "car", table.Name(2))
}

func TestLoadMissingFileYieldsEmptyTable(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.NoError(t, err, "missing label file is not fatal")
	assert.Empty(t, table)
}

func TestLoadDropsTrailingBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ndog\n\n\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, table, 2)
}

func TestNameFallback(t *testing.T) {
	table := Table{"person"}

	assert.Equal(t, "person", table.Name(0))
	assert.Equal(t, "class_7", table.Name(7))
	assert.Equal(t, "class_-1", table.Name(-1))

	var empty Table
	assert.Equal(t, "class_0", empty.Name(0))
}
