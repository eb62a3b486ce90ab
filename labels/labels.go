// Package labels - Class label tables for model outputs.
package labels

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Table maps class indices to human-readable names. The order is fixed at
// load time and indexed 0..N-1. Tables are read-only after load and safe to
// share across concurrent decoders.
type Table []string

// Load reads a label table from a text resource with one label per line.
// Windows CRLF endings are tolerated. A missing file yields an empty table
// rather than an error so the service can come up without the resource and
// fall back to synthetic labels.
//
// Arguments:
//   - path: Path to the label text file.
//
// Returns:
//   - Table: The loaded table, empty when the file does not exist.
//   - error: A read error for anything other than a missing file.
func Load(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, nil
		}
		return nil, errors.Wrapf(err, "read label file %s", path)
	}

	raw := strings.Split(string(b), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSpace(l))
	}
	// Drop trailing empty lines so the final newline does not shift indexing.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return Table(lines), nil
}

// Name resolves a class index to its label. An out-of-range index is a
// recoverable condition: it yields a synthetic "class_<id>" label, never an
// error.
func (t Table) Name(i int) string {
	if i >= 0 && i < len(t) {
		return t[i]
	}
	return fmt.Sprintf("class_%d", i)
}
