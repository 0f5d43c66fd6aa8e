// Implements the keyed upsert engine: read, merge by key-tuple, rewrite.

package csvledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// keySep joins key column values into a composite key-tuple. The ASCII unit
// separator does not occur in sane key content (dates, ranks, names).
const keySep = "\x1f"

func keyOf(row Row, keyColumns []string) string {
	vals := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		vals[i] = row[col]
	}
	return strings.Join(vals, keySep)
}

// Upsert merges rows into the CSV file at path, keyed by keyColumns.
//
// The file is read and parsed fresh on every call; a missing or empty file
// starts as an empty document with the supplied header. Rows whose key-tuple
// matches an existing row replace it in place (full replacement, not a
// field-level merge); unmatched rows append at the end in batch order. When
// the batch contains duplicate key-tuples the last one wins. The result is
// rewritten in full, so calling Upsert twice with the same batch yields
// byte-identical output.
//
// If the file already exists its own header governs column order on rewrite.
func Upsert(path string, header []string, keyColumns []string, rows []Row) error {
	if len(keyColumns) == 0 {
		return fmt.Errorf("%w: at least one key column is required", ErrInvalidKey)
	}
	for _, col := range keyColumns {
		if col == "" {
			return fmt.Errorf("%w: empty key column name", ErrInvalidKey)
		}
	}

	existing := []Row{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil && len(data) > 0:
		fileHeader, parsed, perr := Parse(string(data))
		if perr != nil {
			return fmt.Errorf("parse %s: %w", path, perr)
		}
		header = fileHeader
		existing = parsed
	case err == nil || os.IsNotExist(err):
		// Fresh ledger; keep the supplied header.
	default:
		return fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	index := make(map[string]int, len(existing))
	for i, row := range existing {
		index[keyOf(row, keyColumns)] = i
	}
	for _, row := range rows {
		k := keyOf(row, keyColumns)
		if i, ok := index[k]; ok {
			existing[i] = row
		} else {
			index[k] = len(existing)
			existing = append(existing, row)
		}
	}

	return writeFileAtomic(path, []byte(Serialize(header, existing)))
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path, creating parent directories as needed. A crash mid-write leaves the
// previous file intact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp file in %s: %v", ErrIO, dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename over %s: %v", ErrIO, path, err)
	}
	return nil
}
