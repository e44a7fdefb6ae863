package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoRecords rejects writing a header-only file. An empty record
// sequence is indistinguishable from "the team had no players", so it
// is surfaced upstream instead of silently persisted.
var ErrNoRecords = errors.New("refusing to write csv with no records")

// utf-8-sig: spreadsheet tools need the BOM to detect Korean text
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Write serializes a header and rows to a CSV file at path, creating
// any missing parent directories. Re-running for the same path
// replaces the file in place, there is no merge or append.
func Write(path string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(header))
		}
	}

	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = f.Write(utf8BOM)
	if err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	err = w.Write(header)
	if err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		err = w.Write(row)
		if err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
