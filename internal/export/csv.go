// Package export writes a result table as delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"taib-bench/internal/results"
)

// Header is the column layout of every CSV export.
var Header = []string{"test_id", "p1", "p2", "ref", "taib", "delta", "sigma", "aux1", "aux2"}

// WriteCSV writes the header and one record per row in table order. Unset
// optional slots become empty cells.
func WriteCSV(w io.Writer, table *results.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for row := range table.All() {
		if err := cw.Write(record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path, replacing any existing file only
// once the new content is complete.
func WriteCSVFile(path string, table *results.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := WriteCSV(tmp, table); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	ok = true
	return nil
}

func record(row results.Row) []string {
	return []string{
		string(row.TestID),
		formatFloat(row.P1),
		formatOptional(row.P2),
		formatOptional(row.Ref),
		formatFloat(row.TAIB),
		formatOptional(row.Delta),
		formatFloat(row.Sigma),
		formatOptional(row.Aux1),
		formatOptional(row.Aux2),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptional(p *float64) string {
	if v, ok := results.Value(p); ok {
		return formatFloat(v)
	}
	return ""
}
