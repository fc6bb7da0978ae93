// Package tabular wraps encoding/csv behind a narrow header-aware contract
// so source file schemas are checked once, up front, instead of per row.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table holds a parsed tabular file with header-named column access.
type Table struct {
	Columns []string
	rows    [][]string
	index   map[string]int
}

// Read parses the whole file into memory. Column lookups are keyed by the
// trimmed, lowercased header name. Ragged rows are tolerated; missing cells
// read as empty strings.
func Read(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeColumn(name)] = i
	}

	return &Table{
		Columns: header,
		rows:    records[1:],
		index:   index,
	}, nil
}

// Require verifies that every named column is present in the header. It is
// the structural check callers run before touching any row: a missing column
// means the file schema is not the one agreed on.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, col := range columns {
		if _, ok := t.index[normalizeColumn(col)]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return nil
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Get returns the trimmed cell value of the named column in row i, or an
// empty string when the column is absent or the row is short.
func (t *Table) Get(i int, column string) string {
	idx, ok := t.index[normalizeColumn(column)]
	if !ok || i < 0 || i >= len(t.rows) || idx >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][idx])
}

// RowMap returns row i as a column-name → value map using the original
// header names, suitable for decoding into tagged structs.
func (t *Table) RowMap(i int) map[string]string {
	row := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		row[strings.TrimSpace(col)] = t.Get(i, col)
	}
	return row
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Write serializes a header and rows to path. Any failure is returned with
// the destination attached; partial files are possible on error and callers
// treat the write as fatal.
func Write(path string, columns []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		file.Close()
		return fmt.Errorf("write header to %s: %w", path, err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			file.Close()
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}

	return file.Close()
}
