package dbprocessor

import (
	"database/sql"
	"fmt"
)

// DataSet holds every result set returned by a read query.
type DataSet struct {
	Tables []*DataTable
}

// DataTable is one materialised result set.
type DataTable struct {
	Columns []string
	Rows    [][]any
}

// HasRows reports whether any result set has at least one row.
func (d *DataSet) HasRows() bool {
	for _, t := range d.Tables {
		if len(t.Rows) > 0 {
			return true
		}
	}
	return false
}

// Table returns the i-th result set, or nil when there is none.
func (d *DataSet) Table(i int) *DataTable {
	if i < 0 || i >= len(d.Tables) {
		return nil
	}
	return d.Tables[i]
}

// ColumnIndex returns the position of the named column, or -1.
func (t *DataTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the value of column in row. Byte slices are returned as
// strings.
func (t *DataTable) Value(row int, column string) (any, bool) {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	return t.At(row, i), true
}

// At returns the value at row and column position col, or nil when out of
// range. Byte slices are returned as strings. Unlike Value it addresses
// columns that share a name.
func (t *DataTable) At(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	v := t.Rows[row][col]
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// readDataSet drains rows, following additional result sets.
func readDataSet(rows *sql.Rows) (*DataSet, error) {
	ds := &DataSet{}
	for {
		t, err := readDataTable(rows)
		if err != nil {
			return nil, err
		}
		ds.Tables = append(ds.Tables, t)
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result sets: %w", err)
	}
	return ds, nil
}

func readDataTable(rows *sql.Rows) (*DataTable, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	t := &DataTable{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return t, nil
}
