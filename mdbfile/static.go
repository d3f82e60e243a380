package mdbfile

import (
	"fmt"
	"sort"
	"sync"
)

// StaticTable defines one in-memory table for a StaticReader.
type StaticTable struct {
	// Columns describes the table's columns in physical order.
	// REQUIRED: MUST be non-empty unless Corrupt is set.
	Columns []ColumnInfo

	// Rows holds raw cells per physical row, aligned with Columns.
	// A nil cell is a NULL.
	Rows []RawRow

	// Corrupt marks the table definition as unreadable: Columns and
	// RowCount fail as a reader would on a damaged definition page.
	// The table is still listed by TableNames.
	Corrupt bool
}

// StaticReader is an in-memory Reader implementation. It backs package tests
// and examples and serves as the reference for the Reader contract, the same
// way a static catalog backs a Flight server during development.
//
// StaticReader is not goroutine-safe beyond Close, matching the contract.
type StaticReader struct {
	mu     sync.Mutex
	tables map[string]StaticTable
	names  []string
	closed bool

	// ReadRowCalls counts ReadRow invocations, letting tests assert on
	// access patterns (lazy decode, predicate skips).
	ReadRowCalls int
}

// NewStaticReader creates a reader over the given tables. System table names
// (MSys*) are accepted but never enumerated, matching native readers.
func NewStaticReader(tables map[string]StaticTable) *StaticReader {
	names := make([]string, 0, len(tables))
	for name := range tables {
		if IsSystemTable(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return &StaticReader{tables: tables, names: names}
}

// TableNames implements Reader.
func (r *StaticReader) TableNames() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrReaderClosed
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out, nil
}

// Columns implements Reader.
func (r *StaticReader) Columns(table string) ([]ColumnInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.lookup(table)
	if err != nil {
		return nil, err
	}
	out := make([]ColumnInfo, len(t.Columns))
	copy(out, t.Columns)
	return out, nil
}

// RowCount implements Reader.
func (r *StaticReader) RowCount(table string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.lookup(table)
	if err != nil {
		return 0, err
	}
	return int64(len(t.Rows)), nil
}

// ReadRow implements Reader.
func (r *StaticReader) ReadRow(table string, index int64) (RawRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.lookup(table)
	if err != nil {
		return nil, err
	}
	r.ReadRowCalls++
	if index < 0 || index >= int64(len(t.Rows)) {
		return nil, ErrEndOfTable
	}
	src := t.Rows[index]
	row := make(RawRow, len(src))
	for i, cell := range src {
		if cell == nil {
			continue
		}
		row[i] = append([]byte(nil), cell...)
	}
	return row, nil
}

// Close implements Reader.
func (r *StaticReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (r *StaticReader) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *StaticReader) lookup(table string) (StaticTable, error) {
	if r.closed {
		return StaticTable{}, ErrReaderClosed
	}
	t, ok := r.tables[table]
	if !ok {
		return StaticTable{}, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	if t.Corrupt {
		return StaticTable{}, fmt.Errorf("corrupt table definition: %s", table)
	}
	return t, nil
}
