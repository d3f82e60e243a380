// Package catalog translates the schema of an open Access database into the
// engine-facing form and defines the contracts the host engine consumes:
// table schemas, scan requests, plan hints, and the Table/Cursor interfaces.
//
// The package follows an interface-based design: mdblink provides the
// concrete Table implementation over an mdbfile.Reader, while engines depend
// only on the interfaces here. Schema snapshots are immutable; a schema
// described once at registration time is shared read-only by every cursor
// and plan negotiation for that table.
package catalog

import (
	"fmt"

	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// SchemaError indicates that one table's definition could not be read or
// translated. It is fatal only to that table: enumeration and registration
// of sibling tables proceed.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema of table %q: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ListTables enumerates the user tables of an open database. System tables
// are filtered out defensively even if the reader lists them. The result is
// deterministic for a given reader and may be cached by callers.
func ListTables(r mdbfile.Reader) ([]string, error) {
	names, err := r.TableNames()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if mdbfile.IsSystemTable(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// Describe builds the immutable schema snapshot for one table. It fails with
// a *SchemaError if the table is absent, its definition is corrupt, or a
// column carries a type tag outside the known Access domain. Repeated calls
// on the same reader return equal snapshots.
func Describe(r mdbfile.Reader, table string) (*TableSchema, error) {
	cols, err := r.Columns(table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}
	if len(cols) == 0 {
		return nil, &SchemaError{Table: table, Err: fmt.Errorf("no columns")}
	}

	descs := make([]ColumnDescriptor, len(cols))
	for i, c := range cols {
		kind, ok := value.KindOf(c.Tag)
		if !ok {
			return nil, &SchemaError{
				Table: table,
				Err:   fmt.Errorf("column %q has unknown type tag 0x%02x", c.Name, uint8(c.Tag)),
			}
		}
		descs[i] = ColumnDescriptor{
			ColumnInfo: c,
			Kind:       kind,
		}
	}
	return &TableSchema{Table: table, Columns: descs}, nil
}
