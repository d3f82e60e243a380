package catalog

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// ColumnDescriptor is one column of a translated table schema: the reader's
// column description plus the engine-visible kind. Exactly one kind exists
// per type tag; the mapping is total and deterministic.
type ColumnDescriptor struct {
	mdbfile.ColumnInfo

	// Kind is the declared engine-visible type of the column.
	Kind value.Kind
}

// TableSchema is the immutable snapshot of one table's shape. Created once
// at registration time and shared read-only afterwards; never mutated.
type TableSchema struct {
	// Table is the table name as registered with the engine.
	Table string

	// Columns lists the table's columns in physical order.
	Columns []ColumnDescriptor
}

// ColumnIndex returns the physical index of the named column, or -1.
func (s *TableSchema) ColumnIndex(name string) int {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// Column returns the descriptor of the named column.
func (s *TableSchema) Column(name string) (ColumnDescriptor, bool) {
	if i := s.ColumnIndex(name); i >= 0 {
		return s.Columns[i], true
	}
	return ColumnDescriptor{}, false
}

// Arrow returns the Arrow schema equivalent of the table schema. The field
// order matches the physical column order.
func (s *TableSchema) Arrow() *arrow.Schema {
	fields := make([]arrow.Field, len(s.Columns))
	for i, c := range s.Columns {
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     value.ArrowType(c.Kind),
			Nullable: c.Nullable,
		}
	}
	return arrow.NewSchema(fields, nil)
}

// ProjectSchema returns a projected Arrow schema containing only the named
// columns, in request order. A nil or empty projection returns the full
// schema unchanged; unknown names are skipped. Schema metadata is preserved.
func ProjectSchema(schema *arrow.Schema, columns []string) *arrow.Schema {
	if len(columns) == 0 {
		return schema
	}

	colIndex := make(map[string]int, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		colIndex[schema.Field(i).Name] = i
	}

	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		if idx, ok := colIndex[col]; ok {
			fields = append(fields, schema.Field(idx))
		}
	}
	if len(fields) == 0 {
		return schema
	}

	meta := schema.Metadata()
	return arrow.NewSchema(fields, &meta)
}
