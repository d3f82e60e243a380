package catalog

import (
	"fmt"

	"github.com/hugr-lab/mdblink-go/internal/msgpack"
	"github.com/hugr-lab/mdblink-go/internal/serialize"
	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// Snapshot is the serializable form of a connection's translated catalog.
// Engine sessions cache it to answer schema questions without touching the
// foreign file; the payload is MessagePack compressed with ZStandard.
type Snapshot struct {
	Tables []SnapshotTable `msgpack:"tables"`
}

// SnapshotTable is one table of a catalog snapshot.
type SnapshotTable struct {
	Name    string           `msgpack:"name"`
	Columns []SnapshotColumn `msgpack:"columns"`
}

// SnapshotColumn is one column of a snapshot table.
type SnapshotColumn struct {
	Name     string `msgpack:"name"`
	Tag      uint8  `msgpack:"tag"`
	Kind     uint8  `msgpack:"kind"`
	Nullable bool   `msgpack:"nullable,omitempty"`
	Width    int    `msgpack:"width,omitempty"`
	Variable bool   `msgpack:"variable,omitempty"`
	Scale    uint8  `msgpack:"scale,omitempty"`
}

// NewSnapshot builds a snapshot from translated table schemas.
func NewSnapshot(schemas []*TableSchema) *Snapshot {
	s := &Snapshot{Tables: make([]SnapshotTable, 0, len(schemas))}
	for _, ts := range schemas {
		st := SnapshotTable{
			Name:    ts.Table,
			Columns: make([]SnapshotColumn, len(ts.Columns)),
		}
		for i, c := range ts.Columns {
			st.Columns[i] = SnapshotColumn{
				Name:     c.Name,
				Tag:      uint8(c.Tag),
				Kind:     uint8(c.Kind),
				Nullable: c.Nullable,
				Width:    c.Width,
				Variable: c.Variable,
				Scale:    c.Scale,
			}
		}
		s.Tables = append(s.Tables, st)
	}
	return s
}

// Marshal serializes and compresses the snapshot.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := msgpack.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}
	compressed, err := serialize.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}
	return compressed, nil
}

// UnmarshalSnapshot decodes a payload produced by Marshal.
func UnmarshalSnapshot(payload []byte) (*Snapshot, error) {
	data, err := serialize.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}
	var s Snapshot
	if err := msgpack.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}
	return &s, nil
}

// Schemas reconstructs the table schemas carried by the snapshot.
func (s *Snapshot) Schemas() []*TableSchema {
	out := make([]*TableSchema, 0, len(s.Tables))
	for _, st := range s.Tables {
		ts := &TableSchema{
			Table:   st.Name,
			Columns: make([]ColumnDescriptor, len(st.Columns)),
		}
		for i, c := range st.Columns {
			ts.Columns[i].Name = c.Name
			ts.Columns[i].Tag = mdbfile.TypeTag(c.Tag)
			ts.Columns[i].Nullable = c.Nullable
			ts.Columns[i].Width = c.Width
			ts.Columns[i].Variable = c.Variable
			ts.Columns[i].Scale = c.Scale
			ts.Columns[i].Kind = value.Kind(c.Kind)
		}
		out = append(out, ts)
	}
	return out
}
