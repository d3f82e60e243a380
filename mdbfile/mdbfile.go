// Package mdbfile defines the reader capability for Access (JET) database
// files consumed by the mdblink adapter.
//
// The package does not parse the binary file format itself. It fixes the
// contract a native reader must satisfy: table and column enumeration, row
// counts, and positional row reads returning raw cell bytes in the canonical
// per-type encoding documented on the TypeTag constants. Any implementation
// honoring this contract (a cgo binding to libmdb, a pure-Go parser, or the
// in-memory StaticReader in this package) can back an mdblink connection.
//
// Readers are not required to be goroutine-safe. A reader instance is
// exclusively owned by one mdblink.Connection; callers that need concurrent
// query execution open independent readers over the same file.
package mdbfile

import "errors"

// TypeTag identifies an Access column type as stored in the table
// definition page. Values match the JET column type bytes.
type TypeTag uint8

const (
	// TypeBool is a Yes/No column. Raw cell: 1 byte, zero = false.
	TypeBool TypeTag = 0x01
	// TypeByte is an unsigned 8-bit integer. Raw cell: 1 byte.
	TypeByte TypeTag = 0x02
	// TypeInt is a signed 16-bit integer. Raw cell: 2 bytes little-endian.
	TypeInt TypeTag = 0x03
	// TypeLongInt is a signed 32-bit integer. Raw cell: 4 bytes little-endian.
	TypeLongInt TypeTag = 0x04
	// TypeMoney is a fixed-point currency value. Raw cell: signed 64-bit
	// little-endian integer holding the value scaled by 10^4.
	TypeMoney TypeTag = 0x05
	// TypeFloat is an IEEE 754 single. Raw cell: 4 bytes little-endian.
	TypeFloat TypeTag = 0x06
	// TypeDouble is an IEEE 754 double. Raw cell: 8 bytes little-endian.
	TypeDouble TypeTag = 0x07
	// TypeDateTime is an OLE automation date. Raw cell: 8-byte little-endian
	// IEEE double counting days since 1899-12-30 00:00:00, fractional part
	// is the time of day.
	TypeDateTime TypeTag = 0x08
	// TypeBinary is a short binary column. Raw cell: the value bytes.
	TypeBinary TypeTag = 0x09
	// TypeText is a short text column. Raw cell: UTF-8 bytes (readers
	// transcode from the file's code page or UCS-2 before handing cells out).
	TypeText TypeTag = 0x0A
	// TypeOLE is an OLE object (long binary). Raw cell: the full value bytes,
	// already reassembled from LVAL pages by the reader.
	TypeOLE TypeTag = 0x0B
	// TypeMemo is a long text column. Raw cell: UTF-8 bytes, reassembled
	// like TypeOLE.
	TypeMemo TypeTag = 0x0C
	// TypeRepID is a replication GUID. Raw cell: 16 bytes in Windows GUID
	// layout (first three fields little-endian).
	TypeRepID TypeTag = 0x0F
	// TypeNumeric is a fixed-precision decimal. Raw cell: 17 bytes, a sign
	// byte (non-zero = negative) followed by a 16-byte little-endian
	// unsigned mantissa; the column's Scale gives the decimal shift.
	TypeNumeric TypeTag = 0x10
	// TypeComplex is a complex (multi-value) column reference. Raw cell:
	// signed 32-bit little-endian row identifier.
	TypeComplex TypeTag = 0x12
)

// String returns the Access name of the type tag.
func (t TypeTag) String() string {
	switch t {
	case TypeBool:
		return "BOOL"
	case TypeByte:
		return "BYTE"
	case TypeInt:
		return "INT"
	case TypeLongInt:
		return "LONGINT"
	case TypeMoney:
		return "MONEY"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeDateTime:
		return "DATETIME"
	case TypeBinary:
		return "BINARY"
	case TypeText:
		return "TEXT"
	case TypeOLE:
		return "OLE"
	case TypeMemo:
		return "MEMO"
	case TypeRepID:
		return "REPID"
	case TypeNumeric:
		return "NUMERIC"
	case TypeComplex:
		return "COMPLEX"
	default:
		return "UNKNOWN"
	}
}

// FixedWidth returns the raw cell width in bytes for fixed-width tags.
// Returns 0 and false for variable-width tags (text, memo, binary, OLE).
func (t TypeTag) FixedWidth() (int, bool) {
	switch t {
	case TypeBool, TypeByte:
		return 1, true
	case TypeInt:
		return 2, true
	case TypeLongInt, TypeComplex:
		return 4, true
	case TypeMoney, TypeDouble, TypeDateTime:
		return 8, true
	case TypeFloat:
		return 4, true
	case TypeRepID:
		return 16, true
	case TypeNumeric:
		return 17, true
	default:
		return 0, false
	}
}

// ColumnInfo describes one column as reported by the reader.
type ColumnInfo struct {
	// Name is the column name as stored in the table definition.
	Name string

	// Tag is the Access column type.
	Tag TypeTag

	// Nullable reports whether the column admits NULL cells.
	Nullable bool

	// Width is the declared column width in bytes. For variable-width
	// columns this is the declared maximum, not the per-cell size.
	Width int

	// Variable reports whether cells are variable-width.
	Variable bool

	// Scale is the decimal scale for TypeNumeric columns, zero otherwise.
	Scale uint8
}

// RawRow holds one physical row's raw cells, aligned with the table's full
// column list as returned by Columns. A nil cell is a NULL.
type RawRow [][]byte

// Sentinel errors reported by readers.
var (
	// ErrEndOfTable is returned by ReadRow when the index is past the last
	// physical row.
	ErrEndOfTable = errors.New("end of table")

	// ErrReaderClosed is returned by any call on a closed reader.
	ErrReaderClosed = errors.New("reader is closed")

	// ErrTableNotFound is returned when the named table does not exist.
	ErrTableNotFound = errors.New("table not found")
)

// Reader is the capability an mdblink connection consumes. One Reader wraps
// one open database file and is exclusively owned by its connection; no call
// may be made after Close.
type Reader interface {
	// TableNames enumerates user tables. System tables (MSys*) are not
	// listed. The order is stable for the lifetime of the reader.
	TableNames() ([]string, error)

	// Columns describes the named table's columns in physical order.
	// Returns ErrTableNotFound (possibly wrapped) for unknown tables and
	// an implementation error for corrupt table definitions.
	Columns(table string) ([]ColumnInfo, error)

	// RowCount returns the number of physical rows in the table.
	RowCount(table string) (int64, error)

	// ReadRow returns the raw cells of the row at the zero-based physical
	// index. Returns ErrEndOfTable past the last row. The returned slices
	// are owned by the caller and stay valid after subsequent reads.
	ReadRow(table string, index int64) (RawRow, error)

	// Close releases the underlying file. Close is idempotent; every other
	// method returns ErrReaderClosed afterwards.
	Close() error
}

// OpenFunc opens a database file and returns a reader over it. It fails if
// the file is missing, unreadable, or does not pass the JET header check.
type OpenFunc func(path string) (Reader, error)

// IsSystemTable reports whether a table name denotes a JET system table.
// System tables are hidden from enumeration.
func IsSystemTable(name string) bool {
	return len(name) >= 4 && (name[:4] == "MSys" || name[:4] == "msys")
}
