package value

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/hugr-lab/mdblink-go/mdbfile"
)

// ErrUnsupportedPredicate signals that a literal cannot be expressed as a
// comparable cell for the target column type. It is not a query failure:
// the plan advisor leaves such predicates to the engine, which evaluates
// them after the scan.
var ErrUnsupportedPredicate = errors.New("predicate not pushable for column type")

// Pushable reports whether predicates on columns of the given tag can be
// evaluated inside the adapter. Only fixed-width numeric, boolean, and date
// columns qualify; text, memo, and blob comparisons stay with the engine.
func Pushable(tag mdbfile.TypeTag) bool {
	switch tag {
	case mdbfile.TypeBool, mdbfile.TypeByte, mdbfile.TypeInt, mdbfile.TypeLongInt,
		mdbfile.TypeMoney, mdbfile.TypeFloat, mdbfile.TypeDouble, mdbfile.TypeDateTime:
		return true
	default:
		return false
	}
}

// EncodeLiteral converts a query literal into the canonical raw cell bytes
// for the target column, the comparable form used for predicate pushdown.
//
// The encoding is exact or it does not happen: a literal the column type
// cannot represent bit-for-bit (out-of-range integer, fractional value for
// an integer column, a double that is not a float32, currency with more than
// four decimals) returns ErrUnsupportedPredicate so the engine evaluates the
// predicate itself. Inexact encoding would silently change which rows match.
func EncodeLiteral(v Value, col mdbfile.ColumnInfo) ([]byte, error) {
	if !Pushable(col.Tag) || v.IsNull() {
		return nil, ErrUnsupportedPredicate
	}

	switch col.Tag {
	case mdbfile.TypeBool:
		if v.Kind() != KindBool {
			return nil, ErrUnsupportedPredicate
		}
		if v.Bool() {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case mdbfile.TypeByte:
		n, ok := integralLiteral(v)
		if !ok || n < 0 || n > math.MaxUint8 {
			return nil, ErrUnsupportedPredicate
		}
		return []byte{byte(n)}, nil

	case mdbfile.TypeInt:
		n, ok := integralLiteral(v)
		if !ok || n < math.MinInt16 || n > math.MaxInt16 {
			return nil, ErrUnsupportedPredicate
		}
		return le16(uint16(int16(n))), nil

	case mdbfile.TypeLongInt:
		n, ok := integralLiteral(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, ErrUnsupportedPredicate
		}
		return le32(uint32(int32(n))), nil

	case mdbfile.TypeMoney:
		f, ok := realLiteral(v)
		if !ok {
			return nil, ErrUnsupportedPredicate
		}
		scaled := math.Round(f * moneyScale)
		if math.Abs(scaled) > math.MaxInt64 {
			return nil, ErrUnsupportedPredicate
		}
		n := int64(scaled)
		// Exact or not at all: the encoded cell must decode back to the
		// literal, or equality pushdown would match the wrong rows.
		if float64(n)/moneyScale != f {
			return nil, ErrUnsupportedPredicate
		}
		return le64(uint64(n)), nil

	case mdbfile.TypeFloat:
		f, ok := realLiteral(v)
		if !ok || float64(float32(f)) != f {
			return nil, ErrUnsupportedPredicate
		}
		return le32(math.Float32bits(float32(f))), nil

	case mdbfile.TypeDouble:
		f, ok := realLiteral(v)
		if !ok {
			return nil, ErrUnsupportedPredicate
		}
		return le64(math.Float64bits(f)), nil

	case mdbfile.TypeDateTime:
		if v.Kind() != KindTimestamp {
			return nil, ErrUnsupportedPredicate
		}
		return le64(math.Float64bits(timeToOLEDate(v.Time()))), nil
	}

	return nil, ErrUnsupportedPredicate
}

// integralLiteral extracts an exact integer from an Int or integral Real
// literal.
func integralLiteral(v Value) (int64, bool) {
	switch v.Kind() {
	case KindInt:
		return v.Int(), true
	case KindReal:
		f := v.Real()
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// realLiteral extracts a float64 from an Int or Real literal.
func realLiteral(v Value) (float64, bool) {
	switch v.Kind() {
	case KindInt:
		return float64(v.Int()), true
	case KindReal:
		return v.Real(), true
	default:
		return 0, false
	}
}

func le16(u uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, u)
	return b
}

func le32(u uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, u)
	return b
}

func le64(u uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, u)
	return b
}
