// Package value defines the typed value domain shared between the mdblink
// adapter and the host engine, and the total coercion between Access raw
// cells and that domain.
//
// A Value is a tagged union over the engine-visible kinds. DecodeCell maps a
// raw cell to a Value; EncodeLiteral maps a query literal back to the
// canonical cell bytes for predicate pushdown. Both directions are driven by
// the column's mdbfile.TypeTag, so the mapping stays closed and exhaustive.
package value

import (
	"fmt"
	"time"
)

// Kind identifies the engine-visible type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindText
	KindBinary
	KindTimestamp
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindTimestamp:
		return "timestamp"
	default:
		return "invalid"
	}
}

// Value is an immutable tagged union. The zero Value is NULL.
type Value struct {
	kind Kind
	num  int64 // KindInt; bool as 0/1; timestamp as Unix microseconds
	real float64
	str  string
	bin  []byte
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	var n int64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Real returns a floating-point value.
func Real(f float64) Value { return Value{kind: KindReal, real: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Binary returns a binary value. The slice is not copied.
func Binary(b []byte) Value { return Value{kind: KindBinary, bin: b} }

// Timestamp returns a timestamp value, normalized to UTC at microsecond
// precision.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, num: t.UTC().UnixMicro()}
}

// FromUnixMicro returns a timestamp value from Unix microseconds. Used by
// wire codecs that carry timestamps as integers.
func FromUnixMicro(us int64) Value { return Value{kind: KindTimestamp, num: us} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. Valid only for KindBool.
func (v Value) Bool() bool { return v.num != 0 }

// Int returns the integer payload. Valid only for KindInt.
func (v Value) Int() int64 { return v.num }

// Real returns the floating-point payload. Valid only for KindReal.
func (v Value) Real() float64 { return v.real }

// Text returns the text payload. Valid only for KindText.
func (v Value) Text() string { return v.str }

// Bytes returns the binary payload. Valid only for KindBinary.
func (v Value) Bytes() []byte { return v.bin }

// Time returns the timestamp payload in UTC. Valid only for KindTimestamp.
func (v Value) Time() time.Time { return time.UnixMicro(v.num).UTC() }

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindReal:
		return fmt.Sprintf("%g", v.real)
	case KindText:
		return v.str
	case KindBinary:
		return fmt.Sprintf("0x%x", v.bin)
	case KindTimestamp:
		return v.Time().Format(time.RFC3339Nano)
	default:
		return "invalid"
	}
}

// ErrIncomparable is returned by Compare for values with no defined order.
var ErrIncomparable = fmt.Errorf("values are not comparable")

// Compare orders two values: -1, 0, or 1. Int and Real compare numerically
// across kinds. NULL sorts before every non-null value and equals only
// NULL, which is sufficient for predicate evaluation (NULL never matches a
// non-null literal under the comparison operators).
func Compare(a, b Value) (int, error) {
	if a.kind == KindNull || b.kind == KindNull {
		if a.kind == b.kind {
			return 0, nil
		}
		if a.kind == KindNull {
			return -1, nil
		}
		return 1, nil
	}

	if numeric(a.kind) && numeric(b.kind) {
		return cmpFloat(a.asReal(), b.asReal()), nil
	}

	if a.kind != b.kind {
		return 0, fmt.Errorf("%w: %s vs %s", ErrIncomparable, a.kind, b.kind)
	}
	switch a.kind {
	case KindBool:
		return cmpInt(a.num, b.num), nil
	case KindText:
		switch {
		case a.str < b.str:
			return -1, nil
		case a.str > b.str:
			return 1, nil
		}
		return 0, nil
	case KindTimestamp:
		return cmpInt(a.num, b.num), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrIncomparable, a.kind)
	}
}

// Equal reports whether two values compare equal. Incomparable values are
// never equal.
func Equal(a, b Value) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

func numeric(k Kind) bool { return k == KindInt || k == KindReal }

func (v Value) asReal() float64 {
	if v.kind == KindInt {
		return float64(v.num)
	}
	return v.real
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
