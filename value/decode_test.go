package value

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hugr-lab/mdblink-go/mdbfile"
)

func le16b(u uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, u)
	return b
}

func le32b(u uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, u)
	return b
}

func le64b(u uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, u)
	return b
}

func col(tag mdbfile.TypeTag) mdbfile.ColumnInfo {
	return mdbfile.ColumnInfo{Name: "c", Tag: tag}
}

func mustDecode(t *testing.T, c mdbfile.ColumnInfo, raw []byte) Value {
	t.Helper()
	v, err := DecodeCell(c, raw)
	if err != nil {
		t.Fatalf("DecodeCell(%s) failed: %v", c.Tag, err)
	}
	return v
}

func TestDecodeCellNull(t *testing.T) {
	for _, tag := range []mdbfile.TypeTag{
		mdbfile.TypeBool, mdbfile.TypeLongInt, mdbfile.TypeText, mdbfile.TypeOLE,
	} {
		v := mustDecode(t, col(tag), nil)
		if !v.IsNull() {
			t.Errorf("nil cell of %s decoded to %s, want NULL", tag, v)
		}
	}
}

func TestDecodeCellBool(t *testing.T) {
	if v := mustDecode(t, col(mdbfile.TypeBool), []byte{0}); v.Bool() {
		t.Error("zero byte decoded to true")
	}
	if v := mustDecode(t, col(mdbfile.TypeBool), []byte{1}); !v.Bool() {
		t.Error("non-zero byte decoded to false")
	}
}

func TestDecodeCellIntegers(t *testing.T) {
	tests := []struct {
		name string
		tag  mdbfile.TypeTag
		raw  []byte
		want int64
	}{
		{"byte max", mdbfile.TypeByte, []byte{0xFF}, 255},
		{"int negative", mdbfile.TypeInt, le16b(0xFFFE), -2},
		{"int positive", mdbfile.TypeInt, le16b(1000), 1000},
		{"longint negative", mdbfile.TypeLongInt, le32b(0xFFFE7960), -100000},
		{"complex rowid", mdbfile.TypeComplex, le32b(42), 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustDecode(t, col(tt.tag), tt.raw)
			if v.Kind() != KindInt || v.Int() != tt.want {
				t.Errorf("got %s (%s), want %d", v, v.Kind(), tt.want)
			}
		})
	}
}

func TestDecodeCellReals(t *testing.T) {
	if v := mustDecode(t, col(mdbfile.TypeFloat), le32b(math.Float32bits(1.5))); v.Real() != 1.5 {
		t.Errorf("float: got %g, want 1.5", v.Real())
	}
	if v := mustDecode(t, col(mdbfile.TypeDouble), le64b(math.Float64bits(3.25))); v.Real() != 3.25 {
		t.Errorf("double: got %g, want 3.25", v.Real())
	}
}

func TestDecodeCellMoneyScale(t *testing.T) {
	// Currency stores the value scaled by 10^4.
	v := mustDecode(t, col(mdbfile.TypeMoney), le64b(uint64(int64(12345678))))
	if v.Real() != 1234.5678 {
		t.Errorf("money: got %g, want 1234.5678", v.Real())
	}
	v = mustDecode(t, col(mdbfile.TypeMoney), le64b(0xFFFFFFFFFFFFD8F0))
	if v.Real() != -1 {
		t.Errorf("negative money: got %g, want -1", v.Real())
	}
}

func TestDecodeCellDateTime(t *testing.T) {
	// Day 36526 of the OLE automation epoch is 2000-01-01.
	v := mustDecode(t, col(mdbfile.TypeDateTime), le64b(math.Float64bits(36526.0)))
	want := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !v.Time().Equal(want) {
		t.Errorf("datetime: got %s, want %s", v.Time(), want)
	}

	v = mustDecode(t, col(mdbfile.TypeDateTime), le64b(math.Float64bits(36526.5)))
	want = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	if !v.Time().Equal(want) {
		t.Errorf("datetime with time of day: got %s, want %s", v.Time(), want)
	}
}

func TestDecodeCellDateTimeSaturates(t *testing.T) {
	// Every DOUBLE bit pattern is a valid DATETIME cell; extreme day counts
	// clamp to the representable range instead of overflowing.
	maxOffset := time.Duration(math.MaxInt64/int64(time.Microsecond)) * time.Microsecond
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days float64
		want time.Time
	}{
		{"huge positive", 1e300, epoch.Add(maxOffset)},
		{"huge negative", -1e300, epoch.Add(-maxOffset)},
		{"positive infinity", math.Inf(1), epoch.Add(maxOffset)},
		{"nan", math.NaN(), epoch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustDecode(t, col(mdbfile.TypeDateTime), le64b(math.Float64bits(tt.days)))
			if !v.Time().Equal(tt.want) {
				t.Errorf("days %g decoded to %s, want %s", tt.days, v.Time(), tt.want)
			}
		})
	}
}

func TestDecodeCellText(t *testing.T) {
	if v := mustDecode(t, col(mdbfile.TypeText), []byte("Foo")); v.Text() != "Foo" {
		t.Errorf("text: got %q", v.Text())
	}
	if v := mustDecode(t, col(mdbfile.TypeMemo), []byte("a long memo")); v.Text() != "a long memo" {
		t.Errorf("memo: got %q", v.Text())
	}
}

func TestDecodeCellBinaryCopies(t *testing.T) {
	raw := []byte{1, 2, 3}
	v := mustDecode(t, col(mdbfile.TypeOLE), raw)
	raw[0] = 99
	if v.Bytes()[0] != 1 {
		t.Error("binary value aliases the raw cell")
	}
}

func TestDecodeCellGUID(t *testing.T) {
	// Windows GUID layout: first three fields little-endian.
	raw := []byte{
		0x33, 0x22, 0x11, 0x00,
		0x55, 0x44,
		0x77, 0x66,
		0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}
	v := mustDecode(t, col(mdbfile.TypeRepID), raw)
	if v.Text() != "00112233-4455-6677-8899-aabbccddeeff" {
		t.Errorf("guid: got %q", v.Text())
	}
}

func TestDecodeCellNumeric(t *testing.T) {
	raw := make([]byte, 17)
	binary.LittleEndian.PutUint64(raw[1:9], 12345)
	c := col(mdbfile.TypeNumeric)
	c.Scale = 4
	if v := mustDecode(t, c, raw); v.Real() != 1.2345 {
		t.Errorf("numeric: got %g, want 1.2345", v.Real())
	}
	raw[0] = 1
	if v := mustDecode(t, c, raw); v.Real() != -1.2345 {
		t.Errorf("negative numeric: got %g, want -1.2345", v.Real())
	}
}

func TestDecodeCellWidthMismatch(t *testing.T) {
	for _, tag := range []mdbfile.TypeTag{
		mdbfile.TypeBool, mdbfile.TypeInt, mdbfile.TypeLongInt,
		mdbfile.TypeMoney, mdbfile.TypeDateTime, mdbfile.TypeRepID, mdbfile.TypeNumeric,
	} {
		_, err := DecodeCell(col(tag), []byte{1, 2, 3})
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%s: wrong-width cell returned %v, want *DecodeError", tag, err)
		}
	}
}

func TestDecodeCellDeterministic(t *testing.T) {
	raw := le64b(math.Float64bits(36526.25))
	a := mustDecode(t, col(mdbfile.TypeDateTime), raw)
	b := mustDecode(t, col(mdbfile.TypeDateTime), raw)
	if !Equal(a, b) {
		t.Errorf("same bytes decoded differently: %s vs %s", a, b)
	}
}

func TestKindOfTotal(t *testing.T) {
	tags := []mdbfile.TypeTag{
		mdbfile.TypeBool, mdbfile.TypeByte, mdbfile.TypeInt, mdbfile.TypeLongInt,
		mdbfile.TypeMoney, mdbfile.TypeFloat, mdbfile.TypeDouble, mdbfile.TypeDateTime,
		mdbfile.TypeBinary, mdbfile.TypeText, mdbfile.TypeOLE, mdbfile.TypeMemo,
		mdbfile.TypeRepID, mdbfile.TypeNumeric, mdbfile.TypeComplex,
	}
	for _, tag := range tags {
		if _, ok := KindOf(tag); !ok {
			t.Errorf("KindOf(%s) is not defined", tag)
		}
	}
	if _, ok := KindOf(mdbfile.TypeTag(0xEE)); ok {
		t.Error("KindOf accepted an unknown tag")
	}
}
