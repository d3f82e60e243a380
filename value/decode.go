package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hugr-lab/mdblink-go/mdbfile"
)

// oleEpoch is day zero of OLE automation dates (DATETIME cells).
var oleEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// moneyScale is the fixed decimal factor of MONEY cells (four decimal
// places, per the JET currency layout).
const moneyScale = 1e4

// DecodeError indicates a raw cell that is structurally impossible for its
// declared column type, such as a fixed-width cell of the wrong length.
// Out-of-range values are never a DecodeError; they map to the nearest
// representable Value under the documented lossy rules.
type DecodeError struct {
	Column string
	Tag    mdbfile.TypeTag
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s): %s", e.Column, e.Tag, e.Reason)
}

// KindOf returns the engine-visible kind for an Access type tag. The mapping
// is total over the known tags; ok is false only for tags this adapter has
// never seen in a JET file.
func KindOf(tag mdbfile.TypeTag) (Kind, bool) {
	switch tag {
	case mdbfile.TypeBool:
		return KindBool, true
	case mdbfile.TypeByte, mdbfile.TypeInt, mdbfile.TypeLongInt, mdbfile.TypeComplex:
		return KindInt, true
	case mdbfile.TypeMoney, mdbfile.TypeFloat, mdbfile.TypeDouble, mdbfile.TypeNumeric:
		return KindReal, true
	case mdbfile.TypeDateTime:
		return KindTimestamp, true
	case mdbfile.TypeText, mdbfile.TypeMemo, mdbfile.TypeRepID:
		return KindText, true
	case mdbfile.TypeBinary, mdbfile.TypeOLE:
		return KindBinary, true
	default:
		return KindNull, false
	}
}

// DecodeCell converts one raw cell into the engine value domain. A nil cell
// is NULL. The conversion is total and deterministic per tag; the only
// failure mode is a *DecodeError for structurally impossible input.
//
// Lossy rules: MONEY divides the stored integer by 10^4; NUMERIC applies the
// column's decimal scale in float64 arithmetic; DATETIME converts the OLE
// day count to UTC at microsecond precision.
func DecodeCell(col mdbfile.ColumnInfo, raw []byte) (Value, error) {
	if raw == nil {
		return Null(), nil
	}

	if w, fixed := col.Tag.FixedWidth(); fixed && len(raw) != w {
		return Null(), &DecodeError{
			Column: col.Name,
			Tag:    col.Tag,
			Reason: fmt.Sprintf("cell is %d bytes, want %d", len(raw), w),
		}
	}

	switch col.Tag {
	case mdbfile.TypeBool:
		return Bool(raw[0] != 0), nil
	case mdbfile.TypeByte:
		return Int(int64(raw[0])), nil
	case mdbfile.TypeInt:
		return Int(int64(int16(binary.LittleEndian.Uint16(raw)))), nil
	case mdbfile.TypeLongInt, mdbfile.TypeComplex:
		return Int(int64(int32(binary.LittleEndian.Uint32(raw)))), nil
	case mdbfile.TypeMoney:
		return Real(float64(int64(binary.LittleEndian.Uint64(raw))) / moneyScale), nil
	case mdbfile.TypeFloat:
		return Real(float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))), nil
	case mdbfile.TypeDouble:
		return Real(math.Float64frombits(binary.LittleEndian.Uint64(raw))), nil
	case mdbfile.TypeDateTime:
		days := math.Float64frombits(binary.LittleEndian.Uint64(raw))
		return Timestamp(oleDateToTime(days)), nil
	case mdbfile.TypeText, mdbfile.TypeMemo:
		return Text(string(raw)), nil
	case mdbfile.TypeBinary, mdbfile.TypeOLE:
		return Binary(append([]byte(nil), raw...)), nil
	case mdbfile.TypeRepID:
		return Text(decodeGUID(raw)), nil
	case mdbfile.TypeNumeric:
		return Real(decodeNumeric(raw, col.Scale)), nil
	default:
		return Null(), &DecodeError{
			Column: col.Name,
			Tag:    col.Tag,
			Reason: "unknown column type",
		}
	}
}

// oleDateToTime converts an OLE automation day count to a UTC time.
// The fractional day is expanded at microsecond precision. Day counts
// beyond what a time.Duration offset from the epoch can hold saturate at
// the range bounds, and NaN maps to the epoch, keeping the conversion
// total over every DOUBLE bit pattern.
func oleDateToTime(days float64) time.Time {
	const maxMicros = math.MaxInt64 / int64(time.Microsecond)
	f := math.Round(days * 24 * 60 * 60 * 1e6)
	var us int64
	switch {
	case math.IsNaN(f):
		us = 0
	case f >= float64(maxMicros):
		us = maxMicros
	case f <= -float64(maxMicros):
		us = -maxMicros
	default:
		us = int64(f)
	}
	return oleEpoch.Add(time.Duration(us) * time.Microsecond)
}

// timeToOLEDate is the inverse of oleDateToTime.
func timeToOLEDate(t time.Time) float64 {
	us := t.UTC().Sub(oleEpoch).Microseconds()
	return float64(us) / (24 * 60 * 60 * 1e6)
}

// decodeGUID renders a 16-byte Windows-layout GUID as canonical text.
// The first three fields are stored little-endian and must be swapped into
// RFC 4122 byte order before formatting.
func decodeGUID(raw []byte) string {
	var b [16]byte
	b[0], b[1], b[2], b[3] = raw[3], raw[2], raw[1], raw[0]
	b[4], b[5] = raw[5], raw[4]
	b[6], b[7] = raw[7], raw[6]
	copy(b[8:], raw[8:16])
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		// FromBytes only fails on length, which is checked by the caller.
		return ""
	}
	return id.String()
}

// decodeNumeric converts a 17-byte sign+mantissa decimal to float64.
// Precision beyond the float64 mantissa is lost; this matches the adapter's
// declared NUMERIC -> real mapping.
func decodeNumeric(raw []byte, scale uint8) float64 {
	lo := binary.LittleEndian.Uint64(raw[1:9])
	hi := binary.LittleEndian.Uint64(raw[9:17])
	mantissa := float64(hi)*math.Pow(2, 64) + float64(lo)
	v := mantissa / math.Pow10(int(scale))
	if raw[0] != 0 {
		v = -v
	}
	return v
}
