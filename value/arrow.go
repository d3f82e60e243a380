package value

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ArrowType returns the Arrow data type for an engine-visible kind.
// Timestamps are microsecond-precision UTC, matching the adapter's
// normalization of OLE dates.
func ArrowType(k Kind) arrow.DataType {
	switch k {
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindReal:
		return arrow.PrimitiveTypes.Float64
	case KindText:
		return arrow.BinaryTypes.String
	case KindBinary:
		return arrow.BinaryTypes.Binary
	case KindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.Null
	}
}

// AppendTo appends a value to the matching Arrow array builder. NULL appends
// a null regardless of builder type.
func AppendTo(b array.Builder, v Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}
	switch bld := b.(type) {
	case *array.BooleanBuilder:
		if v.Kind() != KindBool {
			return kindMismatch(v, "boolean")
		}
		bld.Append(v.Bool())
	case *array.Int64Builder:
		if v.Kind() != KindInt {
			return kindMismatch(v, "int64")
		}
		bld.Append(v.Int())
	case *array.Float64Builder:
		if v.Kind() != KindReal {
			return kindMismatch(v, "float64")
		}
		bld.Append(v.Real())
	case *array.StringBuilder:
		if v.Kind() != KindText {
			return kindMismatch(v, "string")
		}
		bld.Append(v.Text())
	case *array.BinaryBuilder:
		if v.Kind() != KindBinary {
			return kindMismatch(v, "binary")
		}
		bld.Append(v.Bytes())
	case *array.TimestampBuilder:
		if v.Kind() != KindTimestamp {
			return kindMismatch(v, "timestamp")
		}
		bld.Append(arrow.Timestamp(v.Time().UnixMicro()))
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}

func kindMismatch(v Value, want string) error {
	return fmt.Errorf("cannot append %s value to %s builder", v.Kind(), want)
}
