package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/tuannm99/novatuple/internal/alias/bx"
	"github.com/tuannm99/novatuple/internal/types"
)

var (
	ErrTupleMismatch = errors.New("record: tuple/values mismatch")
	ErrBadBuffer     = errors.New("record: buffer size does not match tuple size")
	ErrValueTooLong  = errors.New("record: string exceeds field width")
)

// EncodeTuple lays values out back to back, td.Size() bytes in total.
// Format per field (LE):
//
//	INT     4 bytes
//	INT64   8 bytes
//	BOOL    1 byte
//	FLOAT64 8 bytes (IEEE 754 bits)
//	STRING  u32 length + payload, zero padded to the field width
func EncodeTuple(td *TupleDesc, values []any) ([]byte, error) {
	if len(values) != td.NumFields() {
		return nil, fmt.Errorf("%w: %d values for %d fields", ErrTupleMismatch, len(values), td.NumFields())
	}

	out := make([]byte, td.Size())
	off := 0
	for i, f := range td.fields {
		if err := putField(out, off, f.Type, values[i]); err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f.Name, err)
		}
		off += f.Type.Len()
	}
	return out, nil
}

// putField writes v into tuple at off. tuple is already zeroed.
func putField(tuple []byte, off int, t types.Type, v any) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrTupleMismatch)
	}

	switch t.Kind() {
	case types.KindInt:
		x, ok := integer(v)
		if !ok || x < math.MinInt32 || x > math.MaxInt32 {
			return fmt.Errorf("%w: want INT, got %T(%v)", ErrTupleMismatch, v, v)
		}
		bx.PutU32At(tuple, off, uint32(int32(x)))

	case types.KindInt64:
		x, ok := integer(v)
		if !ok {
			return fmt.Errorf("%w: want INT64, got %T", ErrTupleMismatch, v)
		}
		bx.PutU64At(tuple, off, uint64(x))

	case types.KindBool:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: want BOOL, got %T", ErrTupleMismatch, v)
		}
		if x {
			tuple[off] = 1
		}

	case types.KindFloat64:
		var x float64
		switch f := v.(type) {
		case float64:
			x = f
		case float32:
			x = float64(f)
		default:
			return fmt.Errorf("%w: want FLOAT64, got %T", ErrTupleMismatch, v)
		}
		bx.PutU64At(tuple, off, math.Float64bits(x))

	case types.KindString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want STRING, got %T", ErrTupleMismatch, v)
		}
		if len(s) > t.MaxPayload() {
			return fmt.Errorf("%w: %d bytes, max %d", ErrValueTooLong, len(s), t.MaxPayload())
		}
		bx.PutU32At(tuple, off, uint32(len(s)))
		copy(tuple[off+types.StringLenPrefix:], s)

	default:
		return fmt.Errorf("%w: unsupported type %s", ErrTupleMismatch, t)
	}
	return nil
}

// integer widens the Go integer kinds a caller may hand us for INT/INT64.
func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	return 0, false
}

// DecodeTuple is the inverse of EncodeTuple.
func DecodeTuple(td *TupleDesc, buf []byte) ([]any, error) {
	if len(buf) != td.Size() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadBuffer, len(buf), td.Size())
	}

	out := make([]any, td.NumFields())
	off := 0
	for i, f := range td.fields {
		v, err := getField(buf, off, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f.Name, err)
		}
		out[i] = v
		off += f.Type.Len()
	}
	return out, nil
}

// DecodeField reads only field i, using its offset.
func DecodeField(td *TupleDesc, buf []byte, i int) (any, error) {
	if len(buf) != td.Size() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadBuffer, len(buf), td.Size())
	}
	off, err := td.Offset(i)
	if err != nil {
		return nil, err
	}
	return getField(buf, off, td.fields[i].Type)
}

func getField(tuple []byte, off int, t types.Type) (any, error) {
	switch t.Kind() {
	case types.KindInt:
		return bx.I32At(tuple, off), nil
	case types.KindInt64:
		return bx.I64At(tuple, off), nil
	case types.KindBool:
		return tuple[off] != 0, nil
	case types.KindFloat64:
		return math.Float64frombits(bx.U64At(tuple, off)), nil
	case types.KindString:
		n := int(bx.U32At(tuple, off))
		if n > t.MaxPayload() {
			return nil, fmt.Errorf("%w: stored length %d exceeds %s", ErrBadBuffer, n, t)
		}
		start := off + types.StringLenPrefix
		return string(tuple[start : start+n]), nil
	}
	return nil, fmt.Errorf("%w: unsupported type %s", ErrTupleMismatch, t)
}
