package record

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novatuple/internal/alias/bx"
	"github.com/tuannm99/novatuple/internal/types"
)

// makeCodecDesc builds a descriptor covering every type.
func makeCodecDesc(t *testing.T) *TupleDesc {
	t.Helper()
	td, err := NewNamedTupleDesc(
		[]types.Type{types.Int, types.Int64, types.Bool, types.Float64, types.StringType(16)},
		[]string{"id32", "id64", "active", "score", "name"},
	)
	require.NoError(t, err)
	return td
}

func TestEncodeDecodeTuple_RoundTrip(t *testing.T) {
	td := makeCodecDesc(t)

	values := []any{
		int32(42),        // id32
		int64(123456789), // id64
		true,             // active
		3.14159,          // score
		"hello",          // name
	}

	buf, err := EncodeTuple(td, values)
	require.NoError(t, err)
	require.Len(t, buf, td.Size())
	require.Equal(t, 4+8+1+8+16, len(buf))

	row, err := DecodeTuple(td, buf)
	require.NoError(t, err)

	require.Len(t, row, len(values))
	require.Equal(t, int32(42), row[0].(int32))
	require.Equal(t, int64(123456789), row[1].(int64))
	require.True(t, row[2].(bool))
	require.InDelta(t, 3.14159, row[3].(float64), 1e-9)
	require.Equal(t, "hello", row[4].(string))
}

func TestEncodeTuple_AcceptsWiderGoTypes(t *testing.T) {
	td := makeCodecDesc(t)

	buf, err := EncodeTuple(td, []any{7, int32(-3), false, float32(0.5), ""})
	require.NoError(t, err)

	row, err := DecodeTuple(td, buf)
	require.NoError(t, err)
	require.Equal(t, []any{int32(7), int64(-3), false, 0.5, ""}, row)
}

func TestEncodeTuple_Mismatch(t *testing.T) {
	td := makeCodecDesc(t)

	t.Run("wrong number of values", func(t *testing.T) {
		_, err := EncodeTuple(td, []any{1, 2, 3})
		require.ErrorIs(t, err, ErrTupleMismatch)
	})

	t.Run("nil value", func(t *testing.T) {
		_, err := EncodeTuple(td, []any{nil, int64(1), true, 1.0, "ok"})
		require.ErrorIs(t, err, ErrTupleMismatch)
	})

	t.Run("wrong type for column", func(t *testing.T) {
		_, err := EncodeTuple(td, []any{"not-int32", int64(1), true, 1.0, "ok"})
		require.ErrorIs(t, err, ErrTupleMismatch)
	})

	t.Run("int out of INT range", func(t *testing.T) {
		_, err := EncodeTuple(td, []any{int64(math.MaxInt32) + 1, int64(1), true, 1.0, "ok"})
		require.ErrorIs(t, err, ErrTupleMismatch)
	})

	t.Run("string too long", func(t *testing.T) {
		_, err := EncodeTuple(td, []any{1, int64(1), true, 1.0, strings.Repeat("x", 13)})
		require.ErrorIs(t, err, ErrValueTooLong)

		// exactly the payload capacity fits
		_, err = EncodeTuple(td, []any{1, int64(1), true, 1.0, strings.Repeat("x", 12)})
		require.NoError(t, err)
	})
}

func TestDecodeTuple_BadBuffer(t *testing.T) {
	td := makeCodecDesc(t)

	_, err := DecodeTuple(td, make([]byte, td.Size()-1))
	require.ErrorIs(t, err, ErrBadBuffer)

	_, err = DecodeTuple(td, make([]byte, td.Size()+1))
	require.ErrorIs(t, err, ErrBadBuffer)

	// corrupt string length
	buf := make([]byte, td.Size())
	off, err := td.Offset(4)
	require.NoError(t, err)
	bx.PutU32At(buf, off, 99)
	_, err = DecodeTuple(td, buf)
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestDecodeField(t *testing.T) {
	td := makeCodecDesc(t)
	buf, err := EncodeTuple(td, []any{int32(1), int64(2), true, 2.5, "abc"})
	require.NoError(t, err)

	v, err := DecodeField(td, buf, 3)
	require.NoError(t, err)
	require.Equal(t, 2.5, v)

	v, err = DecodeField(td, buf, 4)
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	_, err = DecodeField(td, buf, 5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = DecodeField(td, buf[:3], 0)
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestEncodeTuple_MergedDesc(t *testing.T) {
	left := makeTestDesc(t)
	right, err := NewAnonymousTupleDesc(types.Int64)
	require.NoError(t, err)
	joined := Merge(left, right)

	lb, err := EncodeTuple(left, []any{1, "x"})
	require.NoError(t, err)
	rb, err := EncodeTuple(right, []any{int64(9)})
	require.NoError(t, err)

	// a joined tuple is the two tuples back to back
	jb, err := EncodeTuple(joined, []any{1, "x", int64(9)})
	require.NoError(t, err)
	require.Equal(t, append(lb, rb...), jb)
}
