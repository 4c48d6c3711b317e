package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReadWrite checks that every width round-trips and lands in LE order.
func TestReadWrite(t *testing.T) {
	cases := []struct {
		name string
		size int
		put  func(b []byte)
		want []byte
		read func(b []byte) any
		val  any
	}{
		{
			name: "u32",
			size: 4,
			put:  func(b []byte) { PutU32(b, 0x01020304) },
			want: []byte{0x04, 0x03, 0x02, 0x01},
			read: func(b []byte) any { return U32(b) },
			val:  uint32(0x01020304),
		},
		{
			name: "u64",
			size: 8,
			put:  func(b []byte) { PutU64(b, 0x0102030405060708) },
			want: []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01},
			read: func(b []byte) any { return U64(b) },
			val:  uint64(0x0102030405060708),
		},
		{
			name: "i32 negative",
			size: 4,
			put:  func(b []byte) { v := int32(-2); PutU32(b, uint32(v)) },
			want: []byte{0xfe, 0xff, 0xff, 0xff},
			read: func(b []byte) any { return I32(b) },
			val:  int32(-2),
		},
		{
			name: "i64 negative",
			size: 8,
			put:  func(b []byte) { v := int64(-1234567890); PutU64(b, uint64(v)) },
			want: nil,
			read: func(b []byte) any { return I64(b) },
			val:  int64(-1234567890),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := make([]byte, tc.size)
			tc.put(b)
			if tc.want != nil {
				assert.Equal(t, tc.want, b)
			}
			assert.Equal(t, tc.val, tc.read(b))
		})
	}
}

// TestAt writes fields back to back the way a tuple is laid out.
func TestAt(t *testing.T) {
	buf := make([]byte, 16)

	PutU32At(buf, 0, 0x0A0B0C0D)
	PutU64At(buf, 4, 0x0102030405060708)
	neg := int32(-7)
	PutU32At(buf, 12, uint32(neg))

	assert.Equal(t, uint32(0x0A0B0C0D), U32At(buf, 0))
	assert.Equal(t, uint64(0x0102030405060708), U64At(buf, 4))
	assert.Equal(t, int64(0x0102030405060708), I64At(buf, 4))
	assert.Equal(t, int32(-7), I32At(buf, 12))

	// neighbours untouched
	assert.Equal(t, byte(0x0D), buf[0])
	assert.Equal(t, byte(0x08), buf[4])
}

func TestAppendU32(t *testing.T) {
	b := AppendU32([]byte{0xff}, 14)
	assert.Equal(t, []byte{0xff, 0x0e, 0x00, 0x00, 0x00}, b)
	assert.Equal(t, uint32(14), U32(b[1:]))
}
