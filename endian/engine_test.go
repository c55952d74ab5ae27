package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
}

func TestPutUintN(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		value uint64
		want  []byte
	}{
		{"1 byte", 1, 0xFF, []byte{0xFF}},
		{"truncates", 1, 0x1FF, []byte{0xFF}},
		{"2 bytes", 2, 0xABCD, []byte{0xCD, 0xAB}},
		{"3 bytes", 3, 0x010203, []byte{0x03, 0x02, 0x01}},
		{"8 bytes", 8, 0x0102030405060708, []byte{8, 7, 6, 5, 4, 3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.n)
			PutUintN(b, tt.n, tt.value)
			require.Equal(t, tt.want, b)
		})
	}
}

func TestPutUintN_LeavesTailUntouched(t *testing.T) {
	b := []byte{0, 0, 0xEE}
	PutUintN(b, 2, 0xFFFFFF)
	require.Equal(t, []byte{0xFF, 0xFF, 0xEE}, b)
}

func TestUintN_RoundTrip(t *testing.T) {
	for n := 1; n <= 8; n++ {
		b := make([]byte, n)
		want := uint64(0x0807060504030201) & (1<<(8*uint(n)) - 1)
		if n == 8 {
			want = 0x0807060504030201
		}
		PutUintN(b, n, 0x0807060504030201)
		require.Equal(t, want, UintN(b, n), "n=%d", n)
	}
}
