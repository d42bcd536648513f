package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLSBFirst(t *testing.T) {
	r := New([]byte{0xb5}) // 1011 0101

	assert.Equal(t, uint32(1), r.Read(1))
	assert.Equal(t, uint32(0), r.Read(1))
	assert.Equal(t, uint32(0x5), r.Read(3)) // 101
	assert.Equal(t, uint32(0x5), r.Read(3)) // 101
	assert.Equal(t, 8, r.Offset())
}

func TestReadSpansThreeBytes(t *testing.T) {
	r := New([]byte{0xff, 0x34, 0x12})
	r.Skip(4)

	// bits 4..19: 0xf from byte 0, 0x34 from byte 1, 0x2 from byte 2
	require.Equal(t, uint32(0x234f), r.Read(16))
	require.Equal(t, 20, r.Offset())
}

func TestNineBitCodes(t *testing.T) {
	// 0x100 followed by 0x041, packed LSB-first
	r := New([]byte{0x00, 0x83, 0x00})

	require.Equal(t, uint32(0x100), r.Read(9))
	require.Equal(t, uint32(0x041), r.Read(9))
}

func TestReadPastEndIsZeroPadded(t *testing.T) {
	r := New([]byte{0xff})
	r.Skip(6)

	require.Equal(t, uint32(0x3), r.Read(4))
	require.Equal(t, uint32(0), r.Read(8))
	require.Equal(t, 18, r.Offset())
	require.Equal(t, -10, r.Remaining())
	require.True(t, r.Exhausted(1))
}

func TestZeroValue(t *testing.T) {
	var r Reader

	require.Equal(t, uint32(0), r.Read(9))
	require.True(t, r.Exhausted(1))
}

func TestReadTooWide(t *testing.T) {
	r := New(nil)

	require.Panics(t, func() { r.Read(17) })
}
