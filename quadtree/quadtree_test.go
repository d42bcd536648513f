package quadtree

import (
	"testing"

	"github.com/bodgit/fbpro/bitstream"
	"github.com/bodgit/fbpro/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bitWriter struct {
	b []byte
	n uint
}

func (w *bitWriter) write(v uint32, width uint) {
	for i := uint(0); i < width; i++ {
		if w.n&7 == 0 {
			w.b = append(w.b, 0)
		}
		if v>>i&1 != 0 {
			w.b[w.n>>3] |= 1 << (w.n & 7)
		}
		w.n++
	}
}

func region(b *raster.Buffer, x, y, w, h int) []byte {
	var out []byte
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			out = append(out, b.At(i, j, false))
		}
	}
	return out
}

func repeat(v byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDecodeFloodFill(t *testing.T) {
	var w bitWriter
	w.write(0, 4) // four 4x4 leaves
	for _, v := range []uint32{1, 2, 3, 4} {
		w.write(0, 4) // one color
		w.write(v, 8)
	}

	b := Decode(w.b, 8, 8)

	require.NoError(t, b.Validate())
	assert.Equal(t, repeat(1, 16), region(b, 0, 0, 4, 4))
	assert.Equal(t, repeat(2, 16), region(b, 4, 0, 4, 4))
	assert.Equal(t, repeat(3, 16), region(b, 0, 4, 4, 4))
	assert.Equal(t, repeat(4, 16), region(b, 4, 4, 4, 4))
}

func TestDecodeLeafKinds(t *testing.T) {
	var w bitWriter
	w.write(0, 4)

	// Top-left: flood fill
	w.write(0, 2)
	w.write(7, 8)

	// Top-right: two color table, one bit indices, column-major
	w.write(1, 2)
	w.write(0x10, 8)
	w.write(0x20, 8)
	for _, i := range []uint32{0, 1, 1, 0} {
		w.write(i, 1)
	}

	// Bottom-left: four colors is cheaper stored raw, column-major
	w.write(3, 2)
	for _, v := range []uint32{1, 2, 3, 4} {
		w.write(v, 8)
	}

	// Bottom-right: three colors costs the same as raw so is raw too
	w.write(2, 2)
	for _, v := range []uint32{5, 6, 7, 8} {
		w.write(v, 8)
	}

	b := Decode(w.b, 4, 4)

	assert.Equal(t, []byte{
		7, 7, 0x10, 0x20,
		7, 7, 0x20, 0x10,
		1, 3, 5, 7,
		2, 4, 6, 8,
	}, b.Pix)
}

func TestDecodeIndexOutOfRange(t *testing.T) {
	var w bitWriter
	w.write(0, 4)

	// 4x4 leaf with three colors and two bit indices
	w.write(2, 4)
	w.write(0x11, 8)
	w.write(0x22, 8)
	w.write(0x33, 8)
	for k := 0; k < 16; k++ {
		w.write(uint32(k%4), 2)
	}
	// The remaining leaves decode from zero padding as flood fills of 0

	b := Decode(w.b, 8, 8)

	for y := 0; y < 4; y++ {
		want := []byte{0x11, 0x22, 0x33, 0x00}[y]
		assert.Equal(t, repeat(want, 4), region(b, 0, y, 4, 1))
	}
	assert.Equal(t, repeat(0, 16), region(b, 4, 4, 4, 4))
}

func TestDecodeRecursion(t *testing.T) {
	var w bitWriter
	w.write(0x1, 4) // subdivide top-left only
	w.write(0, 4)   // four single pixels
	for _, v := range []uint32{1, 2, 3, 4} {
		w.write(v, 8)
	}
	for _, v := range []uint32{5, 6, 7} {
		w.write(0, 2)
		w.write(v, 8)
	}

	b := Decode(w.b, 4, 4)

	assert.Equal(t, []byte{
		1, 2, 5, 5,
		3, 4, 5, 5,
		6, 6, 7, 7,
		6, 6, 7, 7,
	}, b.Pix)
}

func TestDecodeSinglePixelQuadrantWithSetBit(t *testing.T) {
	var w bitWriter
	w.write(0xf, 4)
	for _, v := range []uint32{9, 8, 7, 6} {
		w.write(v, 8)
	}

	b := Decode(w.b, 2, 2)

	assert.Equal(t, []byte{9, 8, 7, 6}, b.Pix)
}

func TestDecodeOddDimensions(t *testing.T) {
	var w bitWriter
	w.write(0, 4)
	w.write(5, 8) // 1x1
	w.write(0, 1) // 2x1, one color
	w.write(6, 8)
	w.write(0, 1) // 1x2, one color
	w.write(7, 8)
	w.write(0, 2) // 2x2, one color
	w.write(8, 8)

	b := Decode(w.b, 3, 3)

	assert.Equal(t, []byte{
		5, 6, 6,
		7, 8, 8,
		7, 8, 8,
	}, b.Pix)
}

func TestDecodeRegionZeroSizeIsNoop(t *testing.T) {
	r := bitstream.New([]byte{0xff})
	dst := raster.New(2, 2)

	DecodeRegion(&r, dst, 0, 0, 0, 2)
	DecodeRegion(&r, dst, 0, 0, 2, 0)

	assert.Equal(t, 0, r.Offset())
	assert.Equal(t, []byte{0, 0, 0, 0}, dst.Pix)
}

func TestDecodeEmpty(t *testing.T) {
	b := Decode(nil, 0, 0)

	require.NoError(t, b.Validate())
	assert.Empty(t, b.Pix)
}
