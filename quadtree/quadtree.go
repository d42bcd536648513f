/*
Package quadtree implements the recursive region codec used by the VQT:
section of screen files.

A region starts with a 4-bit mask, one bit per quadrant in the order
top-left, top-right, bottom-left, bottom-right, with the first bit read
belonging to the top-left quadrant. The left and top halves are w/2 and h/2
wide; the right and bottom halves absorb any odd remainder. A set bit
subdivides the quadrant again, a clear bit stores it as a leaf.

A leaf carries its own local color table. The table size is read using
just enough bits to count every pixel of the leaf, then pixels are stored
either as raw bytes, as a single flood fill value, or as indices into the
table, whichever the encoder found smallest. Pixels inside a leaf are stored
column by column.
*/
package quadtree

import (
	"math/bits"

	"github.com/bodgit/fbpro/bitstream"
	"github.com/bodgit/fbpro/raster"
)

// Decode decodes a complete width by height image from src.
func Decode(src []byte, width, height int) *raster.Buffer {
	dst := raster.New(width, height)
	r := bitstream.New(src)
	DecodeRegion(&r, dst, 0, 0, dst.Width, dst.Height)
	return dst
}

// DecodeRegion decodes the w by h rectangle at (x, y) of dst from r.
func DecodeRegion(r *bitstream.Reader, dst *raster.Buffer, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	// A single pixel cannot be subdivided
	if w == 1 && h == 1 {
		decodeLeaf(r, dst, x, y, w, h)
		return
	}

	mask := r.Read(4)

	w1, h1 := w/2, h/2
	w2, h2 := w-w1, h-h1

	quadrants := [4][4]int{
		{x, y, w1, h1},
		{x + w1, y, w2, h1},
		{x, y + h1, w1, h2},
		{x + w1, y + h1, w2, h2},
	}

	for i, q := range quadrants {
		if mask>>uint(i)&1 != 0 {
			DecodeRegion(r, dst, q[0], q[1], q[2], q[3])
		} else {
			decodeLeaf(r, dst, q[0], q[1], q[2], q[3])
		}
	}
}

func bitsFor(v int) uint {
	return uint(bits.Len(uint(v)))
}

func decodeLeaf(r *bitstream.Reader, dst *raster.Buffer, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == 1 && h == 1 {
		dst.Set(x, y, byte(r.Read(8)))
		return
	}

	area := w * h

	bitcount1 := uint(8)
	if area < 256 {
		bitcount1 = bitsFor(area - 1)
	}
	colors := int(r.Read(bitcount1)) + 1
	bitcount2 := bitsFor(colors - 1)

	switch {
	case area*8 <= area*int(bitcount2)+colors*8:
		for i := 0; i < w; i++ {
			for j := 0; j < h; j++ {
				dst.Set(x+i, y+j, byte(r.Read(8)))
			}
		}
	case colors == 1:
		v := byte(r.Read(8))
		for i := 0; i < w; i++ {
			for j := 0; j < h; j++ {
				dst.Set(x+i, y+j, v)
			}
		}
	default:
		table := make([]byte, colors)
		for i := range table {
			table[i] = byte(r.Read(8))
		}
		for i := 0; i < w; i++ {
			for j := 0; j < h; j++ {
				var v byte
				if k := int(r.Read(bitcount2)); k < len(table) {
					v = table[k]
				}
				dst.Set(x+i, y+j, v)
			}
		}
	}
}
