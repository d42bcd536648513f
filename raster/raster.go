/*
Package raster holds the palette-indexed pixel buffer produced by every
decoder and the reconstruction steps that turn codec output into it.

Screens store their pixels as two separately compressed nibble planes which
are merged back into one byte per pixel. Sprites are decoded column-major
and transposed into the conventional row-major raster order. Mirroring is
applied when a buffer is sampled rather than by rewriting the pixels, so a
single decoded sprite serves both orientations.
*/
package raster

import (
	"errors"
	"image"
	"image/color"
)

var errSize = errors.New("raster: pixel count does not match dimensions")

// Buffer is a width by height grid of palette indices stored row-major.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
}

// Validate checks the len(Pix) == Width*Height invariant.
func (b *Buffer) Validate() error {
	if b.Width < 0 || b.Height < 0 || len(b.Pix) != b.Width*b.Height {
		return errSize
	}
	return nil
}

// Set stores the index v at (x, y). Coordinates outside the buffer are
// ignored.
func (b *Buffer) Set(x, y int, v byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = v
}

// At returns the index at (x, y), sampling from the mirrored column
// Width-1-x when mirror is set. Coordinates outside the buffer return 0.
func (b *Buffer) At(x, y int, mirror bool) byte {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	if mirror {
		x = b.Width - 1 - x
	}
	return b.Pix[y*b.Width+x]
}

// Mirror returns a horizontally flipped copy of b.
func (b *Buffer) Mirror() *Buffer {
	m := New(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			m.Pix[y*b.Width+x] = b.At(x, y, true)
		}
	}
	return m
}

// Paletted wraps a copy of the pixels in an image.Paletted using p.
func (b *Buffer) Paletted(p color.Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, b.Width, b.Height), p)
	copy(m.Pix, b.Pix)
	return m
}

// MergeNibbles rebuilds n pixels from a low nibble plane and a high nibble
// plane. Pixel i takes its nibbles from byte i/2 of each plane: even pixels
// use the lower half of the source byte and odd pixels the upper half. Bytes
// missing from either plane read as zero.
func MergeNibbles(low, high []byte, n int) []byte {
	pix := make([]byte, n)
	for i := range pix {
		shift := uint(i&1) << 2
		var lo, hi byte
		if j := i >> 1; j < len(low) {
			lo = low[j] >> shift & 0x0f
		}
		if j := i >> 1; j < len(high) {
			hi = high[j] >> shift & 0x0f
		}
		pix[i] = lo | hi<<4
	}
	return pix
}

// Transpose converts a column-major buffer of width w and height h into a
// row-major Buffer. Source positions beyond the end of col read as zero.
func Transpose(col []byte, w, h int) *Buffer {
	b := New(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if src := x*h + y; src < len(col) {
				b.Pix[y*w+x] = col[src]
			}
		}
	}
	return b
}
