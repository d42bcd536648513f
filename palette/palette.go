/*
Package palette decodes the 256 color VGA display palettes that screens and
sprites are indexed against.

A palette file is a "PAL:" tag and 32-bit size, a "VGA:" tag and 32-bit size
and then 256 red, green and blue triplets of 6-bit VGA DAC values. The same
structure is also found embedded inside larger resource files. Bare 768 byte
dumps without the tags are accepted too.
*/
package palette

import (
	"bytes"
	"errors"
	"image/color"
)

const (
	// Colors is the number of entries in a palette.
	Colors = 256

	tagSize    = 4
	headerSize = 16
	dataSize   = Colors * 3
)

var (
	errTruncated = errors.New("palette: not enough palette data")
	errNoVGA     = errors.New("palette: missing VGA: section")

	tagPAL = []byte("PAL:")
	tagVGA = []byte("VGA:")
)

// Scale a 6-bit VGA DAC value to 8 bits.
func expand(v byte) uint8 {
	if v >= 64 {
		return 0xff
	}
	return v << 2
}

func decode(b []byte) (color.Palette, error) {
	if len(b) < dataSize {
		return nil, errTruncated
	}
	p := make(color.Palette, Colors)
	for i := range p {
		p[i] = color.RGBA{
			expand(b[i*3]),
			expand(b[i*3+1]),
			expand(b[i*3+2]),
			0xff,
		}
	}
	return p, nil
}

// Decode decodes a palette file or a bare 768 byte palette.
func Decode(b []byte) (color.Palette, error) {
	if !bytes.HasPrefix(b, tagPAL) {
		return decode(b)
	}
	return DecodeAt(b, 0)
}

// DecodeAt decodes the palette section starting at offset off of b.
func DecodeAt(b []byte, off int) (color.Palette, error) {
	if off < 0 || off+headerSize > len(b) {
		return nil, errTruncated
	}
	if !bytes.Equal(b[off+8:off+8+tagSize], tagVGA) {
		return nil, errNoVGA
	}
	return decode(b[off+headerSize:])
}

// FindAll returns the offsets of every complete palette section embedded in
// b, in file order.
func FindAll(b []byte) []int {
	var offsets []int
	for i := 0; ; i++ {
		n := bytes.Index(b[i:], tagPAL)
		if n < 0 {
			return offsets
		}
		i += n
		if i+headerSize+dataSize <= len(b) && bytes.Equal(b[i+8:i+8+tagSize], tagVGA) {
			offsets = append(offsets, i)
		}
	}
}

// Grayscale returns a palette where each index maps to the gray level of
// the same value. It is used when no palette file is available.
func Grayscale() color.Palette {
	p := make(color.Palette, Colors)
	for i := range p {
		p[i] = color.RGBA{uint8(i), uint8(i), uint8(i), 0xff}
	}
	return p
}
