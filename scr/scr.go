/*
Package scr implements a decoder for SCR screen images.

A screen is a tagged container: the 4 byte "SCR:" tag and a little-endian
32-bit size whose top bit marks the section as a container, followed by
child sections using the same tag and size header. The recognised children
are:

	DIM:  two 16-bit little-endian values, width then height
	BIN:  the low nibble of every pixel
	VGA:  the high nibble of every pixel
	VQT:  a quadtree coded image

BIN: and VGA: begin with a 1 byte compression type and a 32-bit
little-endian decompressed size; type 0x00 is stored, 0x01 is run-length
and 0x02 is LZW. VQT: holds the quadtree bitstream directly.

Screens without a DIM: section are 320 by 200 pixels. A VQT: section takes
priority over the nibble planes when both are present.
*/
package scr

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/fbpro/lzw"
	"github.com/bodgit/fbpro/rle"
)

const (
	// DefaultWidth is the width of a screen without a DIM: section.
	DefaultWidth = 320
	// DefaultHeight is the height of a screen without a DIM: section.
	DefaultHeight = 200

	tagSize       = 4
	headerSize    = 8
	containerFlag = 0x80000000
	sectionHeader = 5
	dimSize       = 4

	// Largest decompressed section accepted, enough for 4096x4096
	maxSectionSize = 1 << 24
)

// Compression types found in the BIN: and VGA: section headers.
const (
	Stored byte = 0x00
	RLE    byte = 0x01
	LZW    byte = 0x02
)

const (
	tagSCR = "SCR:"
	tagDIM = "DIM:"
	tagBIN = "BIN:"
	tagVGA = "VGA:"
	tagVQT = "VQT:"
)

var (
	// ErrFormat is returned when the data does not start with an SCR:
	// container.
	ErrFormat = errors.New("scr: not a screen file")
	// ErrTruncated is returned when a section is too short for its header.
	ErrTruncated = errors.New("scr: truncated section")
	// ErrSectionSize is returned when a section extends beyond its
	// container or declares an unreasonable decompressed size.
	ErrSectionSize = errors.New("scr: invalid section size")
	// ErrCompression is returned for an unknown compression type.
	ErrCompression = errors.New("scr: unknown compression type")
	// ErrNoPixels is returned when a screen has no BIN:, VGA: or VQT:
	// section.
	ErrNoPixels = errors.New("scr: no pixel data")
)

// Chunk is one tagged section.
type Chunk struct {
	Tag       string
	Size      uint32
	Container bool
	// Offset of the section header from the start of the file
	Offset int
	Data   []byte
}

func readHeader(b []byte, off int) (string, uint32, bool) {
	v := binary.LittleEndian.Uint32(b[off+tagSize:])
	return string(b[off : off+tagSize]), v &^ containerFlag, v&containerFlag != 0
}

func children(b []byte, start, end int) ([]Chunk, error) {
	var chunks []Chunk
	for off := start; off+headerSize <= end; {
		tag, size, container := readHeader(b, off)
		if int64(off)+headerSize+int64(size) > int64(end) {
			return nil, fmt.Errorf("%w: %q at %#x", ErrSectionSize, tag, off)
		}
		data := b[off+headerSize : off+headerSize+int(size)]

		if container {
			nested, err := children(b, off+headerSize, off+headerSize+int(size))
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, nested...)
		} else {
			chunks = append(chunks, Chunk{
				Tag:    tag,
				Size:   size,
				Offset: off,
				Data:   data,
			})
		}

		off += headerSize + int(size)
	}
	return chunks, nil
}

// Chunks returns the sections inside the top-level SCR: container. Sections
// of nested containers are returned in place of the container.
func Chunks(b []byte) ([]Chunk, error) {
	if len(b) < headerSize || string(b[:tagSize]) != tagSCR {
		return nil, ErrFormat
	}

	_, size, _ := readHeader(b, 0)
	end := int64(headerSize) + int64(size)
	if end > int64(len(b)) {
		end = int64(len(b))
	}

	return children(b, headerSize, int(end))
}

func fit(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, b)
	return out
}

// DecodeSection decompresses the payload of a BIN: or VGA: section.
func DecodeSection(p []byte) ([]byte, error) {
	if len(p) < sectionHeader {
		return nil, ErrTruncated
	}

	size := binary.LittleEndian.Uint32(p[1:])
	if size > maxSectionSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSectionSize, size)
	}
	data := p[sectionHeader:]

	switch p[0] {
	case Stored:
		return fit(data, int(size)), nil
	case RLE:
		return rle.Decode(data, int(size)), nil
	case LZW:
		return lzw.Decode(data, int(size)), nil
	default:
		return nil, fmt.Errorf("%w: %#02x", ErrCompression, p[0])
	}
}
