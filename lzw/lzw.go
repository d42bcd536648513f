/*
Package lzw implements the variable width LZW codec used for compression type
0x02 inside screen sections.

Codes are read LSB-first starting at 9 bits wide and grow to at most 12 bits.
Codes 0-255 are the literal bytes and 0x100 clears the dictionary; there is
no end code, decoding stops once the declared size has been produced. The
encoder packs codes in blocks of width*8 bits, so after a clear code the
remainder of the current block is skipped before the dictionary is reset.

Once all 4096 slots are assigned the dictionary stops growing and decoding
continues with the existing entries. As with the RLE codec the output is
always forced to the declared size.
*/
package lzw

import "github.com/bodgit/fbpro/bitstream"

const (
	minWidth  = 9
	maxWidth  = 12
	clearCode = 0x100
	firstFree = 0x101
	tableSize = 1 << maxWidth
)

type decoder struct {
	r bitstream.Reader

	width uint
	next  int
	limit int
	full  bool
	// Bits consumed within the current block of width*8 bits
	block uint

	prefix [tableSize]uint16
	suffix [tableSize]byte
	first  [tableSize]byte
	length [tableSize]int
}

func newDecoder(src []byte) *decoder {
	d := &decoder{r: bitstream.New(src)}
	for i := 0; i < 256; i++ {
		d.suffix[i] = byte(i)
		d.first[i] = byte(i)
		d.length[i] = 1
	}
	d.reset()
	return d
}

func (d *decoder) reset() {
	d.width = minWidth
	d.next = firstFree
	d.limit = 1 << minWidth
	d.full = false
	d.block = 0
}

// emit appends the sequence for code to dst by walking the prefix chain
// backwards from the end of the sequence.
func (d *decoder) emit(dst []byte, code int) []byte {
	n := d.length[code]
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for i := start + n - 1; i >= start; i-- {
		dst[i] = d.suffix[code]
		code = int(d.prefix[code])
	}
	return dst
}

func (d *decoder) add(prev int, c byte) {
	if d.full {
		return
	}

	d.prefix[d.next] = uint16(prev)
	d.suffix[d.next] = c
	d.first[d.next] = d.first[prev]
	d.length[d.next] = d.length[prev] + 1
	d.next++

	switch {
	case d.next == d.limit && d.width < maxWidth:
		d.width++
		d.limit = 1 << d.width
	case d.next >= d.limit:
		d.full = true
	}
}

func (d *decoder) decode(size int) []byte {
	dst := make([]byte, 0, size)
	prev := -1

	for len(dst) < size {
		if d.r.Exhausted(d.width) {
			break
		}

		code := int(d.r.Read(d.width))
		d.block += d.width
		if d.block >= d.width*8 {
			d.block -= d.width * 8
		}

		if code == clearCode {
			if d.block > 0 {
				d.r.Skip(d.width*8 - d.block)
			}
			d.reset()
			prev = -1
			continue
		}

		var c byte
		switch {
		case code < d.next:
			dst = d.emit(dst, code)
			c = d.first[code]
		case code == d.next && prev >= 0:
			// The sequence being defined by this very code
			dst = d.emit(dst, prev)
			c = d.first[prev]
			dst = append(dst, c)
		default:
			return fit(dst, size)
		}

		if prev >= 0 {
			d.add(prev, c)
		}
		prev = code
	}

	return fit(dst, size)
}

// Decode expands src and returns exactly size bytes.
func Decode(src []byte, size int) []byte {
	if size < 0 {
		size = 0
	}
	return newDecoder(src).decode(size)
}

func fit(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size:size]
	}
	return append(b, make([]byte, size-len(b))...)
}
