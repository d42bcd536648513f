/*
Package bitstream implements the LSB-first bit reader shared by the LZW and
quadtree codecs.

Bits are consumed starting from the least significant bit of each byte. A
read of n bits loads up to three bytes spanning the requested range so any
width up to 16 bits can be returned in one step. Reading past the end of the
underlying slice yields zero bits rather than an error, matching the padding
the game's encoder relied on; callers bound their reads by the expected
output size instead.
*/
package bitstream

// MaxWidth is the widest single read supported by Read.
const MaxWidth = 16

// Reader holds a byte slice and a bit offset counted from the start of it.
// The zero value reads an empty stream.
type Reader struct {
	b   []byte
	off int
}

// New returns a Reader positioned at the first bit of b.
func New(b []byte) Reader {
	return Reader{b: b}
}

func (r *Reader) byteAt(i int) uint32 {
	if i < 0 || i >= len(r.b) {
		return 0
	}
	return uint32(r.b[i])
}

// Read returns the next n bits and advances the offset by n, even if that
// moves it beyond the end of the data.
func (r *Reader) Read(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if n > MaxWidth {
		panic("bitstream: read wider than 16 bits")
	}

	i := r.off >> 3
	v := r.byteAt(i) | r.byteAt(i+1)<<8 | r.byteAt(i+2)<<16
	v >>= uint(r.off & 7)

	r.off += int(n)

	return v & (1<<n - 1)
}

// Skip advances the offset by n bits without reading them.
func (r *Reader) Skip(n uint) {
	r.off += int(n)
}

// Offset returns the current bit offset.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bits. It is negative once the
// reader has been advanced beyond the end of the data.
func (r *Reader) Remaining() int {
	return len(r.b)<<3 - r.off
}

// Exhausted reports whether fewer than n bits remain.
func (r *Reader) Exhausted(n uint) bool {
	return r.Remaining() < int(n)
}
