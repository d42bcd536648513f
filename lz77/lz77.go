/*
Package lz77 implements the sprite codec used by the animation archive.

The stream starts with a little-endian 16-bit group count minus one and an
8-bit count of trailing decisions. Each group is a flag byte whose eight bits
are processed most significant first, followed by one more flag byte of which
only the trailing count of bits are used.

A clear decision bit is a literal byte. Literals below 64 are remapped
through the caller's color table. A set bit is a little-endian 16-bit back
reference: the low 4 bits plus 3 give the length and the remaining 12 bits
the distance, copying from distance+1 bytes before the end of the output one
byte at a time so overlapping copies repeat correctly.
*/
package lz77

const (
	// TableSize is the number of literal values remapped by a color table.
	TableSize = 64

	minLength = 3
)

type reader struct {
	b   []byte
	off int
}

// Bytes past the end of the stream read as zero.
func (r *reader) byte() byte {
	var v byte
	if r.off < len(r.b) {
		v = r.b[r.off]
	}
	r.off++
	return v
}

func (r *reader) uint16() uint16 {
	return uint16(r.byte()) | uint16(r.byte())<<8
}

type decoder struct {
	r     reader
	table *[TableSize]byte
	dst   []byte
}

func (d *decoder) literal() {
	v := d.r.byte()
	if v < TableSize && d.table != nil {
		v = d.table[v]
	}
	d.dst = append(d.dst, v)
}

func (d *decoder) backref() {
	ref := d.r.uint16()
	length := int(ref&0x0f) + minLength
	src := len(d.dst) - int(ref>>4) - 1

	for i := 0; i < length; i++ {
		var v byte
		if p := src + i; p >= 0 && p < len(d.dst) {
			v = d.dst[p]
		}
		d.dst = append(d.dst, v)
	}
}

func (d *decoder) decisions(flags byte, n int) {
	for i := 0; i < n; i++ {
		if flags&0x80 == 0 {
			d.literal()
		} else {
			d.backref()
		}
		flags <<= 1
	}
}

// Decode decompresses src, remapping literals below 64 through table. A nil
// table leaves literals unchanged.
func Decode(src []byte, table *[TableSize]byte) []byte {
	d := decoder{
		r:     reader{b: src},
		table: table,
	}

	groups := int(d.r.uint16()) + 1
	tail := int(d.r.byte())
	if tail > 8 {
		tail = 8
	}

	d.dst = make([]byte, 0, groups*8+tail)

	for g := 0; g < groups; g++ {
		d.decisions(d.r.byte(), 8)
	}
	if tail > 0 {
		d.decisions(d.r.byte(), tail)
	}

	return d.dst
}
