/*
Package rle implements the run-length codec used for compression type 0x01
inside screen sections.

The stream is a sequence of control bytes. A control byte of 127 or less is
followed by that many literal bytes. A control byte above 127 is followed by
a single byte that is repeated control-128 times.

The decoded length is always forced to the size declared in the section
header: a short stream is padded with zero bytes and a long one truncated.
*/
package rle

// Decode expands src and returns exactly size bytes.
func Decode(src []byte, size int) []byte {
	if size < 0 {
		size = 0
	}
	dst := make([]byte, 0, size)

	for i := 0; i < len(src) && len(dst) < size; {
		control := int(src[i])
		i++

		if control&0x80 == 0 {
			end := i + control
			if end > len(src) {
				end = len(src)
			}
			dst = append(dst, src[i:end]...)
			i = end
			continue
		}

		if i >= len(src) {
			break
		}
		v := src[i]
		i++
		for n := control &^ 0x80; n > 0; n-- {
			dst = append(dst, v)
		}
	}

	return fit(dst, size)
}

func fit(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size:size]
	}
	return append(b, make([]byte, size-len(b))...)
}
