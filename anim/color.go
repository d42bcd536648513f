package anim

import "github.com/bodgit/fbpro/lz77"

// ColorTable remaps the literal values 0-63 of a sprite stream to display
// palette indices. Different tables assign different team colors.
type ColorTable [lz77.TableSize]byte

// Identity leaves every literal unchanged and is used when no team color
// remapping is wanted.
var Identity = func() (t ColorTable) {
	for i := range t {
		t[i] = byte(i)
	}
	return
}()

func span(v ...byte) []byte { return v }

func makeTable(parts ...[]byte) (t ColorTable) {
	i := 0
	for _, p := range parts {
		i += copy(t[i:], p)
	}
	return
}

var (
	helmet   = span(0x10, 0x11, 0x12, 0x13)
	home     = span(0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2a, 0x2b)
	away     = span(0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3a, 0x3b)
	shadow   = span(0x2c, 0x2d, 0x00, 0x00)
	trim     = span(0x3c, 0x3d, 0x3e, 0x3f)
	zeroes12 = make([]byte, 12)
	zeroes16 = make([]byte, 16)
)

// ColorTables are the five tables built into the game executable. Table 0
// only keeps the outline colors, tables 1-4 assign the home and away colors
// to the two uniform ranges in each combination. Table 1 is the default for
// gameplay sprites.
var ColorTables = [...]ColorTable{
	makeTable(make([]byte, 46), span(0x2e, 0x2f)),
	makeTable(zeroes16, helmet, zeroes12, away, shadow, home, trim),
	makeTable(zeroes16, helmet, zeroes12, home, shadow, home, trim),
	makeTable(zeroes16, helmet, zeroes12, away, shadow, away, trim),
	makeTable(zeroes16, helmet, zeroes12, home, shadow, away, trim),
}

// Table returns a copy of color table i, or of the identity table if i is
// out of range.
func Table(i int) *ColorTable {
	t := Identity
	if i >= 0 && i < len(ColorTables) {
		t = ColorTables[i]
	}
	return &t
}
