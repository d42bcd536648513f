package fbpro

import (
	"bytes"
	"encoding/binary"
	"image/color"
)

const (
	teamHeader      = 8
	teamColorOffset = 0x0a
	teamColorCount  = 5
)

var (
	tagTeam      = []byte("T00:")
	shadeFactors = [...]float64{1.0, 0.79, 0.59, 0.49}
)

// TeamColors returns the five raw VGA uniform colors of each team record
// in a league file, in file order. Records too short to hold them are
// ignored.
func TeamColors(b []byte) [][teamColorCount][3]byte {
	var teams [][teamColorCount][3]byte
	for i := 0; ; i++ {
		n := bytes.Index(b[i:], tagTeam)
		if n < 0 {
			return teams
		}
		i += n

		if i+teamHeader > len(b) {
			continue
		}
		end := i + teamHeader + int(binary.LittleEndian.Uint32(b[i+len(tagTeam):]))
		if end > len(b) || end < i+teamHeader {
			end = len(b)
		}
		record := b[i+teamHeader : end]
		if len(record) < teamColorOffset+teamColorCount*3 {
			continue
		}

		var colors [teamColorCount][3]byte
		for c := range colors {
			copy(colors[c][:], record[teamColorOffset+c*3:])
		}
		teams = append(teams, colors)
	}
}

func shade(v byte, f float64) uint8 {
	if s := int(float64(int(v)*4) * f); s < 0xff {
		return uint8(s)
	}
	return 0xff
}

// Shades expands a raw VGA color into the four shades, brightest first, the
// game uses for one uniform color.
func Shades(c [3]byte) [4]color.RGBA {
	var shades [4]color.RGBA
	for i, f := range shadeFactors {
		shades[i] = color.RGBA{shade(c[0], f), shade(c[1], f), shade(c[2], f), 0xff}
	}
	return shades
}
