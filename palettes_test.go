package fbpro

import (
	"encoding/binary"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/bodgit/fbpro/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenPalette(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "TITLE.PAL"), testPaletteFile(1))
	writeFile(t, filepath.Join(dir, "TTM", "CREDIT.PAL"), testPaletteFile(2))
	writeFile(t, filepath.Join(dir, "TTM", "MENU.PAL"), testPaletteFile(3))
	writeFile(t, filepath.Join(dir, "INTRO.PAL"), testPaletteFile(4))
	writeFile(t, filepath.Join(dir, "CREDIT.PAL"), testPaletteFile(5))

	tables := []struct {
		file string
		want string
		v    uint8
	}{
		{"TITLE.SCR", "TITLE.PAL", 1},
		{"sub/title.scr", "TITLE.PAL", 1},
		{"CREDIT.SCR", filepath.Join("TTM", "CREDIT.PAL"), 2},
		{"MENU.SCR", filepath.Join("TTM", "MENU.PAL"), 3},
		{"KICK.SCR", "INTRO.PAL", 4},
		{"OTHER.SCR", "INTRO.PAL", 4},
	}

	for _, table := range tables {
		t.Run(table.file, func(t *testing.T) {
			p, path, err := ScreenPalette(dir, filepath.Join(dir, table.file))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, table.want), path)
			assert.Equal(t, color.RGBA{table.v << 2, table.v << 2, table.v << 2, 0xff}, p[0])
		})
	}
}

func TestScreenPaletteFallback(t *testing.T) {
	dir := t.TempDir()

	p, path, err := ScreenPalette(dir, filepath.Join(dir, "TITLE.SCR"))
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, palette.Grayscale(), p)

	writeFile(t, filepath.Join(dir, "DYNAMIX.PAL"), testPaletteFile(7))
	p, path, err = ScreenPalette(dir, filepath.Join(dir, "TITLE.SCR"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "DYNAMIX.PAL"), path)
	assert.Equal(t, color.RGBA{28, 28, 28, 0xff}, p[255])

	writeFile(t, filepath.Join(dir, "TITLE.PAL"), []byte("PAL:"))
	_, _, err = ScreenPalette(dir, filepath.Join(dir, "TITLE.SCR"))
	assert.Error(t, err)
}

func TestGameplayPalette(t *testing.T) {
	dir := t.TempDir()

	// Nothing at all gives black with stand-in sprite colors
	p, err := GameplayPalette(dir)
	require.NoError(t, err)
	assert.Len(t, p, palette.Colors)
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, p[0])
	assert.Equal(t, color.RGBA{227, 227, 227, 0xff}, p[0x10])
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, p[0x1c])
	assert.Equal(t, color.RGBA{220, 20, 20, 0xff}, p[0x20])
	assert.Equal(t, color.RGBA{8, 64, 20, 0xff}, p[0x2e])
	assert.Equal(t, color.RGBA{255, 255, 255, 0xff}, p[0x3f])
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, p[0x40])

	// The menu palette keeps its own colors outside the filled entries
	writeFile(t, filepath.Join(dir, "MU1.PAL"), testPaletteFile(1))
	p, err = GameplayPalette(dir)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{4, 4, 4, 0xff}, p[0])
	assert.Equal(t, color.RGBA{4, 4, 4, 0xff}, p[0x1d])
	assert.Equal(t, color.RGBA{4, 4, 4, 0xff}, p[0x40])
	assert.Equal(t, color.RGBA{184, 120, 92, 0xff}, p[0x14])

	// Too few embedded palettes falls back to the menu palette
	writeFile(t, filepath.Join(dir, "FILE.DAT"), testPaletteFile(2))
	p, err = GameplayPalette(dir)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{4, 4, 4, 0xff}, p[0])
	assert.Equal(t, color.RGBA{227, 227, 227, 0xff}, p[0x10])

	var b []byte
	for i := byte(0); i < 7; i++ {
		b = append(b, 0xaa)
		b = append(b, testPaletteFile(10+i)...)
	}
	writeFile(t, filepath.Join(dir, "FILE.DAT"), b)
	p, err = GameplayPalette(dir)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{60, 60, 60, 0xff}, p[0])
	assert.Equal(t, color.RGBA{60, 60, 60, 0xff}, p[0x20])
}

func teamRecord(colors ...[3]byte) []byte {
	record := make([]byte, teamColorOffset, teamColorOffset+len(colors)*3+4)
	for _, c := range colors {
		record = append(record, c[:]...)
	}
	record = append(record, 0, 0, 0, 0)

	b := make([]byte, teamHeader, teamHeader+len(record))
	copy(b, "T00:")
	binary.LittleEndian.PutUint32(b[4:], uint32(len(record)))
	return append(b, record...)
}

func TestGameplayPaletteTeamColors(t *testing.T) {
	dir := t.TempDir()

	var b []byte
	for i := byte(0); i < 6; i++ {
		b = append(b, testPaletteFile(10+i)...)
	}
	writeFile(t, filepath.Join(dir, "FILE.DAT"), b)

	blank := [3]byte{}
	league := append(teamRecord([3]byte{10, 0, 0}, [3]byte{0, 20, 0}, blank, blank, blank),
		teamRecord([3]byte{0, 0, 30}, [3]byte{63, 63, 63}, blank, blank, blank)...)
	writeFile(t, filepath.Join(dir, "nflpa93.lge"), league)

	p, err := GameplayPalette(dir)
	require.NoError(t, err)

	// Home primary and secondary
	assert.Equal(t, color.RGBA{40, 0, 0, 0xff}, p[0x20])
	assert.Equal(t, color.RGBA{31, 0, 0, 0xff}, p[0x21])
	assert.Equal(t, color.RGBA{23, 0, 0, 0xff}, p[0x22])
	assert.Equal(t, color.RGBA{19, 0, 0, 0xff}, p[0x23])
	assert.Equal(t, color.RGBA{0, 80, 0, 0xff}, p[0x24])
	// Away primary and secondary
	assert.Equal(t, color.RGBA{0, 0, 120, 0xff}, p[0x30])
	assert.Equal(t, color.RGBA{252, 252, 252, 0xff}, p[0x34])
	assert.Equal(t, color.RGBA{123, 123, 123, 0xff}, p[0x37])
	// Untouched entries come from the embedded palette
	assert.Equal(t, color.RGBA{60, 60, 60, 0xff}, p[0x28])
	assert.Equal(t, color.RGBA{60, 60, 60, 0xff}, p[0x38])
}

func TestGameplayPaletteSingleTeam(t *testing.T) {
	dir := t.TempDir()

	var b []byte
	for i := byte(0); i < 6; i++ {
		b = append(b, testPaletteFile(10+i)...)
	}
	writeFile(t, filepath.Join(dir, "FILE.DAT"), b)
	writeFile(t, filepath.Join(dir, "NFLPA93.LGE"), teamRecord([3]byte{10, 0, 0}))

	p, err := GameplayPalette(dir)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{60, 60, 60, 0xff}, p[0x20])
}

func TestTeamColors(t *testing.T) {
	b := append([]byte("junk"), teamRecord([3]byte{1, 2, 3}, [3]byte{4, 5, 6}, [3]byte{7, 8, 9}, [3]byte{10, 11, 12}, [3]byte{13, 14, 15})...)
	// A record too short for its colors
	b = append(b, "T00:\x04\x00\x00\x00abcd"...)

	teams := TeamColors(b)
	require.Len(t, teams, 1)
	assert.Equal(t, [3]byte{1, 2, 3}, teams[0][0])
	assert.Equal(t, [3]byte{13, 14, 15}, teams[0][4])

	assert.Empty(t, TeamColors([]byte("T00:")))
}

func TestShades(t *testing.T) {
	assert.Equal(t, [4]color.RGBA{
		{40, 0, 252, 0xff},
		{31, 0, 199, 0xff},
		{23, 0, 148, 0xff},
		{19, 0, 123, 0xff},
	}, Shades([3]byte{10, 0, 63}))

	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, Shades([3]byte{200, 0, 0})[0])
}
