package fbpro

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/fbpro/palette"
)

const (
	fileDat         = "FILE.DAT"
	menuPalette     = "MU1.PAL"
	leagueFilename  = "NFLPA93.LGE"
	gameplaySection = 5

	spriteRange = 0x10
	homeRange   = 0x20
	awayRange   = 0x30
)

func gray(v uint8) color.RGBA {
	return color.RGBA{v, v, v, 0xff}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 0xff}
}

// Stand-in colors for 0x10-0x3f. Entries left zero keep the underlying
// palette.
var spriteColors = [0x30]color.RGBA{
	// Helmet
	gray(227), gray(186), gray(150), gray(113),
	// Skin
	rgb(184, 120, 92), rgb(172, 108, 80), rgb(160, 96, 68), rgb(148, 84, 56),
	rgb(140, 72, 48), rgb(128, 60, 40), rgb(116, 52, 32), rgb(108, 44, 24),
	{}, {}, {}, {},
	// Home uniform
	rgb(220, 20, 20), rgb(180, 20, 20), rgb(140, 20, 20), rgb(100, 20, 20),
	rgb(20, 20, 220), rgb(20, 20, 180), rgb(20, 20, 140), rgb(20, 20, 100),
	// Equipment, shadow and field
	rgb(144, 112, 64), rgb(116, 88, 48), rgb(88, 64, 32), rgb(72, 52, 28),
	gray(20), gray(52), rgb(8, 64, 20), rgb(12, 80, 28),
	// Away uniform
	gray(255), gray(225), gray(195), gray(165),
	gray(180), gray(150), gray(120), gray(90),
	// Away equipment and trim
	rgb(144, 112, 64), rgb(116, 88, 48), rgb(88, 64, 32), rgb(72, 52, 28),
	gray(200), gray(220), gray(240), gray(255),
}

// Screens whose palette is not named after the screen itself.
var screenPalettes = map[string][]string{
	"GAMINTRO": {"GAMINTRO.PAL"},
	"CHAMP":    {"CHAMP.PAL"},
	"INTDYNA":  {"TTM", "INTDYNA.PAL"},
	"CREDIT":   {"TTM", "CREDIT.PAL"},
	"BALL":     {"INTRO.PAL"},
	"KICK":     {"INTRO.PAL"},
}

func loadPalette(file string) (color.Palette, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return palette.Decode(b)
}

// ScreenPalette finds and decodes the palette for the screen file within
// the game directory dir. It returns a grayscale palette and an empty path
// if nothing suitable exists.
func ScreenPalette(dir, file string) (color.Palette, string, error) {
	base := strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))

	candidates := [][]string{
		{base + ".PAL"},
		{"TTM", base + ".PAL"},
		{"INTRO.PAL"},
		{"DYNAMIX.PAL"},
	}
	if elem, ok := screenPalettes[base]; ok {
		candidates = append([][]string{elem}, candidates...)
	}

	for _, elem := range candidates {
		path, err := lookupFile(dir, elem...)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil:
			return nil, "", err
		}

		p, err := loadPalette(path)
		if err != nil {
			return nil, "", err
		}
		return p, path, nil
	}

	return palette.Grayscale(), "", nil
}

// GameplayPalette returns the palette sprites are drawn with. The game
// builds it at runtime from a palette embedded in FILE.DAT with the team
// colors from the league file laid over it. Without FILE.DAT the menu
// palette is used with the sprite range filled in with stand-in colors.
func GameplayPalette(dir string) (color.Palette, error) {
	path, err := lookupFile(dir, fileDat)
	switch {
	case err == nil:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if offsets := palette.FindAll(b); len(offsets) > gameplaySection {
			p, err := palette.DecodeAt(b, offsets[gameplaySection])
			if err != nil {
				return nil, err
			}
			if err := applyLeague(dir, p); err != nil {
				return nil, err
			}
			return p, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	return syntheticPalette(dir)
}

func applyLeague(dir string, p color.Palette) error {
	path, err := lookupFile(dir, leagueFilename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	teams := TeamColors(b)
	if len(teams) < 2 {
		return nil
	}

	// The first two teams stand in for the home and away sides
	for i, c := range [][3]byte{teams[0][0], teams[0][1], teams[1][0], teams[1][1]} {
		base := homeRange + (i&1)*4 + (i>>1)*(awayRange-homeRange)
		for j, s := range Shades(c) {
			p[base+j] = s
		}
	}

	return nil
}

// syntheticPalette is the menu palette, or black, with the sprite range
// that the menu palette leaves empty filled in.
func syntheticPalette(dir string) (color.Palette, error) {
	var p color.Palette

	path, err := lookupFile(dir, menuPalette)
	switch {
	case err == nil:
		if p, err = loadPalette(path); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		p = make(color.Palette, palette.Colors)
		for i := range p {
			p[i] = color.RGBA{0, 0, 0, 0xff}
		}
	default:
		return nil, err
	}

	for i, c := range spriteColors {
		if c.A != 0 {
			p[spriteRange+i] = c
		}
	}

	return p, nil
}
