/*
Package render composes decoded sprites into sprite sheets and catalogs and
writes decoded images out in common formats.

A sheet lays an animation out with one column per view and one row per
frame. Each sprite is placed relative to an anchor near the bottom middle of
its cell using the reference offsets, palette index 0 is transparent and
mirrored references are flipped as they are drawn.
*/
package render

import (
	"image"
	"image/color"

	"github.com/bodgit/fbpro/anim"
	"github.com/bodgit/fbpro/raster"
	"golang.org/x/image/draw"
)

const (
	cellWidth  = 40
	cellHeight = 48
	baseline   = 4

	catalogWidth   = 32
	catalogColumns = 10
)

var (
	// Background fills the cells of a sprite sheet.
	Background = color.RGBA{32, 96, 32, 0xff}
	// CatalogBackground fills the cells of a catalog.
	CatalogBackground = color.RGBA{32, 80, 32, 0xff}

	missing = color.RGBA{0xff, 0x00, 0xff, 0xff}
)

func lookup(p color.Palette, i byte) color.Color {
	if int(i) < len(p) {
		return p[i]
	}
	return missing
}

// drawSprite draws s with its top left corner at (x, y), skipping
// transparent pixels and anything outside dst.
func drawSprite(dst *image.RGBA, s *raster.Buffer, mirror bool, x, y int, p color.Palette) {
	b := dst.Bounds()
	for j := 0; j < s.Height; j++ {
		for i := 0; i < s.Width; i++ {
			v := s.At(i, j, mirror)
			if v == 0 {
				continue
			}
			pt := image.Pt(x+i, y+j)
			if !pt.In(b) {
				continue
			}
			dst.Set(pt.X, pt.Y, lookup(p, v))
		}
	}
}

func fill(m *image.RGBA, c color.Color) {
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Sheet renders every frame and view of a.
func Sheet(a *anim.Animation, p color.Palette) *image.RGBA {
	views := a.Views
	if views < 1 {
		views = 1
	}
	m := image.NewRGBA(image.Rect(0, 0, views*cellWidth, a.Frames*cellHeight))
	fill(m, Background)

	for frame := 0; frame < a.Frames; frame++ {
		for view := 0; view < a.Views; view++ {
			ref, ok := a.Ref(frame, view)
			if !ok {
				continue
			}
			s, ok := a.Sprite(int(ref.SpriteID))
			if !ok {
				continue
			}
			x := view*cellWidth + cellWidth/2 + int(ref.X)
			y := frame*cellHeight + cellHeight - baseline + int(ref.Y)
			drawSprite(m, s, ref.Mirrored(), x, y, p)
		}
	}

	return m
}

// Catalog renders the first frame of each animation side by side, ten to a
// row, using the given view or the last view if an animation has fewer.
func Catalog(anims []*anim.Animation, p color.Palette, view int) *image.RGBA {
	rows := (len(anims) + catalogColumns - 1) / catalogColumns
	m := image.NewRGBA(image.Rect(0, 0, catalogColumns*catalogWidth, rows*cellHeight))
	fill(m, CatalogBackground)

	for i, a := range anims {
		v := view
		if v >= a.Views {
			v = a.Views - 1
		}
		ref, ok := a.Ref(0, v)
		if !ok {
			continue
		}
		s, ok := a.Sprite(int(ref.SpriteID))
		if !ok {
			continue
		}
		col, row := i%catalogColumns, i/catalogColumns
		x := col*catalogWidth + catalogWidth/2 + int(ref.X)
		y := row*cellHeight + cellHeight - baseline + int(ref.Y)
		drawSprite(m, s, ref.Mirrored(), x, y, p)
	}

	return m
}

// Scale enlarges m by an integer factor using nearest neighbour sampling so
// pixel edges stay sharp. Paletted images stay paletted.
func Scale(m image.Image, factor int) image.Image {
	if factor <= 1 {
		return m
	}

	b := m.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)

	var dst draw.Image
	if pm, ok := m.(*image.Paletted); ok {
		dst = image.NewPaletted(r, pm.Palette)
	} else {
		dst = image.NewRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, m, b, draw.Src, nil)

	return dst
}
