package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format is an output image format.
type Format int

// Supported output formats.
const (
	PNG Format = iota
	GIF
	BMP
	QOI
)

var formats = map[string]Format{
	"png": PNG,
	"gif": GIF,
	"bmp": BMP,
	"qoi": QOI,
}

var errUnknownFormat = errors.New("render: unknown format")

// ParseFormat returns the Format for a name such as "png".
func ParseFormat(s string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimPrefix(s, "."))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errUnknownFormat, s)
	}
	return f, nil
}

func (f Format) String() string {
	for k, v := range formats {
		if v == f {
			return k
		}
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension for f including the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// paletted returns m as an image.Paletted, reducing the colors of anything
// else to at most 256 with a median cut.
func paletted(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= 256 {
		return pm
	}

	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 256), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case GIF:
		return gif.Encode(w, paletted(m), nil)
	case BMP:
		return bmp.Encode(w, m)
	case QOI:
		return qoi.Encode(w, m)
	default:
		return fmt.Errorf("%w: %d", errUnknownFormat, int(f))
	}
}
