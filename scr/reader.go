package scr

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/fbpro/palette"
	"github.com/bodgit/fbpro/quadtree"
	"github.com/bodgit/fbpro/raster"
)

type decoder struct {
	width  int
	height int

	bin []byte
	vga []byte
	vqt []byte

	buf *raster.Buffer
}

func (d *decoder) parse(b []byte) error {
	chunks, err := Chunks(b)
	if err != nil {
		return err
	}

	d.width, d.height = DefaultWidth, DefaultHeight

	for _, c := range chunks {
		switch c.Tag {
		case tagDIM:
			if len(c.Data) < dimSize {
				return ErrTruncated
			}
			d.width = int(binary.LittleEndian.Uint16(c.Data))
			d.height = int(binary.LittleEndian.Uint16(c.Data[2:]))
		case tagBIN:
			d.bin = c.Data
		case tagVGA:
			d.vga = c.Data
		case tagVQT:
			d.vqt = c.Data
		}
	}

	if d.width*d.height > maxSectionSize {
		return fmt.Errorf("%w: %dx%d pixels", ErrSectionSize, d.width, d.height)
	}

	if d.bin == nil && d.vga == nil && d.vqt == nil {
		return ErrNoPixels
	}

	return nil
}

func (d *decoder) plane(p []byte) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return DecodeSection(p)
}

func (d *decoder) decode(b []byte, configOnly bool) error {
	if err := d.parse(b); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	n := d.width * d.height

	if d.vqt != nil {
		d.buf = quadtree.Decode(d.vqt, d.width, d.height)
		return nil
	}

	low, err := d.plane(d.bin)
	if err != nil {
		return err
	}
	high, err := d.plane(d.vga)
	if err != nil {
		return err
	}

	d.buf = raster.New(d.width, d.height)
	if high == nil && len(low) == n {
		// A lone plane holding a whole byte per pixel
		copy(d.buf.Pix, low)
	} else {
		d.buf.Pix = raster.MergeNibbles(low, high, n)
	}

	return nil
}

// DecodeBuffer decodes the screen held in b to a buffer of palette indices.
func DecodeBuffer(b []byte) (*raster.Buffer, error) {
	var d decoder
	if err := d.decode(b, false); err != nil {
		return nil, err
	}
	return d.buf, nil
}

// DecodePaletted decodes the screen held in b using palette p.
func DecodePaletted(b []byte, p color.Palette) (*image.Paletted, error) {
	buf, err := DecodeBuffer(b)
	if err != nil {
		return nil, err
	}
	return buf.Paletted(p), nil
}

// Decode reads a screen from r and returns it as an image.Image. As the
// screen carries no palette of its own, a grayscale palette is used.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodePaletted(b, palette.Grayscale())
}

// DecodeConfig returns the color model and dimensions of a screen without
// decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}

	var d decoder
	if err := d.decode(b, true); err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: palette.Grayscale(),
		Width:      d.width,
		Height:     d.height,
	}, nil
}

func init() {
	image.RegisterFormat("scr", tagSCR, Decode, DecodeConfig)
}
