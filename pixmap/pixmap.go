// Package pixmap provides the RGBA8 pixel buffer used for tile bitmaps and
// for the atlas staging buffer.
//
// A Pixmap stores straight (non-premultiplied) alpha, four bytes per pixel in
// R, G, B, A order, rows packed with no padding. Its byte layout is exactly
// what a GPU texture of format RGBA8Unorm expects with a row pitch of
// Width()*4.
package pixmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Pixmap represents a rectangular pixel buffer.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// New creates a new transparent pixmap with the given dimensions.
// Negative dimensions are treated as zero.
func New(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*BytesPerPixel),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Stride returns the number of bytes between the starts of two rows.
func (p *Pixmap) Stride() int {
	return p.width * BytesPerPixel
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Row returns the bytes of row y, or nil if y is out of range.
func (p *Pixmap) Row(y int) []uint8 {
	if y < 0 || y >= p.height {
		return nil
	}
	i := y * p.Stride()
	return p.data[i : i+p.Stride()]
}

// SetRGBA sets the color of a single pixel. Out of range writes are ignored.
func (p *Pixmap) SetRGBA(x, y int, c color.NRGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * BytesPerPixel
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// RGBAAt returns the color of a single pixel, transparent when out of range.
func (p *Pixmap) RGBAAt(x, y int) color.NRGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * BytesPerPixel
	return color.NRGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c color.NRGBA) {
	for i := 0; i < len(p.data); i += BytesPerPixel {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	c := &Pixmap{width: p.width, height: p.height, data: make([]uint8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// Equal reports whether both pixmaps have the same size and pixels.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.width == o.width && p.height == o.height && bytes.Equal(p.data, o.data)
}

// ToNRGBA returns an image.NRGBA sharing the pixmap's memory.
func (p *Pixmap) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.data,
		Stride: p.Stride(),
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// FromImage creates a pixmap from an image, converting it to straight alpha.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := New(bounds.Dx(), bounds.Dy())
	if src, ok := img.(*image.NRGBA); ok {
		// Same layout: copy rows without a premultiply round trip.
		for y := 0; y < pm.height; y++ {
			i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(pm.Row(y), src.Pix[i:i+pm.Stride()])
		}
		return pm
	}
	draw.Draw(pm.ToNRGBA(), pm.Bounds(), img, bounds.Min, draw.Src)
	return pm
}

// Scale returns a copy resized to width x height with nearest-neighbor
// sampling, which keeps pixel-art tiles crisp.
func (p *Pixmap) Scale(width, height int) *Pixmap {
	dst := New(width, height)
	draw.NearestNeighbor.Scale(dst.ToNRGBA(), dst.Bounds(), p.ToNRGBA(), p.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG writes the pixmap as PNG.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToNRGBA())
}

// EncodeWebP writes the pixmap as lossless WebP.
func (p *Pixmap) EncodeWebP(w io.Writer) error {
	return nativewebp.Encode(w, p.ToNRGBA(), nil)
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
