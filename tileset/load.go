package tileset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF tilesheets
	"image/color"
	_ "image/png" // register PNG tilesheets
	"io"
	"os"

	_ "golang.org/x/image/bmp" // register BMP tilesheets

	"github.com/gogpu/tilealias/pixmap"
)

// ErrInvalidLayout is returned when a tilesheet cannot be split into the
// requested grid.
var ErrInvalidLayout = errors.New("tileset: invalid tilesheet layout")

// LoadTilesheetFile opens path and calls LoadTilesheet.
func LoadTilesheetFile(path string, columns, rows int, charmap []rune) (*Tileset, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	ts, err := LoadTilesheet(f, columns, rows, charmap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// LoadTilesheet decodes a PNG, BMP or GIF tilesheet and splits it into a
// columns x rows grid of tiles in row-major order. Tile i is mapped to
// charmap[i] when i < len(charmap).
//
// Sheets that are fully opaque and greyscale are treated as fonts: each pixel
// becomes white with alpha equal to its luminance, so black backgrounds turn
// transparent.
func LoadTilesheet(r io.Reader, columns, rows int, charmap []rune) (*Tileset, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrInvalidLayout, columns, rows)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("tileset: decode tilesheet: %w", err)
	}
	sheet := pixmap.FromImage(img)
	if sheet.Width()%columns != 0 || sheet.Height()%rows != 0 {
		return nil, fmt.Errorf("%w: %dx%d image is not divisible into %dx%d tiles",
			ErrInvalidLayout, sheet.Width(), sheet.Height(), columns, rows)
	}
	if isOpaque(sheet) && isGreyscale(sheet) {
		keyGreyscale(sheet)
	}

	ts, err := New(sheet.Width()/columns, sheet.Height()/rows)
	if err != nil {
		return nil, err
	}
	src := sheet.ToNRGBA()
	for i := 0; i < columns*rows; i++ {
		x := (i % columns) * ts.tileWidth
		y := (i / columns) * ts.tileHeight
		tile := pixmap.FromImage(src.SubImage(image.Rect(x, y, x+ts.tileWidth, y+ts.tileHeight)))
		ts.tiles = append(ts.tiles, tile)
		if i < len(charmap) {
			if _, taken := ts.charmap[charmap[i]]; !taken {
				ts.charmap[charmap[i]] = i
			}
		}
	}
	return ts, nil
}

func isOpaque(p *pixmap.Pixmap) bool {
	data := p.Data()
	for i := 3; i < len(data); i += pixmap.BytesPerPixel {
		if data[i] != 0xff {
			return false
		}
	}
	return true
}

func isGreyscale(p *pixmap.Pixmap) bool {
	data := p.Data()
	for i := 0; i+2 < len(data); i += pixmap.BytesPerPixel {
		if data[i] != data[i+1] || data[i] != data[i+2] {
			return false
		}
	}
	return true
}

// keyGreyscale converts an opaque sheet into white glyphs with luminance alpha.
func keyGreyscale(p *pixmap.Pixmap) {
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			c := p.RGBAAt(x, y)
			g := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray)
			p.SetRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: g.Y})
		}
	}
}
