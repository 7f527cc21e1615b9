package tileset

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tilealias/pixmap"
)

// LoadTrueType rasterizes a TrueType/OpenType font into a tileset of
// tileWidth x tileHeight cells. One tile is produced for every rune of
// charmap the font has a glyph for; runes without a glyph are skipped.
//
// The font size is chosen so that ascent plus descent fits the tile height.
// Glyphs are white with coverage alpha, centered horizontally on a shared
// baseline.
func LoadTrueType(data []byte, tileWidth, tileHeight int, charmap []rune) (*Tileset, error) {
	ts, err := New(tileWidth, tileHeight)
	if err != nil {
		return nil, err
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tileset: failed to parse font: %w", err)
	}

	face, err := fitFace(f, tileHeight)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = face.Close()
	}()

	baseline := face.Metrics().Ascent.Ceil()
	if baseline > tileHeight {
		baseline = tileHeight
	}

	for _, r := range charmap {
		if _, mapped := ts.charmap[r]; mapped {
			continue
		}
		if gi, err := f.GlyphIndex(nil, r); err != nil || gi == 0 {
			continue
		}
		tile := rasterizeRune(face, r, tileWidth, tileHeight, baseline)
		ts.charmap[r] = len(ts.tiles)
		ts.tiles = append(ts.tiles, tile)
	}
	return ts, nil
}

// fitFace opens a face whose line height fits in tileHeight pixels.
func fitFace(f *opentype.Font, tileHeight int) (font.Face, error) {
	size := float64(tileHeight)
	face, err := newFace(f, size)
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	lineHeight := float64(m.Ascent+m.Descent) / 64
	if lineHeight <= float64(tileHeight) || lineHeight <= 0 {
		return face, nil
	}
	_ = face.Close()
	return newFace(f, size*float64(tileHeight)/lineHeight)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("tileset: failed to create face: %w", err)
	}
	return face, nil
}

func rasterizeRune(face font.Face, r rune, tileWidth, tileHeight, baseline int) *pixmap.Pixmap {
	mask := image.NewAlpha(image.Rect(0, 0, tileWidth, tileHeight))

	advance, _ := face.GlyphAdvance(r)
	x := (fixed.I(tileWidth) - advance) / 2
	if x < 0 {
		x = 0
	}
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: fixed.I(baseline)},
	}
	drawer.DrawString(string(r))

	tile := pixmap.New(tileWidth, tileHeight)
	for y := 0; y < tileHeight; y++ {
		for px := 0; px < tileWidth; px++ {
			a := mask.AlphaAt(px, y).A
			if a == 0 {
				continue
			}
			tile.SetRGBA(px, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: a})
		}
	}
	return tile
}
