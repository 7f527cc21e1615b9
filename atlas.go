package tilealias

import (
	"fmt"
	"image"

	"github.com/gogpu/tilealias/pixmap"
)

// BuildAtlas packs every tile of ts into one horizontal strip.
//
// For n tiles of w x h pixels the atlas is (w*n) x h RGBA8, and pixel (x, y)
// of tile i is stored at (x + w*i, y). Tiles smaller than w x h leave the
// rest of their cell transparent; nil tiles are fully transparent.
// The upload pitch of the result is its Stride, w*n*4 bytes.
//
// BuildAtlas returns ErrEmptyTileset when ts has no tiles or a zero tile
// size.
func BuildAtlas(ts TileSource) (*pixmap.Pixmap, error) {
	w, h, n := ts.TileWidth(), ts.TileHeight(), ts.TileCount()
	if n <= 0 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %d tiles of %dx%d", ErrEmptyTileset, n, w, h)
	}

	atlas := pixmap.New(w*n, h)
	for i := 0; i < n; i++ {
		tile := ts.Tile(i)
		if tile == nil {
			continue
		}
		cols := min(tile.Width(), w)
		rows := min(tile.Height(), h)
		dx := w * i * pixmap.BytesPerPixel
		for y := 0; y < rows; y++ {
			copy(atlas.Row(y)[dx:dx+cols*pixmap.BytesPerPixel], tile.Row(y))
		}
	}
	return atlas, nil
}

// TileRect returns the sub-rectangle of tile i in an atlas built from
// tileWidth x tileHeight tiles.
func TileRect(tileWidth, tileHeight, i int) image.Rectangle {
	return image.Rect(tileWidth*i, 0, tileWidth*(i+1), tileHeight)
}
