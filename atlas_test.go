package tilealias_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/pixmap"
	"github.com/gogpu/tilealias/tileset"
)

// fakeSource is a TileSource with directly settable tiles.
type fakeSource struct {
	w, h  int
	tiles []*pixmap.Pixmap
	obs   []tileset.Observer
}

func (s *fakeSource) TileWidth() int  { return s.w }
func (s *fakeSource) TileHeight() int { return s.h }
func (s *fakeSource) TileCount() int  { return len(s.tiles) }

func (s *fakeSource) Tile(i int) *pixmap.Pixmap {
	if i < 0 || i >= len(s.tiles) {
		return nil
	}
	return s.tiles[i]
}

func (s *fakeSource) Subscribe(o tileset.Observer) func() {
	s.obs = append(s.obs, o)
	return func() {
		for i, x := range s.obs {
			if x == o {
				s.obs = append(s.obs[:i], s.obs[i+1:]...)
				return
			}
		}
	}
}

func (s *fakeSource) notify() error {
	var errs []error
	for _, o := range append([]tileset.Observer(nil), s.obs...) {
		errs = append(errs, o.OnTilesetChanged(nil))
	}
	return errors.Join(errs...)
}

func TestBuildAtlasRGBScenario(t *testing.T) {
	ts := newTileset(t, 8, 8, red, green, blue)

	atlas, err := tilealias.BuildAtlas(ts)
	if err != nil {
		t.Fatalf("BuildAtlas: %v", err)
	}
	if atlas.Width() != 24 || atlas.Height() != 8 {
		t.Fatalf("atlas size = %dx%d, want 24x8", atlas.Width(), atlas.Height())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 24; x++ {
			want := []color.NRGBA{red, green, blue}[x/8]
			if got := atlas.RGBAAt(x, y); got != want {
				t.Fatalf("atlas(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if atlas.Stride() != 24*4 {
		t.Errorf("Stride() = %d, want %d", atlas.Stride(), 24*4)
	}
}

func TestBuildAtlasLayout(t *testing.T) {
	// Every pixel of every tile is distinct so any misplaced byte shows up.
	const w, h, n = 5, 3, 4
	src := &fakeSource{w: w, h: h}
	for i := 0; i < n; i++ {
		tile := pixmap.New(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				tile.SetRGBA(x, y, color.NRGBA{R: uint8(i), G: uint8(x), B: uint8(y), A: uint8(100 + i*w*h + y*w + x)})
			}
		}
		src.tiles = append(src.tiles, tile)
	}

	atlas, err := tilealias.BuildAtlas(src)
	if err != nil {
		t.Fatalf("BuildAtlas: %v", err)
	}
	if atlas.Width() != w*n || atlas.Height() != h {
		t.Fatalf("atlas size = %dx%d, want %dx%d", atlas.Width(), atlas.Height(), w*n, h)
	}
	for i := 0; i < n; i++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if got, want := atlas.RGBAAt(x+w*i, y), src.tiles[i].RGBAAt(x, y); got != want {
					t.Fatalf("atlas(%d,%d) = %v, want tile %d (%d,%d) = %v", x+w*i, y, got, i, x, y, want)
				}
			}
		}
	}
}

func TestBuildAtlasPartialAndNilTiles(t *testing.T) {
	src := &fakeSource{w: 4, h: 4, tiles: []*pixmap.Pixmap{
		solidTile(2, 2, red),
		nil,
		solidTile(6, 6, blue),
	}}

	atlas, err := tilealias.BuildAtlas(src)
	if err != nil {
		t.Fatalf("BuildAtlas: %v", err)
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, red},
		{1, 1, red},
		{2, 0, color.NRGBA{}},
		{0, 3, color.NRGBA{}},
		{5, 2, color.NRGBA{}},
		{8, 0, blue},
		{11, 3, blue},
	}
	for _, tt := range tests {
		if got := atlas.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("atlas(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBuildAtlasEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"no tiles", &fakeSource{w: 8, h: 8}},
		{"zero width", &fakeSource{w: 0, h: 8, tiles: []*pixmap.Pixmap{nil}}},
		{"zero height", &fakeSource{w: 8, h: 0, tiles: []*pixmap.Pixmap{nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tilealias.BuildAtlas(tt.src); !errors.Is(err, tilealias.ErrEmptyTileset) {
				t.Errorf("BuildAtlas error = %v, want ErrEmptyTileset", err)
			}
		})
	}
}

func TestTileRect(t *testing.T) {
	tests := []struct {
		w, h, i int
		want    image.Rectangle
	}{
		{8, 8, 0, image.Rect(0, 0, 8, 8)},
		{8, 8, 2, image.Rect(16, 0, 24, 8)},
		{6, 12, 10, image.Rect(60, 0, 66, 12)},
	}
	for _, tt := range tests {
		if got := tilealias.TileRect(tt.w, tt.h, tt.i); got != tt.want {
			t.Errorf("TileRect(%d, %d, %d) = %v, want %v", tt.w, tt.h, tt.i, got, tt.want)
		}
	}
}
