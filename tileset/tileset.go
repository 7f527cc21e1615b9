// Package tileset stores fixed-size tile bitmaps and notifies observers when
// they change.
//
// A Tileset is an ordered list of equally sized RGBA tiles plus a charmap
// that maps codepoints to tile indices. Every mutation is reported
// synchronously to subscribed observers as a list of (index, tile) pairs, on
// the goroutine that performed the mutation.
package tileset

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/tilealias/pixmap"
)

// Tileset errors.
var (
	// ErrInvalidSize is returned when tile dimensions are not positive.
	ErrInvalidSize = errors.New("tileset: tile dimensions must be positive")

	// ErrInvalidTile is returned when a tile image does not match the tile size.
	ErrInvalidTile = errors.New("tileset: tile image does not match tile size")

	// ErrIndexOutOfRange is returned for tile indices outside the tileset.
	ErrIndexOutOfRange = errors.New("tileset: tile index out of range")
)

// Change describes one modified tile.
type Change struct {
	// Index is the position of the tile in the tileset.
	Index int

	// Tile is the new bitmap.
	Tile *pixmap.Pixmap
}

// Observer receives tileset change notifications.
type Observer interface {
	// OnTilesetChanged is called after tiles were modified. An empty change
	// list means "something changed, re-read everything".
	OnTilesetChanged(changes []Change) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(changes []Change) error

// OnTilesetChanged calls f(changes).
func (f ObserverFunc) OnTilesetChanged(changes []Change) error {
	return f(changes)
}

type subscription struct {
	id       uint64
	observer Observer
}

// Tileset is an ordered collection of tiles of one size.
//
// Tileset is safe for concurrent use. Observers are invoked without the
// tileset lock held, so they may read tiles from within the callback.
type Tileset struct {
	mu         sync.RWMutex
	tileWidth  int
	tileHeight int
	tiles      []*pixmap.Pixmap
	charmap    map[rune]int

	subMu     sync.Mutex
	subs      []subscription
	nextSubID uint64
}

// New creates an empty tileset for tiles of the given size.
func New(tileWidth, tileHeight int) (*Tileset, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, tileWidth, tileHeight)
	}
	return &Tileset{
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		charmap:    make(map[rune]int),
	}, nil
}

// TileWidth returns the width of every tile in pixels.
func (ts *Tileset) TileWidth() int {
	return ts.tileWidth
}

// TileHeight returns the height of every tile in pixels.
func (ts *Tileset) TileHeight() int {
	return ts.tileHeight
}

// TileCount returns the number of tiles.
func (ts *Tileset) TileCount() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.tiles)
}

// Tile returns tile i, or nil if i is out of range.
// The returned pixmap must not be modified; use SetTileAt instead.
func (ts *Tileset) Tile(i int) *pixmap.Pixmap {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	if i < 0 || i >= len(ts.tiles) {
		return nil
	}
	return ts.tiles[i]
}

// TileIndex returns the tile index mapped to r, or -1.
func (ts *Tileset) TileIndex(r rune) int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	if i, ok := ts.charmap[r]; ok {
		return i
	}
	return -1
}

// SetTile assigns img to codepoint r. If r already maps to a tile that tile
// is replaced, otherwise a new tile is appended and mapped to r.
// Observers are notified before SetTile returns; their errors are returned.
func (ts *Tileset) SetTile(r rune, img image.Image) error {
	tile, err := ts.convert(img)
	if err != nil {
		return err
	}

	ts.mu.Lock()
	i, ok := ts.charmap[r]
	if !ok {
		i = len(ts.tiles)
		ts.tiles = append(ts.tiles, tile)
		ts.charmap[r] = i
	} else {
		ts.tiles[i] = tile
	}
	ts.mu.Unlock()

	return ts.Notify([]Change{{Index: i, Tile: tile}})
}

// SetTileAt replaces tile i. Setting i == TileCount() appends a new,
// unmapped tile.
func (ts *Tileset) SetTileAt(i int, img image.Image) error {
	tile, err := ts.convert(img)
	if err != nil {
		return err
	}

	ts.mu.Lock()
	switch {
	case i >= 0 && i < len(ts.tiles):
		ts.tiles[i] = tile
	case i == len(ts.tiles):
		ts.tiles = append(ts.tiles, tile)
	default:
		n := len(ts.tiles)
		ts.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, n)
	}
	ts.mu.Unlock()

	return ts.Notify([]Change{{Index: i, Tile: tile}})
}

// Remap maps codepoint r to the existing tile i. The tiles themselves are
// unchanged, so observers are not notified.
func (ts *Tileset) Remap(r rune, i int) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if i < 0 || i >= len(ts.tiles) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(ts.tiles))
	}
	ts.charmap[r] = i
	return nil
}

// Subscribe registers o for change notifications. The returned function
// removes the subscription; calling it more than once is harmless.
func (ts *Tileset) Subscribe(o Observer) (cancel func()) {
	ts.subMu.Lock()
	ts.nextSubID++
	id := ts.nextSubID
	ts.subs = append(ts.subs, subscription{id: id, observer: o})
	ts.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { ts.unsubscribe(id) })
	}
}

// Observers returns the number of active subscriptions.
func (ts *Tileset) Observers() int {
	ts.subMu.Lock()
	defer ts.subMu.Unlock()
	return len(ts.subs)
}

func (ts *Tileset) unsubscribe(id uint64) {
	ts.subMu.Lock()
	defer ts.subMu.Unlock()
	for i, s := range ts.subs {
		if s.id == id {
			ts.subs = append(ts.subs[:i:i], ts.subs[i+1:]...)
			return
		}
	}
}

// Notify delivers changes to every observer in subscription order and joins
// their errors. Calling it with an empty list forces observers to resync.
func (ts *Tileset) Notify(changes []Change) error {
	ts.subMu.Lock()
	subs := make([]subscription, len(ts.subs))
	copy(subs, ts.subs)
	ts.subMu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := s.observer.OnTilesetChanged(changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// convert copies img into a new tile-sized pixmap.
func (ts *Tileset) convert(img image.Image) (*pixmap.Pixmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidTile)
	}
	b := img.Bounds()
	if b.Dx() != ts.tileWidth || b.Dy() != ts.tileHeight {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d",
			ErrInvalidTile, b.Dx(), b.Dy(), ts.tileWidth, ts.tileHeight)
	}
	return pixmap.FromImage(img), nil
}
