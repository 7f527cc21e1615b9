package tilealias

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/tilealias/tileset"
)

// Alias keeps one texture on one renderer synchronized with one tileset.
//
// An Alias is obtained from Pool.Acquire and shared by every caller that
// acquires the same (tileset, renderer) pair. It stays registered while any
// caller holds it; once the last reference is dropped the pool releases its
// texture and subscription on the next Collect, Acquire or Close.
//
// Texture must be re-fetched after every tileset mutation: a rebuild installs
// a new texture and destroys the previous one.
type Alias struct {
	res *aliasResources
}

// aliasResources is the part of an Alias the tileset and the pool hold on
// to. It never references the Alias, so dropping the last *Alias makes the
// Alias unreachable even though the tileset still notifies its resources.
type aliasResources struct {
	id   uuid.UUID
	key  Key
	opts poolOptions

	mu         sync.RWMutex
	tex        Texture
	width      int
	height     int
	tileWidth  int
	tileHeight int
	tileCount  int
	generation uint64
	closed     bool
	cancel     func()
}

// newAlias subscribes to the tileset of key and performs the initial upload.
// On failure nothing stays subscribed or allocated.
func newAlias(key Key, opts poolOptions) (*Alias, error) {
	res := &aliasResources{
		id:   uuid.New(),
		key:  key,
		opts: opts,
	}
	res.cancel = key.Tileset.Subscribe(res)
	if err := res.sync(); err != nil {
		res.close()
		return nil, err
	}
	return &Alias{res: res}, nil
}

// OnTilesetChanged rebuilds the texture from the current tileset content.
// The change list is ignored: every notification is a full rebuild.
func (a *Alias) OnTilesetChanged(changes []tileset.Change) error {
	return a.res.OnTilesetChanged(changes)
}

// Texture returns the current texture, or nil when the tileset is empty
// under EmptyPlaceholder or the alias was removed from its pool.
func (a *Alias) Texture() Texture {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.tex
}

// ID returns the unique id of this alias. It appears in texture labels and
// log records.
func (a *Alias) ID() uuid.UUID {
	return a.res.id
}

// Key returns the (tileset, renderer) pair of this alias.
func (a *Alias) Key() Key {
	return a.res.key
}

// Size returns the atlas size in pixels.
func (a *Alias) Size() (width, height int) {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.width, a.res.height
}

// TileSize returns the tile size the current atlas was built with.
func (a *Alias) TileSize() (width, height int) {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.tileWidth, a.res.tileHeight
}

// TileCount returns the number of tiles in the current atlas.
func (a *Alias) TileCount() int {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.tileCount
}

// TileRect returns the sub-rectangle of tile i in the current atlas.
func (a *Alias) TileRect(i int) (image.Rectangle, bool) {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	if i < 0 || i >= a.res.tileCount {
		return image.Rectangle{}, false
	}
	return TileRect(a.res.tileWidth, a.res.tileHeight, i), true
}

// Generation returns the number of successful builds, starting at 1 after
// acquisition.
func (a *Alias) Generation() uint64 {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.generation
}

// Closed reports whether the alias was removed from its pool.
func (a *Alias) Closed() bool {
	a.res.mu.RLock()
	defer a.res.mu.RUnlock()
	return a.res.closed
}

// OnTilesetChanged implements tileset.Observer.
func (r *aliasResources) OnTilesetChanged([]tileset.Change) error {
	return r.sync()
}

// sync builds the atlas and swaps in a freshly uploaded texture. The
// previous texture is destroyed only after the new one is installed; on
// failure it stays in place.
func (r *aliasResources) sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}

	ts := r.key.Tileset
	renderer := r.key.Renderer
	log := Logger()

	atlas, err := BuildAtlas(ts)
	if errors.Is(err, ErrEmptyTileset) && r.opts.emptyPolicy == EmptyPlaceholder {
		old := r.tex
		r.tex = nil
		r.width, r.height = 0, ts.TileHeight()
		r.tileWidth, r.tileHeight = ts.TileWidth(), ts.TileHeight()
		r.tileCount = 0
		r.generation++
		if old != nil {
			renderer.DestroyTexture(old)
		}
		log.Debug("tilealias: empty tileset, no texture", "alias", r.id, "generation", r.generation)
		return nil
	}
	if err != nil {
		log.Warn("tilealias: rebuild failed", "alias", r.id, "err", err)
		return err
	}

	tileWidth, tileHeight := ts.TileWidth(), ts.TileHeight()
	desc := TextureDescriptor{
		Label:  fmt.Sprintf("tilealias %s #%d", r.id, r.generation+1),
		Width:  atlas.Width(),
		Height: atlas.Height(),
		Format: TextureFormatRGBA8,
		Access: r.opts.access,
	}
	tex, err := renderer.CreateTexture(desc)
	if err == nil && tex == nil {
		err = errors.New("renderer returned a nil texture")
	}
	if err != nil {
		err = fmt.Errorf("%w: create %dx%d texture: %w", ErrResourceAllocation, desc.Width, desc.Height, err)
		log.Warn("tilealias: rebuild failed", "alias", r.id, "err", err)
		return err
	}
	if err := renderer.UpdateTexture(tex, atlas.Data(), atlas.Stride()); err != nil {
		renderer.DestroyTexture(tex)
		err = fmt.Errorf("%w: upload %dx%d atlas: %w", ErrResourceAllocation, desc.Width, desc.Height, err)
		log.Warn("tilealias: rebuild failed", "alias", r.id, "err", err)
		return err
	}

	old := r.tex
	r.tex = tex
	r.width, r.height = atlas.Width(), atlas.Height()
	r.tileWidth, r.tileHeight = tileWidth, tileHeight
	r.tileCount = atlas.Width() / tileWidth
	r.generation++
	if old != nil {
		renderer.DestroyTexture(old)
	}

	log.Debug("tilealias: atlas uploaded",
		"alias", r.id,
		"width", r.width,
		"height", r.height,
		"tiles", r.tileCount,
		"generation", r.generation)
	return nil
}

// close unsubscribes and destroys the texture. It reports whether this call
// released the resources.
func (r *aliasResources) close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.tex != nil {
		r.key.Renderer.DestroyTexture(r.tex)
		r.tex = nil
	}
	return true
}
