package tilealias_test

import (
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/backend"
	"github.com/gogpu/tilealias/pixmap"
	"github.com/gogpu/tilealias/tileset"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

var errInjected = errors.New("injected failure")

// recordingRenderer wraps a software backend, counts destroy calls per
// texture and can be told to fail.
type recordingRenderer struct {
	*backend.SoftwareBackend

	mu         sync.Mutex
	destroys   map[tilealias.Texture]int
	created    []tilealias.Texture
	failCreate bool
	failUpdate bool
}

func newRecorder(t *testing.T) *recordingRenderer {
	t.Helper()
	sw := backend.NewSoftwareBackend()
	if err := sw.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(sw.Close)
	return &recordingRenderer{
		SoftwareBackend: sw,
		destroys:        make(map[tilealias.Texture]int),
	}
}

func (r *recordingRenderer) CreateTexture(desc tilealias.TextureDescriptor) (tilealias.Texture, error) {
	r.mu.Lock()
	fail := r.failCreate
	r.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	tex, err := r.SoftwareBackend.CreateTexture(desc)
	if err == nil {
		r.mu.Lock()
		r.created = append(r.created, tex)
		r.mu.Unlock()
	}
	return tex, err
}

func (r *recordingRenderer) UpdateTexture(tex tilealias.Texture, pixels []byte, pitch int) error {
	r.mu.Lock()
	fail := r.failUpdate
	r.mu.Unlock()
	if fail {
		return errInjected
	}
	return r.SoftwareBackend.UpdateTexture(tex, pixels, pitch)
}

func (r *recordingRenderer) DestroyTexture(tex tilealias.Texture) {
	r.mu.Lock()
	r.destroys[tex]++
	r.mu.Unlock()
	r.SoftwareBackend.DestroyTexture(tex)
}

func (r *recordingRenderer) destroyCount(tex tilealias.Texture) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroys[tex]
}

func (r *recordingRenderer) setFail(create, update bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failCreate, r.failUpdate = create, update
}

// read returns the uploaded content of tex.
func (r *recordingRenderer) read(t *testing.T, tex tilealias.Texture) *pixmap.Pixmap {
	t.Helper()
	pm, err := r.ReadTexture(tex)
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	return pm
}

// solidTile returns a w x h tile filled with c.
func solidTile(w, h int, c color.NRGBA) *pixmap.Pixmap {
	pm := pixmap.New(w, h)
	pm.Fill(c)
	return pm
}

// newTileset returns a w x h tileset with one solid tile per color, mapped
// to 'a', 'b', 'c', ...
func newTileset(t *testing.T, w, h int, colors ...color.NRGBA) *tileset.Tileset {
	t.Helper()
	ts, err := tileset.New(w, h)
	if err != nil {
		t.Fatalf("tileset.New: %v", err)
	}
	for i, c := range colors {
		if err := ts.SetTile(rune('a'+i), solidTile(w, h, c)); err != nil {
			t.Fatalf("SetTile: %v", err)
		}
	}
	return ts
}
