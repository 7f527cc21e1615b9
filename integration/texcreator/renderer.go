// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcreator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tilealias"
)

// Common errors returned by Renderer operations.
var (
	// ErrNilCreator is returned when a nil TextureCreator is passed.
	ErrNilCreator = errors.New("texcreator: nil TextureCreator")

	// ErrUnsupportedFormat is returned for formats other than RGBA8.
	ErrUnsupportedFormat = errors.New("texcreator: unsupported texture format")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("texcreator: invalid dimensions")

	// ErrInvalidPitch is returned when the row pitch or buffer length does
	// not cover the texture.
	ErrInvalidPitch = errors.New("texcreator: invalid row pitch")

	// ErrNotUpdatable is returned when the host texture accepts no uploads.
	ErrNotUpdatable = errors.New("texcreator: texture does not support updates")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("texcreator: texture has been destroyed")

	// ErrForeignTexture is returned for textures created by another renderer.
	ErrForeignTexture = errors.New("texcreator: texture belongs to another renderer")

	// ErrNoDrawer is returned by Draw when the renderer has no drawer.
	ErrNoDrawer = errors.New("texcreator: renderer has no TextureDrawer")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Texture is an alias texture backed by a host texture.
type Texture struct {
	owner     *Renderer
	host      gpucontext.Texture
	label     string
	width     int
	height    int
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Label returns the texture's debug label.
func (t *Texture) Label() string { return t.label }

// Host returns the host texture, for use with a gpucontext.TextureDrawer.
func (t *Texture) Host() gpucontext.Texture { return t.host }

// Renderer adapts a gpucontext.TextureCreator to tilealias.Renderer.
//
// Host textures are updated through gpucontext.TextureUpdater, falling back
// to gpucontext.TextureRegionUpdater. They are released through a Destroy
// method when the host texture has one.
//
// Renderer is safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	creator gpucontext.TextureCreator
	drawer  gpucontext.TextureDrawer
	live    int
}

// New creates a renderer on creator.
func New(creator gpucontext.TextureCreator) (*Renderer, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &Renderer{creator: creator}, nil
}

// NewFromDrawer creates a renderer on the texture creator of drawer.
// Textures it creates can be drawn with Draw.
func NewFromDrawer(drawer gpucontext.TextureDrawer) (*Renderer, error) {
	if drawer == nil {
		return nil, ErrNilCreator
	}
	r, err := New(drawer.TextureCreator())
	if err != nil {
		return nil, err
	}
	r.drawer = drawer
	return r, nil
}

// LiveTextures returns the number of textures created and not destroyed.
func (r *Renderer) LiveTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// CreateTexture creates a cleared RGBA8 host texture.
func (r *Renderer) CreateTexture(desc tilealias.TextureDescriptor) (tilealias.Texture, error) {
	if desc.Format != tilealias.TextureFormatRGBA8 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, desc.Width, desc.Height)
	}

	host, err := r.creator.NewTextureFromRGBA(desc.Width, desc.Height, make([]byte, desc.Width*desc.Height*4))
	if err != nil {
		return nil, fmt.Errorf("texcreator: create %q: %w", desc.Label, err)
	}
	if host == nil {
		return nil, fmt.Errorf("texcreator: create %q: creator returned no texture", desc.Label)
	}

	r.mu.Lock()
	r.live++
	r.mu.Unlock()
	tilealias.Logger().Debug("texcreator: texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height)
	return &Texture{
		owner:  r,
		host:   host,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
	}, nil
}

// UpdateTexture uploads pixels to tex. Rows are repacked densely when pitch
// is wider than the texture.
func (r *Renderer) UpdateTexture(tex tilealias.Texture, pixels []byte, pitch int) error {
	t, err := r.ownTexture(tex)
	if err != nil {
		return err
	}

	rowBytes := t.width * 4
	if pitch < rowBytes || len(pixels) < pitch*(t.height-1)+rowBytes {
		return fmt.Errorf("%w: pitch %d, %d bytes for %dx%d",
			ErrInvalidPitch, pitch, len(pixels), t.width, t.height)
	}
	data := pixels[:rowBytes*t.height]
	if pitch != rowBytes {
		data = make([]byte, rowBytes*t.height)
		for y := 0; y < t.height; y++ {
			copy(data[y*rowBytes:(y+1)*rowBytes], pixels[y*pitch:y*pitch+rowBytes])
		}
	}

	switch host := t.host.(type) {
	case gpucontext.TextureUpdater:
		err = host.UpdateData(data)
	case gpucontext.TextureRegionUpdater:
		err = host.UpdateRegion(0, 0, t.width, t.height, data)
	default:
		return fmt.Errorf("%w: %T", ErrNotUpdatable, t.host)
	}
	if err != nil {
		return fmt.Errorf("texcreator: texture update failed: %w", err)
	}
	return nil
}

// DestroyTexture releases tex. Destroying a texture twice, or a texture of
// another renderer, is a no-op.
func (r *Renderer) DestroyTexture(tex tilealias.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.owner != r {
		return
	}

	r.mu.Lock()
	if t.destroyed {
		r.mu.Unlock()
		return
	}
	t.destroyed = true
	r.live--
	r.mu.Unlock()

	if destroyer, ok := t.host.(textureDestroyer); ok {
		destroyer.Destroy()
	}
}

// Draw draws the whole texture at (x, y) with the renderer's drawer.
func (r *Renderer) Draw(tex tilealias.Texture, x, y float32) error {
	if r.drawer == nil {
		return ErrNoDrawer
	}
	t, err := r.ownTexture(tex)
	if err != nil {
		return err
	}
	return r.drawer.DrawTexture(t.host, x, y)
}

// ownTexture checks that tex is a live texture of r.
func (r *Renderer) ownTexture(tex tilealias.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.owner != r {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	return t, nil
}
