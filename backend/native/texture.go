// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilealias"
)

// Texture is an alias texture on a HAL device.
//
// Texture pairs a hal.Texture with the 2D view used to bind it for sampling.
// It is created by Backend.CreateTexture and released by
// Backend.DestroyTexture; the view is destroyed before the texture.
//
// Texture is safe for concurrent read access.
type Texture struct {
	// mu protects mutable state.
	mu sync.RWMutex

	// owner is the backend that created the texture.
	owner *Backend

	// raw is the underlying HAL texture handle.
	raw hal.Texture

	// view is the sampling view of raw.
	view hal.TextureView

	label  string
	width  int
	height int
	format tilealias.TextureFormat
	usage  gputypes.TextureUsage

	// destroyed indicates whether the texture has been destroyed.
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Label returns the texture's debug label.
func (t *Texture) Label() string {
	return t.label
}

// Format returns the texture pixel format.
func (t *Texture) Format() tilealias.TextureFormat {
	return t.format
}

// Usage returns the HAL usage flags the texture was created with.
func (t *Texture) Usage() gputypes.TextureUsage {
	return t.usage
}

// Raw returns the underlying HAL texture, or nil after destruction.
func (t *Texture) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.raw
}

// View returns the sampling view, or nil after destruction.
func (t *Texture) View() hal.TextureView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.view
}

// IsDestroyed returns true if the texture has been destroyed.
func (t *Texture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// String returns a human-readable description of the texture.
func (t *Texture) String() string {
	state := "live"
	if t.IsDestroyed() {
		state = "destroyed"
	}
	return fmt.Sprintf("Texture(%q, %dx%d, %s, %s)", t.label, t.width, t.height, t.format, state)
}

// destroy releases the view and the texture on device. It reports whether
// this call did the release.
func (t *Texture) destroy(device hal.Device) bool {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return false
	}
	t.destroyed = true
	raw, view := t.raw, t.view
	t.raw, t.view = nil, nil
	t.mu.Unlock()

	if view != nil {
		device.DestroyTextureView(view)
	}
	if raw != nil {
		device.DestroyTexture(raw)
	}
	return true
}
