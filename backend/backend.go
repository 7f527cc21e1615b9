package backend

import (
	"errors"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/pixmap"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// RenderBackend is a tilealias.Renderer with a lifecycle.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	tilealias.Renderer

	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init initializes the backend.
	// This should be called before any texture operations.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()
}

// TextureReader is implemented by backends that can read a texture back
// into a pixmap.
type TextureReader interface {
	ReadTexture(tex tilealias.Texture) (*pixmap.Pixmap, error)
}
