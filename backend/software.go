package backend

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/pixmap"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU texture backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendNative = "native"
)

// Software backend errors.
var (
	// ErrInvalidDimensions is returned for non-positive or oversized textures.
	ErrInvalidDimensions = errors.New("backend: invalid texture dimensions")

	// ErrTextureDestroyed is returned when updating a destroyed texture.
	ErrTextureDestroyed = errors.New("backend: texture has been destroyed")

	// ErrForeignTexture is returned for textures created by another backend.
	ErrForeignTexture = errors.New("backend: texture belongs to another backend")

	// ErrInvalidPitch is returned when the row pitch or buffer length does not
	// cover the texture.
	ErrInvalidPitch = errors.New("backend: invalid row pitch")
)

// SoftwareTexture is a texture held in CPU memory.
type SoftwareTexture struct {
	owner     *SoftwareBackend
	label     string
	width     int
	height    int
	format    tilealias.TextureFormat
	access    tilealias.TextureAccess
	pixels    []byte
	uploads   int
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *SoftwareTexture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *SoftwareTexture) Height() int { return t.height }

// Label returns the debug label the texture was created with.
func (t *SoftwareTexture) Label() string { return t.label }

// Format returns the pixel format.
func (t *SoftwareTexture) Format() tilealias.TextureFormat { return t.format }

// Access returns the access mode the texture was created with.
func (t *SoftwareTexture) Access() tilealias.TextureAccess { return t.access }

// Uploads returns how many times the texture content was replaced.
func (t *SoftwareTexture) Uploads() int {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.uploads
}

// Destroyed reports whether DestroyTexture was called for the texture.
func (t *SoftwareTexture) Destroyed() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.destroyed
}

// SoftwareStats are the texture counters of a SoftwareBackend.
type SoftwareStats struct {
	Created   int
	Destroyed int
	Uploads   int
	Live      int
}

// SoftwareOption configures a SoftwareBackend.
type SoftwareOption func(*SoftwareBackend)

// WithMaxTextureSize sets the largest accepted texture width or height.
// The default is the WebGPU default limit for 2D textures.
func WithMaxTextureSize(n int) SoftwareOption {
	return func(b *SoftwareBackend) {
		b.maxTextureSize = n
	}
}

// SoftwareBackend is a CPU-based texture backend.
// Textures are plain byte slices, which makes uploads byte-exact and
// readable through ReadTexture.
//
// SoftwareBackend is safe for concurrent use.
type SoftwareBackend struct {
	mu             sync.Mutex
	initialized    bool
	maxTextureSize int
	stats          SoftwareStats
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() RenderBackend {
		return NewSoftwareBackend()
	})
}

// NewSoftwareBackend creates a new software backend.
func NewSoftwareBackend(opts ...SoftwareOption) *SoftwareBackend {
	b := &SoftwareBackend{
		maxTextureSize: int(gputypes.DefaultLimits().MaxTextureDimension2D),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

// Close releases all backend resources. Textures that were not destroyed
// are leaked and reported in the log.
func (b *SoftwareBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stats.Live > 0 {
		tilealias.Logger().Warn("backend: software backend closed with live textures", "live", b.stats.Live)
	}
	b.initialized = false
}

// MaxTextureSize returns the largest accepted texture width or height.
func (b *SoftwareBackend) MaxTextureSize() int {
	return b.maxTextureSize
}

// Stats returns a snapshot of the texture counters.
func (b *SoftwareBackend) Stats() SoftwareStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// CreateTexture allocates a zeroed CPU texture.
func (b *SoftwareBackend) CreateTexture(desc tilealias.TextureDescriptor) (tilealias.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if desc.Width <= 0 || desc.Height <= 0 ||
		desc.Width > b.maxTextureSize || desc.Height > b.maxTextureSize {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidDimensions, desc.Width, desc.Height, b.maxTextureSize)
	}

	tex := &SoftwareTexture{
		owner:  b,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		access: desc.Access,
		pixels: make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel()),
	}
	b.stats.Created++
	b.stats.Live++
	tilealias.Logger().Debug("backend: software texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height, "format", desc.Format)
	return tex, nil
}

// UpdateTexture copies pixels into tex row by row using pitch.
func (b *SoftwareBackend) UpdateTexture(tex tilealias.Texture, pixels []byte, pitch int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.ownTexture(tex)
	if err != nil {
		return err
	}
	rowBytes := t.width * t.format.BytesPerPixel()
	if pitch < rowBytes || len(pixels) < pitch*(t.height-1)+rowBytes {
		return fmt.Errorf("%w: pitch %d, %d bytes for %dx%d %s",
			ErrInvalidPitch, pitch, len(pixels), t.width, t.height, t.format)
	}
	for y := 0; y < t.height; y++ {
		copy(t.pixels[y*rowBytes:(y+1)*rowBytes], pixels[y*pitch:y*pitch+rowBytes])
	}
	t.uploads++
	b.stats.Uploads++
	return nil
}

// DestroyTexture releases tex. Destroying a texture twice is a no-op.
func (b *SoftwareBackend) DestroyTexture(tex tilealias.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := tex.(*SoftwareTexture)
	if !ok || t == nil || t.owner != b || t.destroyed {
		return
	}
	t.destroyed = true
	t.pixels = nil
	b.stats.Destroyed++
	b.stats.Live--
}

// ReadTexture returns a copy of an RGBA8 texture.
func (b *SoftwareBackend) ReadTexture(tex tilealias.Texture) (*pixmap.Pixmap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.ownTexture(tex)
	if err != nil {
		return nil, err
	}
	if t.format.BytesPerPixel() != pixmap.BytesPerPixel {
		return nil, fmt.Errorf("backend: cannot read %s texture as RGBA", t.format)
	}
	pm := pixmap.New(t.width, t.height)
	copy(pm.Data(), t.pixels)
	return pm, nil
}

// ownTexture checks that tex is a live texture of b. Callers hold b.mu.
func (b *SoftwareBackend) ownTexture(tex tilealias.Texture) (*SoftwareTexture, error) {
	t, ok := tex.(*SoftwareTexture)
	if !ok || t == nil || t.owner != b {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	return t, nil
}
