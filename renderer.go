package tilealias

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Texture is an opaque GPU texture handle created by a Renderer.
type Texture interface {
	gpucontext.Texture
}

// Renderer is the rendering context alias textures are created against.
//
// Renderers are compared by identity: the dynamic value passed to
// Pool.Acquire must be a pointer (or another reference type). The renderer
// must outlive every Alias created for it; the pool never closes it.
type Renderer interface {
	// CreateTexture allocates a texture described by desc.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// UpdateTexture replaces the whole content of tex with pixels.
	// pitch is the number of bytes between the starts of two rows.
	UpdateTexture(tex Texture, pixels []byte, pitch int) error

	// DestroyTexture releases tex. It is called exactly once per texture.
	DestroyTexture(tex Texture)
}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	// Label is a debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width  int
	Height int

	// Format is the pixel format.
	Format TextureFormat

	// Access describes how the texture content is updated.
	Access TextureAccess
}

// TextureFormat represents the pixel format of a texture.
type TextureFormat uint8

const (
	// TextureFormatRGBA8 is RGBA with 8 bits per channel. Alias textures
	// always use this format.
	TextureFormatRGBA8 TextureFormat = iota

	// TextureFormatBGRA8 is BGRA with 8 bits per channel.
	TextureFormatBGRA8

	// TextureFormatR8 is a single 8-bit channel.
	TextureFormatR8
)

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8:
		return "RGBA8"
	case TextureFormatBGRA8:
		return "BGRA8"
	case TextureFormatR8:
		return "R8"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatR8:
		return 1
	default:
		return 4
	}
}

// ToWGPUFormat converts to gputypes.TextureFormat.
func (f TextureFormat) ToWGPUFormat() gputypes.TextureFormat {
	switch f {
	case TextureFormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case TextureFormatR8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// TextureAccess describes how a texture is written after creation.
type TextureAccess uint8

const (
	// AccessStatic textures are uploaded once per rebuild and then only read.
	AccessStatic TextureAccess = iota

	// AccessStreaming textures are expected to be rewritten often and may
	// be read back.
	AccessStreaming

	// AccessTarget textures can also be used as render targets.
	AccessTarget
)

// String returns a human-readable name for the access mode.
func (a TextureAccess) String() string {
	switch a {
	case AccessStatic:
		return "static"
	case AccessStreaming:
		return "streaming"
	case AccessTarget:
		return "target"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}
