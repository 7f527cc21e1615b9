package tilealias

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefaultPoolOptions(t *testing.T) {
	o := defaultPoolOptions()
	if o.emptyPolicy != EmptyPlaceholder {
		t.Errorf("emptyPolicy = %v, want placeholder", o.emptyPolicy)
	}
	if o.access != AccessStatic {
		t.Errorf("access = %v, want static", o.access)
	}
}

func TestPoolOptionsApplied(t *testing.T) {
	p := NewPool(
		WithEmptyTilesetPolicy(EmptyReject),
		WithTextureAccess(AccessTarget),
	)
	defer p.Close()

	if p.opts.emptyPolicy != EmptyReject {
		t.Errorf("emptyPolicy = %v, want reject", p.opts.emptyPolicy)
	}
	if p.opts.access != AccessTarget {
		t.Errorf("access = %v, want target", p.opts.access)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{EmptyPlaceholder.String(), "placeholder"},
		{EmptyReject.String(), "reject"},
		{EmptyTilesetPolicy(9).String(), "unknown"},
		{AccessStatic.String(), "static"},
		{AccessStreaming.String(), "streaming"},
		{AccessTarget.String(), "target"},
		{TextureAccess(9).String(), "Unknown(9)"},
		{TextureFormatRGBA8.String(), "RGBA8"},
		{TextureFormatBGRA8.String(), "BGRA8"},
		{TextureFormatR8.String(), "R8"},
		{TextureFormat(7).String(), "Unknown(7)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestTextureFormatConversions(t *testing.T) {
	tests := []struct {
		format TextureFormat
		bpp    int
		wgpu   gputypes.TextureFormat
	}{
		{TextureFormatRGBA8, 4, gputypes.TextureFormatRGBA8Unorm},
		{TextureFormatBGRA8, 4, gputypes.TextureFormatBGRA8Unorm},
		{TextureFormatR8, 1, gputypes.TextureFormatR8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.format.ToWGPUFormat(); got != tt.wgpu {
				t.Errorf("ToWGPUFormat() = %v, want %v", got, tt.wgpu)
			}
		})
	}
}
