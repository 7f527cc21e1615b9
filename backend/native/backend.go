// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/backend"
	"github.com/gogpu/tilealias/internal/shader"
)

// Backend is a tilealias.Renderer on top of a wgpu HAL device.
//
// A Backend either opens its own device in Init or shares a device created
// elsewhere (see New and NewFromProvider). A shared device is never
// destroyed by the backend.
//
// Backend is safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	device   hal.Device
	queue    hal.Queue
	instance hal.Instance

	// owned reports whether Init opened device and instance.
	owned       bool
	initialized bool

	adapterName    string
	maxTextureSize int

	// shader is the tile shader module, compiled on first use.
	shader hal.ShaderModule

	live int
}

// New creates a backend that shares an existing HAL device and queue.
// Passing nil for both makes Init open a device of its own.
func New(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{
		device:         device,
		queue:          queue,
		maxTextureSize: int(gputypes.DefaultLimits().MaxTextureDimension2D),
	}
}

// halProvider is implemented by device providers that expose HAL handles
// directly.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a backend sharing the device of provider.
//
// The provider must expose hal.Device and hal.Queue, either through
// HalDevice/HalQueue accessors or as the values returned by Device and
// Queue. Otherwise ErrNoHALProvider is returned.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Backend, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: nil provider", ErrNoHALProvider)
	}

	var device hal.Device
	var queue hal.Queue
	if hp, ok := provider.(halProvider); ok {
		device, _ = hp.HalDevice().(hal.Device)
		queue, _ = hp.HalQueue().(hal.Queue)
	}
	if device == nil || queue == nil {
		device, _ = provider.Device().(hal.Device)
		queue, _ = provider.Queue().(hal.Queue)
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: %T", ErrNoHALProvider, provider)
	}

	b := New(device, queue)
	b.adapterName = provider.AdapterInfo().Name
	return b, nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendNative
}

// AdapterName returns the name of the GPU adapter, if known.
func (b *Backend) AdapterName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adapterName
}

// MaxTextureSize returns the largest accepted texture width or height.
func (b *Backend) MaxTextureSize() int {
	return b.maxTextureSize
}

// Init initializes the backend, opening a Vulkan device when none is
// shared.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if b.device == nil {
		if err := b.openDevice(); err != nil {
			b.releaseOwned()
			return err
		}
	}
	b.initialized = true
	tilealias.Logger().Info("native: backend initialized",
		"adapter", b.adapterName, "shared", !b.owned)
	return nil
}

// openDevice opens a device on the first discrete or integrated adapter.
// Callers hold b.mu.
func (b *Backend) openDevice() error {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrNoGPU, err)
	}
	b.instance = instance
	b.owned = true

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("%w: no adapters found", ErrNoGPU)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("%w: open device: %w", ErrNoGPU, err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	return nil
}

// releaseOwned destroys the device and instance opened by Init.
// Callers hold b.mu.
func (b *Backend) releaseOwned() {
	if !b.owned {
		return
	}
	if b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
	}
	b.device, b.queue, b.instance = nil, nil, nil
	b.owned = false
}

// Close releases the tile shader and, for an owned device, the device
// itself. Textures still alive are reported in the log and leaked.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	if b.live > 0 {
		tilealias.Logger().Warn("native: backend closed with live textures", "live", b.live)
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
	b.releaseOwned()
	b.initialized = false
}

// LiveTextures returns the number of textures created and not destroyed.
func (b *Backend) LiveTextures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// textureUsage maps an access mode to HAL usage flags.
func textureUsage(access tilealias.TextureAccess) gputypes.TextureUsage {
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	switch access {
	case tilealias.AccessStreaming:
		usage |= gputypes.TextureUsageCopySrc
	case tilealias.AccessTarget:
		usage |= gputypes.TextureUsageRenderAttachment
	}
	return usage
}

// CreateTexture creates a 2D texture and its sampling view.
func (b *Backend) CreateTexture(desc tilealias.TextureDescriptor) (tilealias.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if desc.Width <= 0 || desc.Height <= 0 ||
		desc.Width > b.maxTextureSize || desc.Height > b.maxTextureSize {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidDimensions, desc.Width, desc.Height, b.maxTextureSize)
	}

	format := desc.Format.ToWGPUFormat()
	usage := textureUsage(desc.Access)
	raw, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // validated above
			Height:             uint32(desc.Height), //nolint:gosec // validated above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	view, err := b.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:           desc.Label + " view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(raw)
		return nil, fmt.Errorf("native: create view for %q: %w", desc.Label, err)
	}

	b.live++
	tilealias.Logger().Debug("native: texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height, "usage", usage)
	return &Texture{
		owner:  b,
		raw:    raw,
		view:   view,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		usage:  usage,
	}, nil
}

// UpdateTexture writes pixels to tex through the queue.
func (b *Backend) UpdateTexture(tex tilealias.Texture, pixels []byte, pitch int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	t, err := b.ownTexture(tex)
	if err != nil {
		return err
	}
	raw := t.Raw()
	if raw == nil {
		return ErrTextureDestroyed
	}

	rowBytes := t.width * t.format.BytesPerPixel()
	if pitch < rowBytes || len(pixels) < pitch*(t.height-1)+rowBytes {
		return fmt.Errorf("%w: pitch %d, %d bytes for %dx%d %s",
			ErrInvalidPitch, pitch, len(pixels), t.width, t.height, t.format)
	}

	err = b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{},
			Aspect:   gputypes.TextureAspectAll,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(pitch),    //nolint:gosec // validated above
			RowsPerImage: uint32(t.height), //nolint:gosec // positive
		},
		&hal.Extent3D{
			Width:              uint32(t.width),  //nolint:gosec // positive
			Height:             uint32(t.height), //nolint:gosec // positive
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		return fmt.Errorf("native: write texture %q: %w", t.label, err)
	}
	return nil
}

// DestroyTexture releases tex. Destroying a texture twice, or a texture of
// another backend, is a no-op.
func (b *Backend) DestroyTexture(tex tilealias.Texture) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := tex.(*Texture)
	if !ok || t == nil || t.owner != b || b.device == nil {
		return
	}
	if t.destroy(b.device) {
		b.live--
	}
}

// Entry points of the module returned by TileShader.
const (
	TileVertexEntry   = shader.VertexEntry
	TileFragmentEntry = shader.FragmentEntry
)

// TileShader returns the shader module used to draw tiles from alias
// textures, for hosts that build their own render pipeline. It is compiled
// on first use and released by Close.
func (b *Backend) TileShader() (hal.ShaderModule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}
	if b.shader != nil {
		return b.shader, nil
	}

	words, err := shader.CompileSPIRV()
	if err != nil {
		return nil, fmt.Errorf("native: tile shader: %w", err)
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "tilealias_tile",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create tile shader module: %w", err)
	}
	b.shader = module
	tilealias.Logger().Debug("native: tile shader compiled", "words", len(words))
	return module, nil
}

// ownTexture checks that tex is a live texture of b. Callers hold b.mu.
func (b *Backend) ownTexture(tex tilealias.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.owner != b {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.IsDestroyed() {
		return nil, ErrTextureDestroyed
	}
	return t, nil
}
