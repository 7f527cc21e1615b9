// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides a tilealias renderer on a wgpu HAL device.
//
// Alias textures become 2D RGBA8 HAL textures with a sampling view.
// Uploads go through Queue.WriteTexture with the atlas row pitch as
// BytesPerRow, so no repacking is needed.
//
// Importing the package registers the backend as "native":
//
//	import _ "github.com/gogpu/tilealias/backend/native"
//
//	b, err := backend.InitDefault()
//
// To share a device with an application, use New or NewFromProvider:
//
//	b, err := native.NewFromProvider(app)
//	if err != nil {
//	    return err
//	}
//	if err := b.Init(); err != nil {
//	    return err
//	}
//	alias, err := pool.Acquire(ts, b)
//
// Backend.TileShader returns the shader module that draws tiles from an
// alias texture. The backend only uploads textures and never records draw
// commands, so the module is exported for hosts that build their own render
// pipeline around it. Its entry points are TileVertexEntry and
// TileFragmentEntry. Bind group 0 holds the uniform block (viewport and
// atlas size) at binding 0, Texture.View at binding 1 and a sampler at
// binding 2. Vertex attributes are the quad corner (location
// 0), destination rect (1), atlas source rect (2) and tint color (3).
package native
