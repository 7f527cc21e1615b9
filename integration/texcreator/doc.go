// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texcreator lets applications that expose a
// gpucontext.TextureCreator host alias textures.
//
// The Renderer creates textures through NewTextureFromRGBA and uploads
// rebuilt atlases through the texture's UpdateData method, so any host
// implementing the gpucontext texture interfaces (for example gogpu) can
// be passed to tilealias.Pool.Acquire:
//
//	r, err := texcreator.NewFromDrawer(drawer)
//	if err != nil {
//	    return err
//	}
//	alias, err := pool.Acquire(ts, r)
//	if err != nil {
//	    return err
//	}
//	r.Draw(alias.Texture(), 0, 0)
package texcreator
