// Package backend provides pluggable renderers for tilealias.
//
// A RenderBackend is a tilealias.Renderer with a name and a lifecycle.
// Backends register themselves from init() and are selected at runtime.
// The software backend is always registered:
//
//	import "github.com/gogpu/tilealias/backend"
//
// Importing backend/native adds the wgpu backend, which Default prefers:
//
//	import _ "github.com/gogpu/tilealias/backend/native"
//
// # Backend Selection
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	pool := tilealias.NewPool()
//	defer pool.Close()
//	alias, err := pool.Acquire(ts, b)
//
// InitDefault walks the priority list and falls back to the software
// backend when no GPU adapter can be opened.
//
// # Available Backends
//
//   - "native": textures on a wgpu HAL device (backend/native)
//   - "software": CPU textures with readback (always available)
package backend
