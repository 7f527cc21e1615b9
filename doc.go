// Package tilealias caches tileset atlas textures per renderer.
//
// # Overview
//
// A tileset is a list of fixed-size tile bitmaps (glyphs of a bitmap font,
// sprites of a roguelike). Drawing from it is cheapest with a single texture
// holding every tile. tilealias builds that texture, an "alias" of the
// tileset on one renderer, and keeps it in sync:
//
//   - Pool returns one shared Alias per (tileset, renderer) pair, so the
//     tileset is uploaded once per renderer no matter how many callers
//     draw from it.
//   - Each Alias observes its tileset and rebuilds the texture whenever a
//     tile changes.
//   - BuildAtlas packs the tiles side by side in one horizontal strip.
//
// # Quick Start
//
//	ts, err := tileset.LoadTilesheetFile("terminal.png", 16, 16, tileset.CharmapCP437)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	pool := tilealias.NewPool()
//	defer pool.Close()
//
//	alias, err := pool.Acquire(ts, r)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tex := alias.Texture()
//	src, _ := alias.TileRect(ts.TileIndex('@'))
//
// # Lifetime
//
// The pool references aliases weakly. An Alias stays cached while a caller
// holds it; after the last reference is dropped, the next Collect, Acquire
// or Close destroys its texture and unsubscribes it. Remove and Close
// release aliases explicitly.
//
// Renderers are never closed by the pool and must outlive their aliases.
//
// # Rebuilds
//
// Every tileset notification triggers a full rebuild: the atlas is rebuilt,
// a new texture created and uploaded, and only then the previous texture is
// destroyed. A failed rebuild leaves the previous texture installed and
// returns the error to the goroutine that mutated the tileset. Always fetch
// Texture again after mutating a tileset.
//
// # Logging
//
// tilealias is silent by default. See SetLogger.
package tilealias
