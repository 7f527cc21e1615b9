// Command aliasdump loads a tileset, builds its alias texture on a backend
// and writes the texture to an image file.
//
//	aliasdump -font curses_12x12.png -columns 16 -rows 16 -out atlas.png
//	aliasdump -font DejaVuSansMono.ttf -tile 8x16 -out atlas.webp
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/tilealias"
	"github.com/gogpu/tilealias/backend"
	_ "github.com/gogpu/tilealias/backend/native" // register the GPU backend
	"github.com/gogpu/tilealias/pixmap"
	"github.com/gogpu/tilealias/tileset"
)

func main() {
	var (
		fontPath = flag.String("font", "", "tilesheet (png, bmp, gif) or TrueType font")
		columns  = flag.Int("columns", 16, "tilesheet columns")
		rows     = flag.Int("rows", 16, "tilesheet rows")
		tile     = flag.String("tile", "8x16", "tile size for TrueType fonts (WxH)")
		name     = flag.String("backend", "", "render backend (default: best available)")
		output   = flag.String("out", "atlas.png", "output file (.png or .webp)")
		scale    = flag.Int("scale", 1, "integer scale factor for the output")
		verbose  = flag.Bool("v", false, "log backend and pool activity")
	)
	flag.Parse()

	if *fontPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		tilealias.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ts, err := loadTileset(*fontPath, *columns, *rows, *tile)
	if err != nil {
		log.Fatalf("Failed to load tileset: %v", err)
	}

	rb, err := initBackend(*name)
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer rb.Close()

	pool := tilealias.NewPool()
	defer pool.Close()

	alias, err := pool.Acquire(ts, rb)
	if err != nil {
		log.Fatalf("Failed to build alias texture: %v", err)
	}

	atlas, err := readAtlas(rb, alias, ts)
	if err != nil {
		log.Fatalf("Failed to read alias texture: %v", err)
	}
	if s := *scale; s > 1 {
		atlas = atlas.Scale(atlas.Width()*s, atlas.Height()*s)
	}

	if err := writeImage(*output, atlas); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	w, h := alias.Size()
	log.Printf("Alias texture of %d tiles saved to %s (%dx%d, backend %s)\n",
		alias.TileCount(), *output, w, h, rb.Name())
}

// loadTileset picks the loader from the file extension.
func loadTileset(path string, columns, rows int, tile string) (*tileset.Tileset, error) {
	if strings.EqualFold(filepath.Ext(path), ".ttf") {
		var tw, th int
		if _, err := fmt.Sscanf(tile, "%dx%d", &tw, &th); err != nil {
			return nil, fmt.Errorf("invalid tile size %q: %w", tile, err)
		}
		data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return nil, err
		}
		return tileset.LoadTrueType(data, tw, th, tileset.CharmapCP437)
	}
	return tileset.LoadTilesheetFile(path, columns, rows, tileset.CharmapCP437)
}

// initBackend initializes the named backend, or the best available one.
func initBackend(name string) (backend.RenderBackend, error) {
	if name == "" {
		return backend.InitDefault()
	}
	rb := backend.Get(name)
	if rb == nil {
		return nil, fmt.Errorf("%w: %s (available: %s)",
			backend.ErrBackendNotAvailable, name, strings.Join(backend.Available(), ", "))
	}
	if err := rb.Init(); err != nil {
		return nil, err
	}
	return rb, nil
}

// readAtlas reads the texture back when the backend supports it and
// rebuilds the atlas on the CPU otherwise.
func readAtlas(rb backend.RenderBackend, alias *tilealias.Alias, ts *tileset.Tileset) (*pixmap.Pixmap, error) {
	if reader, ok := rb.(backend.TextureReader); ok && alias.Texture() != nil {
		return reader.ReadTexture(alias.Texture())
	}
	return tilealias.BuildAtlas(ts)
}

func writeImage(path string, p *pixmap.Pixmap) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = p.EncodeWebP(&buf)
	default:
		err = p.EncodePNG(&buf)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
