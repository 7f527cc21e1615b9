// Package shader holds the WGSL shader used to draw tiles from an alias
// texture.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed tile.wgsl
var tileWGSL string

// Entry points of the tile shader.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Source returns the WGSL source of the tile shader.
func Source() string {
	return tileWGSL
}

// CompileSPIRV compiles the tile shader to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	return CompileToSPIRV(tileWGSL)
}

// CompileToSPIRV compiles WGSL source to SPIR-V uint32 words.
func CompileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V output is %d bytes, not a whole number of words", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
