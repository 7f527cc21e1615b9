package shader

import (
	"strings"
	"testing"
)

func TestSource(t *testing.T) {
	src := Source()
	for _, want := range []string{
		"fn " + VertexEntry,
		"fn " + FragmentEntry,
		"texture_2d<f32>",
		"var<uniform> uniforms",
		"textureSample",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("tile shader does not contain %q", want)
		}
	}
}

// skipUnsupported skips when naga lacks a feature the shader needs.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV()
	if err != nil {
		skipUnsupported(t, err)
		t.Fatalf("failed to compile tile shader: %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V output has %d words, want at least a header", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#08x, want 0x07230203", words[0])
	}
}

func TestCompileToSPIRVInvalid(t *testing.T) {
	if _, err := CompileToSPIRV("fn broken( {"); err == nil {
		t.Error("invalid WGSL should fail to compile")
	}
}
