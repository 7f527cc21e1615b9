package pixmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
)

func TestNew(t *testing.T) {
	pm := New(3, 2)
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	if pm.Stride() != 12 {
		t.Errorf("Stride() = %d, want 12", pm.Stride())
	}
	if len(pm.Data()) != 24 {
		t.Errorf("len(Data()) = %d, want 24", len(pm.Data()))
	}
	for i, v := range pm.Data() {
		if v != 0 {
			t.Fatalf("new pixmap not transparent at byte %d", i)
		}
	}
}

func TestNewNegative(t *testing.T) {
	pm := New(-1, -5)
	if pm.Width() != 0 || pm.Height() != 0 || len(pm.Data()) != 0 {
		t.Errorf("New(-1, -5) = %dx%d with %d bytes, want empty", pm.Width(), pm.Height(), len(pm.Data()))
	}
}

func TestSetRGBA(t *testing.T) {
	pm := New(4, 4)
	pm.SetRGBA(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	i := (2*4 + 1) * 4
	data := pm.Data()
	if data[i] != 10 || data[i+1] != 20 || data[i+2] != 30 || data[i+3] != 40 {
		t.Errorf("raw data = %v, want [10 20 30 40]", data[i:i+4])
	}
	if got := pm.RGBAAt(1, 2); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("RGBAAt(1, 2) = %v", got)
	}
}

func TestSetRGBAOutOfBounds(t *testing.T) {
	pm := New(4, 4)
	oob := []struct{ x, y int }{
		{-1, 0}, {4, 0}, {0, -1}, {0, 4}, {100, 100},
	}
	for _, c := range oob {
		pm.SetRGBA(c.x, c.y, red)
		if got := pm.RGBAAt(c.x, c.y); got != (color.NRGBA{}) {
			t.Errorf("RGBAAt(%d, %d) = %v, want transparent", c.x, c.y, got)
		}
	}
	for i, v := range pm.Data() {
		if v != 0 {
			t.Fatalf("out-of-bounds write modified byte %d", i)
		}
	}
}

func TestFillAndRow(t *testing.T) {
	pm := New(2, 3)
	pm.Fill(green)
	row := pm.Row(1)
	if len(row) != 8 {
		t.Fatalf("len(Row(1)) = %d, want 8", len(row))
	}
	want := []byte{0, 255, 0, 255, 0, 255, 0, 255}
	if !bytes.Equal(row, want) {
		t.Errorf("Row(1) = %v, want %v", row, want)
	}
	if pm.Row(3) != nil || pm.Row(-1) != nil {
		t.Error("Row out of range should be nil")
	}
}

func TestCloneAndEqual(t *testing.T) {
	pm := New(2, 2)
	pm.Fill(red)
	c := pm.Clone()
	if !pm.Equal(c) {
		t.Fatal("clone should be equal")
	}
	c.SetRGBA(0, 0, green)
	if pm.Equal(c) {
		t.Error("modified clone should differ")
	}
	if pm.RGBAAt(0, 0) != red {
		t.Error("clone shares memory with original")
	}
	if pm.Equal(New(2, 1)) {
		t.Error("different sizes should not be equal")
	}
	var nilPM *Pixmap
	if !nilPM.Equal(nil) || pm.Equal(nil) {
		t.Error("nil equality mismatch")
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, color.RGBA{R: 255, A: 255})
	src.Set(12, 11, color.RGBA{B: 255, A: 255})

	pm := FromImage(src)
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	if got := pm.RGBAAt(0, 0); got != red {
		t.Errorf("RGBAAt(0, 0) = %v, want red", got)
	}
	if got := pm.RGBAAt(2, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("RGBAAt(2, 1) = %v, want blue", got)
	}
	if got := pm.RGBAAt(1, 0); got.A != 0 {
		t.Errorf("RGBAAt(1, 0) = %v, want transparent", got)
	}
}

func TestScale(t *testing.T) {
	pm := New(2, 1)
	pm.SetRGBA(0, 0, red)
	pm.SetRGBA(1, 0, green)

	s := pm.Scale(4, 2)
	if s.Width() != 4 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", s.Width(), s.Height())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want := red
			if x >= 2 {
				want = green
			}
			if got := s.RGBAAt(x, y); got != want {
				t.Errorf("RGBAAt(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	pm := New(3, 3)
	pm.Fill(red)
	pm.SetRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if !FromImage(img).Equal(pm) {
		t.Error("decoded PNG differs from source pixmap")
	}
}

func TestSavePNG(t *testing.T) {
	pm := New(2, 2)
	pm.Fill(green)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := pm.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := pm.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("SavePNG into a missing directory should fail")
	}
}

func TestEncodeWebP(t *testing.T) {
	pm := New(4, 4)
	pm.Fill(red)
	var buf bytes.Buffer
	if err := pm.EncodeWebP(&buf); err != nil {
		t.Fatalf("EncodeWebP: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("output is not a RIFF/WEBP container: % x", b[:min(len(b), 12)])
	}
}

func TestImageInterface(t *testing.T) {
	pm := New(5, 6)
	var img image.Image = pm
	if img.Bounds() != image.Rect(0, 0, 5, 6) {
		t.Errorf("Bounds() = %v", img.Bounds())
	}
	if img.ColorModel() != color.NRGBAModel {
		t.Error("ColorModel() should be NRGBAModel")
	}
	pm.SetRGBA(4, 5, red)
	r, _, _, a := img.At(4, 5).RGBA()
	if r != 0xffff || a != 0xffff {
		t.Errorf("At(4, 5).RGBA() = r=%d a=%d, want opaque red", r, a)
	}
}
