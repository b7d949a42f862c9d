package renderer

import (
	"bytes"
	"image/png"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/software"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTonemap(t *testing.T) {
	if c := Tonemap(mgl32.Vec3{0, -1, 0}); c.R != 0 || c.G != 0 || c.A != 255 {
		t.Errorf("Black should stay black, got %v", c)
	}
	// 1/(1+1) = 0.5, 0.5^(1/2.2) ~ 0.7297
	if c := Tonemap(mgl32.Vec3{1, 1, 1}); c.R != 186 {
		t.Errorf("Expected 186 for unit radiance, got %d", c.R)
	}
	if c := Tonemap(mgl32.Vec3{1e6, 0, 0}); c.R != 255 {
		t.Errorf("Bright values should saturate, got %d", c.R)
	}
}

func TestEncodePNG(t *testing.T) {
	tex := software.NewTexture(gpu.TextureDescriptor{Width: 4, Height: 2, Format: gpu.FormatRGBA32Float})
	tex.Set(3, 1, 0, mgl32.Vec4{1, 1, 1, 1})

	var buf bytes.Buffer
	if err := EncodePNG(&buf, tex, 0); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("Unexpected bounds %v", b)
	}
	if r, _, _, _ := img.At(3, 1).RGBA(); r>>8 != 186 {
		t.Errorf("Expected lit pixel, got %d", r>>8)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("Expected black pixel, got %d", r)
	}
}
