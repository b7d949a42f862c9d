package reflections

import (
	"errors"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
)

func radianceDesc(w, h int) gpu.TextureDescriptor {
	return gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA16Float, EnableRandomWrite: true}
}

func TestResizableTextureAllocatesOnce(t *testing.T) {
	device := gputest.NewDevice()
	rt := NewResizableTexture(device, "radiance")

	for i := 0; i < 3; i++ {
		if _, err := rt.Ensure(radianceDesc(960, 540)); err != nil {
			t.Fatalf("Ensure failed: %v", err)
		}
	}

	if rt.Allocations() != 1 {
		t.Errorf("Expected 1 allocation for unchanged descriptors, got %d", rt.Allocations())
	}
	if device.TexturesCreated != 1 {
		t.Errorf("Expected 1 device texture, got %d", device.TexturesCreated)
	}
}

func TestResizableTextureReallocatesOnResize(t *testing.T) {
	device := gputest.NewDevice()
	rt := NewResizableTexture(device, "radiance")

	rt.Ensure(radianceDesc(960, 540))
	old := rt.Texture().(*gputest.Texture)

	reallocated, err := rt.Ensure(radianceDesc(640, 360))
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if !reallocated {
		t.Error("Resize should report a reallocation")
	}
	if !old.Released {
		t.Error("Old texture should be released on resize")
	}
	if rt.Texture().Descriptor().Width != 640 {
		t.Errorf("Expected width 640, got %d", rt.Texture().Descriptor().Width)
	}
}

func TestResizableTextureReallocatesOnFormatChange(t *testing.T) {
	rt := NewResizableTexture(gputest.NewDevice(), "history")
	rt.Ensure(radianceDesc(8, 8))

	desc := radianceDesc(8, 8)
	desc.Format = gpu.FormatRGBA32Float
	if reallocated, _ := rt.Ensure(desc); !reallocated {
		t.Error("Format change should reallocate")
	}
}

func TestResizableTextureRejectsInvalid(t *testing.T) {
	rt := NewResizableTexture(gputest.NewDevice(), "radiance")

	_, err := rt.Ensure(radianceDesc(0, 540))
	if !errors.Is(err, gpu.ErrInvalidDescriptor) {
		t.Errorf("Expected ErrInvalidDescriptor, got %v", err)
	}
	if rt.Texture() != nil {
		t.Error("No texture should be allocated for an invalid descriptor")
	}
}

func TestResizableTextureRelease(t *testing.T) {
	device := gputest.NewDevice()
	rt := NewResizableTexture(device, "radiance")
	rt.Ensure(radianceDesc(4, 4))

	if err := rt.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := rt.Release(); err != nil {
		t.Errorf("Second release should be a no-op, got %v", err)
	}
	if device.LiveTextures() != 0 {
		t.Errorf("Expected no live textures, got %d", device.LiveTextures())
	}
}
