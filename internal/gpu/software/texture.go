package software

import (
	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a CPU texture holding one float4 per texel. Multisampled
// descriptors keep a single resolved sample.
type Texture struct {
	desc     gpu.TextureDescriptor
	pixels   []mgl32.Vec4
	released bool
	device   *Device
}

func NewTexture(desc gpu.TextureDescriptor) *Texture {
	return &Texture{
		desc:   desc,
		pixels: make([]mgl32.Vec4, desc.Width*desc.Height*desc.Slices()),
	}
}

func (t *Texture) Descriptor() gpu.TextureDescriptor {
	return t.desc
}

func (t *Texture) Release() error {
	if t.released {
		return gpu.ErrReleased
	}
	t.released = true
	t.pixels = nil
	if t.device != nil {
		t.device.live.Add(-1)
	}
	return nil
}

func (t *Texture) index(x, y, slice int) int {
	x = clampInt(x, 0, t.desc.Width-1)
	y = clampInt(y, 0, t.desc.Height-1)
	slice = clampInt(slice, 0, t.desc.Slices()-1)
	return (slice*t.desc.Height+y)*t.desc.Width + x
}

// At returns the texel at (x, y) in slice, clamping to the edges.
func (t *Texture) At(x, y, slice int) mgl32.Vec4 {
	if t.released {
		return mgl32.Vec4{}
	}
	return t.pixels[t.index(x, y, slice)]
}

func (t *Texture) Set(x, y, slice int, v mgl32.Vec4) {
	if t.released {
		return
	}
	if t.desc.Format == gpu.FormatR8Unorm {
		v = mgl32.Vec4{clamp01(v[0]), 0, 0, 0}
	}
	t.pixels[t.index(x, y, slice)] = v
}

// Sample fetches the nearest texel to normalized coordinates (u, v).
func (t *Texture) Sample(u, v float32, slice int) mgl32.Vec4 {
	x := int(u * float32(t.desc.Width))
	y := int(v * float32(t.desc.Height))
	return t.At(x, y, slice)
}

func (t *Texture) Fill(v mgl32.Vec4) {
	if t.desc.Format == gpu.FormatR8Unorm {
		v = mgl32.Vec4{clamp01(v[0]), 0, 0, 0}
	}
	for i := range t.pixels {
		t.pixels[i] = v
	}
}

// Pixels exposes the backing store, slice-major then row-major.
func (t *Texture) Pixels() []mgl32.Vec4 {
	return t.pixels
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}
