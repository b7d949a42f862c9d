package opengl

import (
	"GopherRT/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// pixelFormat is the GL triple used to allocate and upload a texture format.
type pixelFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

func glPixelFormat(f gpu.TextureFormat) (pixelFormat, bool) {
	switch f {
	case gpu.FormatR8Unorm:
		return pixelFormat{gl.R8, gl.RED, gl.UNSIGNED_BYTE}, true
	case gpu.FormatRGBA8Unorm:
		return pixelFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}, true
	case gpu.FormatRGBA16Float:
		return pixelFormat{gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT}, true
	case gpu.FormatRGBA32Float:
		return pixelFormat{gl.RGBA32F, gl.RGBA, gl.FLOAT}, true
	default:
		return pixelFormat{}, false
	}
}

// textureTarget picks the GL bind target for desc. Multisampled arrays are
// not available in GL 4.1 and fall back to a single-sample array.
func textureTarget(desc gpu.TextureDescriptor) uint32 {
	switch {
	case desc.Slices() > 1:
		return gl.TEXTURE_2D_ARRAY
	case desc.Samples() > 1:
		return gl.TEXTURE_2D_MULTISAMPLE
	default:
		return gl.TEXTURE_2D
	}
}

func glFilter(f gpu.FilterMode) int32 {
	if f == gpu.FilterBilinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// textureBytes estimates the GPU memory of desc including MSAA samples.
func textureBytes(desc gpu.TextureDescriptor) int64 {
	return int64(desc.Width) * int64(desc.Height) * int64(desc.Slices()) *
		int64(desc.Samples()) * int64(desc.Format.BytesPerPixel())
}
