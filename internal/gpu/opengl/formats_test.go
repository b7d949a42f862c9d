package opengl

import (
	"testing"

	"GopherRT/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func TestPixelFormats(t *testing.T) {
	tests := []struct {
		format   gpu.TextureFormat
		internal int32
		xtype    uint32
	}{
		{gpu.FormatR8Unorm, gl.R8, gl.UNSIGNED_BYTE},
		{gpu.FormatRGBA8Unorm, gl.RGBA8, gl.UNSIGNED_BYTE},
		{gpu.FormatRGBA16Float, gl.RGBA16F, gl.HALF_FLOAT},
		{gpu.FormatRGBA32Float, gl.RGBA32F, gl.FLOAT},
	}
	for _, tt := range tests {
		pf, ok := glPixelFormat(tt.format)
		if !ok {
			t.Errorf("%s should be supported", tt.format)
			continue
		}
		if pf.internal != tt.internal || pf.xtype != tt.xtype {
			t.Errorf("%s mapped to %+v", tt.format, pf)
		}
	}
	if _, ok := glPixelFormat(gpu.FormatUnknown); ok {
		t.Error("Unknown format should not map")
	}
}

func TestTextureTarget(t *testing.T) {
	mask := gpu.TextureDescriptor{Width: 4, Height: 4, Format: gpu.FormatR8Unorm, MSAASamples: 8}
	if textureTarget(mask) != gl.TEXTURE_2D_MULTISAMPLE {
		t.Error("MSAA mask should be a multisample texture")
	}
	stereo := gpu.TextureDescriptor{Width: 4, Height: 4, Format: gpu.FormatRGBA16Float, Dimension: gpu.Dimension2DArray, VolumeDepth: 2}
	if textureTarget(stereo) != gl.TEXTURE_2D_ARRAY {
		t.Error("Stereo targets should be texture arrays")
	}
	if textureTarget(gpu.TextureDescriptor{Width: 4, Height: 4}) != gl.TEXTURE_2D {
		t.Error("Plain targets should be 2D textures")
	}
}

func TestTextureBytes(t *testing.T) {
	mask := gpu.TextureDescriptor{Width: 1920, Height: 1080, Format: gpu.FormatR8Unorm, MSAASamples: 8}
	if got := textureBytes(mask); got != 1920*1080*8 {
		t.Errorf("Unexpected mask size %d", got)
	}
}

func TestGLFilter(t *testing.T) {
	if glFilter(gpu.FilterPoint) != gl.NEAREST || glFilter(gpu.FilterBilinear) != gl.LINEAR {
		t.Error("Unexpected filter mapping")
	}
}

func TestSamplerUniforms(t *testing.T) {
	src := `#version 410 core
in vec2 uv;
uniform sampler2D _MainTex;
uniform sampler2D _TemporalAATexture;
uniform float _TemporalFade;
out vec4 color;
`
	names := samplerUniforms(src)
	if len(names) != 2 || names[0] != "_MainTex" || names[1] != "_TemporalAATexture" {
		t.Errorf("Unexpected samplers %v", names)
	}
}
