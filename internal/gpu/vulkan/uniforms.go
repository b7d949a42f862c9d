package vulkan

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

// MaxEyes bounds the per-eye matrix arrays in the ray generation uniform block.
const MaxEyes = 2

// PackMatrix copies a column-major mgl32 matrix into linmath layout.
func PackMatrix(m mgl32.Mat4) linmath.Mat4x4 {
	var out linmath.Mat4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[i*4+j]
		}
	}
	return out
}

func PackMatrices(ms []mgl32.Mat4) []linmath.Mat4x4 {
	out := make([]linmath.Mat4x4, len(ms))
	for i, m := range ms {
		out[i] = PackMatrix(m)
	}
	return out
}

// RayUniforms mirrors the std140 block read by the ray generation shader.
type RayUniforms struct {
	CameraToWorld     [MaxEyes]linmath.Mat4x4
	InverseProjection [MaxEyes]linmath.Mat4x4
	SpreadAngle       [MaxEyes]float32
	PrimarySamples    int32
	ReflectionSamples int32
	FrameCounter      int32
	CullPeriphery     int32
}

// SetEyes fills the per-eye arrays. Extra eyes are ignored and missing eyes
// repeat the last one.
func (u *RayUniforms) SetEyes(cameraToWorld, inverseProjection []mgl32.Mat4, spread []float32) {
	fill := func(dst *[MaxEyes]linmath.Mat4x4, src []mgl32.Mat4) {
		if len(src) == 0 {
			return
		}
		packed := PackMatrices(src)
		for i := range dst {
			dst[i] = packed[min(i, len(packed)-1)]
		}
	}
	fill(&u.CameraToWorld, cameraToWorld)
	fill(&u.InverseProjection, inverseProjection)
	if len(spread) > 0 {
		for i := range u.SpreadAngle {
			u.SpreadAngle[i] = spread[min(i, len(spread)-1)]
		}
	}
}
