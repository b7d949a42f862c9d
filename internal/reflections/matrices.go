package reflections

import (
	"math"

	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// SpreadAngle is the per-pixel ray cone angle: the vertical field of view
// implied by proj divided by the traced row count.
func SpreadAngle(proj mgl32.Mat4, targetHeight, factor int) float32 {
	if factor < 1 {
		factor = 1
	}
	rows := targetHeight / factor
	m11 := proj.At(1, 1)
	if rows <= 0 || m11 == 0 {
		return 0
	}
	vertFOV := 2 * math.Atan(1/float64(m11))
	return float32(vertFOV) / float32(rows)
}

// RadianceSize is the traced resolution for a camera target.
func RadianceSize(width, height, factor int) (int, int) {
	if factor < 1 {
		factor = 1
	}
	return width / factor, height / factor
}

// RadianceDescriptor derives the ray tracing output texture from the camera
// target: downsampled, random-write, single sample, no depth and no mips.
func RadianceDescriptor(camera gpu.TextureDescriptor, factor int) gpu.TextureDescriptor {
	desc := camera
	desc.Width, desc.Height = RadianceSize(camera.Width, camera.Height, factor)
	desc.EnableRandomWrite = true
	desc.MSAASamples = 1
	desc.DepthBufferBits = 0
	desc.AutoGenerateMips = false
	return desc
}

// MaskDescriptor derives the specular mask target: full resolution, 8x MSAA, R8.
func MaskDescriptor(camera gpu.TextureDescriptor) gpu.TextureDescriptor {
	desc := camera
	desc.Format = gpu.FormatR8Unorm
	desc.MSAASamples = 8
	desc.AutoGenerateMips = false
	desc.EnableRandomWrite = false
	return desc
}

// FrameMatrix reprojects current view-space positions into the previous
// frame's clip space.
func FrameMatrix(prevViewProjection, currentInverseView mgl32.Mat4) mgl32.Mat4 {
	return prevViewProjection.Mul4(currentInverseView)
}

// ScaleBias returns the _ScaleBiasRt vector for a possibly flipped projection.
func ScaleBias(projectionFlipped bool) mgl32.Vec4 {
	if projectionFlipped {
		return mgl32.Vec4{-1, 1, -1, 1}
	}
	return mgl32.Vec4{1, 0, 1, 1}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
