package reflections

import (
	"GopherRT/internal/gpu"
	"GopherRT/internal/pipeline"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

// cameraState is the cross-frame state of one camera.
type cameraState struct {
	// frameCounter seeds ray noise. It wraps to 0 after 2^32 frames and is
	// bound as the same bit pattern in an int32.
	frameCounter       uint32
	radiance           *ResizableTexture
	accumulator        *TemporalAccumulator
	prevViewProjection [pipeline.MaxEyes]mgl32.Mat4
	lastFrame          uint64
}

func newCameraState(device gpu.Device) *cameraState {
	return &cameraState{
		radiance:    NewResizableTexture(device, RadianceTargetName),
		accumulator: NewTemporalAccumulator(device),
	}
}

func (s *cameraState) release() error {
	return multierr.Append(s.radiance.Release(), s.accumulator.Release())
}
