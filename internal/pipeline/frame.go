package pipeline

import (
	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxEyes is the largest view count a frame can carry.
const MaxEyes = 2

// MainCameraTag marks the game camera that receives full-cost effects.
const MainCameraTag = "MainCamera"

type CameraType int

const (
	CameraGame CameraType = iota
	CameraSceneView
	CameraPreview
	CameraReflection
)

// CameraID identifies a camera across frames.
type CameraID uint64

type StereoMode int

const (
	StereoMultiPass StereoMode = iota
	StereoSinglePassInstanced
)

type XRState struct {
	Enabled bool
	Mode    StereoMode
}

// EyeCount is 2 only for single-pass instanced stereo; multi-pass renders one eye per camera pass.
func (x XRState) EyeCount() int {
	if x.Enabled && x.Mode == StereoSinglePassInstanced {
		return 2
	}
	return 1
}

type CameraData struct {
	ID                CameraID
	Type              CameraType
	Tag               string
	TargetDescriptor  gpu.TextureDescriptor
	ColorTarget       gpu.RenderTarget
	View              [MaxEyes]mgl32.Mat4
	Projection        [MaxEyes]mgl32.Mat4
	ProjectionFlipped bool
}

func (c *CameraData) ViewMatrix(eye int) mgl32.Mat4 {
	if eye < 0 || eye >= MaxEyes {
		eye = 0
	}
	return c.View[eye]
}

func (c *CameraData) ProjectionMatrix(eye int) mgl32.Mat4 {
	if eye < 0 || eye >= MaxEyes {
		eye = 0
	}
	return c.Projection[eye]
}

// FrameContext holds the inputs of one camera render. Everything except the
// per-object data requirements is fixed once the frame starts.
type FrameContext struct {
	Camera     CameraData
	XR         XRState
	FrameIndex uint64

	perObject PerObjectData
}

func (f *FrameContext) RequirePerObjectData(d PerObjectData) {
	f.perObject |= d
}

func (f *FrameContext) PerObjectData() PerObjectData {
	return f.perObject
}
