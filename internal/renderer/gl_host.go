package renderer

import (
	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/opengl"
	"GopherRT/internal/pipeline"
)

// OpenGLHost runs pipeline features on the GL backend against the window
// framebuffer. GL cannot build acceleration structures, so the reflection
// stage loads its GLSL materials here and then skips every frame.
type OpenGLHost struct {
	Device    *opengl.Device
	Resources gpu.ResourceProvider
	XR        pipeline.XRState

	cmd        gpu.CommandBuffer
	renderer   *pipeline.Renderer
	frameIndex uint64
}

// NewOpenGLHost must be called with a current GL context. resources is
// normally an *opengl.Provider with RegisterOpenGLShaders applied.
func NewOpenGLHost(device *opengl.Device, resources gpu.ResourceProvider, cmd gpu.CommandBuffer) *OpenGLHost {
	return &OpenGLHost{
		Device:    device,
		Resources: resources,
		cmd:       cmd,
		renderer:  pipeline.NewRenderer(),
	}
}

func (h *OpenGLHost) AddFeature(f pipeline.Feature) {
	h.renderer.AddFeature(f)
}

// Render runs the features for one frame of cam on a width x height
// framebuffer and returns the number of passes executed.
func (h *OpenGLHost) Render(cam *Camera, width, height int) int {
	target := gpu.TextureDescriptor{Width: width, Height: height, Format: gpu.FormatRGBA16Float, DepthBufferBits: 24}
	frame := &pipeline.FrameContext{
		Camera:     cam.CameraData(target, h.XR),
		XR:         h.XR,
		FrameIndex: h.frameIndex,
	}
	h.frameIndex++
	return h.renderer.RenderCamera(h.cmd, frame)
}

// Close disposes every feature.
func (h *OpenGLHost) Close() error {
	return h.renderer.Dispose()
}
