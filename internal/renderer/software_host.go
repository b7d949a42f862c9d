package renderer

import (
	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/software"
	"GopherRT/internal/logger"
	"GopherRT/internal/pipeline"
	"GopherRT/internal/reflections"

	"go.uber.org/zap"
)

// RegisterSoftwareShaders installs CPU kernels for the reflection stage's
// materials and ray generation programs under their shader names.
func RegisterSoftwareShaders(p *software.Provider, names reflections.ShaderNames) {
	p.RegisterMaterial(names.Copy, software.AdditiveBlit(reflections.PropCopySource))
	p.RegisterMaterial(names.Temporal, software.TemporalBlend(software.TemporalBindings{
		Current: reflections.PropMainTex,
		History: reflections.PropTemporalTexture,
		Fade:    reflections.PropTemporalFade,
	}))

	rayGen := software.ReflectionRayGen(software.ReflectionBindings{
		Mask:              reflections.PropSpecularMask,
		Structure:         reflections.PropAccelerationStructure,
		CameraToWorld:     reflections.PropCameraToWorld,
		InverseProjection: reflections.PropCameraInverseProj,
		SpreadAngle:       reflections.PropSpreadAngle,
		PrimarySamples:    reflections.PropNumPrimarySamples,
		ReflectionSamples: reflections.PropNumReflectionSamples,
		FrameCounter:      reflections.PropFrameCounter,
		CullPeriphery:     reflections.PropCullPeripheryRays,
	})
	p.RegisterProgram(names.RayGen, reflections.PropSpecularRadiance, rayGen)
	p.RegisterProgram(names.RayGenViewport, reflections.PropSpecularRadiance, rayGen)
}

// scenePass draws the opaque scene and sky before any feature pass.
type scenePass struct{}

func (scenePass) Name() string          { return "Scene" }
func (scenePass) Event() pipeline.Event { return pipeline.BeforeRenderingOpaques }
func (scenePass) Input() pipeline.Input { return 0 }

func (scenePass) Prepare(gpu.CommandBuffer, *pipeline.FrameContext) error { return nil }

func (scenePass) Record(cmd gpu.CommandBuffer, _ *pipeline.FrameContext) {
	sw, ok := cmd.(*software.CommandBuffer)
	if !ok {
		return
	}
	sw.SetRenderTarget(gpu.CameraTarget())
	sw.DrawScene()
}

func (scenePass) Release(gpu.CommandBuffer) {}

type sceneFeature struct{}

func (sceneFeature) AddPasses(q pipeline.PassQueue, _ *pipeline.FrameContext) bool {
	q.EnqueuePass(scenePass{})
	return true
}

func (sceneFeature) Dispose() error { return nil }

// SoftwareHost renders cameras on the CPU backend through a pipeline.Renderer.
type SoftwareHost struct {
	Device   *software.Device
	Provider *software.Provider
	XR       pipeline.XRState

	renderer   *pipeline.Renderer
	color      *software.Texture
	frameIndex uint64
}

func NewSoftwareHost(scene *software.Scene, workers int) *SoftwareHost {
	return &SoftwareHost{
		Device:   software.NewDevice(scene, workers),
		Provider: software.NewProvider(),
		renderer: pipeline.NewRenderer(sceneFeature{}),
	}
}

func (h *SoftwareHost) AddFeature(f pipeline.Feature) {
	h.renderer.AddFeature(f)
}

// Color returns the camera color texture of the last rendered frame.
func (h *SoftwareHost) Color() *software.Texture {
	return h.color
}

// Render draws one frame of cam into a width x height color target and
// returns the number of passes executed.
func (h *SoftwareHost) Render(cam *Camera, width, height int) int {
	target := gpu.TextureDescriptor{Width: width, Height: height, Format: gpu.FormatRGBA32Float, DepthBufferBits: 24}
	frame := &pipeline.FrameContext{
		Camera:     cam.CameraData(target, h.XR),
		XR:         h.XR,
		FrameIndex: h.frameIndex,
	}
	h.frameIndex++

	if h.color == nil || !h.color.Descriptor().SameShape(frame.Camera.TargetDescriptor) {
		h.color = software.NewTexture(frame.Camera.TargetDescriptor)
		logger.Log.Debug("Camera target resized", zap.Int("width", width), zap.Int("height", height))
	}

	cmd := software.NewCommandBuffer(h.Device, h.color)
	cmd.SetCamera(frame.Camera.View, frame.Camera.Projection)
	return h.renderer.RenderCamera(cmd, frame)
}

// Close disposes every feature and stops the device workers.
func (h *SoftwareHost) Close() error {
	err := h.renderer.Dispose()
	h.Device.Close()
	return err
}
