package gpu

import "github.com/go-gl/mathgl/mgl32"

type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

type SortingCriteria int

const (
	SortNone SortingCriteria = iota
	SortCommonOpaque
	SortCommonTransparent
)

type RenderQueueRange int

const (
	QueueAll RenderQueueRange = iota
	QueueOpaque
	QueueTransparent
)

type FilteringSettings struct {
	RenderQueue RenderQueueRange
	Layers      LayerMask
}

func DefaultFilteringSettings() FilteringSettings {
	return FilteringSettings{RenderQueue: QueueAll, Layers: AllLayers}
}

// DrawingSettings selects renderers by material pass tag.
type DrawingSettings struct {
	ShaderTags []string
	Sorting    SortingCriteria
}

// CommandBuffer records GPU work for one pass. Backends either execute each
// call immediately or replay the recording at submission; ordering between
// calls is always preserved.
type CommandBuffer interface {
	BeginSample(name string)
	EndSample(name string)

	GetTemporaryRT(name string, desc TextureDescriptor, filter FilterMode)
	ReleaseTemporaryRT(name string)

	SetRenderTarget(target RenderTarget)
	ClearRenderTarget(clearDepth, clearColor bool, color mgl32.Vec4)

	SetGlobalInt(name string, value int32)
	SetGlobalFloat(name string, value float32)
	SetGlobalVector(name string, value mgl32.Vec4)
	SetGlobalMatrixArray(name string, values []mgl32.Mat4)
	SetGlobalTexture(name string, target RenderTarget)

	BuildAccelerationStructure(as AccelerationStructure)
	SetRayTracingShaderPass(program RayTracingProgram, pass string)
	SetRayTracingAccelerationStructure(program RayTracingProgram, name string, as AccelerationStructure)
	SetRayTracingInt(program RayTracingProgram, name string, value int32)
	SetRayTracingFloats(program RayTracingProgram, name string, values []float32)
	SetRayTracingMatrixArray(program RayTracingProgram, name string, values []mgl32.Mat4)
	SetRayTracingTexture(program RayTracingProgram, name string, target RenderTarget)
	DispatchRays(program RayTracingProgram, rayGen string, width, height, depth uint32)

	// DrawFullscreen draws a single fullscreen triangle into the bound target.
	DrawFullscreen(material Material)
	// DrawRenderers draws the culled scene renderers matching drawing and filtering.
	DrawRenderers(drawing DrawingSettings, filtering FilteringSettings)
}
