package pipeline

import "fmt"

// Event is an injection point in the host frame. Passes run in ascending
// Event order; passes sharing an Event run in enqueue order.
type Event int

const (
	BeforeRendering              Event = 0
	BeforeRenderingOpaques       Event = 250
	AfterRenderingOpaques        Event = 300
	AfterRenderingSkybox         Event = 400
	AfterRenderingTransparents   Event = 500
	AfterRenderingPostProcessing Event = 600
	AfterRendering               Event = 1000
)

func (e Event) String() string {
	switch e {
	case BeforeRendering:
		return "BeforeRendering"
	case BeforeRenderingOpaques:
		return "BeforeRenderingOpaques"
	case AfterRenderingOpaques:
		return "AfterRenderingOpaques"
	case AfterRenderingSkybox:
		return "AfterRenderingSkybox"
	case AfterRenderingTransparents:
		return "AfterRenderingTransparents"
	case AfterRenderingPostProcessing:
		return "AfterRenderingPostProcessing"
	case AfterRendering:
		return "AfterRendering"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Input is a set of scene textures a pass needs the host to produce.
type Input uint32

const (
	InputNone   Input = 0
	InputDepth  Input = 1 << 0
	InputNormal Input = 1 << 1
	InputColor  Input = 1 << 2
)

// PerObjectData is a set of per-renderer data the host must upload.
type PerObjectData uint32

const (
	PerObjectNone                PerObjectData = 0
	PerObjectReflectionProbes    PerObjectData = 1 << 0
	PerObjectReflectionProbeData PerObjectData = 1 << 1
	PerObjectLightmaps           PerObjectData = 1 << 2
)
