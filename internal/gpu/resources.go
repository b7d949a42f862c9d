package gpu

import "errors"

var (
	ErrUnsupported       = errors.New("gpu: not supported by this backend")
	ErrInvalidDescriptor = errors.New("gpu: invalid texture descriptor")
	ErrReleased          = errors.New("gpu: resource already released")
)

// Material is a compiled fullscreen/raster program plus its fixed state.
type Material interface {
	Name() string
}

// RayTracingProgram is a ray generation shader with its hit groups.
type RayTracingProgram interface {
	Name() string
}

// AccelerationStructure is the opaque GPU spatial index over scene geometry.
type AccelerationStructure interface {
	Release() error
}

type ManagementMode int

const (
	// ManagementAutomatic lets the backend track scene object changes itself.
	ManagementAutomatic ManagementMode = iota
	ManagementManual
)

type RayTracingModeMask uint32

const (
	RayTracingModeStatic RayTracingModeMask = 1 << iota
	RayTracingModeDynamicTransform
	RayTracingModeDynamicGeometry
)

// LayerMask selects scene layers by bit index.
type LayerMask uint32

const AllLayers LayerMask = ^LayerMask(0)

func LayerBit(layer int) LayerMask {
	if layer < 0 || layer > 31 {
		return 0
	}
	return 1 << uint(layer)
}

func (m LayerMask) Contains(layer int) bool {
	return m&LayerBit(layer) != 0
}

type AccelerationStructureSettings struct {
	Layers         LayerMask
	ManagementMode ManagementMode
	Modes          RayTracingModeMask
}

// Device allocates long-lived GPU resources.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
	// CreateAccelerationStructure returns ErrUnsupported when the backend
	// or hardware cannot ray trace.
	CreateAccelerationStructure(settings AccelerationStructureSettings) (AccelerationStructure, error)
}

// ResourceProvider resolves shader assets by name.
type ResourceProvider interface {
	FindMaterial(shader string) (Material, bool)
	FindRayTracingProgram(name string) (RayTracingProgram, bool)
	DestroyMaterial(m Material)
}
