package gputest

import (
	"sync/atomic"

	"GopherRT/internal/gpu"
)

var nextID uint64

// Texture is a fake texture carrying a unique ID.
type Texture struct {
	ID       uint64
	Desc     gpu.TextureDescriptor
	Released bool
	device   *Device
}

func (t *Texture) Descriptor() gpu.TextureDescriptor {
	return t.Desc
}

func (t *Texture) Release() error {
	if t.Released {
		return gpu.ErrReleased
	}
	t.Released = true
	if t.device != nil {
		t.device.TexturesReleased++
	}
	return nil
}

// AccelerationStructure is a fake acceleration structure.
type AccelerationStructure struct {
	ID       uint64
	Settings gpu.AccelerationStructureSettings
	Released bool
}

func (a *AccelerationStructure) Release() error {
	if a.Released {
		return gpu.ErrReleased
	}
	a.Released = true
	return nil
}

// Device is a fake gpu.Device counting allocations.
type Device struct {
	// NoRayTracing makes CreateAccelerationStructure fail with gpu.ErrUnsupported.
	NoRayTracing bool

	TexturesCreated   int
	TexturesReleased  int
	StructuresCreated int
	Textures          []*Texture
	Structures        []*AccelerationStructure
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if !desc.Valid() {
		return nil, gpu.ErrInvalidDescriptor
	}
	t := &Texture{ID: atomic.AddUint64(&nextID, 1), Desc: desc, device: d}
	d.TexturesCreated++
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) CreateAccelerationStructure(settings gpu.AccelerationStructureSettings) (gpu.AccelerationStructure, error) {
	if d.NoRayTracing {
		return nil, gpu.ErrUnsupported
	}
	as := &AccelerationStructure{ID: atomic.AddUint64(&nextID, 1), Settings: settings}
	d.StructuresCreated++
	d.Structures = append(d.Structures, as)
	return as, nil
}

// LiveTextures returns the number of textures not yet released.
func (d *Device) LiveTextures() int {
	return d.TexturesCreated - d.TexturesReleased
}

type namedResource string

func (n namedResource) Name() string {
	return string(n)
}

// Material returns a fake material with the given name.
func Material(name string) gpu.Material {
	return namedResource(name)
}

// Program returns a fake ray tracing program with the given name.
func Program(name string) gpu.RayTracingProgram {
	return namedResource(name)
}

// Provider is a fake gpu.ResourceProvider. Names listed in Missing resolve to nothing.
type Provider struct {
	Missing   map[string]bool
	Destroyed []string
	Lookups   int
}

func NewProvider(missing ...string) *Provider {
	p := &Provider{Missing: make(map[string]bool)}
	for _, m := range missing {
		p.Missing[m] = true
	}
	return p
}

func (p *Provider) FindMaterial(shader string) (gpu.Material, bool) {
	p.Lookups++
	if p.Missing[shader] {
		return nil, false
	}
	return Material(shader), true
}

func (p *Provider) FindRayTracingProgram(name string) (gpu.RayTracingProgram, bool) {
	p.Lookups++
	if p.Missing[name] {
		return nil, false
	}
	return Program(name), true
}

func (p *Provider) DestroyMaterial(m gpu.Material) {
	if m == nil {
		return
	}
	p.Destroyed = append(p.Destroyed, m.Name())
}
