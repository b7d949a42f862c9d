package software

import (
	"sync"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// FragmentContext is the input of one fullscreen fragment.
type FragmentContext struct {
	*Bindings
	X, Y, Slice   int
	Width, Height int
	U, V          float32
	// Target is the texture being written; kernels may read the texel they replace.
	Target *Texture
}

// MaterialKernel computes one fragment of a fullscreen draw.
type MaterialKernel func(ctx *FragmentContext) mgl32.Vec4

// RayContext is the input of one ray generation thread.
type RayContext struct {
	*Bindings
	X, Y, Eye     int
	Width, Height int
}

// RayGenKernel computes the value written to a program's output texture.
type RayGenKernel func(ctx *RayContext) mgl32.Vec4

type Material struct {
	name   string
	kernel MaterialKernel
}

func (m *Material) Name() string {
	return m.name
}

// Program is a ray generation program writing into the texture bound as Output.
type Program struct {
	name   string
	output string
	kernel RayGenKernel
}

func (p *Program) Name() string {
	return p.name
}

// Provider resolves shader names to registered CPU kernels.
type Provider struct {
	mu        sync.Mutex
	materials map[string]MaterialKernel
	programs  map[string]*Program
	live      int
}

func NewProvider() *Provider {
	return &Provider{
		materials: make(map[string]MaterialKernel),
		programs:  make(map[string]*Program),
	}
}

func (p *Provider) RegisterMaterial(shader string, kernel MaterialKernel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.materials[shader] = kernel
}

// RegisterProgram adds a ray generation program whose result lands in the
// texture bound under output.
func (p *Provider) RegisterProgram(name, output string, kernel RayGenKernel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.programs[name] = &Program{name: name, output: output, kernel: kernel}
}

// FindMaterial instantiates a material for shader. Each call creates a new
// material that must be passed to DestroyMaterial.
func (p *Provider) FindMaterial(shader string) (gpu.Material, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kernel, ok := p.materials[shader]
	if !ok {
		return nil, false
	}
	p.live++
	return &Material{name: shader, kernel: kernel}, true
}

func (p *Provider) FindRayTracingProgram(name string) (gpu.RayTracingProgram, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	program, ok := p.programs[name]
	if !ok {
		return nil, false
	}
	return program, true
}

func (p *Provider) DestroyMaterial(m gpu.Material) {
	if _, ok := m.(*Material); !ok {
		logger.Log.Warn("Destroying foreign material", zap.String("material", m.Name()))
		return
	}
	p.mu.Lock()
	p.live--
	p.mu.Unlock()
}

// LiveMaterials counts materials handed out and not yet destroyed.
func (p *Provider) LiveMaterials() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}
