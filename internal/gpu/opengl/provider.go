package opengl

import (
	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// Material is a linked fullscreen program with its uniform cache.
type Material struct {
	name     string
	program  uint32
	uniforms *UniformCache
	samplers []string
	additive bool
}

func (m *Material) Name() string {
	return m.name
}

// Provider compiles registered fragment sources on demand. It has no ray
// tracing programs.
type Provider struct {
	sources map[string]shaderSource
}

type shaderSource struct {
	fragment string
	additive bool
}

func NewProvider() *Provider {
	return &Provider{sources: make(map[string]shaderSource)}
}

// RegisterShader makes fragment available under shader. fragment must be
// NUL-terminated GLSL that reads uv from the fullscreen vertex stage.
// Additive shaders blend ONE, ONE onto the target.
func (p *Provider) RegisterShader(shader, fragment string, additive bool) {
	p.sources[shader] = shaderSource{fragment: fragment, additive: additive}
}

func (p *Provider) FindMaterial(shader string) (gpu.Material, bool) {
	source, ok := p.sources[shader]
	if !ok {
		return nil, false
	}
	program, err := buildFullscreenProgram(source.fragment)
	if err != nil {
		logger.Log.Warn("Material unavailable", zap.String("shader", shader), zap.Error(err))
		return nil, false
	}
	return &Material{
		name:     shader,
		program:  program,
		uniforms: NewUniformCache(program),
		samplers: samplerUniforms(source.fragment),
		additive: source.additive,
	}, true
}

func (p *Provider) FindRayTracingProgram(string) (gpu.RayTracingProgram, bool) {
	return nil, false
}

func (p *Provider) DestroyMaterial(m gpu.Material) {
	if mat, ok := m.(*Material); ok && mat.program != 0 {
		gl.DeleteProgram(mat.program)
		mat.program = 0
	}
}
