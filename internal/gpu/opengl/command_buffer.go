package opengl

import (
	"time"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// CommandBuffer issues GL calls immediately. Globals are kept on the CPU and
// uploaded to a material's program when it draws.
type CommandBuffer struct {
	device *Device
	// window is the default framebuffer size used for the camera target.
	window [2]int32

	ints     map[string]int32
	floats   map[string][]float32
	vectors  map[string]mgl32.Vec4
	matrices map[string][]mgl32.Mat4
	textures map[string]*Texture

	temporary map[string]*Texture
	target    *Texture
	emptyVAO  uint32

	sampleStart map[string]time.Time
}

func NewCommandBuffer(device *Device, windowWidth, windowHeight int) *CommandBuffer {
	c := &CommandBuffer{
		device:      device,
		window:      [2]int32{int32(windowWidth), int32(windowHeight)},
		ints:        make(map[string]int32),
		floats:      make(map[string][]float32),
		vectors:     make(map[string]mgl32.Vec4),
		matrices:    make(map[string][]mgl32.Mat4),
		textures:    make(map[string]*Texture),
		temporary:   make(map[string]*Texture),
		sampleStart: make(map[string]time.Time),
	}
	gl.GenVertexArrays(1, &c.emptyVAO)
	return c
}

// Resize updates the default framebuffer size.
func (c *CommandBuffer) Resize(width, height int) {
	c.window = [2]int32{int32(width), int32(height)}
}

func (c *CommandBuffer) BeginSample(name string) {
	c.sampleStart[name] = time.Now()
}

func (c *CommandBuffer) EndSample(name string) {
	if start, ok := c.sampleStart[name]; ok {
		delete(c.sampleStart, name)
		logger.Log.Debug("Profiling scope", zap.String("scope", name), zap.Duration("cpu", time.Since(start)))
	}
}

func (c *CommandBuffer) GetTemporaryRT(name string, desc gpu.TextureDescriptor, filter gpu.FilterMode) {
	if old, ok := c.temporary[name]; ok {
		if old.desc.SameShape(desc) {
			return
		}
		old.Release()
	}
	t, err := c.device.Textures.Allocate(desc, name)
	if err != nil {
		logger.Log.Warn("Temporary target unavailable", zap.String("name", name), zap.Error(err))
		delete(c.temporary, name)
		return
	}
	if t.target != gl.TEXTURE_2D_MULTISAMPLE {
		gl.BindTexture(t.target, t.id)
		gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, glFilter(filter))
		gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, glFilter(filter))
		gl.BindTexture(t.target, 0)
	}
	c.temporary[name] = t
}

// ReleaseTemporaryRT keeps the texture for reuse by the next request of the same shape.
func (c *CommandBuffer) ReleaseTemporaryRT(string) {}

func (c *CommandBuffer) resolve(target gpu.RenderTarget) *Texture {
	if target.Texture != nil {
		t, _ := target.Texture.(*Texture)
		return t
	}
	return c.temporary[target.Name]
}

func (c *CommandBuffer) SetRenderTarget(target gpu.RenderTarget) {
	if target.Name == gpu.CameraColorTargetName {
		c.target = nil
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, c.window[0], c.window[1])
		return
	}
	t := c.resolve(target)
	if t == nil {
		logger.Log.Warn("Unresolved render target", zap.Stringer("target", target))
		return
	}
	c.target = t
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.desc.Width), int32(t.desc.Height))
}

func (c *CommandBuffer) ClearRenderTarget(clearDepth, clearColor bool, color mgl32.Vec4) {
	var mask uint32
	if clearColor {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if clearDepth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (c *CommandBuffer) SetGlobalInt(name string, value int32) {
	c.ints[name] = value
}

func (c *CommandBuffer) SetGlobalFloat(name string, value float32) {
	c.floats[name] = []float32{value}
}

func (c *CommandBuffer) SetGlobalVector(name string, value mgl32.Vec4) {
	c.vectors[name] = value
}

func (c *CommandBuffer) SetGlobalMatrixArray(name string, values []mgl32.Mat4) {
	c.matrices[name] = append([]mgl32.Mat4(nil), values...)
}

func (c *CommandBuffer) SetGlobalTexture(name string, target gpu.RenderTarget) {
	c.textures[name] = c.resolve(target)
}

func (c *CommandBuffer) unsupported(call string) {
	logger.Log.Debug("Ray tracing call ignored by OpenGL backend", zap.String("call", call))
}

func (c *CommandBuffer) BuildAccelerationStructure(gpu.AccelerationStructure) {
	c.unsupported("BuildAccelerationStructure")
}

func (c *CommandBuffer) SetRayTracingShaderPass(gpu.RayTracingProgram, string) {
	c.unsupported("SetRayTracingShaderPass")
}

func (c *CommandBuffer) SetRayTracingAccelerationStructure(gpu.RayTracingProgram, string, gpu.AccelerationStructure) {
	c.unsupported("SetRayTracingAccelerationStructure")
}

func (c *CommandBuffer) SetRayTracingInt(gpu.RayTracingProgram, string, int32) {
	c.unsupported("SetRayTracingInt")
}

func (c *CommandBuffer) SetRayTracingFloats(gpu.RayTracingProgram, string, []float32) {
	c.unsupported("SetRayTracingFloats")
}

func (c *CommandBuffer) SetRayTracingMatrixArray(gpu.RayTracingProgram, string, []mgl32.Mat4) {
	c.unsupported("SetRayTracingMatrixArray")
}

func (c *CommandBuffer) SetRayTracingTexture(gpu.RayTracingProgram, string, gpu.RenderTarget) {
	c.unsupported("SetRayTracingTexture")
}

func (c *CommandBuffer) DispatchRays(gpu.RayTracingProgram, string, uint32, uint32, uint32) {
	c.unsupported("DispatchRays")
}

// DrawFullscreen uploads the globals to the material and draws one triangle.
func (c *CommandBuffer) DrawFullscreen(material gpu.Material) {
	m, ok := material.(*Material)
	if !ok || m.program == 0 {
		return
	}
	gl.UseProgram(m.program)
	for name, v := range c.ints {
		m.uniforms.SetInt(name, v)
	}
	for name, v := range c.floats {
		m.uniforms.SetFloats(name, v)
	}
	for name, v := range c.vectors {
		m.uniforms.SetVec4(name, v)
	}
	for name, v := range c.matrices {
		m.uniforms.SetMat4Array(name, v)
	}
	for unit, name := range m.samplers {
		t := c.textures[name]
		if t == nil {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(t.target, t.id)
		m.uniforms.SetInt(name, int32(unit))
	}

	gl.Disable(gl.DEPTH_TEST)
	if m.additive {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	}
	gl.BindVertexArray(c.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	if m.additive {
		gl.Disable(gl.BLEND)
	}
	gl.Enable(gl.DEPTH_TEST)
}

// DrawRenderers is a no-op: scene geometry is owned by the host renderer.
func (c *CommandBuffer) DrawRenderers(gpu.DrawingSettings, gpu.FilteringSettings) {}

// Release frees the pooled temporaries and the fullscreen vertex array.
func (c *CommandBuffer) Release() {
	for name, t := range c.temporary {
		t.Release()
		delete(c.temporary, name)
	}
	gl.DeleteVertexArrays(1, &c.emptyVAO)
}
