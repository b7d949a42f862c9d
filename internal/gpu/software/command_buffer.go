package software

import (
	"time"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// CommandBuffer executes every call immediately on the device.
type CommandBuffer struct {
	device      *Device
	colorTarget *Texture

	globals    *Bindings
	programs   map[*Program]*Bindings
	temporary  map[string]*Texture
	free       []*Texture
	target     *Texture
	shaderPass map[*Program]string

	cameraToWorld     [2]mgl32.Mat4
	inverseProjection [2]mgl32.Mat4

	sampleStart map[string]time.Time
	samples     map[string]time.Duration
}

// NewCommandBuffer executes on device and resolves the camera color target
// to colorTarget.
func NewCommandBuffer(device *Device, colorTarget *Texture) *CommandBuffer {
	return &CommandBuffer{
		device:      device,
		colorTarget: colorTarget,
		globals:     newBindings(nil),
		programs:    make(map[*Program]*Bindings),
		temporary:   make(map[string]*Texture),
		shaderPass:  make(map[*Program]string),
		sampleStart: make(map[string]time.Time),
		samples:     make(map[string]time.Duration),
	}
}

// SetCamera sets the per-eye matrices used to rasterize scene renderers.
func (c *CommandBuffer) SetCamera(view, projection [2]mgl32.Mat4) {
	for eye := range view {
		c.cameraToWorld[eye] = view[eye].Inv()
		c.inverseProjection[eye] = projection[eye].Inv()
	}
}

func (c *CommandBuffer) Globals() *Bindings {
	return c.globals
}

// Temporary returns the live temporary target with the given name, or nil.
func (c *CommandBuffer) Temporary(name string) *Texture {
	return c.temporary[name]
}

// SampleDuration returns how long the last named profiling scope took.
func (c *CommandBuffer) SampleDuration(name string) (time.Duration, bool) {
	d, ok := c.samples[name]
	return d, ok
}

func (c *CommandBuffer) BeginSample(name string) {
	c.sampleStart[name] = time.Now()
}

func (c *CommandBuffer) EndSample(name string) {
	start, ok := c.sampleStart[name]
	if !ok {
		return
	}
	delete(c.sampleStart, name)
	c.samples[name] = time.Since(start)
	logger.Log.Debug("Profiling scope", zap.String("scope", name), zap.Duration("elapsed", c.samples[name]))
}

// GetTemporaryRT reuses a pooled texture of the same shape when one is free.
func (c *CommandBuffer) GetTemporaryRT(name string, desc gpu.TextureDescriptor, _ gpu.FilterMode) {
	if old, ok := c.temporary[name]; ok {
		c.free = append(c.free, old)
	}
	for i, t := range c.free {
		if t.desc.SameShape(desc) {
			c.free = append(c.free[:i], c.free[i+1:]...)
			c.temporary[name] = t
			return
		}
	}
	if !desc.Valid() {
		logger.Log.Warn("Invalid temporary target", zap.String("name", name), zap.Stringer("desc", desc))
		return
	}
	c.temporary[name] = NewTexture(desc)
}

func (c *CommandBuffer) ReleaseTemporaryRT(name string) {
	t, ok := c.temporary[name]
	if !ok {
		return
	}
	delete(c.temporary, name)
	c.free = append(c.free, t)
}

func (c *CommandBuffer) resolve(target gpu.RenderTarget) *Texture {
	if target.Texture != nil {
		t, _ := target.Texture.(*Texture)
		return t
	}
	if target.Name == gpu.CameraColorTargetName {
		return c.colorTarget
	}
	return c.temporary[target.Name]
}

func (c *CommandBuffer) SetRenderTarget(target gpu.RenderTarget) {
	c.target = c.resolve(target)
	if c.target == nil {
		logger.Log.Warn("Unresolved render target", zap.Stringer("target", target))
	}
}

func (c *CommandBuffer) ClearRenderTarget(_, clearColor bool, color mgl32.Vec4) {
	if c.target != nil && clearColor {
		c.target.Fill(color)
	}
}

func (c *CommandBuffer) SetGlobalInt(name string, value int32) {
	c.globals.ints[name] = value
}

func (c *CommandBuffer) SetGlobalFloat(name string, value float32) {
	c.globals.floats[name] = []float32{value}
}

func (c *CommandBuffer) SetGlobalVector(name string, value mgl32.Vec4) {
	c.globals.vectors[name] = value
}

func (c *CommandBuffer) SetGlobalMatrixArray(name string, values []mgl32.Mat4) {
	c.globals.matrices[name] = append([]mgl32.Mat4(nil), values...)
}

func (c *CommandBuffer) SetGlobalTexture(name string, target gpu.RenderTarget) {
	c.globals.textures[name] = c.resolve(target)
}

func (c *CommandBuffer) BuildAccelerationStructure(as gpu.AccelerationStructure) {
	if s, ok := as.(*AccelerationStructure); ok {
		s.Build()
	}
}

func (c *CommandBuffer) programBindings(program gpu.RayTracingProgram) *Bindings {
	p, ok := program.(*Program)
	if !ok {
		return nil
	}
	b, ok := c.programs[p]
	if !ok {
		b = newBindings(c.globals)
		c.programs[p] = b
	}
	return b
}

func (c *CommandBuffer) SetRayTracingShaderPass(program gpu.RayTracingProgram, pass string) {
	if p, ok := program.(*Program); ok {
		c.shaderPass[p] = pass
	}
}

func (c *CommandBuffer) SetRayTracingAccelerationStructure(program gpu.RayTracingProgram, name string, as gpu.AccelerationStructure) {
	if b := c.programBindings(program); b != nil {
		s, _ := as.(*AccelerationStructure)
		b.structure[name] = s
	}
}

func (c *CommandBuffer) SetRayTracingInt(program gpu.RayTracingProgram, name string, value int32) {
	if b := c.programBindings(program); b != nil {
		b.ints[name] = value
	}
}

func (c *CommandBuffer) SetRayTracingFloats(program gpu.RayTracingProgram, name string, values []float32) {
	if b := c.programBindings(program); b != nil {
		b.floats[name] = append([]float32(nil), values...)
	}
}

func (c *CommandBuffer) SetRayTracingMatrixArray(program gpu.RayTracingProgram, name string, values []mgl32.Mat4) {
	if b := c.programBindings(program); b != nil {
		b.matrices[name] = append([]mgl32.Mat4(nil), values...)
	}
}

func (c *CommandBuffer) SetRayTracingTexture(program gpu.RayTracingProgram, name string, target gpu.RenderTarget) {
	if b := c.programBindings(program); b != nil {
		b.textures[name] = c.resolve(target)
	}
}

// DispatchRays runs the program kernel over width x height x depth threads and
// stores each result in the program's output texture.
func (c *CommandBuffer) DispatchRays(program gpu.RayTracingProgram, _ string, width, height, depth uint32) {
	p, ok := program.(*Program)
	if !ok {
		logger.Log.Warn("Dispatch with foreign program", zap.String("program", program.Name()))
		return
	}
	b := c.programBindings(p)
	out := b.Texture(p.output)
	if out == nil {
		logger.Log.Warn("Dispatch without output texture", zap.String("program", p.name), zap.String("output", p.output))
		return
	}
	w, h := int(width), int(height)
	for eye := 0; eye < int(depth); eye++ {
		eye := eye
		c.device.forRows(h, func(y int) {
			ctx := RayContext{Bindings: b, Y: y, Eye: eye, Width: w, Height: h}
			for x := 0; x < w; x++ {
				ctx.X = x
				out.Set(x, y, eye, p.kernel(&ctx))
			}
		})
	}
}

// DrawFullscreen runs the material kernel over every texel of the bound target.
func (c *CommandBuffer) DrawFullscreen(material gpu.Material) {
	m, ok := material.(*Material)
	if !ok || c.target == nil {
		return
	}
	dst := c.target
	w, h := dst.desc.Width, dst.desc.Height
	for slice := 0; slice < dst.desc.Slices(); slice++ {
		slice := slice
		c.device.forRows(h, func(y int) {
			ctx := FragmentContext{Bindings: c.globals, Y: y, Slice: slice, Width: w, Height: h, Target: dst}
			ctx.V = (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				ctx.X = x
				ctx.U = (float32(x) + 0.5) / float32(w)
				dst.Set(x, y, slice, m.kernel(&ctx))
			}
		})
	}
}

// DrawRenderers rasterizes scene objects carrying one of the drawing tags by
// casting a primary ray per texel. Covered texels receive 1.
func (c *CommandBuffer) DrawRenderers(drawing gpu.DrawingSettings, filtering gpu.FilteringSettings) {
	dst := c.target
	scene := c.device.scene
	if dst == nil || scene == nil {
		return
	}
	var visible []*Object
	for _, o := range scene.Objects {
		if filtering.Layers.Contains(o.Layer) {
			visible = append(visible, o)
		}
	}
	w, h := dst.desc.Width, dst.desc.Height
	for slice := 0; slice < dst.desc.Slices(); slice++ {
		eye := clampInt(slice, 0, 1)
		c.device.forRows(h, func(y int) {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				r := CameraRay(c.cameraToWorld[eye], c.inverseProjection[eye], u, v)
				hit, ok := intersect(visible, r, rayEpsilon, maxDistance)
				if !ok {
					continue
				}
				for _, tag := range drawing.ShaderTags {
					if hit.Object.HasTag(tag) {
						dst.Set(x, y, slice, mgl32.Vec4{1, 0, 0, 0})
						break
					}
				}
			}
		})
	}
}

// DrawScene shades the closest scene hit of every texel of the bound target,
// or the sky where nothing is hit.
func (c *CommandBuffer) DrawScene() {
	dst := c.target
	scene := c.device.scene
	if dst == nil || scene == nil {
		return
	}
	w, h := dst.desc.Width, dst.desc.Height
	for slice := 0; slice < dst.desc.Slices(); slice++ {
		eye := clampInt(slice, 0, 1)
		c.device.forRows(h, func(y int) {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				r := CameraRay(c.cameraToWorld[eye], c.inverseProjection[eye], u, v)
				color := scene.Sky(r.Direction)
				if hit, ok := intersect(scene.Objects, r, rayEpsilon, maxDistance); ok {
					color = scene.Shade(hit)
				}
				dst.Set(x, y, slice, color.Vec4(1))
			}
		})
	}
}
