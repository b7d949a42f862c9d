// Package gputest provides recording and fake implementations of the gpu
// contracts for tests.
package gputest

import (
	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	OpBeginSample          = "BeginSample"
	OpEndSample            = "EndSample"
	OpGetTemporaryRT       = "GetTemporaryRT"
	OpReleaseTemporaryRT   = "ReleaseTemporaryRT"
	OpSetRenderTarget      = "SetRenderTarget"
	OpClearRenderTarget    = "ClearRenderTarget"
	OpSetGlobalInt         = "SetGlobalInt"
	OpSetGlobalFloat       = "SetGlobalFloat"
	OpSetGlobalVector      = "SetGlobalVector"
	OpSetGlobalMatrixArray = "SetGlobalMatrixArray"
	OpSetGlobalTexture     = "SetGlobalTexture"
	OpBuildAccelStructure  = "BuildAccelerationStructure"
	OpSetRTShaderPass      = "SetRayTracingShaderPass"
	OpSetRTAccelStructure  = "SetRayTracingAccelerationStructure"
	OpSetRTInt             = "SetRayTracingInt"
	OpSetRTFloats          = "SetRayTracingFloats"
	OpSetRTMatrixArray     = "SetRayTracingMatrixArray"
	OpSetRTTexture         = "SetRayTracingTexture"
	OpDispatchRays         = "DispatchRays"
	OpDrawFullscreen       = "DrawFullscreen"
	OpDrawRenderers        = "DrawRenderers"
)

// Command is one recorded call. Only the fields relevant to Op are set.
type Command struct {
	Op        string
	Name      string
	Target    gpu.RenderTarget
	Desc      gpu.TextureDescriptor
	Filter    gpu.FilterMode
	Int       int32
	Float     float32
	Floats    []float32
	Vector    mgl32.Vec4
	Matrices  []mgl32.Mat4
	Program   gpu.RayTracingProgram
	Material  gpu.Material
	Structure gpu.AccelerationStructure
	Dispatch  [3]uint32
	Drawing   gpu.DrawingSettings
	Filtering gpu.FilteringSettings
	ClearFlag [2]bool
}

// Recorder is a gpu.CommandBuffer that only records.
type Recorder struct {
	Commands []Command
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(c Command) {
	r.Commands = append(r.Commands, c)
}

// Ops returns the op names in recording order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		ops[i] = c.Op
	}
	return ops
}

// Find returns every command with the given op and name. An empty name matches all.
func (r *Recorder) Find(op, name string) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op && (name == "" || c.Name == name) {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the last command matching op and name.
func (r *Recorder) Last(op, name string) (Command, bool) {
	found := r.Find(op, name)
	if len(found) == 0 {
		return Command{}, false
	}
	return found[len(found)-1], true
}

// Index returns the position of the first matching command, or -1.
func (r *Recorder) Index(op, name string) int {
	for i, c := range r.Commands {
		if c.Op == op && (name == "" || c.Name == name) {
			return i
		}
	}
	return -1
}

func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

func (r *Recorder) BeginSample(name string) {
	r.add(Command{Op: OpBeginSample, Name: name})
}

func (r *Recorder) EndSample(name string) {
	r.add(Command{Op: OpEndSample, Name: name})
}

func (r *Recorder) GetTemporaryRT(name string, desc gpu.TextureDescriptor, filter gpu.FilterMode) {
	r.add(Command{Op: OpGetTemporaryRT, Name: name, Desc: desc, Filter: filter})
}

func (r *Recorder) ReleaseTemporaryRT(name string) {
	r.add(Command{Op: OpReleaseTemporaryRT, Name: name})
}

func (r *Recorder) SetRenderTarget(target gpu.RenderTarget) {
	r.add(Command{Op: OpSetRenderTarget, Target: target})
}

func (r *Recorder) ClearRenderTarget(clearDepth, clearColor bool, color mgl32.Vec4) {
	r.add(Command{Op: OpClearRenderTarget, ClearFlag: [2]bool{clearDepth, clearColor}, Vector: color})
}

func (r *Recorder) SetGlobalInt(name string, value int32) {
	r.add(Command{Op: OpSetGlobalInt, Name: name, Int: value})
}

func (r *Recorder) SetGlobalFloat(name string, value float32) {
	r.add(Command{Op: OpSetGlobalFloat, Name: name, Float: value})
}

func (r *Recorder) SetGlobalVector(name string, value mgl32.Vec4) {
	r.add(Command{Op: OpSetGlobalVector, Name: name, Vector: value})
}

func (r *Recorder) SetGlobalMatrixArray(name string, values []mgl32.Mat4) {
	r.add(Command{Op: OpSetGlobalMatrixArray, Name: name, Matrices: append([]mgl32.Mat4(nil), values...)})
}

func (r *Recorder) SetGlobalTexture(name string, target gpu.RenderTarget) {
	r.add(Command{Op: OpSetGlobalTexture, Name: name, Target: target})
}

func (r *Recorder) BuildAccelerationStructure(as gpu.AccelerationStructure) {
	r.add(Command{Op: OpBuildAccelStructure, Structure: as})
}

func (r *Recorder) SetRayTracingShaderPass(program gpu.RayTracingProgram, pass string) {
	r.add(Command{Op: OpSetRTShaderPass, Program: program, Name: pass})
}

func (r *Recorder) SetRayTracingAccelerationStructure(program gpu.RayTracingProgram, name string, as gpu.AccelerationStructure) {
	r.add(Command{Op: OpSetRTAccelStructure, Program: program, Name: name, Structure: as})
}

func (r *Recorder) SetRayTracingInt(program gpu.RayTracingProgram, name string, value int32) {
	r.add(Command{Op: OpSetRTInt, Program: program, Name: name, Int: value})
}

func (r *Recorder) SetRayTracingFloats(program gpu.RayTracingProgram, name string, values []float32) {
	r.add(Command{Op: OpSetRTFloats, Program: program, Name: name, Floats: append([]float32(nil), values...)})
}

func (r *Recorder) SetRayTracingMatrixArray(program gpu.RayTracingProgram, name string, values []mgl32.Mat4) {
	r.add(Command{Op: OpSetRTMatrixArray, Program: program, Name: name, Matrices: append([]mgl32.Mat4(nil), values...)})
}

func (r *Recorder) SetRayTracingTexture(program gpu.RayTracingProgram, name string, target gpu.RenderTarget) {
	r.add(Command{Op: OpSetRTTexture, Program: program, Name: name, Target: target})
}

func (r *Recorder) DispatchRays(program gpu.RayTracingProgram, rayGen string, width, height, depth uint32) {
	r.add(Command{Op: OpDispatchRays, Program: program, Name: rayGen, Dispatch: [3]uint32{width, height, depth}})
}

func (r *Recorder) DrawFullscreen(material gpu.Material) {
	r.add(Command{Op: OpDrawFullscreen, Material: material})
}

func (r *Recorder) DrawRenderers(drawing gpu.DrawingSettings, filtering gpu.FilteringSettings) {
	r.add(Command{Op: OpDrawRenderers, Drawing: drawing, Filtering: filtering})
}
