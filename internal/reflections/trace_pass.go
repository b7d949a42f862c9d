package reflections

import (
	"errors"
	"fmt"

	"GopherRT/internal/gpu"
	"GopherRT/internal/pipeline"

	"github.com/go-gl/mathgl/mgl32"
)

var errTraceNotReady = errors.New("reflection trace pass not set up")

// TraceSetup carries everything the trace pass needs for one camera frame.
type TraceSetup struct {
	Program   gpu.RayTracingProgram
	Structure gpu.AccelerationStructure
	Copy      gpu.Material
	// Temporal is nil when accumulation is disabled.
	Temporal   gpu.Material
	Config     Config
	MaskTarget string
	state      *cameraState
}

// ReflectionTracePass dispatches reflection rays over the masked pixels and
// composites the result, optionally through the temporal accumulator.
type ReflectionTracePass struct {
	event      pipeline.Event
	input      pipeline.Input
	program    gpu.RayTracingProgram
	structure  gpu.AccelerationStructure
	temporal   gpu.Material
	config     Config
	maskTarget string
	state      *cameraState
	compositor *Compositor

	eyeCount          int
	cameraToWorld     [pipeline.MaxEyes]mgl32.Mat4
	inverseProjection [pipeline.MaxEyes]mgl32.Mat4
	frameMatrix       [pipeline.MaxEyes]mgl32.Mat4
	spreadAngle       [pipeline.MaxEyes]float32
}

func NewReflectionTracePass() *ReflectionTracePass {
	return &ReflectionTracePass{
		event:      pipeline.AfterRenderingTransparents,
		compositor: NewCompositor(nil),
	}
}

func (p *ReflectionTracePass) Name() string          { return "ReflectionTrace" }
func (p *ReflectionTracePass) Event() pipeline.Event { return p.event }
func (p *ReflectionTracePass) Input() pipeline.Input { return p.input }

func (p *ReflectionTracePass) ConfigureInput(in pipeline.Input) {
	p.input = in
}

// SetEvent moves the pass to another injection point.
func (p *ReflectionTracePass) SetEvent(e pipeline.Event) {
	p.event = e
}

// Setup binds the frame's resources. It returns false when the copy
// material, the ray generation program or the acceleration structure is
// missing; the caller then skips the whole stage.
func (p *ReflectionTracePass) Setup(s TraceSetup) bool {
	p.program = s.Program
	p.structure = s.Structure
	p.temporal = s.Temporal
	p.config = s.Config
	p.maskTarget = s.MaskTarget
	p.state = s.state
	p.compositor.SetMaterial(s.Copy)

	return s.Copy != nil && s.Program != nil && s.Structure != nil && s.state != nil
}

func (p *ReflectionTracePass) temporalEnabled() bool {
	return p.temporal != nil
}

// Prepare computes the per-eye matrices and makes sure the radiance and
// history textures match the camera.
func (p *ReflectionTracePass) Prepare(_ gpu.CommandBuffer, frame *pipeline.FrameContext) error {
	if p.state == nil {
		return errTraceNotReady
	}
	camera := &frame.Camera
	factor := p.config.DownsamplingFactor

	p.eyeCount = frame.XR.EyeCount()
	for eye := 0; eye < p.eyeCount; eye++ {
		view := camera.ViewMatrix(eye)
		proj := camera.ProjectionMatrix(eye)
		viewInv := view.Inv()

		p.cameraToWorld[eye] = viewInv
		p.inverseProjection[eye] = proj.Inv()
		p.spreadAngle[eye] = SpreadAngle(proj, camera.TargetDescriptor.Height, factor)

		if p.temporalEnabled() {
			p.frameMatrix[eye] = FrameMatrix(p.state.prevViewProjection[eye], viewInv)
		}
	}

	desc := RadianceDescriptor(camera.TargetDescriptor, factor)
	if _, err := p.state.radiance.Ensure(desc); err != nil {
		return fmt.Errorf("radiance buffer: %w", err)
	}
	if p.temporalEnabled() {
		if _, err := p.state.accumulator.Ensure(desc); err != nil {
			return fmt.Errorf("history buffers: %w", err)
		}
	}
	return nil
}

func (p *ReflectionTracePass) Record(cmd gpu.CommandBuffer, frame *pipeline.FrameContext) {
	s := p.state
	s.frameCounter++
	s.lastFrame = frame.FrameIndex

	camera := &frame.Camera
	width, height := RadianceSize(camera.TargetDescriptor.Width, camera.TargetDescriptor.Height, p.config.DownsamplingFactor)
	radiance := s.radiance.Target()

	cmd.BeginSample(traceSampleName)
	frame.RequirePerObjectData(pipeline.PerObjectReflectionProbes | pipeline.PerObjectReflectionProbeData)

	cmd.BuildAccelerationStructure(p.structure)
	cmd.SetRayTracingMatrixArray(p.program, PropCameraToWorld, p.cameraToWorld[:])
	cmd.SetRayTracingMatrixArray(p.program, PropCameraInverseProj, p.inverseProjection[:])
	cmd.SetRayTracingFloats(p.program, PropSpreadAngle, p.spreadAngle[:])
	cmd.SetRayTracingInt(p.program, PropNumPrimarySamples, int32(p.config.PrimaryRayCount))
	cmd.SetGlobalInt(PropNumReflectionSamples, int32(p.config.ReflectionRayCount))
	cmd.SetGlobalInt(PropFrameCounter, int32(s.frameCounter))
	cmd.SetGlobalInt(PropCullPeripheryRays, boolToInt(p.config.CullPeripheryRays))

	cmd.SetRayTracingShaderPass(p.program, ShaderPassPrimary)
	cmd.SetRayTracingAccelerationStructure(p.program, PropAccelerationStructure, p.structure)
	cmd.SetRayTracingTexture(p.program, PropSpecularMask, gpu.TemporaryTarget(p.maskTarget))
	cmd.SetRayTracingTexture(p.program, PropSpecularRadiance, radiance)
	cmd.DispatchRays(p.program, RayGenPrimary, uint32(width), uint32(height), uint32(p.eyeCount))

	if p.temporalEnabled() {
		result := s.accumulator.Blend(cmd, BlendInputs{
			Source:            radiance,
			Material:          p.temporal,
			InverseProjection: p.inverseProjection[:],
			FrameMatrix:       p.frameMatrix[:],
			CameraToWorld:     p.cameraToWorld[:],
			Fade:              p.config.TemporalFade,
		})
		p.compositor.Blit(cmd, result, camera.ColorTarget)
		s.accumulator.Swap()
	} else {
		p.compositor.Blit(cmd, radiance, camera.ColorTarget)
		s.accumulator.Invalidate()
	}
	cmd.EndSample(traceSampleName)

	if p.temporalEnabled() {
		for eye := 0; eye < p.eyeCount; eye++ {
			s.prevViewProjection[eye] = camera.ProjectionMatrix(eye).Mul4(camera.ViewMatrix(eye))
		}
	}
}

// Release returns the specular mask to the host pool.
func (p *ReflectionTracePass) Release(cmd gpu.CommandBuffer) {
	if p.maskTarget != "" {
		cmd.ReleaseTemporaryRT(p.maskTarget)
	}
}
