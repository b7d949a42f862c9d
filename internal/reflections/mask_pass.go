package reflections

import (
	"GopherRT/internal/gpu"
	"GopherRT/internal/pipeline"

	"github.com/go-gl/mathgl/mgl32"
)

// SpecularMaskPass draws renderers tagged SpecularMask into a multisampled R8
// target. The trace pass reads and releases the target later in the frame.
// It must run after the skybox or the sky ends up in the mask.
type SpecularMaskPass struct {
	event     pipeline.Event
	input     pipeline.Input
	target    string
	desc      gpu.TextureDescriptor
	drawing   gpu.DrawingSettings
	filtering gpu.FilteringSettings
}

func NewSpecularMaskPass() *SpecularMaskPass {
	return &SpecularMaskPass{
		event: pipeline.AfterRenderingSkybox,
		drawing: gpu.DrawingSettings{
			ShaderTags: []string{SpecularMaskTag},
			Sorting:    gpu.SortCommonOpaque,
		},
		filtering: gpu.DefaultFilteringSettings(),
	}
}

func (p *SpecularMaskPass) Name() string          { return "SpecularMask" }
func (p *SpecularMaskPass) Event() pipeline.Event { return p.event }
func (p *SpecularMaskPass) Input() pipeline.Input { return p.input }

func (p *SpecularMaskPass) ConfigureInput(in pipeline.Input) {
	p.input = in
}

// Setup records the target to allocate. It fails for a degenerate descriptor.
func (p *SpecularMaskPass) Setup(target string, desc gpu.TextureDescriptor) bool {
	p.target = target
	p.desc = desc
	p.filtering = gpu.DefaultFilteringSettings()
	return target != "" && desc.Valid()
}

func (p *SpecularMaskPass) Target() gpu.RenderTarget {
	return gpu.TemporaryTarget(p.target)
}

func (p *SpecularMaskPass) Prepare(cmd gpu.CommandBuffer, _ *pipeline.FrameContext) error {
	cmd.GetTemporaryRT(p.target, p.desc, gpu.FilterPoint)
	return nil
}

func (p *SpecularMaskPass) Record(cmd gpu.CommandBuffer, frame *pipeline.FrameContext) {
	cmd.BeginSample(maskSampleName)
	cmd.SetRenderTarget(p.Target())
	cmd.ClearRenderTarget(true, true, mgl32.Vec4{})

	// required by the shared object-pass vertex program
	cmd.SetGlobalVector(PropDrawObjectPassData, mgl32.Vec4{0, 0, 0, 1})
	cmd.SetGlobalVector(PropScaleBiasRt, ScaleBias(frame.Camera.ProjectionFlipped))

	cmd.DrawRenderers(p.drawing, p.filtering)
	cmd.EndSample(maskSampleName)
}

// Release keeps the mask alive; ReflectionTracePass returns it to the pool.
func (p *SpecularMaskPass) Release(gpu.CommandBuffer) {}
