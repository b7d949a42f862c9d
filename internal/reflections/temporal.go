package reflections

import (
	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

// BlendInputs are the per-frame bindings of one temporal blend.
type BlendInputs struct {
	Source            gpu.RenderTarget
	Material          gpu.Material
	InverseProjection []mgl32.Mat4
	FrameMatrix       []mgl32.Mat4
	CameraToWorld     []mgl32.Mat4
	Fade              float32
}

// TemporalAccumulator blends each new radiance frame into a history texture.
// Slot 0 holds the previous result and slot 1 receives the current one; the
// slots swap after every blend.
type TemporalAccumulator struct {
	history [2]*ResizableTexture
	// warm is false until the first blend after (re)allocation or after a
	// frame rendered without accumulation.
	warm bool
}

func NewTemporalAccumulator(device gpu.Device) *TemporalAccumulator {
	return &TemporalAccumulator{
		history: [2]*ResizableTexture{
			NewResizableTexture(device, "history_0"),
			NewResizableTexture(device, "history_1"),
		},
	}
}

// Ensure keeps both history textures shaped like desc. A mismatch on either
// reallocates both so they never diverge.
func (a *TemporalAccumulator) Ensure(desc gpu.TextureDescriptor) (bool, error) {
	if a.history[0].Matches(desc) && a.history[1].Matches(desc) {
		return false, nil
	}
	for _, h := range a.history {
		// stale contents are discarded anyway
		_ = h.Release()
		if _, err := h.Ensure(desc); err != nil {
			return true, err
		}
	}
	a.warm = false
	return true, nil
}

func (a *TemporalAccumulator) Allocated() bool {
	return a.history[0].Texture() != nil && a.history[1].Texture() != nil
}

// Previous is the texture read as history this frame.
func (a *TemporalAccumulator) Previous() gpu.Texture {
	return a.history[0].Texture()
}

// Current is the texture the next blend writes into.
func (a *TemporalAccumulator) Current() gpu.Texture {
	return a.history[1].Texture()
}

// Reallocations sums the allocations of both history textures.
func (a *TemporalAccumulator) Reallocations() int {
	return a.history[0].Allocations() + a.history[1].Allocations()
}

// Blend renders lerp(history, source, 1-fade) into Current and returns it as a target.
// The first blend after allocation binds a zero fade so garbage history is ignored.
func (a *TemporalAccumulator) Blend(cmd gpu.CommandBuffer, in BlendInputs) gpu.RenderTarget {
	previous := a.Previous()
	current := a.Current()

	fade := in.Fade
	if !a.warm {
		fade = 0
	}

	desc := previous.Descriptor()
	cmd.SetGlobalTexture(PropTemporalTexture, gpu.TextureTarget(previous))
	cmd.SetGlobalMatrixArray(PropInverseProjection, in.InverseProjection)
	cmd.SetGlobalMatrixArray(PropFrameMatrix, in.FrameMatrix)
	cmd.SetGlobalMatrixArray(PropDebugCameraToWorld, in.CameraToWorld)
	cmd.SetGlobalFloat(PropTemporalFade, fade)
	cmd.SetGlobalFloat(PropResolutionX, float32(desc.Width))
	cmd.SetGlobalFloat(PropResolutionY, float32(desc.Height))

	cmd.SetRenderTarget(gpu.TextureTarget(current))
	cmd.SetGlobalTexture(PropMainTex, in.Source)
	cmd.DrawFullscreen(in.Material)

	a.warm = true
	return gpu.TextureTarget(current)
}

// Invalidate marks the history stale so the next blend starts over from the
// current frame.
func (a *TemporalAccumulator) Invalidate() {
	a.warm = false
}

// Swap exchanges the history roles so this frame's result becomes next frame's history.
func (a *TemporalAccumulator) Swap() {
	a.history[0], a.history[1] = a.history[1], a.history[0]
}

func (a *TemporalAccumulator) Release() error {
	a.warm = false
	return multierr.Combine(a.history[0].Release(), a.history[1].Release())
}
