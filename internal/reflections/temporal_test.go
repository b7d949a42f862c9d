package reflections

import (
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
)

func blendOnce(a *TemporalAccumulator, cmd *gputest.Recorder, fade float32) gpu.RenderTarget {
	result := a.Blend(cmd, BlendInputs{
		Source:   gpu.TemporaryTarget("source"),
		Material: gputest.Material("temporal"),
		Fade:     fade,
	})
	a.Swap()
	return result
}

func TestTemporalAccumulatorSwapIdempotentOverTwoFrames(t *testing.T) {
	a := NewTemporalAccumulator(gputest.NewDevice())
	if _, err := a.Ensure(radianceDesc(960, 540)); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	prev, cur := a.Previous(), a.Current()
	cmd := gputest.NewRecorder()

	blendOnce(a, cmd, 0.9)
	if a.Previous() != cur || a.Current() != prev {
		t.Error("Roles should swap after one frame")
	}
	blendOnce(a, cmd, 0.9)
	if a.Previous() != prev || a.Current() != cur {
		t.Error("Roles should return to the original after two frames")
	}
}

func TestTemporalAccumulatorBlendBindings(t *testing.T) {
	a := NewTemporalAccumulator(gputest.NewDevice())
	a.Ensure(radianceDesc(960, 540))
	prev, cur := a.Previous(), a.Current()
	cmd := gputest.NewRecorder()

	result := a.Blend(cmd, BlendInputs{
		Source:   gpu.TemporaryTarget("source"),
		Material: gputest.Material("temporal"),
		Fade:     0.9,
	})

	if result.Texture != cur {
		t.Error("Blend should write into the current history texture")
	}
	hist, _ := cmd.Last(gputest.OpSetGlobalTexture, PropTemporalTexture)
	if hist.Target.Texture != prev {
		t.Error("Previous history should be bound as the temporal texture")
	}
	main, _ := cmd.Last(gputest.OpSetGlobalTexture, PropMainTex)
	if main.Target.Name != "source" {
		t.Errorf("Source should be bound as main texture, got %s", main.Target)
	}
	resX, _ := cmd.Last(gputest.OpSetGlobalFloat, PropResolutionX)
	resY, _ := cmd.Last(gputest.OpSetGlobalFloat, PropResolutionY)
	if resX.Float != 960 || resY.Float != 540 {
		t.Errorf("Unexpected resolution %vx%v", resX.Float, resY.Float)
	}
	if cmd.Index(gputest.OpSetRenderTarget, "") > cmd.Index(gputest.OpDrawFullscreen, "") {
		t.Error("Render target must be set before drawing")
	}
}

func TestTemporalAccumulatorWarmUp(t *testing.T) {
	a := NewTemporalAccumulator(gputest.NewDevice())
	a.Ensure(radianceDesc(960, 540))
	cmd := gputest.NewRecorder()

	blendOnce(a, cmd, 0.9)
	first, _ := cmd.Last(gputest.OpSetGlobalFloat, PropTemporalFade)
	if first.Float != 0 {
		t.Errorf("First blend after allocation should use fade 0, got %v", first.Float)
	}

	blendOnce(a, cmd, 0.9)
	second, _ := cmd.Last(gputest.OpSetGlobalFloat, PropTemporalFade)
	if second.Float != 0.9 {
		t.Errorf("Later blends should use the configured fade, got %v", second.Float)
	}

	a.Ensure(radianceDesc(640, 360))
	blendOnce(a, cmd, 0.9)
	third, _ := cmd.Last(gputest.OpSetGlobalFloat, PropTemporalFade)
	if third.Float != 0 {
		t.Errorf("Blend after reallocation should use fade 0, got %v", third.Float)
	}
}

func TestTemporalAccumulatorReallocatesBoth(t *testing.T) {
	device := gputest.NewDevice()
	a := NewTemporalAccumulator(device)

	a.Ensure(radianceDesc(960, 540))
	a.Ensure(radianceDesc(960, 540))
	if a.Reallocations() != 2 {
		t.Errorf("Expected 2 allocations, got %d", a.Reallocations())
	}

	reallocated, err := a.Ensure(radianceDesc(1280, 720))
	if err != nil || !reallocated {
		t.Fatalf("Resize should reallocate, got %v %v", reallocated, err)
	}
	if a.Reallocations() != 4 {
		t.Errorf("Expected 4 allocations after resize, got %d", a.Reallocations())
	}
	if device.LiveTextures() != 2 {
		t.Errorf("Old history should be released, %d textures live", device.LiveTextures())
	}
	if a.Previous().Descriptor().Width != 1280 || a.Current().Descriptor().Width != 1280 {
		t.Error("Both history textures should have the new size")
	}

	if err := a.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
	if a.Allocated() {
		t.Error("Accumulator should be empty after release")
	}
}
