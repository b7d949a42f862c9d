package renderer

import (
	"errors"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
	"GopherRT/internal/gpu/opengl"
	"GopherRT/internal/reflections"
)

func TestOpenGLHostSkipsReflections(t *testing.T) {
	device := opengl.NewDevice()
	if _, err := device.CreateAccelerationStructure(gpu.AccelerationStructureSettings{Layers: gpu.AllLayers}); !errors.Is(err, gpu.ErrUnsupported) {
		t.Fatalf("OpenGL device should not support acceleration structures, got %v", err)
	}

	provider := gputest.NewProvider()
	cmd := gputest.NewRecorder()
	host := NewOpenGLHost(device, provider, cmd)
	feature, err := reflections.NewFeature(device, provider, reflections.DefaultConfig())
	if err != nil {
		t.Fatalf("NewFeature failed: %v", err)
	}
	host.AddFeature(feature)

	cam := NewDefaultCamera(64, 48)
	for i := 0; i < 2; i++ {
		if n := host.Render(cam, 64, 48); n != 0 {
			t.Fatalf("Reflections should be skipped on OpenGL, got %d passes", n)
		}
	}
	if len(cmd.Find(gputest.OpDispatchRays, "")) != 0 || len(cmd.Find(gputest.OpDrawFullscreen, "")) != 0 {
		t.Error("A skipped stage should record no dispatch or composite")
	}
	if !feature.Config().RebuildAccelerationStructure {
		t.Error("An unsatisfied rebuild request should stay pending")
	}
	if provider.Lookups == 0 {
		t.Error("Materials should still be resolved before the stage degrades")
	}

	if err := host.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(provider.Destroyed) != 2 {
		t.Errorf("Copy and temporal materials should be destroyed, got %v", provider.Destroyed)
	}
}
