package reflections

import (
	"errors"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
)

func TestAccelerationStructureLazyCreate(t *testing.T) {
	device := gputest.NewDevice()
	m := NewAccelerationStructureManager(device)

	first, _, err := m.Ensure(false)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	second, _, _ := m.Ensure(false)

	if first != second {
		t.Error("Structure should be reused without a rebuild request")
	}
	if device.StructuresCreated != 1 {
		t.Errorf("Expected 1 structure, got %d", device.StructuresCreated)
	}
}

func TestAccelerationStructureSettings(t *testing.T) {
	m := NewAccelerationStructureManager(gputest.NewDevice())
	s := m.Settings()

	if s.Layers.Contains(uiLayer) {
		t.Error("UI layer should be excluded")
	}
	if !s.Layers.Contains(0) {
		t.Error("Default layer should be included")
	}
	if s.ManagementMode != gpu.ManagementAutomatic {
		t.Error("Structure should use automatic instance management")
	}
	if s.Modes&gpu.RayTracingModeDynamicTransform == 0 || s.Modes&gpu.RayTracingModeStatic == 0 {
		t.Error("Static and dynamic-transform instances should be included")
	}
}

func TestAccelerationStructureRebuild(t *testing.T) {
	device := gputest.NewDevice()
	m := NewAccelerationStructureManager(device)
	m.Ensure(false)
	old := device.Structures[0]

	as, consumed, err := m.Ensure(true)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if !consumed {
		t.Error("Rebuild request should be reported as consumed")
	}
	if !old.Released {
		t.Error("Old structure should be released on rebuild")
	}
	if as == gpu.AccelerationStructure(old) {
		t.Error("Rebuild should create a new structure")
	}
	if device.StructuresCreated != 2 {
		t.Errorf("Expected exactly 2 structures, got %d", device.StructuresCreated)
	}
}

func TestAccelerationStructureUnsupported(t *testing.T) {
	device := gputest.NewDevice()
	device.NoRayTracing = true
	m := NewAccelerationStructureManager(device)

	as, consumed, err := m.Ensure(true)
	if !errors.Is(err, gpu.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
	if as != nil || consumed {
		t.Error("Unsupported backend should yield no structure and keep the trigger")
	}
}

func TestAccelerationStructureRelease(t *testing.T) {
	device := gputest.NewDevice()
	m := NewAccelerationStructureManager(device)
	m.Ensure(false)

	if err := m.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !device.Structures[0].Released {
		t.Error("Structure should be released")
	}
	if m.Structure() != nil {
		t.Error("Structure should be nil after release")
	}
}
