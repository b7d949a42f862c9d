package reflections

import (
	"fmt"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"go.uber.org/zap"
)

// AccelerationStructureManager owns the scene acceleration structure.
type AccelerationStructureManager struct {
	device    gpu.Device
	settings  gpu.AccelerationStructureSettings
	structure gpu.AccelerationStructure
	builds    int
}

// NewAccelerationStructureManager covers every layer but the UI layer and
// lets the backend track scene changes.
func NewAccelerationStructureManager(device gpu.Device) *AccelerationStructureManager {
	return &AccelerationStructureManager{
		device: device,
		settings: gpu.AccelerationStructureSettings{
			Layers:         gpu.AllLayers &^ gpu.LayerBit(uiLayer),
			ManagementMode: gpu.ManagementAutomatic,
			Modes:          gpu.RayTracingModeStatic | gpu.RayTracingModeDynamicTransform,
		},
	}
}

// Ensure returns the live structure, creating it when absent. A rebuild
// request drops the current structure first. consumed reports whether the
// request was satisfied by a fresh structure so the caller can clear its trigger.
func (m *AccelerationStructureManager) Ensure(rebuild bool) (as gpu.AccelerationStructure, consumed bool, err error) {
	if rebuild && m.structure != nil {
		if err := m.structure.Release(); err != nil {
			logger.Log.Warn("Releasing acceleration structure failed", zap.Error(err))
		}
		m.structure = nil
		logger.Log.Info("Acceleration structure rebuild requested")
	}

	if m.structure == nil {
		structure, err := m.device.CreateAccelerationStructure(m.settings)
		if err != nil {
			return nil, false, fmt.Errorf("create acceleration structure: %w", err)
		}
		if structure == nil {
			return nil, false, fmt.Errorf("create acceleration structure: %w", gpu.ErrUnsupported)
		}
		m.structure = structure
		m.builds++
		logger.Log.Info("Acceleration structure created",
			zap.Uint32("layers", uint32(m.settings.Layers)),
			zap.Int("builds", m.builds))
		return m.structure, rebuild, nil
	}

	return m.structure, false, nil
}

func (m *AccelerationStructureManager) Structure() gpu.AccelerationStructure {
	return m.structure
}

func (m *AccelerationStructureManager) Settings() gpu.AccelerationStructureSettings {
	return m.settings
}

// Builds counts structures created over the manager's lifetime.
func (m *AccelerationStructureManager) Builds() int {
	return m.builds
}

func (m *AccelerationStructureManager) Release() error {
	if m.structure == nil {
		return nil
	}
	err := m.structure.Release()
	m.structure = nil
	return err
}
