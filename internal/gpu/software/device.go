// Package software is a CPU backend for the gpu contracts. Commands execute
// immediately; fullscreen draws and ray dispatches are split into rows and
// run on a pond worker pool.
package software

import (
	"runtime"
	"sync/atomic"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

type Device struct {
	pool  pond.Pool
	scene *Scene
	live  atomic.Int64
}

// NewDevice creates a device tracing against scene. A nil scene makes the
// device report no ray tracing support. workers <= 0 uses one worker per CPU.
func NewDevice(scene *Scene, workers int) *Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Device{
		pool:  pond.NewPool(workers),
		scene: scene,
	}
}

func (d *Device) Scene() *Scene {
	return d.scene
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if !desc.Valid() {
		return nil, gpu.ErrInvalidDescriptor
	}
	t := NewTexture(desc)
	t.device = d
	d.live.Add(1)
	logger.Log.Debug("Software texture created", zap.Stringer("desc", desc))
	return t, nil
}

func (d *Device) CreateAccelerationStructure(settings gpu.AccelerationStructureSettings) (gpu.AccelerationStructure, error) {
	if d.scene == nil {
		return nil, gpu.ErrUnsupported
	}
	return &AccelerationStructure{scene: d.scene, settings: settings}, nil
}

// LiveTextures counts textures created by the device and not yet released.
func (d *Device) LiveTextures() int {
	return int(d.live.Load())
}

// forRows runs fn for every row in [0, rows) on the worker pool and waits.
func (d *Device) forRows(rows int, fn func(y int)) {
	group := d.pool.NewGroup()
	for y := 0; y < rows; y++ {
		y := y
		group.Submit(func() {
			fn(y)
		})
	}
	if err := group.Wait(); err != nil {
		logger.Log.Error("Software row task failed", zap.Error(err))
	}
}

// Close stops the worker pool after queued rows finish.
func (d *Device) Close() {
	d.pool.StopAndWait()
}
