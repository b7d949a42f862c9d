package reflections

import (
	"fmt"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"go.uber.org/zap"
)

// ResizableTexture owns one long-lived texture and reallocates it whenever the
// requested descriptor no longer matches the allocation.
type ResizableTexture struct {
	device      gpu.Device
	label       string
	texture     gpu.Texture
	allocations int
}

func NewResizableTexture(device gpu.Device, label string) *ResizableTexture {
	return &ResizableTexture{device: device, label: label}
}

// Matches reports whether the current allocation can serve desc.
func (r *ResizableTexture) Matches(desc gpu.TextureDescriptor) bool {
	return r.texture != nil && r.texture.Descriptor().SameShape(desc)
}

// Ensure makes sure the texture matches desc, reallocating if needed.
// It reports whether a new allocation was made.
func (r *ResizableTexture) Ensure(desc gpu.TextureDescriptor) (bool, error) {
	if r.Matches(desc) {
		return false, nil
	}
	if !desc.Valid() {
		return false, fmt.Errorf("%s: %w: %s", r.label, gpu.ErrInvalidDescriptor, desc)
	}
	if err := r.Release(); err != nil {
		logger.Log.Warn("Releasing stale texture failed",
			zap.String("texture", r.label),
			zap.Error(err))
	}

	texture, err := r.device.CreateTexture(desc)
	if err != nil {
		return false, fmt.Errorf("allocate %s: %w", r.label, err)
	}
	r.texture = texture
	r.allocations++

	logger.Log.Debug("Texture allocated",
		zap.String("texture", r.label),
		zap.Int("width", desc.Width),
		zap.Int("height", desc.Height),
		zap.Stringer("format", desc.Format),
		zap.Int("allocations", r.allocations))
	return true, nil
}

// Texture returns the current allocation, or nil.
func (r *ResizableTexture) Texture() gpu.Texture {
	return r.texture
}

func (r *ResizableTexture) Target() gpu.RenderTarget {
	return gpu.TextureTarget(r.texture)
}

// Allocations counts how many textures Ensure has created over the lifetime.
func (r *ResizableTexture) Allocations() int {
	return r.allocations
}

// Release frees the current allocation. Releasing an empty texture is a no-op.
func (r *ResizableTexture) Release() error {
	if r.texture == nil {
		return nil
	}
	err := r.texture.Release()
	r.texture = nil
	return err
}
