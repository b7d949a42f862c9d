// Package opengl implements the gpu contracts on an OpenGL 4.1 core context.
// GL has no ray tracing, so acceleration structures are unsupported and the
// reflection stage skips itself on this backend.
package opengl

import (
	"GopherRT/internal/gpu"
)

type Device struct {
	Textures *TextureManager
}

// NewDevice must be called with a current GL context.
func NewDevice() *Device {
	return &Device{Textures: NewTextureManager()}
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return d.Textures.Allocate(desc, "device")
}

func (d *Device) CreateAccelerationStructure(gpu.AccelerationStructureSettings) (gpu.AccelerationStructure, error) {
	return nil, gpu.ErrUnsupported
}
