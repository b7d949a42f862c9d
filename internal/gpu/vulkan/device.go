// Package vulkan allocates the stage's images on a Vulkan device and packs
// per-eye matrices for uniform upload. vulkan-go has no ray tracing
// pipeline bindings, so acceleration structures are unsupported and the
// reflection stage skips itself on this backend.
package vulkan

import (
	"GopherRT/internal/gpu"
)

type Device struct {
	Textures *TextureAllocator
}

func NewDevice(textures *TextureAllocator) *Device {
	return &Device{Textures: textures}
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return d.Textures.Allocate(desc)
}

// TODO: build through VK_KHR_acceleration_structure once the bindings expose vkCreateAccelerationStructureKHR.
func (d *Device) CreateAccelerationStructure(gpu.AccelerationStructureSettings) (gpu.AccelerationStructure, error) {
	return nil, gpu.ErrUnsupported
}
