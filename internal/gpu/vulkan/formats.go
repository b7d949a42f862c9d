package vulkan

import (
	"fmt"

	"GopherRT/internal/gpu"

	vk "github.com/vulkan-go/vulkan"
)

func vkFormat(f gpu.TextureFormat) (vk.Format, bool) {
	switch f {
	case gpu.FormatR8Unorm:
		return vk.FormatR8Unorm, true
	case gpu.FormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm, true
	case gpu.FormatRGBA16Float:
		return vk.FormatR16g16b16a16Sfloat, true
	case gpu.FormatRGBA32Float:
		return vk.FormatR32g32b32a32Sfloat, true
	default:
		return vk.FormatUndefined, false
	}
}

// sampleCount rounds down to the nearest supported power of two.
func sampleCount(n int) vk.SampleCountFlagBits {
	switch {
	case n >= 16:
		return vk.SampleCount16Bit
	case n >= 8:
		return vk.SampleCount8Bit
	case n >= 4:
		return vk.SampleCount4Bit
	case n >= 2:
		return vk.SampleCount2Bit
	default:
		return vk.SampleCount1Bit
	}
}

func imageUsage(desc gpu.TextureDescriptor) vk.ImageUsageFlags {
	usage := vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit
	if desc.Samples() == 1 {
		usage |= vk.ImageUsageSampledBit
	}
	if desc.EnableRandomWrite {
		usage |= vk.ImageUsageStorageBit
	}
	return vk.ImageUsageFlags(usage)
}

// imageCreateInfo translates a texture descriptor. Array textures keep one
// layer per eye; storage images are required for ray generation output.
func imageCreateInfo(desc gpu.TextureDescriptor) (vk.ImageCreateInfo, error) {
	if !desc.Valid() {
		return vk.ImageCreateInfo{}, fmt.Errorf("%w: %s", gpu.ErrInvalidDescriptor, desc)
	}
	format, ok := vkFormat(desc.Format)
	if !ok {
		return vk.ImageCreateInfo{}, fmt.Errorf("%w: format %s", gpu.ErrInvalidDescriptor, desc.Format)
	}
	if desc.EnableRandomWrite && desc.Samples() > 1 {
		return vk.ImageCreateInfo{}, fmt.Errorf("%w: multisampled storage image", gpu.ErrInvalidDescriptor)
	}
	return vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  uint32(desc.Width),
			Height: uint32(desc.Height),
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   uint32(desc.Slices()),
		Samples:       sampleCount(desc.Samples()),
		Tiling:        vk.ImageTilingOptimal,
		Usage:         imageUsage(desc),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil
}
