package vulkan

import (
	"errors"
	"fmt"
	"sync"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/vulkan-go/asche"
	vk "github.com/vulkan-go/vulkan"
	"go.uber.org/zap"
)

var errNoMemoryType = errors.New("vulkan: no suitable memory type")

// Texture is a device-local image plus its backing allocation.
type Texture struct {
	image     vk.Image
	memory    vk.DeviceMemory
	desc      gpu.TextureDescriptor
	allocator *TextureAllocator
}

func (t *Texture) Descriptor() gpu.TextureDescriptor { return t.desc }

func (t *Texture) Image() vk.Image { return t.image }

func (t *Texture) Release() error {
	return t.allocator.free(t)
}

// TextureAllocator creates images on a logical device and tracks them so
// Destroy can reclaim anything still alive.
type TextureAllocator struct {
	mu             sync.Mutex
	device         vk.Device
	physicalDevice vk.PhysicalDevice
	live           map[*Texture]struct{}
}

func NewTextureAllocator(device vk.Device, physicalDevice vk.PhysicalDevice) *TextureAllocator {
	return &TextureAllocator{
		device:         device,
		physicalDevice: physicalDevice,
		live:           make(map[*Texture]struct{}),
	}
}

// NewTextureAllocatorFromContext binds the allocator to an asche application context.
func NewTextureAllocatorFromContext(ctx asche.Context) *TextureAllocator {
	return NewTextureAllocator(ctx.Device(), ctx.Platform().PhysicalDevice())
}

func (a *TextureAllocator) Allocate(desc gpu.TextureDescriptor) (*Texture, error) {
	info, err := imageCreateInfo(desc)
	if err != nil {
		return nil, err
	}

	var image vk.Image
	if res := vk.CreateImage(a.device, &info, nil, &image); res != vk.Success {
		return nil, fmt.Errorf("vkCreateImage failed: %d", res)
	}

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(a.device, image, &memReqs)
	memReqs.Deref()

	memTypeIndex, err := a.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		vk.DestroyImage(a.device, image, nil)
		return nil, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(a.device, &allocInfo, nil, &memory); res != vk.Success {
		vk.DestroyImage(a.device, image, nil)
		return nil, fmt.Errorf("vkAllocateMemory failed: %d", res)
	}
	if res := vk.BindImageMemory(a.device, image, memory, 0); res != vk.Success {
		vk.FreeMemory(a.device, memory, nil)
		vk.DestroyImage(a.device, image, nil)
		return nil, fmt.Errorf("vkBindImageMemory failed: %d", res)
	}

	t := &Texture{image: image, memory: memory, desc: desc, allocator: a}
	a.mu.Lock()
	a.live[t] = struct{}{}
	a.mu.Unlock()

	logger.Log.Debug("Vulkan image allocated",
		zap.String("desc", desc.String()),
		zap.Uint64("bytes", uint64(memReqs.Size)))
	return t, nil
}

func (a *TextureAllocator) free(t *Texture) error {
	a.mu.Lock()
	_, ok := a.live[t]
	delete(a.live, t)
	a.mu.Unlock()
	if !ok {
		return gpu.ErrReleased
	}
	vk.DestroyImage(a.device, t.image, nil)
	vk.FreeMemory(a.device, t.memory, nil)
	return nil
}

func (a *TextureAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Destroy frees every image still alive. The device must be idle.
func (a *TextureAllocator) Destroy() {
	a.mu.Lock()
	textures := make([]*Texture, 0, len(a.live))
	for t := range a.live {
		textures = append(textures, t)
	}
	a.mu.Unlock()
	if len(textures) > 0 {
		logger.Log.Warn("Vulkan images leaked until shutdown", zap.Int("count", len(textures)))
	}
	for _, t := range textures {
		_ = a.free(t)
	}
}

func (a *TextureAllocator) findMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(a.physicalDevice, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if matchesMemoryType(typeFilter, i, memProps.MemoryTypes[i].PropertyFlags, properties) {
			return i, nil
		}
	}
	return 0, errNoMemoryType
}

func matchesMemoryType(typeFilter, index uint32, have, want vk.MemoryPropertyFlags) bool {
	return typeFilter&(1<<index) != 0 && have&want == want
}
