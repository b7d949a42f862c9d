package engine

import (
	"errors"
	"fmt"
	"unsafe"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/vulkan"
	"GopherRT/internal/logger"
	"GopherRT/internal/pipeline"
	"GopherRT/internal/reflections"
	"GopherRT/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/asche"
	vk "github.com/vulkan-go/vulkan"
	"go.uber.org/zap"
)

// ProbeReport summarises what the Vulkan backend can do for the stage.
type ProbeReport struct {
	Device          string
	RadianceImage   gpu.TextureDescriptor
	MaskImage       gpu.TextureDescriptor
	RayTracing      bool
	UniformBlockLen int
}

type probeApp struct {
	asche.BaseVulkanApp
	ctx asche.Context
}

func (a *probeApp) VulkanInit(ctx asche.Context) error {
	a.ctx = ctx
	return nil
}

func (a *probeApp) VulkanAppName() string { return "GopherRT" }

// ProbeVulkan creates a headless Vulkan device, allocates the images the
// reflection stage would use for cam at width x height and checks for
// acceleration structure support.
func ProbeVulkan(cam *renderer.Camera, config reflections.Config, width, height int) (ProbeReport, error) {
	var report ProbeReport
	if err := glfw.Init(); err != nil {
		return report, fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()
	if !glfw.VulkanSupported() {
		return report, fmt.Errorf("vulkan loader: %w", gpu.ErrUnsupported)
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return report, fmt.Errorf("vk.Init: %w", err)
	}

	app := &probeApp{}
	platform, err := asche.NewPlatform(app)
	if err != nil {
		return report, fmt.Errorf("vulkan platform: %w", err)
	}
	defer platform.Destroy()

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(platform.PhysicalDevice(), &props)
	props.Deref()
	report.Device = vk.ToString(props.DeviceName[:])

	allocator := vulkan.NewTextureAllocatorFromContext(app.ctx)
	defer allocator.Destroy()
	device := vulkan.NewDevice(allocator)

	data := cam.CameraData(gpu.TextureDescriptor{
		Width: width, Height: height, Format: gpu.FormatRGBA16Float,
	}, pipeline.XRState{})

	radiance := reflections.NewResizableTexture(device, "vk_radiance")
	defer radiance.Release()
	report.RadianceImage = reflections.RadianceDescriptor(data.TargetDescriptor, config.DownsamplingFactor)
	if _, err := radiance.Ensure(report.RadianceImage); err != nil {
		return report, err
	}

	report.MaskImage = reflections.MaskDescriptor(data.TargetDescriptor)
	mask, err := device.CreateTexture(report.MaskImage)
	if err != nil {
		return report, err
	}
	defer mask.Release()

	accel := reflections.NewAccelerationStructureManager(device)
	defer accel.Release()
	switch _, _, err := accel.Ensure(config.RebuildAccelerationStructure); {
	case err == nil:
		report.RayTracing = true
	case errors.Is(err, gpu.ErrUnsupported):
		logger.Log.Warn("Vulkan device cannot build acceleration structures", zap.String("device", report.Device))
	default:
		return report, err
	}

	var uniforms vulkan.RayUniforms
	proj := data.ProjectionMatrix(0)
	uniforms.SetEyes(
		[]mgl32.Mat4{data.ViewMatrix(0).Inv()},
		[]mgl32.Mat4{proj.Inv()},
		[]float32{reflections.SpreadAngle(proj, height, config.DownsamplingFactor)},
	)
	report.UniformBlockLen = int(unsafe.Sizeof(uniforms))

	logger.Log.Info("Vulkan probe finished",
		zap.String("device", report.Device),
		zap.Stringer("radiance", report.RadianceImage),
		zap.Bool("rayTracing", report.RayTracing))
	return report, nil
}
