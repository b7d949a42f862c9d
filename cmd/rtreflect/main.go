package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"GopherRT/internal/engine"
	"GopherRT/internal/logger"
	"GopherRT/internal/pipeline"
	"GopherRT/internal/reflections"
	"GopherRT/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

type options struct {
	software    bool
	vulkanProbe bool
	frames      int
	width       int
	height      int
	scale       int
	workers     int
	output      string
	configPath  string
	preset      string
	xr          bool
	seed        int64
}

func parseFlags() options {
	var o options
	flag.BoolVar(&o.software, "software", false, "render headless on the CPU and write a PNG")
	flag.BoolVar(&o.vulkanProbe, "vulkan-probe", false, "check the Vulkan device for the images and acceleration structure the stage needs")
	flag.IntVar(&o.frames, "frames", 16, "frames to accumulate in headless mode")
	flag.IntVar(&o.width, "width", 320, "headless render width")
	flag.IntVar(&o.height, "height", 180, "headless render height")
	flag.IntVar(&o.scale, "scale", 4, "window render scale divisor")
	flag.IntVar(&o.workers, "workers", runtime.NumCPU(), "CPU backend worker count")
	flag.StringVar(&o.output, "o", "reflections.png", "headless output image")
	flag.StringVar(&o.configPath, "config", "", "reflection settings file (.json or .yaml), reloaded on change")
	flag.StringVar(&o.preset, "preset", "default", "settings preset: default, high or performance")
	flag.BoolVar(&o.xr, "xr", false, "render single-pass stereo")
	flag.Int64Var(&o.seed, "seed", 1, "floor noise seed")
	flag.Parse()
	return o
}

func presetConfig(name string) (reflections.Config, error) {
	switch name {
	case "default":
		return reflections.DefaultConfig(), nil
	case "high":
		return reflections.HighQualityConfig(), nil
	case "performance":
		return reflections.PerformanceConfig(), nil
	default:
		return reflections.Config{}, fmt.Errorf("unknown preset %q", name)
	}
}

func main() {
	opts := parseFlags()
	logger.Init()
	defer logger.Sync()

	if err := run(opts); err != nil {
		logger.Log.Error("rtreflect failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := presetConfig(opts.preset)
	if err != nil {
		return err
	}
	if opts.configPath != "" {
		if config, err = reflections.LoadConfig(opts.configPath); err != nil {
			return err
		}
	}

	cam := renderer.NewDefaultCamera(opts.width, opts.height)
	cam.Position = mgl32.Vec3{0, 2.2, 5.5}
	cam.LookAt(mgl32.Vec3{0, 0.6, -1})

	if opts.vulkanProbe {
		report, err := engine.ProbeVulkan(cam, config, opts.width, opts.height)
		if err != nil {
			return err
		}
		fmt.Printf("device: %s\nradiance: %s\nmask: %s\nray tracing: %v\nuniform block: %d bytes\n",
			report.Device, report.RadianceImage, report.MaskImage, report.RayTracing, report.UniformBlockLen)
		return nil
	}

	scene, orbiter := demoScene(opts.seed)
	host := renderer.NewSoftwareHost(scene, opts.workers)
	if opts.xr {
		host.XR = pipeline.XRState{Enabled: true, Mode: pipeline.StereoSinglePassInstanced}
	}
	names := reflections.DefaultShaderNames()
	renderer.RegisterSoftwareShaders(host.Provider, names)

	feature, err := reflections.NewFeature(host.Device, host.Provider, config, reflections.WithShaderNames(names))
	if err != nil {
		host.Close()
		return err
	}
	host.AddFeature(feature)
	defer func() {
		if err := host.Close(); err != nil {
			logger.Log.Warn("Shutdown left resources behind", zap.Error(err))
		}
	}()

	if opts.configPath != "" {
		watcher, err := reflections.NewConfigWatcher(opts.configPath, feature.SetConfig)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	animation := &orbit{object: orbiter, radius: 2.2, speed: 0.8}
	if opts.software {
		return renderHeadless(ctx, host, cam, animation, opts)
	}

	viewer := engine.NewViewer(host)
	viewer.Camera = cam
	viewer.RenderScale = opts.scale
	viewer.Reflections = config
	viewer.Camera.SetAspectRatio(float32(viewer.Width) / float32(viewer.Height))
	viewer.Behaviours.Add(animation)
	return viewer.Run(ctx)
}

// renderHeadless advances the animation at 60 Hz so temporal accumulation
// sees a moving scene, then writes the final frame.
func renderHeadless(ctx context.Context, host *renderer.SoftwareHost, cam *renderer.Camera, animation *orbit, opts options) error {
	behaviours := engine.NewBehaviourManager()
	behaviours.Add(animation)
	for i := 0; i < opts.frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		behaviours.UpdateAll(1.0 / 60)
		passes := host.Render(cam, opts.width, opts.height)
		logger.Log.Debug("Frame rendered", zap.Int("frame", i), zap.Int("passes", passes))
	}
	if err := renderer.WritePNG(opts.output, host.Color(), 0); err != nil {
		return err
	}
	logger.Log.Info("Snapshot written",
		zap.String("path", opts.output),
		zap.Int("frames", opts.frames))
	return nil
}
