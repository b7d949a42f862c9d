package engine

import (
	"context"
	"fmt"
	"runtime"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/opengl"
	"GopherRT/internal/logger"
	"GopherRT/internal/reflections"
	"GopherRT/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Viewer opens a window and shows frames rendered by a SoftwareHost. The
// host output is uploaded to a GL texture and presented with a tonemapping
// fullscreen pass. The reflection stage also runs on the GL backend at window
// resolution, where it degrades to a no-op.
type Viewer struct {
	Width  int
	Height int
	Title  string
	// RenderScale divides the window size to get the CPU render resolution.
	RenderScale       int
	Host              *renderer.SoftwareHost
	Camera            *renderer.Camera
	Behaviours        *BehaviourManager
	EnableCameraInput bool
	// Reflections configures the GL-side reflection stage.
	Reflections reflections.Config

	window   *glfw.Window
	device   *opengl.Device
	provider *opengl.Provider
	present  gpu.Material
	cmd      *opengl.CommandBuffer
	frame    *opengl.Texture
	glHost   *renderer.OpenGLHost
	onFrame  func(deltaTime float64)
}

func NewViewer(host *renderer.SoftwareHost) *Viewer {
	return &Viewer{
		Width:             1024,
		Height:            768,
		Title:             "GopherRT",
		RenderScale:       4,
		Host:              host,
		Camera:            renderer.NewDefaultCamera(1024, 768),
		Behaviours:        NewBehaviourManager(),
		EnableCameraInput: true,
		Reflections:       reflections.DefaultConfig(),
	}
}

// SetOnFrameCallback sets a callback invoked once per frame before rendering.
func (v *Viewer) SetOnFrameCallback(callback func(deltaTime float64)) {
	v.onFrame = callback
}

// Run blocks until the window closes or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(v.Width, v.Height, v.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	v.window = window
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialize OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	if err := v.initPresent(); err != nil {
		return err
	}
	defer v.releasePresent()

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(v.mouseCallback)

	v.renderLoop(ctx)
	return nil
}

func (v *Viewer) initPresent() error {
	v.device = opengl.NewDevice()
	v.provider = opengl.NewProvider()
	renderer.RegisterOpenGLShaders(v.provider, reflections.DefaultShaderNames())
	present, ok := v.provider.FindMaterial(renderer.PresentShader)
	if !ok {
		return fmt.Errorf("present shader %q failed to compile", renderer.PresentShader)
	}
	v.present = present
	width, height := v.window.GetFramebufferSize()
	v.cmd = opengl.NewCommandBuffer(v.device, width, height)

	feature, err := reflections.NewFeature(v.device, v.provider, v.Reflections)
	if err != nil {
		return fmt.Errorf("reflection stage: %w", err)
	}
	v.glHost = renderer.NewOpenGLHost(v.device, v.provider, v.cmd)
	v.glHost.AddFeature(feature)
	return nil
}

func (v *Viewer) releasePresent() {
	if v.glHost != nil {
		if err := v.glHost.Close(); err != nil {
			logger.Log.Warn("OpenGL host teardown failed", zap.Error(err))
		}
	}
	v.cmd.Release()
	v.provider.DestroyMaterial(v.present)
	v.device.Textures.LogStats()
	v.device.Textures.Clear()
}

func (v *Viewer) renderLoop(ctx context.Context) {
	lastTime := glfw.GetTime()
	for !v.window.ShouldClose() && ctx.Err() == nil {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		width, height := v.window.GetSize()
		if width != v.Width || height != v.Height {
			v.Width, v.Height = width, height
			v.Camera.SetAspectRatio(float32(width) / float32(max(height, 1)))
			fbw, fbh := v.window.GetFramebufferSize()
			v.cmd.Resize(fbw, fbh)
		}

		if v.EnableCameraInput {
			v.Camera.ProcessKeyboard(v.window, float32(deltaTime))
		}
		v.Behaviours.UpdateAll(deltaTime)
		if v.onFrame != nil {
			v.onFrame(deltaTime)
		}

		scale := max(v.RenderScale, 1)
		if w, h := v.Width/scale, v.Height/scale; w > 0 && h > 0 {
			v.Host.Render(v.Camera, w, h)
			if err := v.presentFrame(); err != nil {
				logger.Log.Error("Present failed", zap.Error(err))
			}
		}
		if fbw, fbh := v.window.GetFramebufferSize(); fbw > 0 && fbh > 0 {
			v.glHost.Render(v.Camera, fbw, fbh)
		}

		v.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// presentFrame uploads the first slice of the host color target and draws it.
func (v *Viewer) presentFrame() error {
	color := v.Host.Color()
	desc := color.Descriptor()
	desc.Dimension = gpu.Dimension2D
	desc.VolumeDepth = 0

	if v.frame == nil || !v.frame.Descriptor().SameShape(desc) {
		if v.frame != nil {
			v.frame.Release()
		}
		t, err := v.device.Textures.Allocate(desc, "present")
		if err != nil {
			v.frame = nil
			return err
		}
		v.frame = t
	}
	if err := v.device.Textures.Upload(v.frame, 0, color.Pixels()); err != nil {
		return err
	}

	v.cmd.SetGlobalTexture(reflections.PropCopySource, gpu.RenderTarget{Texture: v.frame})
	v.cmd.SetRenderTarget(gpu.CameraTarget())
	v.cmd.ClearRenderTarget(true, true, mgl32.Vec4{0, 0, 0, 1})
	v.cmd.DrawFullscreen(v.present)
	return nil
}

func (v *Viewer) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if v.EnableCameraInput && w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		v.Camera.HandleCursor(float32(xpos), float32(ypos))
		return
	}
	v.Camera.ResetCursor()
}
