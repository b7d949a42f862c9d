package reflections

import (
	"sync"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"
	"GopherRT/internal/pipeline"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Feature wires the specular mask and reflection trace passes into each
// camera render. Config changes are picked up at the start of the next
// AddPasses call.
type Feature struct {
	mu     sync.Mutex
	config Config
	// rebuildGen counts rebuild requests so a frame only clears the one it consumed
	rebuildGen uint64

	device    gpu.Device
	resources gpu.ResourceProvider
	shaders   ShaderNames

	copyMaterial     gpu.Material
	temporalMaterial gpu.Material

	accel     *AccelerationStructureManager
	maskPass  *SpecularMaskPass
	tracePass *ReflectionTracePass
	cameras   map[pipeline.CameraID]*cameraState

	// warned holds degradation causes already logged
	warned map[string]bool
}

type Option func(*Feature)

func WithShaderNames(names ShaderNames) Option {
	return func(f *Feature) {
		f.shaders = names
	}
}

func NewFeature(device gpu.Device, resources gpu.ResourceProvider, config Config, opts ...Option) (*Feature, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	f := &Feature{
		config:    config,
		device:    device,
		resources: resources,
		shaders:   DefaultShaderNames(),
		accel:     NewAccelerationStructureManager(device),
		maskPass:  NewSpecularMaskPass(),
		tracePass: NewReflectionTracePass(),
		cameras:   make(map[pipeline.CameraID]*cameraState),
		warned:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// SetConfig replaces the configuration for subsequent frames.
func (f *Feature) SetConfig(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	if config.RebuildAccelerationStructure {
		f.rebuildGen++
	} else {
		// a pending rebuild survives a reload that does not mention it
		config.RebuildAccelerationStructure = f.config.RebuildAccelerationStructure
	}
	f.config = config
	f.mu.Unlock()
	return nil
}

func (f *Feature) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config
}

// RequestRebuild drops and recreates the acceleration structure next frame.
func (f *Feature) RequestRebuild() {
	f.mu.Lock()
	f.config.RebuildAccelerationStructure = true
	f.rebuildGen++
	f.mu.Unlock()
}

func (f *Feature) snapshot() (Config, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config, f.rebuildGen
}

// clearRebuild drops the trigger unless a newer request arrived after gen.
func (f *Feature) clearRebuild(gen uint64) {
	f.mu.Lock()
	if f.rebuildGen == gen {
		f.config.RebuildAccelerationStructure = false
	}
	f.mu.Unlock()
}

func (f *Feature) warnOnce(cause string, fields ...zap.Field) {
	if f.warned[cause] {
		return
	}
	f.warned[cause] = true
	logger.Log.Warn("Ray traced reflections disabled: "+cause, fields...)
}

// loadMaterials resolves and caches the copy and temporal materials. Only
// the copy material is required; without the temporal one accumulation is off.
func (f *Feature) loadMaterials() bool {
	if f.copyMaterial == nil {
		if m, ok := f.resources.FindMaterial(f.shaders.Copy); ok {
			f.copyMaterial = m
			logger.Log.Info("Material loaded", zap.String("shader", f.shaders.Copy))
		}
	}
	if f.temporalMaterial == nil {
		if m, ok := f.resources.FindMaterial(f.shaders.Temporal); ok {
			f.temporalMaterial = m
			logger.Log.Info("Material loaded", zap.String("shader", f.shaders.Temporal))
		}
	}
	return f.copyMaterial != nil
}

func (f *Feature) rayGenProgram(xr pipeline.XRState) (gpu.RayTracingProgram, string) {
	name := f.shaders.RayGenViewport
	if xr.Enabled {
		name = f.shaders.RayGen
	}
	program, ok := f.resources.FindRayTracingProgram(name)
	if !ok {
		return nil, name
	}
	return program, name
}

func (f *Feature) cameraState(id pipeline.CameraID) *cameraState {
	s, ok := f.cameras[id]
	if !ok {
		s = newCameraState(f.device)
		f.cameras[id] = s
	}
	return s
}

// AddPasses enqueues the mask and trace passes for this camera. It returns
// false when the stage is skipped for the frame; the frame then renders
// without ray traced reflections.
func (f *Feature) AddPasses(q pipeline.PassQueue, frame *pipeline.FrameContext) bool {
	config, gen := f.snapshot()

	if !f.loadMaterials() {
		f.warnOnce("copy material missing", zap.String("shader", f.shaders.Copy))
		return false
	}

	program, programName := f.rayGenProgram(frame.XR)

	camera := &frame.Camera
	if camera.Type == pipeline.CameraGame && camera.Tag != pipeline.MainCameraTag {
		return false
	}

	// scene views only show the result when traced after post-processing
	if camera.Type == pipeline.CameraSceneView {
		f.tracePass.SetEvent(pipeline.AfterRenderingPostProcessing)
	} else {
		f.tracePass.SetEvent(pipeline.AfterRenderingTransparents)
	}

	structure, consumed, err := f.accel.Ensure(config.RebuildAccelerationStructure)
	if err != nil {
		f.warnOnce("acceleration structure unavailable", zap.Error(err))
	}
	if consumed {
		f.clearRebuild(gen)
	}

	desc := camera.TargetDescriptor
	if w, h := RadianceSize(desc.Width, desc.Height, config.DownsamplingFactor); !desc.Valid() || w == 0 || h == 0 {
		logger.Log.Debug("Skipping reflections for degenerate camera target",
			zap.Uint64("camera", uint64(camera.ID)),
			zap.Stringer("target", desc))
		return false
	}

	f.maskPass.ConfigureInput(pipeline.InputDepth)
	f.tracePass.ConfigureInput(pipeline.InputDepth)

	var temporal gpu.Material
	if config.UseTemporalAccumulation {
		temporal = f.temporalMaterial
		if temporal == nil {
			f.warnOnce("temporal material missing, accumulation off", zap.String("shader", f.shaders.Temporal))
		}
	}

	state := f.cameraState(camera.ID)
	maskReady := f.maskPass.Setup(MaskTargetName, MaskDescriptor(desc))
	traceReady := f.tracePass.Setup(TraceSetup{
		Program:    program,
		Structure:  structure,
		Copy:       f.copyMaterial,
		Temporal:   temporal,
		Config:     config,
		MaskTarget: MaskTargetName,
		state:      state,
	})
	if program == nil {
		f.warnOnce("ray generation program missing", zap.String("program", programName))
	}

	if !maskReady || !traceReady {
		return false
	}
	q.EnqueuePass(f.maskPass)
	q.EnqueuePass(f.tracePass)
	return true
}

// ForgetCamera releases the cross-frame state of a destroyed camera.
func (f *Feature) ForgetCamera(id pipeline.CameraID) error {
	s, ok := f.cameras[id]
	if !ok {
		return nil
	}
	delete(f.cameras, id)
	return s.release()
}

// CameraCount returns how many cameras currently hold cross-frame state.
func (f *Feature) CameraCount() int {
	return len(f.cameras)
}

// Dispose releases materials, history buffers and the acceleration structure.
func (f *Feature) Dispose() error {
	var err error
	for id, s := range f.cameras {
		err = multierr.Append(err, s.release())
		delete(f.cameras, id)
	}
	err = multierr.Append(err, f.accel.Release())

	if f.copyMaterial != nil {
		f.resources.DestroyMaterial(f.copyMaterial)
		f.copyMaterial = nil
	}
	if f.temporalMaterial != nil {
		f.resources.DestroyMaterial(f.temporalMaterial)
		f.temporalMaterial = nil
	}
	logger.Log.Info("Ray traced reflections disposed")
	return err
}
