package reflections

import (
	"math"
	"testing"

	"GopherRT/internal/gpu"
	"GopherRT/internal/gpu/gputest"
	"GopherRT/internal/pipeline"

	"github.com/go-gl/mathgl/mgl32"
)

func testCamera(id pipeline.CameraID, w, h int) pipeline.CameraData {
	proj := mgl32.Perspective(mgl32.DegToRad(60), float32(w)/float32(h), 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 1, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return pipeline.CameraData{
		ID:               id,
		Type:             pipeline.CameraGame,
		Tag:              pipeline.MainCameraTag,
		TargetDescriptor: gpu.TextureDescriptor{Width: w, Height: h, Format: gpu.FormatRGBA16Float, DepthBufferBits: 24},
		ColorTarget:      gpu.CameraTarget(),
		View:             [pipeline.MaxEyes]mgl32.Mat4{view, view},
		Projection:       [pipeline.MaxEyes]mgl32.Mat4{proj, proj},
	}
}

func testFrame(w, h int) *pipeline.FrameContext {
	return &pipeline.FrameContext{Camera: testCamera(1, w, h)}
}

func setupTrace(t *testing.T, device gpu.Device, config Config, temporal bool) (*ReflectionTracePass, *cameraState) {
	t.Helper()
	state := newCameraState(device)
	p := NewReflectionTracePass()
	s := TraceSetup{
		Program:    gputest.Program("rays"),
		Structure:  &gputest.AccelerationStructure{},
		Copy:       gputest.Material("copy"),
		Config:     config,
		MaskTarget: MaskTargetName,
		state:      state,
	}
	if temporal {
		s.Temporal = gputest.Material("temporal")
	}
	if !p.Setup(s) {
		t.Fatal("Setup should succeed with all resources present")
	}
	return p, state
}

func runTrace(t *testing.T, p *ReflectionTracePass, cmd *gputest.Recorder, frame *pipeline.FrameContext) {
	t.Helper()
	if err := p.Prepare(cmd, frame); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	p.Record(cmd, frame)
	p.Release(cmd)
}

func TestReflectionTracePassSetupRequiresResources(t *testing.T) {
	device := gputest.NewDevice()
	full := TraceSetup{
		Program:    gputest.Program("rays"),
		Structure:  &gputest.AccelerationStructure{},
		Copy:       gputest.Material("copy"),
		Config:     DefaultConfig(),
		MaskTarget: MaskTargetName,
		state:      newCameraState(device),
	}

	cases := map[string]func(s *TraceSetup){
		"copy":      func(s *TraceSetup) { s.Copy = nil },
		"program":   func(s *TraceSetup) { s.Program = nil },
		"structure": func(s *TraceSetup) { s.Structure = nil },
	}
	for name, drop := range cases {
		s := full
		drop(&s)
		if NewReflectionTracePass().Setup(s) {
			t.Errorf("Setup should fail without %s", name)
		}
	}
	if !NewReflectionTracePass().Setup(full) {
		t.Error("Setup should succeed with every resource")
	}
}

func TestReflectionTracePassPrepareWithoutSetup(t *testing.T) {
	p := NewReflectionTracePass()
	if err := p.Prepare(gputest.NewRecorder(), testFrame(64, 64)); err == nil {
		t.Error("Prepare should fail before Setup")
	}
}

func TestReflectionTracePassDispatch(t *testing.T) {
	config := DefaultConfig()
	config.DownsamplingFactor = 2
	p, state := setupTrace(t, gputest.NewDevice(), config, true)
	cmd := gputest.NewRecorder()
	frame := testFrame(1920, 1080)

	runTrace(t, p, cmd, frame)

	dispatch, ok := cmd.Last(gputest.OpDispatchRays, RayGenPrimary)
	if !ok {
		t.Fatal("Rays should be dispatched")
	}
	if dispatch.Dispatch != [3]uint32{960, 540, 1} {
		t.Errorf("Unexpected dispatch size %v", dispatch.Dispatch)
	}
	if cmd.Index(gputest.OpBuildAccelStructure, "") > cmd.Index(gputest.OpDispatchRays, "") {
		t.Error("Acceleration structure must be built before dispatch")
	}

	pass, _ := cmd.Last(gputest.OpSetRTShaderPass, "")
	if pass.Name != ShaderPassPrimary {
		t.Errorf("Unexpected shader pass %q", pass.Name)
	}
	mask, _ := cmd.Last(gputest.OpSetRTTexture, PropSpecularMask)
	if mask.Target.Name != MaskTargetName {
		t.Errorf("Mask should be bound from the temporary target, got %s", mask.Target)
	}
	radiance, _ := cmd.Last(gputest.OpSetRTTexture, PropSpecularRadiance)
	if radiance.Target.Texture != state.radiance.Texture() {
		t.Error("Radiance texture should be bound for writing")
	}

	primary, _ := cmd.Last(gputest.OpSetRTInt, PropNumPrimarySamples)
	reflection, _ := cmd.Last(gputest.OpSetGlobalInt, PropNumReflectionSamples)
	cull, _ := cmd.Last(gputest.OpSetGlobalInt, PropCullPeripheryRays)
	if primary.Int != 8 || reflection.Int != 1 || cull.Int != 1 {
		t.Errorf("Unexpected sample bindings %d %d %d", primary.Int, reflection.Int, cull.Int)
	}

	if frame.PerObjectData()&pipeline.PerObjectReflectionProbes == 0 {
		t.Error("Trace pass should request reflection probe data")
	}
	if _, ok := cmd.Last(gputest.OpReleaseTemporaryRT, MaskTargetName); !ok {
		t.Error("Release should free the mask target")
	}
}

func TestReflectionTracePassSpreadAngle(t *testing.T) {
	config := DefaultConfig()
	config.DownsamplingFactor = 2
	p, _ := setupTrace(t, gputest.NewDevice(), config, false)
	cmd := gputest.NewRecorder()
	frame := testFrame(1920, 1080)

	runTrace(t, p, cmd, frame)

	spread, _ := cmd.Last(gputest.OpSetRTFloats, PropSpreadAngle)
	want := float32(mgl32.DegToRad(60) / 540)
	if math.Abs(float64(spread.Floats[0]-want)) > 1e-5 {
		t.Errorf("Expected spread angle %v, got %v", want, spread.Floats[0])
	}
}

func TestReflectionTracePassFrameCounter(t *testing.T) {
	p, state := setupTrace(t, gputest.NewDevice(), DefaultConfig(), false)
	cmd := gputest.NewRecorder()

	for i := 0; i < 3; i++ {
		runTrace(t, p, cmd, testFrame(320, 240))
	}

	counter, _ := cmd.Last(gputest.OpSetGlobalInt, PropFrameCounter)
	if counter.Int != 3 || state.frameCounter != 3 {
		t.Errorf("Expected frame counter 3, got %d", counter.Int)
	}
}

func TestReflectionTracePassFrameCounterWraps(t *testing.T) {
	p, state := setupTrace(t, gputest.NewDevice(), DefaultConfig(), false)
	cmd := gputest.NewRecorder()
	state.frameCounter = math.MaxUint32 - 1

	runTrace(t, p, cmd, testFrame(320, 240))
	if counter, _ := cmd.Last(gputest.OpSetGlobalInt, PropFrameCounter); counter.Int != -1 {
		t.Errorf("Counter should bind its bit pattern, got %d", counter.Int)
	}

	runTrace(t, p, cmd, testFrame(320, 240))
	if counter, _ := cmd.Last(gputest.OpSetGlobalInt, PropFrameCounter); counter.Int != 0 || state.frameCounter != 0 {
		t.Errorf("Counter should wrap to 0, got %d", counter.Int)
	}
}

func TestReflectionTracePassDirectComposite(t *testing.T) {
	device := gputest.NewDevice()
	p, state := setupTrace(t, device, DefaultConfig(), false)
	cmd := gputest.NewRecorder()

	runTrace(t, p, cmd, testFrame(640, 480))

	if state.accumulator.Allocated() {
		t.Error("History should not be allocated without temporal accumulation")
	}
	if device.TexturesCreated != 1 {
		t.Errorf("Only the radiance texture should exist, got %d", device.TexturesCreated)
	}
	src, _ := cmd.Last(gputest.OpSetGlobalTexture, PropCopySource)
	if src.Target.Texture != state.radiance.Texture() {
		t.Error("Radiance should be blitted directly")
	}
	dst, _ := cmd.Last(gputest.OpSetRenderTarget, "")
	if dst.Target != gpu.CameraTarget() {
		t.Errorf("Composite should target the camera, got %s", dst.Target)
	}
	if len(cmd.Find(gputest.OpDrawFullscreen, "")) != 1 {
		t.Error("Direct composite should draw exactly once")
	}
}

func TestReflectionTracePassTemporalComposite(t *testing.T) {
	p, state := setupTrace(t, gputest.NewDevice(), DefaultConfig(), true)
	cmd := gputest.NewRecorder()

	runTrace(t, p, cmd, testFrame(640, 480))

	draws := cmd.Find(gputest.OpDrawFullscreen, "")
	if len(draws) != 2 {
		t.Fatalf("Expected temporal blend and copy draws, got %d", len(draws))
	}
	if draws[0].Material.Name() != "temporal" || draws[1].Material.Name() != "copy" {
		t.Errorf("Unexpected draw order %s, %s", draws[0].Material.Name(), draws[1].Material.Name())
	}
	// the blended texture has been swapped into the history slot
	src, _ := cmd.Last(gputest.OpSetGlobalTexture, PropCopySource)
	if src.Target.Texture != state.accumulator.Previous() {
		t.Error("Composite should read this frame's blend result")
	}
}

func TestReflectionTracePassStoresPreviousViewProjection(t *testing.T) {
	p, state := setupTrace(t, gputest.NewDevice(), DefaultConfig(), true)
	cmd := gputest.NewRecorder()
	frame := testFrame(320, 240)

	runTrace(t, p, cmd, frame)

	want := frame.Camera.Projection[0].Mul4(frame.Camera.View[0])
	if !state.prevViewProjection[0].ApproxEqual(want) {
		t.Error("Previous view-projection should be stored after the frame")
	}

	runTrace(t, p, cmd, frame)
	fm, _ := cmd.Last(gputest.OpSetGlobalMatrixArray, PropFrameMatrix)
	expected := FrameMatrix(want, frame.Camera.View[0].Inv())
	if !fm.Matrices[0].ApproxEqualThreshold(expected, 1e-4) {
		t.Error("Frame matrix should use the previous view-projection")
	}
}

func TestReflectionTracePassStereo(t *testing.T) {
	p, _ := setupTrace(t, gputest.NewDevice(), DefaultConfig(), false)
	cmd := gputest.NewRecorder()
	frame := testFrame(1000, 800)
	frame.XR = pipeline.XRState{Enabled: true, Mode: pipeline.StereoSinglePassInstanced}
	frame.Camera.TargetDescriptor.Dimension = gpu.Dimension2DArray
	frame.Camera.TargetDescriptor.VolumeDepth = 2

	runTrace(t, p, cmd, frame)

	dispatch, _ := cmd.Last(gputest.OpDispatchRays, RayGenPrimary)
	if dispatch.Dispatch[2] != 2 {
		t.Errorf("Expected 2 eyes in dispatch depth, got %d", dispatch.Dispatch[2])
	}
}
