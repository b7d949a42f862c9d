package reflections

import (
	"math"
	"testing"

	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRadianceSize(t *testing.T) {
	for factor := 1; factor <= 7; factor++ {
		w, h := RadianceSize(1920, 1080, factor)
		if w != 1920/factor || h != 1080/factor {
			t.Errorf("factor %d: expected %dx%d, got %dx%d", factor, 1920/factor, 1080/factor, w, h)
		}
	}
}

func TestSpreadAngleMatchesFOV(t *testing.T) {
	fov := mgl32.DegToRad(60)
	proj := mgl32.Perspective(fov, 16.0/9.0, 0.1, 100)

	got := SpreadAngle(proj, 1080, 1)
	want := fov / 1080
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("Expected spread angle %g, got %g", want, got)
	}
}

func TestSpreadAngleDoublesWithFactor(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)

	for _, factor := range []int{1, 2, 4} {
		a := SpreadAngle(proj, 1080, factor)
		b := SpreadAngle(proj, 1080, factor*2)
		if math.Abs(float64(b-2*a)) > 1e-6 {
			t.Errorf("factor %d -> %d: expected %g, got %g", factor, factor*2, 2*a, b)
		}
	}
}

func TestSpreadAngleDegenerate(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	if SpreadAngle(proj, 0, 1) != 0 {
		t.Error("Zero height should yield zero spread")
	}
	if SpreadAngle(mgl32.Mat4{}, 1080, 1) != 0 {
		t.Error("Degenerate projection should yield zero spread")
	}
}

func TestRadianceDescriptor(t *testing.T) {
	camera := gpu.TextureDescriptor{
		Width: 1920, Height: 1080, Format: gpu.FormatRGBA16Float,
		MSAASamples: 4, DepthBufferBits: 24, AutoGenerateMips: true,
	}

	desc := RadianceDescriptor(camera, 2)
	if desc.Width != 960 || desc.Height != 540 {
		t.Errorf("Expected 960x540, got %dx%d", desc.Width, desc.Height)
	}
	if !desc.EnableRandomWrite || desc.MSAASamples != 1 || desc.DepthBufferBits != 0 || desc.AutoGenerateMips {
		t.Errorf("Radiance descriptor flags wrong: %+v", desc)
	}
	if desc.Format != camera.Format {
		t.Error("Radiance should keep the camera color format")
	}
}

func TestMaskDescriptor(t *testing.T) {
	camera := gpu.TextureDescriptor{Width: 1920, Height: 1080, Format: gpu.FormatRGBA16Float, Dimension: gpu.Dimension2DArray, VolumeDepth: 2}

	desc := MaskDescriptor(camera)
	if desc.Format != gpu.FormatR8Unorm || desc.MSAASamples != 8 {
		t.Errorf("Mask should be R8 with 8x MSAA, got %s msaa=%d", desc.Format, desc.MSAASamples)
	}
	if desc.Width != 1920 || desc.Height != 1080 || desc.Slices() != 2 {
		t.Errorf("Mask should match the camera shape, got %s", desc)
	}
}

func TestFrameMatrixIdentityWhenStatic(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)

	m := FrameMatrix(proj.Mul4(view), view.Inv())
	for i := range m {
		if math.Abs(float64(m[i]-proj[i])) > 1e-4 {
			t.Errorf("Static camera should reproject with the projection alone, element %d is %v want %v", i, m[i], proj[i])
		}
	}
}

func TestScaleBias(t *testing.T) {
	if ScaleBias(true) != (mgl32.Vec4{-1, 1, -1, 1}) {
		t.Errorf("Unexpected flipped scale bias %v", ScaleBias(true))
	}
	if ScaleBias(false) != (mgl32.Vec4{1, 0, 1, 1}) {
		t.Errorf("Unexpected scale bias %v", ScaleBias(false))
	}
}
