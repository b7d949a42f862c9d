package main

import (
	"math"
	"testing"

	"GopherRT/internal/gpu/software"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitMovesSphere(t *testing.T) {
	_, orbiter := demoScene(1)
	o := &orbit{object: orbiter, radius: 2, speed: math.Pi / 2}
	o.Start()
	o.Update(1)

	s := orbiter.Shape.(software.Sphere)
	if math.Abs(float64(s.Center.X())) > 1e-5 || math.Abs(float64(s.Center.Z())-2) > 1e-5 {
		t.Errorf("Expected quarter turn to (0, y, 2), got %v", s.Center)
	}
	if s.Center.Y() != 0.5 {
		t.Errorf("Orbit should keep the starting height, got %f", s.Center.Y())
	}
}

func TestPresetConfig(t *testing.T) {
	for _, name := range []string{"default", "high", "performance"} {
		c, err := presetConfig(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s preset invalid: %v", name, err)
		}
	}
	if _, err := presetConfig("ultra"); err == nil {
		t.Error("Unknown preset should fail")
	}
}

func TestMarbleIsDeterministic(t *testing.T) {
	a, b := marble(7), marble(7)
	p := mgl32.Vec3{1.3, 0, -2.1}
	if a(p) != b(p) {
		t.Error("Same seed should give the same floor")
	}
	if c := a(p); c.X() < 0 {
		t.Errorf("Floor color should not be negative: %v", c)
	}
}
