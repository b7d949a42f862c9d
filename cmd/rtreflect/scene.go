package main

import (
	"math"

	"GopherRT/internal/gpu/software"
	"GopherRT/internal/reflections"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// marble tints the floor with low-frequency noise so reflections have
// something to smear.
func marble(seed int64) func(p mgl32.Vec3) mgl32.Vec3 {
	noise := perlin.NewPerlin(2, 2, 3, seed)
	base := mgl32.Vec3{0.15, 0.15, 0.17}
	return func(p mgl32.Vec3) mgl32.Vec3 {
		n := float32(noise.Noise2D(float64(p.X())*0.6, float64(p.Z())*0.6))
		return base.Mul(max(0, 1+0.6*n))
	}
}

// demoScene is a mirror floor with a few spheres; the last one orbits.
func demoScene(seed int64) (*software.Scene, *software.Object) {
	scene := software.NewScene()
	orbiter := &software.Object{
		Name:         "orbiter",
		Shape:        software.Sphere{Center: mgl32.Vec3{2, 0.5, 0}, Radius: 0.5},
		Color:        mgl32.Vec3{0.9, 0.8, 0.2},
		Reflectivity: 0.3,
		Tags:         []string{reflections.SpecularMaskTag},
	}
	scene.Add(
		&software.Object{
			Name:         "floor",
			Shape:        software.Plane{Point: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}},
			Color:        mgl32.Vec3{0.15, 0.15, 0.17},
			Albedo:       marble(seed),
			Reflectivity: 0.8,
			Tags:         []string{reflections.SpecularMaskTag},
		},
		&software.Object{
			Name:  "red",
			Shape: software.Sphere{Center: mgl32.Vec3{-1.2, 1, -1}, Radius: 1},
			Color: mgl32.Vec3{0.9, 0.15, 0.1},
		},
		&software.Object{
			Name:         "chrome",
			Shape:        software.Sphere{Center: mgl32.Vec3{1.3, 0.8, -1.5}, Radius: 0.8},
			Color:        mgl32.Vec3{0.8, 0.8, 0.85},
			Reflectivity: 0.95,
			Tags:         []string{reflections.SpecularMaskTag},
		},
		&software.Object{
			// UI layer objects are excluded from the acceleration structure
			Name:  "hud",
			Shape: software.Sphere{Center: mgl32.Vec3{0, 3, 1}, Radius: 0.2},
			Color: mgl32.Vec3{0.1, 0.9, 0.1},
			Layer: 5,
		},
		orbiter,
	)
	return scene, orbiter
}

// orbit moves a sphere around the origin at a fixed angular speed.
type orbit struct {
	object *software.Object
	radius float64
	speed  float64
	angle  float64
	height float32
}

func (o *orbit) Start() {
	if s, ok := o.object.Shape.(software.Sphere); ok {
		o.height = s.Center.Y()
	}
}

func (o *orbit) Update(deltaTime float64) {
	o.angle += o.speed * deltaTime
	s, ok := o.object.Shape.(software.Sphere)
	if !ok {
		return
	}
	s.Center = mgl32.Vec3{
		float32(o.radius * math.Cos(o.angle)),
		o.height,
		float32(o.radius * math.Sin(o.angle)),
	}
	o.object.Shape = s
}
