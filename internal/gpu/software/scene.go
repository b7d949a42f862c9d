package software

import (
	"math"
	"sync/atomic"

	"GopherRT/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	rayEpsilon  = 1e-3
	maxDistance = 1e6
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Shape is anything a ray can hit. The returned normal faces outward.
type Shape interface {
	Hit(r Ray, tMin, tMax float32) (t float32, normal mgl32.Vec3, ok bool)
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Hit(r Ray, tMin, tMax float32) (float32, mgl32.Vec3, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	halfB := oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, mgl32.Vec3{}, false
	}
	sqrtD := float32(math.Sqrt(float64(discriminant)))

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return 0, mgl32.Vec3{}, false
		}
	}
	normal := r.At(root).Sub(s.Center).Mul(1 / s.Radius)
	return root, normal, true
}

// Plane is infinite; Normal must be unit length.
type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

func (p Plane) Hit(r Ray, tMin, tMax float32) (float32, mgl32.Vec3, bool) {
	denominator := r.Direction.Dot(p.Normal)
	if float32(math.Abs(float64(denominator))) < 1e-8 {
		return 0, mgl32.Vec3{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return 0, mgl32.Vec3{}, false
	}
	return t, p.Normal, true
}

// Object is a scene renderer: a shape with a flat color, a reflectivity in
// [0,1], a layer index and the material pass tags it is drawn with.
type Object struct {
	Name  string
	Shape Shape
	Color mgl32.Vec3
	// Albedo, when set, replaces Color with a position-dependent color.
	Albedo       func(p mgl32.Vec3) mgl32.Vec3
	Reflectivity float32
	Layer        int
	Tags         []string
}

func (o *Object) ColorAt(p mgl32.Vec3) mgl32.Vec3 {
	if o.Albedo != nil {
		return o.Albedo(p)
	}
	return o.Color
}

func (o *Object) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Hit struct {
	T      float32
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Object *Object
}

type Scene struct {
	Objects []*Object
	// SkyHorizon and SkyZenith define the background gradient.
	SkyHorizon mgl32.Vec3
	SkyZenith  mgl32.Vec3
	LightDir   mgl32.Vec3
}

func NewScene() *Scene {
	return &Scene{
		SkyHorizon: mgl32.Vec3{1, 1, 1},
		SkyZenith:  mgl32.Vec3{0.5, 0.7, 1},
		LightDir:   mgl32.Vec3{0.4, 1, 0.3}.Normalize(),
	}
}

func (s *Scene) Add(objects ...*Object) {
	s.Objects = append(s.Objects, objects...)
}

// Sky returns the background radiance seen along dir.
func (s *Scene) Sky(dir mgl32.Vec3) mgl32.Vec3 {
	t := 0.5 * (dir.Normalize().Y() + 1)
	return s.SkyHorizon.Mul(1 - t).Add(s.SkyZenith.Mul(t))
}

// Shade is a single directional light with a constant ambient term.
func (s *Scene) Shade(h Hit) mgl32.Vec3 {
	diffuse := float32(math.Max(0.2, float64(h.Normal.Dot(s.LightDir))))
	return h.Object.ColorAt(h.Point).Mul(diffuse)
}

func intersect(objects []*Object, r Ray, tMin, tMax float32) (Hit, bool) {
	var closest Hit
	found := false
	for _, o := range objects {
		t, n, ok := o.Shape.Hit(r, tMin, tMax)
		if !ok {
			continue
		}
		tMax = t
		closest = Hit{T: t, Point: r.At(t), Normal: n, Object: o}
		found = true
	}
	return closest, found
}

// AccelerationStructure snapshots the scene objects on the included layers
// at every build. This backend keeps a flat list instead of a BVH.
type AccelerationStructure struct {
	scene     *Scene
	settings  gpu.AccelerationStructureSettings
	instances []*Object
	builds    int
	released  bool
	traces    atomic.Int64
}

func (a *AccelerationStructure) Build() {
	if a.released {
		return
	}
	a.instances = a.instances[:0]
	for _, o := range a.scene.Objects {
		if a.settings.Layers.Contains(o.Layer) {
			a.instances = append(a.instances, o)
		}
	}
	a.builds++
}

func (a *AccelerationStructure) Builds() int {
	return a.builds
}

// Traces counts rays traced since creation.
func (a *AccelerationStructure) Traces() int64 {
	return a.traces.Load()
}

func (a *AccelerationStructure) Instances() []*Object {
	return a.instances
}

func (a *AccelerationStructure) Scene() *Scene {
	return a.scene
}

// Trace returns the closest instance hit along r.
func (a *AccelerationStructure) Trace(r Ray) (Hit, bool) {
	a.traces.Add(1)
	return intersect(a.instances, r, rayEpsilon, maxDistance)
}

func (a *AccelerationStructure) Release() error {
	if a.released {
		return gpu.ErrReleased
	}
	a.released = true
	a.instances = nil
	return nil
}
