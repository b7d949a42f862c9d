package software

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraRay builds the world-space ray through normalized screen position
// (u, v), v growing downwards.
func CameraRay(cameraToWorld, inverseProjection mgl32.Mat4, u, v float32) Ray {
	ndc := mgl32.Vec4{2*u - 1, 1 - 2*v, 1, 1}
	p := inverseProjection.Mul4x1(ndc)
	dir := p.Vec3().Mul(1 / p.W())
	world := cameraToWorld.Mul4x1(dir.Vec4(0)).Vec3().Normalize()
	return Ray{Origin: cameraToWorld.Col(3).Vec3(), Direction: world}
}

// Blit overwrites the target with source.
func Blit(source string) MaterialKernel {
	return func(ctx *FragmentContext) mgl32.Vec4 {
		src := ctx.Texture(source)
		if src == nil {
			return mgl32.Vec4{}
		}
		return src.Sample(ctx.U, ctx.V, ctx.Slice)
	}
}

// AdditiveBlit adds source onto the target.
func AdditiveBlit(source string) MaterialKernel {
	return func(ctx *FragmentContext) mgl32.Vec4 {
		dst := ctx.Target.At(ctx.X, ctx.Y, ctx.Slice)
		src := ctx.Texture(source)
		if src == nil {
			return dst
		}
		s := src.Sample(ctx.U, ctx.V, ctx.Slice)
		return mgl32.Vec4{dst[0] + s[0], dst[1] + s[1], dst[2] + s[2], dst[3]}
	}
}

// TemporalBindings names the inputs of the temporal blend kernel.
type TemporalBindings struct {
	Current string
	History string
	Fade    string
}

// TemporalBlend computes lerp(history, current, 1-fade) per texel. History is
// sampled at the same position; there is no depth for reprojection here.
func TemporalBlend(names TemporalBindings) MaterialKernel {
	return func(ctx *FragmentContext) mgl32.Vec4 {
		fade := ctx.Float(names.Fade)
		var cur, hist mgl32.Vec4
		if t := ctx.Texture(names.Current); t != nil {
			cur = t.Sample(ctx.U, ctx.V, ctx.Slice)
		}
		if t := ctx.Texture(names.History); t != nil {
			hist = t.Sample(ctx.U, ctx.V, ctx.Slice)
		}
		return hist.Mul(fade).Add(cur.Mul(1 - fade))
	}
}

// ReflectionBindings names the inputs of the reflection ray generation kernel.
type ReflectionBindings struct {
	Mask              string
	Structure         string
	CameraToWorld     string
	InverseProjection string
	SpreadAngle       string
	PrimarySamples    string
	ReflectionSamples string
	FrameCounter      string
	CullPeriphery     string
}

// peripheryRadius is the NDC distance beyond which culled pixels trace a
// single primary sample.
const peripheryRadius = 0.8

// ReflectionRayGen traces the mirror reflection of every masked pixel. Each
// primary sample jitters inside the pixel and each reflection sample jitters
// the reflected direction within the pixel's cone.
func ReflectionRayGen(names ReflectionBindings) RayGenKernel {
	return func(ctx *RayContext) mgl32.Vec4 {
		u := (float32(ctx.X) + 0.5) / float32(ctx.Width)
		v := (float32(ctx.Y) + 0.5) / float32(ctx.Height)

		mask := ctx.Texture(names.Mask)
		if mask == nil || mask.Sample(u, v, ctx.Eye)[0] < 0.5 {
			return mgl32.Vec4{}
		}
		as := ctx.AccelerationStructure(names.Structure)
		if as == nil {
			return mgl32.Vec4{}
		}

		cameraToWorld := ctx.Matrix(names.CameraToWorld, ctx.Eye)
		invProj := ctx.Matrix(names.InverseProjection, ctx.Eye)
		spread := ctx.FloatAt(names.SpreadAngle, ctx.Eye)
		primary := max(1, int(ctx.Int(names.PrimarySamples)))
		reflection := max(1, int(ctx.Int(names.ReflectionSamples)))

		if ctx.Int(names.CullPeriphery) != 0 {
			nx, ny := 2*u-1, 2*v-1
			if nx*nx+ny*ny > peripheryRadius*peripheryRadius {
				primary = 1
			}
		}

		seed := hash4(uint32(ctx.X), uint32(ctx.Y), uint32(ctx.Eye), uint32(ctx.Int(names.FrameCounter)))
		var sum mgl32.Vec3
		for s := 0; s < primary; s++ {
			ju := (nextFloat(&seed) - 0.5) / float32(ctx.Width)
			jv := (nextFloat(&seed) - 0.5) / float32(ctx.Height)
			r := CameraRay(cameraToWorld, invProj, u+ju, v+jv)

			hit, ok := as.Trace(r)
			if !ok || hit.Object.Reflectivity <= 0 {
				continue
			}
			mirror := reflect(r.Direction, hit.Normal)
			for k := 0; k < reflection; k++ {
				dir := jitter(mirror, spread, &seed)
				bounce := Ray{Origin: hit.Point.Add(hit.Normal.Mul(rayEpsilon)), Direction: dir}
				var radiance mgl32.Vec3
				if h2, ok := as.Trace(bounce); ok {
					radiance = as.scene.Shade(h2)
				} else {
					radiance = as.scene.Sky(dir)
				}
				sum = sum.Add(radiance.Mul(hit.Object.Reflectivity))
			}
		}
		sum = sum.Mul(1 / float32(primary*reflection))
		return mgl32.Vec4{sum[0], sum[1], sum[2], 1}
	}
}

func reflect(d, n mgl32.Vec3) mgl32.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

// jitter perturbs dir by up to angle radians.
func jitter(dir mgl32.Vec3, angle float32, seed *uint32) mgl32.Vec3 {
	if angle <= 0 {
		return dir
	}
	offset := mgl32.Vec3{nextFloat(seed) - 0.5, nextFloat(seed) - 0.5, nextFloat(seed) - 0.5}
	return dir.Add(offset.Mul(2 * float32(math.Tan(float64(angle))))).Normalize()
}

func hash4(a, b, c, d uint32) uint32 {
	h := a*0x8da6b343 ^ b*0xd8163841 ^ c*0xcb1ab31f ^ d*0x165667b1
	return pcg(h)
}

func pcg(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

func nextFloat(seed *uint32) float32 {
	*seed = pcg(*seed)
	return float32(*seed>>8) / float32(1<<24)
}
