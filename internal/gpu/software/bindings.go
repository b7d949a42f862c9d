package software

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Bindings holds shader parameters by name. Lookups fall back to the parent,
// so program bindings shadow the globals.
type Bindings struct {
	parent    *Bindings
	ints      map[string]int32
	floats    map[string][]float32
	vectors   map[string]mgl32.Vec4
	matrices  map[string][]mgl32.Mat4
	textures  map[string]*Texture
	structure map[string]*AccelerationStructure
}

func newBindings(parent *Bindings) *Bindings {
	return &Bindings{
		parent:    parent,
		ints:      make(map[string]int32),
		floats:    make(map[string][]float32),
		vectors:   make(map[string]mgl32.Vec4),
		matrices:  make(map[string][]mgl32.Mat4),
		textures:  make(map[string]*Texture),
		structure: make(map[string]*AccelerationStructure),
	}
}

func (b *Bindings) Int(name string) int32 {
	if v, ok := b.ints[name]; ok {
		return v
	}
	if b.parent != nil {
		return b.parent.Int(name)
	}
	return 0
}

func (b *Bindings) Floats(name string) []float32 {
	if v, ok := b.floats[name]; ok {
		return v
	}
	if b.parent != nil {
		return b.parent.Floats(name)
	}
	return nil
}

// Float returns the first element of a float binding.
func (b *Bindings) Float(name string) float32 {
	if v := b.Floats(name); len(v) > 0 {
		return v[0]
	}
	return 0
}

// FloatAt returns element i of a float array binding, or the first one.
func (b *Bindings) FloatAt(name string, i int) float32 {
	v := b.Floats(name)
	if i < len(v) {
		return v[i]
	}
	if len(v) > 0 {
		return v[0]
	}
	return 0
}

func (b *Bindings) Vector(name string) mgl32.Vec4 {
	if v, ok := b.vectors[name]; ok {
		return v
	}
	if b.parent != nil {
		return b.parent.Vector(name)
	}
	return mgl32.Vec4{}
}

// Matrix returns element i of a matrix array binding, identity when unbound.
func (b *Bindings) Matrix(name string, i int) mgl32.Mat4 {
	if v, ok := b.matrices[name]; ok {
		if i < len(v) {
			return v[i]
		}
		if len(v) > 0 {
			return v[0]
		}
	}
	if b.parent != nil {
		return b.parent.Matrix(name, i)
	}
	return mgl32.Ident4()
}

func (b *Bindings) Texture(name string) *Texture {
	if v, ok := b.textures[name]; ok {
		return v
	}
	if b.parent != nil {
		return b.parent.Texture(name)
	}
	return nil
}

func (b *Bindings) AccelerationStructure(name string) *AccelerationStructure {
	if v, ok := b.structure[name]; ok {
		return v
	}
	if b.parent != nil {
		return b.parent.AccelerationStructure(name)
	}
	return nil
}
