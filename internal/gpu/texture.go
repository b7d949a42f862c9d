package gpu

import "fmt"

type TextureFormat int

const (
	FormatUnknown TextureFormat = iota
	FormatR8Unorm
	FormatRGBA8Unorm
	FormatRGBA16Float
	FormatRGBA32Float
)

func (f TextureFormat) String() string {
	switch f {
	case FormatR8Unorm:
		return "R8_UNorm"
	case FormatRGBA8Unorm:
		return "RGBA8_UNorm"
	case FormatRGBA16Float:
		return "RGBA16_SFloat"
	case FormatRGBA32Float:
		return "RGBA32_SFloat"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the storage size of one sample, or 0 for unknown formats.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatR8Unorm:
		return 1
	case FormatRGBA8Unorm:
		return 4
	case FormatRGBA16Float:
		return 8
	case FormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

type TextureDimension int

const (
	Dimension2D TextureDimension = iota
	Dimension2DArray
)

// TextureDescriptor describes a texture allocation. VolumeDepth is the slice
// count of array textures (one slice per eye for single-pass stereo).
type TextureDescriptor struct {
	Width             int
	Height            int
	VolumeDepth       int
	Format            TextureFormat
	Dimension         TextureDimension
	MSAASamples       int
	DepthBufferBits   int
	EnableRandomWrite bool
	AutoGenerateMips  bool
}

// Valid reports whether the descriptor can be allocated.
func (d TextureDescriptor) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Format != FormatUnknown
}

// Slices returns the number of array slices, never less than one.
func (d TextureDescriptor) Slices() int {
	if d.Dimension != Dimension2DArray || d.VolumeDepth < 1 {
		return 1
	}
	return d.VolumeDepth
}

// Samples returns the MSAA sample count, never less than one.
func (d TextureDescriptor) Samples() int {
	if d.MSAASamples < 1 {
		return 1
	}
	return d.MSAASamples
}

// SameShape reports whether a texture allocated for d can be reused for o.
func (d TextureDescriptor) SameShape(o TextureDescriptor) bool {
	return d.Width == o.Width &&
		d.Height == o.Height &&
		d.Slices() == o.Slices() &&
		d.Format == o.Format &&
		d.Samples() == o.Samples() &&
		d.EnableRandomWrite == o.EnableRandomWrite
}

func (d TextureDescriptor) String() string {
	return fmt.Sprintf("%dx%dx%d %s msaa=%d", d.Width, d.Height, d.Slices(), d.Format, d.Samples())
}

// Texture is a backend-owned GPU texture.
type Texture interface {
	Descriptor() TextureDescriptor
	Release() error
}

// RenderTarget identifies something that can be bound for reading or writing:
// either a named temporary from the host pool or a concrete texture.
type RenderTarget struct {
	Name    string
	Texture Texture
}

// CameraColorTargetName names the host camera color attachment.
const CameraColorTargetName = "_CameraColorTarget"

func TemporaryTarget(name string) RenderTarget {
	return RenderTarget{Name: name}
}

func TextureTarget(t Texture) RenderTarget {
	return RenderTarget{Texture: t}
}

// CameraTarget is the host's camera color target.
func CameraTarget() RenderTarget {
	return RenderTarget{Name: CameraColorTargetName}
}

func (r RenderTarget) IsTemporary() bool {
	return r.Texture == nil && r.Name != ""
}

func (r RenderTarget) IsZero() bool {
	return r.Texture == nil && r.Name == ""
}

func (r RenderTarget) String() string {
	if r.Texture != nil {
		return fmt.Sprintf("texture(%s)", r.Texture.Descriptor())
	}
	return r.Name
}
