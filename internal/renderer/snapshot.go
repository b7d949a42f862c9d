package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"GopherRT/internal/gpu/software"

	"github.com/go-gl/mathgl/mgl32"
)

// Tonemap applies the same Reinhard curve and 2.2 gamma as the GL present pass.
func Tonemap(c mgl32.Vec3) color.RGBA {
	channel := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		mapped := math.Pow(float64(v/(v+1)), 1/2.2)
		return uint8(math.Round(mapped * 255))
	}
	return color.RGBA{R: channel(c.X()), G: channel(c.Y()), B: channel(c.Z()), A: 255}
}

// Snapshot converts one slice of a color target to an 8-bit image.
func Snapshot(t *software.Texture, slice int) *image.RGBA {
	desc := t.Descriptor()
	img := image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	for y := 0; y < desc.Height; y++ {
		for x := 0; x < desc.Width; x++ {
			img.SetRGBA(x, y, Tonemap(t.At(x, y, slice).Vec3()))
		}
	}
	return img
}

func EncodePNG(w io.Writer, t *software.Texture, slice int) error {
	return png.Encode(w, Snapshot(t, slice))
}

func WritePNG(path string, t *software.Texture, slice int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, t, slice); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
