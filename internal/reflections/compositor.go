package reflections

import "GopherRT/internal/gpu"

// Compositor copies a texture onto a target with a fullscreen draw.
type Compositor struct {
	material gpu.Material
}

func NewCompositor(material gpu.Material) *Compositor {
	return &Compositor{material: material}
}

func (c *Compositor) SetMaterial(material gpu.Material) {
	c.material = material
}

func (c *Compositor) Material() gpu.Material {
	return c.material
}

// Blit draws source into destination through the copy material.
func (c *Compositor) Blit(cmd gpu.CommandBuffer, source, destination gpu.RenderTarget) {
	cmd.SetRenderTarget(destination)
	cmd.SetGlobalTexture(PropCopySource, source)
	cmd.DrawFullscreen(c.material)
}
