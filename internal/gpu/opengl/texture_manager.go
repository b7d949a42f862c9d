package opengl

import (
	"fmt"
	"sync"

	"GopherRT/internal/gpu"
	"GopherRT/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	ActiveTextures int
	TotalMemoryMB  float64
}

// Texture is a GL texture with the framebuffer used to render into it.
type Texture struct {
	id      uint32
	fbo     uint32
	target  uint32
	desc    gpu.TextureDescriptor
	manager *TextureManager
}

func (t *Texture) ID() uint32 {
	return t.id
}

func (t *Texture) Descriptor() gpu.TextureDescriptor {
	return t.desc
}

func (t *Texture) Release() error {
	return t.manager.ReleaseTexture(t)
}

// TextureManager allocates render textures and tracks their lifetime by
// reference count.
type TextureManager struct {
	refCount map[*Texture]int
	labels   map[*Texture]string
	mu       sync.Mutex
	stats    TextureStats
	memory   int64
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		refCount: make(map[*Texture]int),
		labels:   make(map[*Texture]string),
	}
}

// Allocate creates a texture and a framebuffer with it as color attachment.
func (tm *TextureManager) Allocate(desc gpu.TextureDescriptor, label string) (*Texture, error) {
	pf, ok := glPixelFormat(desc.Format)
	if !ok || !desc.Valid() {
		return nil, fmt.Errorf("%s: %w: %s", label, gpu.ErrInvalidDescriptor, desc)
	}

	t := &Texture{target: textureTarget(desc), desc: desc, manager: tm}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(t.target, t.id)
	w, h := int32(desc.Width), int32(desc.Height)
	switch t.target {
	case gl.TEXTURE_2D_MULTISAMPLE:
		gl.TexImage2DMultisample(t.target, int32(desc.Samples()), uint32(pf.internal), w, h, true)
	case gl.TEXTURE_2D_ARRAY:
		gl.TexImage3D(t.target, 0, pf.internal, w, h, int32(desc.Slices()), 0, pf.format, pf.xtype, nil)
	default:
		gl.TexImage2D(t.target, 0, pf.internal, w, h, 0, pf.format, pf.xtype, nil)
	}
	if t.target != gl.TEXTURE_2D_MULTISAMPLE {
		gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(t.target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(t.target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.BindTexture(t.target, 0)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, t.id, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &t.fbo)
		gl.DeleteTextures(1, &t.id)
		return nil, fmt.Errorf("%s: framebuffer incomplete (0x%x)", label, status)
	}

	tm.mu.Lock()
	tm.refCount[t] = 1
	tm.labels[t] = label
	tm.stats.TotalTextures++
	tm.memory += textureBytes(desc)
	tm.mu.Unlock()

	logger.Log.Debug("Texture allocated",
		zap.String("label", label),
		zap.Uint32("textureID", t.id),
		zap.Stringer("desc", desc))
	return t, nil
}

// Upload replaces the contents of a single-sample RGBA float texture slice.
func (tm *TextureManager) Upload(t *Texture, slice int, pixels []mgl32.Vec4) error {
	d := t.desc
	if len(pixels) < d.Width*d.Height || t.target == gl.TEXTURE_2D_MULTISAMPLE {
		return fmt.Errorf("upload to %s: %w", d, gpu.ErrInvalidDescriptor)
	}
	gl.BindTexture(t.target, t.id)
	if t.target == gl.TEXTURE_2D_ARRAY {
		gl.TexSubImage3D(t.target, 0, 0, 0, int32(slice), int32(d.Width), int32(d.Height), 1, gl.RGBA, gl.FLOAT, gl.Ptr(&pixels[0]))
	} else {
		gl.TexSubImage2D(t.target, 0, 0, 0, int32(d.Width), int32(d.Height), gl.RGBA, gl.FLOAT, gl.Ptr(&pixels[0]))
	}
	gl.BindTexture(t.target, 0)
	return nil
}

// AddReference increments the reference count for a texture
func (tm *TextureManager) AddReference(t *Texture) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.refCount[t]++
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(t *Texture) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.refCount[t]
	if !exists {
		return gpu.ErrReleased
	}
	refCount--
	if refCount > 0 {
		tm.refCount[t] = refCount
		return nil
	}

	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.id)
	logger.Log.Debug("Texture freed",
		zap.String("label", tm.labels[t]),
		zap.Uint32("textureID", t.id))

	delete(tm.refCount, t)
	delete(tm.labels, t)
	tm.memory -= textureBytes(t.desc)
	return nil
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.refCount)
	stats.TotalMemoryMB = float64(tm.memory) / (1024 * 1024)
	return stats
}

// LogStats logs current texture statistics
func (tm *TextureManager) LogStats() {
	stats := tm.GetStats()
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Float64("memoryMB", stats.TotalMemoryMB))
}

// Clear releases all textures
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for t := range tm.refCount {
		gl.DeleteFramebuffers(1, &t.fbo)
		gl.DeleteTextures(1, &t.id)
	}
	tm.refCount = make(map[*Texture]int)
	tm.labels = make(map[*Texture]string)
	tm.memory = 0

	logger.Log.Info("Texture manager cleared")
}
