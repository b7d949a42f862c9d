// camera.go
package renderer

import (
	"math"

	"GopherRT/internal/gpu"
	"GopherRT/internal/pipeline"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle (vertical rotation)
	Yaw        float32    // Yaw angle (horizontal rotation)

	// COLD DATA - Configuration and input handling, accessed less frequently
	WorldUp       mgl32.Vec3 // World up vector (usually (0,1,0))
	Speed         float32    // Movement speed
	Sensitivity   float32    // Mouse sensitivity
	Fov           float32    // Vertical field of view in degrees
	Near          float32    // Near clipping plane
	Far           float32    // Far clipping plane
	AspectRatio   float32    // Width over height
	EyeSeparation float32    // Distance between the stereo eyes
	LastX, LastY  float32    // Last mouse position
	InvertMouse   bool       // Invert mouse Y axis
	firstMouse    bool       // First mouse movement flag

	// Identification
	ID   pipeline.CameraID
	Type pipeline.CameraType
	Tag  string
}

func NewDefaultCamera(width, height int) *Camera {
	camera := Camera{
		Position:      mgl32.Vec3{0, 1, 6},
		Front:         mgl32.Vec3{0, 0, -1},
		Up:            mgl32.Vec3{0, 1, 0},
		WorldUp:       mgl32.Vec3{0, 1, 0},
		Pitch:         0.0,
		Yaw:           -90.0,
		Speed:         5,
		Sensitivity:   0.1,
		Fov:           60.0,
		Near:          0.1,
		Far:           1000.0,
		EyeSeparation: 0.064,
		LastX:         float32(width) / 2,
		LastY:         float32(height) / 2,
		AspectRatio:   float32(width) / float32(height),
		firstMouse:    true,
		InvertMouse:   true,
		ID:            1,
		Type:          pipeline.CameraGame,
		Tag:           pipeline.MainCameraTag,
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// Setter methods that automatically update projection
func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// EyeViewMatrix offsets the camera by half the eye separation along Right.
// Eye 0 is the left eye.
func (c *Camera) EyeViewMatrix(eye int) mgl32.Mat4 {
	offset := c.EyeSeparation / 2
	if eye == 0 {
		offset = -offset
	}
	position := c.Position.Add(c.Right.Mul(offset))
	return mgl32.LookAtV(position, position.Add(c.Front), c.Up)
}

// CameraData describes this camera for one frame rendering into a target of
// the given descriptor. Stereo frames get one view per eye.
func (c *Camera) CameraData(target gpu.TextureDescriptor, xr pipeline.XRState) pipeline.CameraData {
	data := pipeline.CameraData{
		ID:               c.ID,
		Type:             c.Type,
		Tag:              c.Tag,
		TargetDescriptor: target,
		ColorTarget:      gpu.CameraTarget(),
	}
	if xr.EyeCount() > 1 {
		data.TargetDescriptor.Dimension = gpu.Dimension2DArray
		data.TargetDescriptor.VolumeDepth = xr.EyeCount()
	}
	for eye := 0; eye < pipeline.MaxEyes; eye++ {
		if xr.Enabled {
			data.View[eye] = c.EyeViewMatrix(eye)
		} else {
			data.View[eye] = c.GetViewMatrix()
		}
		data.Projection[eye] = c.Projection
	}
	return data
}

func (c *Camera) ProcessKeyboard(window *glfw.Window, deltaTime float32) bool {
	// Compute the right vector
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	baseVelocity := c.Speed * deltaTime

	if window.GetKey(glfw.KeyLeftShift) == glfw.Press || window.GetKey(glfw.KeyRightShift) == glfw.Press {
		baseVelocity *= 2.5
	}

	cameraMoved := false
	if window.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(c.Front.Mul(baseVelocity))
		cameraMoved = true
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(c.Front.Mul(baseVelocity))
		cameraMoved = true
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(c.Right.Mul(baseVelocity))
		cameraMoved = true
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(c.Right.Mul(baseVelocity))
		cameraMoved = true
	}
	return cameraMoved
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset

	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0) // Prevent extreme pitch values
	}
	c.updateCameraVectors()
}

// HandleCursor feeds an absolute cursor position, ignoring the first sample.
func (c *Camera) HandleCursor(x, y float32) {
	if c.firstMouse {
		c.LastX, c.LastY = x, y
		c.firstMouse = false
		return
	}
	c.ProcessMouseMovement(x-c.LastX, c.LastY-y, true)
	c.LastX, c.LastY = x, y
}

// ResetCursor makes the next HandleCursor call a fresh starting point.
func (c *Camera) ResetCursor() {
	c.firstMouse = true
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.Position).Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(direction.Y(), -1, 1)))))
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	front := mgl32.Vec3{
		float32(math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
