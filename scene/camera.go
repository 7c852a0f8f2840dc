package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera represents a perspective view camera
type Camera struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 5},
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
}

// UpdateAspectRatio sets the aspect from a surface size; zero heights are ignored.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
}

func (c *Camera) LookAt(target, up mgl32.Vec3) {
	c.Target = target
	c.Up = up
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewProjectionMatrix() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// OrbitCamera is a camera orbiting around a target. Input is ignored while
// Enabled is false.
type OrbitCamera struct {
	*Camera
	Enabled     bool
	Distance    float32
	MinDistance float32
	MaxDistance float32
	Yaw         float32
	Pitch       float32
}

func NewOrbitCamera(target mgl32.Vec3, distance, fov, aspectRatio float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:      NewCamera(fov, aspectRatio, 0.1, 1000.0),
		Enabled:     true,
		Distance:    distance,
		MinDistance: 0.5,
		MaxDistance: 50,
	}
	c.Target = target
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	// Clamp pitch
	if c.Pitch > 1.5 {
		c.Pitch = 1.5
	}
	if c.Pitch < -1.5 {
		c.Pitch = -1.5
	}

	sinPitch, cosPitch := math32.Sincos(c.Pitch)
	sinYaw, cosYaw := math32.Sincos(c.Yaw)

	offset := mgl32.Vec3{
		c.Distance * cosPitch * sinYaw,
		c.Distance * sinPitch,
		c.Distance * cosPitch * cosYaw,
	}

	c.Position = c.Target.Add(offset)
	c.Up = mgl32.Vec3{0, 1, 0}
}

// PlaceAt moves the camera to pos, still aimed at Target, and derives the
// orbit distance and angles from the offset. pos equal to Target is ignored.
func (c *OrbitCamera) PlaceAt(pos mgl32.Vec3) {
	offset := pos.Sub(c.Target)
	dist := offset.Len()
	if dist == 0 {
		return
	}
	c.Distance = dist
	c.Pitch = math32.Asin(offset.Y() / dist)
	c.Yaw = math32.Atan2(offset.X(), offset.Z())
	c.UpdatePosition()
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	if !c.Enabled {
		return
	}
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	if !c.Enabled {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
	c.UpdatePosition()
}
