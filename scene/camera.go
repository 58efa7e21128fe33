package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultCameraWidth    = 2
	DefaultCameraHeight   = 2
	DefaultCameraDistance = 4

	cameraNear = 1
	cameraFar  = 1024

	// angleOffset starts the orbit at a corner of the box instead of a face.
	angleOffset = math32.Pi / 4
)

// DefaultCameraTarget is the point the camera always looks at.
var DefaultCameraTarget = mgl32.Vec3{0, 0.5, 0}

// Camera is an orthographic camera orbiting a fixed target. Width and Height
// are the logical size of the viewing box; the horizontal bounds are widened
// by the viewport aspect ratio.
type Camera struct {
	Width    float32
	Height   float32
	Distance float32

	Left, Right float32
	Top, Bottom float32
	Near, Far   float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
	view       mgl32.Mat4
}

func NewCamera() *Camera {
	c := &Camera{
		Width:    DefaultCameraWidth,
		Height:   DefaultCameraHeight,
		Distance: DefaultCameraDistance,
		Near:     cameraNear,
		Far:      cameraFar,
		Target:   DefaultCameraTarget,
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.setAspect(1)
	c.SetAngle(0)
	return c
}

// SetAngle places the camera on a circle of radius Distance at height
// Distance, at angle+45° around the target, and points it at the target.
func (c *Camera) SetAngle(angle float32) {
	a := angle + angleOffset
	c.Position = mgl32.Vec3{
		math32.Cos(a) * c.Distance,
		c.Distance,
		math32.Sin(a) * c.Distance,
	}
	c.lookAt(c.Target)
}

// Resize recomputes the projection bounds for a viewport of the given size.
// It reports false and leaves the camera untouched for an empty viewport.
func (c *Camera) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.setAspect(float32(width) / float32(height))
	return true
}

func (c *Camera) setAspect(aspect float32) {
	c.Left = c.Width / -2 * aspect
	c.Right = c.Width / 2 * aspect
	c.Top = c.Height / 2
	c.Bottom = c.Height / -2
	c.UpdateProjectionMatrix()
}

func (c *Camera) UpdateProjectionMatrix() {
	c.projection = mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

func (c *Camera) lookAt(target mgl32.Vec3) {
	c.view = mgl32.LookAtV(c.Position, target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}
