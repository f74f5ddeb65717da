// Package camera holds the perspective camera and the damped orbit controls
// that move it around a target point.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Initial pose restored by Reset.
var (
	InitialPosition = mgl64.Vec3{0, 30, 60}
	InitialTarget   = mgl64.Vec3{0, 0, 0}
)

const (
	DefaultFOV    = 75.0
	DefaultNear   = 0.1
	DefaultFar    = 1000.0
	DefaultAspect = 16.0 / 9.0
)

// Pose is a snapshot of where the camera is and what it looks at.
type Pose struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// Camera is a perspective camera. FOV is the vertical field of view in degrees.
type Camera struct {
	FOV      float64
	Aspect   float64
	Near     float64
	Far      float64
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
}

func New() *Camera {
	return &Camera{
		FOV:      DefaultFOV,
		Aspect:   DefaultAspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: InitialPosition,
		Target:   InitialTarget,
		Up:       mgl64.Vec3{0, 1, 0},
	}
}

// SetAspect updates the aspect ratio from viewport dimensions.
// Degenerate sizes leave the previous aspect in place.
func (c *Camera) SetAspect(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = width / height
}

func (c *Camera) Pose() Pose { return Pose{Position: c.Position, Target: c.Target} }

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to normalized device coordinates.
// ok is false for points behind the camera.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// Right returns the camera's unit right vector.
func (c *Camera) Right() mgl64.Vec3 {
	fwd := c.Target.Sub(c.Position)
	if fwd.Len() == 0 {
		return mgl64.Vec3{1, 0, 0}
	}
	r := fwd.Cross(c.Up)
	if r.Len() == 0 {
		return mgl64.Vec3{1, 0, 0}
	}
	return r.Normalize()
}
