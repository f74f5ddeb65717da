package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultDamping     = 0.05
	DefaultMinDistance = 10.0
	DefaultMaxDistance = 150.0

	settleEpsilon = 1e-6
	maxElevation  = math.Pi/2 - 0.01
)

// Controls orbits a camera around its target. Input methods queue motion;
// Update applies it, easing queued rotation and pan out over several
// frames when damping is enabled.
type Controls struct {
	cam *Camera

	Damping       bool
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64

	dAzimuth   float64
	dElevation float64
	zoom       float64
	pan        mgl64.Vec3
}

func NewControls(cam *Camera) *Controls {
	return &Controls{
		cam:           cam,
		Damping:       true,
		DampingFactor: DefaultDamping,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
		zoom:          1,
	}
}

func (c *Controls) Camera() *Camera { return c.cam }

// Rotate queues an orbit around the target, in radians.
func (c *Controls) Rotate(dAzimuth, dElevation float64) {
	c.dAzimuth += dAzimuth
	c.dElevation += dElevation
}

// Zoom queues a distance scale; values below 1 move the camera closer.
func (c *Controls) Zoom(scale float64) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return
	}
	c.zoom *= scale
}

// Pan queues a translation of both camera and target along the camera's
// right and up axes.
func (c *Controls) Pan(dx, dy float64) {
	right := c.cam.Right()
	up := c.cam.Up
	c.pan = c.pan.Add(right.Mul(dx)).Add(up.Mul(dy))
}

// Idle reports whether no motion is pending.
func (c *Controls) Idle() bool {
	return math.Abs(c.dAzimuth) < settleEpsilon &&
		math.Abs(c.dElevation) < settleEpsilon &&
		c.zoom == 1 &&
		c.pan.Len() < settleEpsilon
}

// Update applies pending motion to the camera. It returns false and leaves
// the camera untouched when nothing is pending.
func (c *Controls) Update() bool {
	if c.Idle() {
		c.settle()
		return false
	}

	f := 1.0
	if c.Damping && c.DampingFactor > 0 && c.DampingFactor < 1 {
		f = c.DampingFactor
	}

	offset := c.cam.Position.Sub(c.cam.Target)
	radius := offset.Len()
	azimuth, elevation := 0.0, 0.0
	if radius > 0 {
		azimuth = math.Atan2(offset.X(), offset.Z())
		elevation = math.Asin(clamp(offset.Y()/radius, -1, 1))
	}

	azimuth += c.dAzimuth * f
	elevation = clamp(elevation+c.dElevation*f, -maxElevation, maxElevation)
	radius = clamp(radius*c.zoom, c.MinDistance, c.MaxDistance)
	target := c.cam.Target.Add(c.pan.Mul(f))

	cosEl := math.Cos(elevation)
	c.cam.Target = target
	c.cam.Position = target.Add(mgl64.Vec3{
		radius * cosEl * math.Sin(azimuth),
		radius * math.Sin(elevation),
		radius * cosEl * math.Cos(azimuth),
	})

	c.zoom = 1
	if f < 1 {
		c.dAzimuth *= 1 - f
		c.dElevation *= 1 - f
		c.pan = c.pan.Mul(1 - f)
	} else {
		c.dAzimuth, c.dElevation, c.pan = 0, 0, mgl64.Vec3{}
	}
	c.settle()
	return true
}

// Reset restores the initial pose exactly and drops any pending motion.
func (c *Controls) Reset() {
	c.cam.Position = InitialPosition
	c.cam.Target = InitialTarget
	c.dAzimuth, c.dElevation, c.zoom, c.pan = 0, 0, 1, mgl64.Vec3{}
}

func (c *Controls) settle() {
	if math.Abs(c.dAzimuth) < settleEpsilon {
		c.dAzimuth = 0
	}
	if math.Abs(c.dElevation) < settleEpsilon {
		c.dElevation = 0
	}
	if c.pan.Len() < settleEpsilon {
		c.pan = mgl64.Vec3{}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
