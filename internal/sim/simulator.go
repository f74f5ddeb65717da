package sim

import (
	"math"

	"github.com/san-kum/orrery/internal/scene"
)

const (
	// DefaultFrameDt is the time step applied per rendered frame.
	DefaultFrameDt = 0.01
	// DefaultSunSpin is the sun's rotation per frame, in radians.
	DefaultSunSpin = 0.001
	// DefaultBodySpin is each planet's self rotation per frame, in radians.
	DefaultBodySpin = 0.01
	// DefaultStarSpin turns the star field backdrop about Y each frame.
	DefaultStarSpin = 0.0001
)

// Clock advances orbital phases. With Wrap set, angles are reduced into
// [0, 2π) on every write; without it they accumulate unbounded.
type Clock struct {
	FrameDt  float64
	SunSpin  float64
	BodySpin float64
	StarSpin float64
	Wrap     bool
}

func NewClock() Clock {
	return Clock{
		FrameDt:  DefaultFrameDt,
		SunSpin:  DefaultSunSpin,
		BodySpin: DefaultBodySpin,
		StarSpin: DefaultStarSpin,
		Wrap:     true,
	}
}

// Advance moves a body along its orbit by speed * multiplier * dt.
func (c Clock) Advance(b *scene.OrbitingBody, dt, multiplier float64) {
	if dt == 0 || multiplier == 0 {
		return
	}
	step := b.Descriptor.Speed * multiplier * dt
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return
	}
	b.Angle += step
	if c.Wrap {
		b.Angle = WrapAngle(b.Angle)
	}
}

// AdvanceCentral rotates the sun by the fixed per-frame increment.
func (c Clock) AdvanceCentral(sun *scene.CentralBody) {
	if sun == nil {
		return
	}
	sun.Rotation += c.SunSpin
	if c.Wrap {
		sun.Rotation = WrapAngle(sun.Rotation)
	}
}

// Spin applies the per-frame self rotation of a planet.
func (c Clock) Spin(b *scene.OrbitingBody) {
	b.Spin += c.BodySpin
	if c.Wrap {
		b.Spin = WrapAngle(b.Spin)
	}
}

// RotateStars turns the backdrop by one frame's increment.
func (c Clock) RotateStars(f *scene.StarField) {
	if f == nil {
		return
	}
	f.Rotation += c.StarSpin
	if c.Wrap {
		f.Rotation = WrapAngle(f.Rotation)
	}
}

// Step advances one body by one frame and refreshes its position.
func (c Clock) Step(b *scene.OrbitingBody, multiplier float64) {
	c.Advance(b, c.FrameDt, multiplier)
	b.UpdatePosition()
	c.Spin(b)
}

// WrapAngle reduces a into [0, 2π). Non-finite input has no phase and
// maps to 0.
func WrapAngle(a float64) float64 {
	const tau = 2 * math.Pi
	if a >= 0 && a < tau {
		return a
	}
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, tau)
	if a < 0 {
		a += tau
	}
	// a tiny negative remainder rounds up to exactly tau
	if a >= tau {
		a = 0
	}
	return a
}
