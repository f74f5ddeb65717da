// Package metrics accumulates per-run figures from the scene as frames are
// rendered. Every metric follows the same Name/Observe/Value/Reset shape so
// a Set can drive them from a single loop hook.
package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/scene"
)

type Metric interface {
	Name() string
	Observe(frame int, sc *scene.Scene)
	Value() float64
	Reset()
}

// phase accumulates travel of an angle that may be wrapped or raw; a
// backwards jump larger than π is read as a wrap.
type phase struct {
	prev    float64
	travel  float64
	started bool
}

func (p *phase) observe(a float64) {
	if !p.started {
		p.prev, p.started = a, true
		return
	}
	d := a - p.prev
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	p.travel += d
	p.prev = a
}

// Revolutions counts completed orbits of one body.
type Revolutions struct {
	body string
	p    phase
}

func NewRevolutions(body string) *Revolutions {
	return &Revolutions{body: body}
}

func (r *Revolutions) Name() string { return "revolutions." + r.body }

func (r *Revolutions) Observe(_ int, sc *scene.Scene) {
	if b, ok := sc.Body(r.body); ok {
		r.p.observe(b.Angle)
	}
}

func (r *Revolutions) Value() float64 {
	return r.p.travel / (2 * math.Pi)
}

func (r *Revolutions) Reset() { r.p = phase{} }

// FramesRendered counts rendered frames. Frame 0 is the state before the
// first tick and is not counted.
type FramesRendered struct {
	n int
}

func NewFramesRendered() *FramesRendered { return &FramesRendered{} }

func (f *FramesRendered) Name() string   { return "frames_rendered" }
func (f *FramesRendered) Value() float64 { return float64(f.n) }
func (f *FramesRendered) Reset()         { f.n = 0 }

func (f *FramesRendered) Observe(frame int, _ *scene.Scene) {
	if frame > 0 {
		f.n++
	}
}

// SunRotation reports how far the central body has turned, in radians,
// since the first observation. Wrapped rotations are unwrapped.
type SunRotation struct {
	p phase
}

func NewSunRotation() *SunRotation { return &SunRotation{} }

func (s *SunRotation) Name() string { return "sun_rotation" }

func (s *SunRotation) Observe(_ int, sc *scene.Scene) {
	if sc.Live() && sc.Sun != nil {
		s.p.observe(sc.Sun.Rotation)
	}
}

func (s *SunRotation) Value() float64 { return s.p.travel }
func (s *SunRotation) Reset()         { s.p = phase{} }

// Set fans one observation out to several metrics.
type Set []Metric

// Default returns frame, sun and per-body revolution metrics for a scene.
func Default(sc *scene.Scene) Set {
	set := Set{NewFramesRendered(), NewSunRotation()}
	if sc.Live() {
		for _, b := range sc.Bodies {
			set = append(set, NewRevolutions(b.Name()))
		}
	}
	return set
}

func (s Set) Observe(frame int, sc *scene.Scene) {
	for _, m := range s {
		m.Observe(frame, sc)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Snapshot returns current values keyed by metric name.
func (s Set) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
