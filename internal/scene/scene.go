// Package scene builds the renderable world from the body catalog: the star
// field, the central body, one orbiting body per catalog entry and the orbit
// paths they travel along.
//
// A Scene is plain data. It is advanced by the render loop and read by the
// display surface and the picker; nothing in this package reads simulation
// settings.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/bodies"
)

const (
	// GlowRadius is the radius of the translucent shell drawn around the sun.
	GlowRadius = 3.5

	// RingSegments is the tessellation of planetary rings.
	RingSegments = 64

	// RingColor and RingOpacity are shared by every ring; rings carry no
	// texture of their own.
	RingColor   = 0xc9b181
	RingOpacity = 0.7

	ringInnerScale = 1.5
	ringOuterScale = 2.5
)

// Sphere is the bounding volume used for picking.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Pickable is anything a pointer can select.
type Pickable interface {
	Name() string
	Info() []bodies.InfoPair
	Bounds() Sphere
}

// Material describes how a body is shaded. A body with no texture is drawn
// in its flat color.
type Material struct {
	Color   uint32
	Texture string
}

func (m Material) Textured() bool { return m.Texture != "" }

// CentralBody is the sun: it spins in place and never orbits.
type CentralBody struct {
	Descriptor *bodies.Descriptor
	Rotation   float64
	Material   Material
}

func (c *CentralBody) Name() string            { return c.Descriptor.Name }
func (c *CentralBody) Info() []bodies.InfoPair { return c.Descriptor.Info }
func (c *CentralBody) Bounds() Sphere {
	return Sphere{Center: mgl64.Vec3{}, Radius: c.Descriptor.Radius}
}

// OrbitPath is a closed polyline around the orbital circle.
type OrbitPath struct {
	Points  []mgl64.Vec3
	Visible bool
}

// Segments returns the number of line segments in the path.
func (o *OrbitPath) Segments() int {
	if len(o.Points) == 0 {
		return 0
	}
	return len(o.Points) - 1
}

// Ring is a flat annulus attached to its body. Tilt rotates it about the
// body's X axis; π/2 lays it in the orbital plane.
type Ring struct {
	Inner, Outer float64
	Segments     int
	Tilt         float64
	Color        uint32
}

// OrbitingBody is the mutable state of one catalog entry.
type OrbitingBody struct {
	Descriptor *bodies.Descriptor
	Angle      float64
	Spin       float64
	Position   mgl64.Vec3
	Orbit      *OrbitPath
	Ring       *Ring
	Material   Material
}

func (b *OrbitingBody) Name() string            { return b.Descriptor.Name }
func (b *OrbitingBody) Info() []bodies.InfoPair { return b.Descriptor.Info }
func (b *OrbitingBody) Bounds() Sphere {
	return Sphere{Center: b.Position, Radius: b.Descriptor.Radius}
}

// UpdatePosition derives the Cartesian position from the orbital angle.
func (b *OrbitingBody) UpdatePosition() {
	d := b.Descriptor.Distance
	b.Position = mgl64.Vec3{math.Cos(b.Angle) * d, 0, math.Sin(b.Angle) * d}
}

// StarField is the backdrop of random points that slowly turns about Y.
type StarField struct {
	Points   []mgl64.Vec3
	Rotation float64
}

// Scene is one built world. ID changes with every Build, so stale
// selections from a previous scene never resolve against a new one.
type Scene struct {
	ID     uuid.UUID
	Sun    *CentralBody
	Bodies []*OrbitingBody
	Stars  *StarField

	catalog []bodies.Descriptor
	index   map[string]Pickable
	live    bool
}

// Live reports whether the scene has not been torn down.
func (s *Scene) Live() bool { return s != nil && s.live }

// Pickables returns every selectable entity: the sun first, then the
// orbiting bodies in catalog order.
func (s *Scene) Pickables() []Pickable {
	if !s.Live() {
		return nil
	}
	out := make([]Pickable, 0, len(s.Bodies)+1)
	if s.Sun != nil {
		out = append(out, s.Sun)
	}
	for _, b := range s.Bodies {
		out = append(out, b)
	}
	return out
}

// Lookup resolves an entity by name in a live scene.
func (s *Scene) Lookup(name string) (Pickable, bool) {
	if !s.Live() {
		return nil, false
	}
	p, ok := s.index[name]
	return p, ok
}

// Body returns the orbiting body with the given name.
func (s *Scene) Body(name string) (*OrbitingBody, bool) {
	p, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	b, ok := p.(*OrbitingBody)
	return b, ok
}

// Teardown releases the scene's bodies. Lookups fail afterwards.
func (s *Scene) Teardown() {
	if s == nil {
		return
	}
	s.live = false
	s.Bodies = nil
	s.Sun = nil
	s.Stars = nil
	s.index = nil
}
