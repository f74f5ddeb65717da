package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/logging"
)

// ErrRenderingUnavailable means the host cannot draw 3D content at all.
var ErrRenderingUnavailable = errors.New("scene: rendering unavailable")

const (
	DefaultOrbitSegments = 64
	MinOrbitSegments     = 32
	DefaultStarCount     = 10000
	DefaultStarSpread    = 400.0
)

// Surface is the rendering target a scene is emitted to.
type Surface interface {
	// Available returns a non-nil error when the surface cannot render.
	Available() error
	// Mount hands the finished scene to the surface.
	Mount(*Scene) error
}

type buildOptions struct {
	rng        *rand.Rand
	segments   int
	starCount  int
	starSpread float64
}

type Option func(*buildOptions)

// WithRand sets the source for start phases and star positions.
func WithRand(r *rand.Rand) Option {
	return func(o *buildOptions) { o.rng = r }
}

// WithSeed is WithRand over a fresh source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithOrbitSegments sets the orbit path resolution. Values below
// MinOrbitSegments are raised to it.
func WithOrbitSegments(n int) Option {
	return func(o *buildOptions) { o.segments = n }
}

// WithStars sets the star count and the edge length of the cube they fill.
func WithStars(count int, spread float64) Option {
	return func(o *buildOptions) {
		o.starCount = count
		o.starSpread = spread
	}
}

// Build constructs a scene from a catalog and mounts it on surface.
// Nothing is built when the surface reports it cannot render.
func Build(catalog []bodies.Descriptor, surface Surface, opts ...Option) (*Scene, error) {
	o := buildOptions{
		segments:   DefaultOrbitSegments,
		starCount:  DefaultStarCount,
		starSpread: DefaultStarSpread,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.segments < MinOrbitSegments {
		o.segments = MinOrbitSegments
	}
	if o.starCount < 0 {
		o.starCount = 0
	}

	if surface == nil {
		return nil, fmt.Errorf("%w: no surface", ErrRenderingUnavailable)
	}
	if err := surface.Available(); err != nil {
		if errors.Is(err, ErrRenderingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderingUnavailable, err)
	}
	if err := bodies.Validate(catalog); err != nil {
		return nil, err
	}

	s := &Scene{
		ID:      uuid.New(),
		catalog: append([]bodies.Descriptor(nil), catalog...),
		index:   make(map[string]Pickable, len(catalog)),
		live:    true,
	}
	s.Stars = buildStars(o.rng, o.starCount, o.starSpread)

	for i := range s.catalog {
		d := &s.catalog[i]
		mat := Material{Color: d.Color, Texture: d.Texture}
		if d.Central {
			s.Sun = &CentralBody{Descriptor: d, Material: mat}
			s.index[d.Name] = s.Sun
			continue
		}

		b := &OrbitingBody{
			Descriptor: d,
			Angle:      o.rng.Float64() * 2 * math.Pi,
			Orbit:      &OrbitPath{Points: orbitPoints(d.Distance, o.segments), Visible: true},
			Material:   mat,
		}
		if d.Ringed {
			b.Ring = &Ring{
				Inner:    d.Radius * ringInnerScale,
				Outer:    d.Radius * ringOuterScale,
				Segments: RingSegments,
				Tilt:     math.Pi / 2,
				Color:    RingColor,
			}
		}
		b.UpdatePosition()
		s.Bodies = append(s.Bodies, b)
		s.index[d.Name] = b
	}

	if err := surface.Mount(s); err != nil {
		s.Teardown()
		return nil, fmt.Errorf("mount scene: %w", err)
	}

	logging.L().Info("scene built",
		"id", s.ID.String(),
		"bodies", len(s.Bodies),
		"stars", len(s.Stars.Points),
		"segments", o.segments)
	return s, nil
}

func orbitPoints(distance float64, segments int) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, segments+1)
	for i := 0; i < segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		pts[i] = mgl64.Vec3{math.Cos(a) * distance, 0, math.Sin(a) * distance}
	}
	pts[segments] = pts[0]
	return pts
}

func buildStars(rng *rand.Rand, count int, spread float64) *StarField {
	pts := make([]mgl64.Vec3, count)
	for i := range pts {
		pts[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * spread,
			(rng.Float64() - 0.5) * spread,
			(rng.Float64() - 0.5) * spread,
		}
	}
	return &StarField{Points: pts}
}
