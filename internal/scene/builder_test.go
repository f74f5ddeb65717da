package scene_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/scene"
)

type fakeSurface struct {
	unavailable error
	mountErr    error
	mounted     []*scene.Scene
}

func (f *fakeSurface) Available() error { return f.unavailable }
func (f *fakeSurface) Mount(s *scene.Scene) error {
	if f.mountErr != nil {
		return f.mountErr
	}
	f.mounted = append(f.mounted, s)
	return nil
}

var _ = Describe("Build", func() {
	var (
		surface *fakeSurface
		catalog []bodies.Descriptor
	)

	BeforeEach(func() {
		surface = &fakeSurface{}
		catalog = bodies.List()
	})

	It("creates one orbiting body per descriptor in catalog order", func() {
		s, err := scene.Build(catalog, surface, scene.WithSeed(1), scene.WithStars(10, 400))
		Expect(err).NotTo(HaveOccurred())

		orbiting := bodies.Orbiting(catalog)
		Expect(s.Bodies).To(HaveLen(8))
		seen := map[*bodies.Descriptor]bool{}
		for i, b := range s.Bodies {
			Expect(b.Name()).To(Equal(orbiting[i].Name))
			Expect(seen[b.Descriptor]).To(BeFalse())
			seen[b.Descriptor] = true
			Expect(b.Angle).To(BeNumerically(">=", 0))
			Expect(b.Angle).To(BeNumerically("<", 2*math.Pi))
		}
	})

	It("mounts the scene on the surface", func() {
		s, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(surface.mounted).To(ConsistOf(s))
		Expect(s.Live()).To(BeTrue())
	})

	It("places each body on its orbit", func() {
		s, err := scene.Build(catalog, surface, scene.WithSeed(7), scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		for _, b := range s.Bodies {
			Expect(b.Position.Len()).To(BeNumerically("~", b.Descriptor.Distance, 1e-9))
			Expect(b.Position.Y()).To(BeZero())
		}
	})

	It("builds closed orbit paths with at least 32 segments", func() {
		s, err := scene.Build(catalog, surface, scene.WithOrbitSegments(8), scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		for _, b := range s.Bodies {
			Expect(b.Orbit.Segments()).To(Equal(scene.MinOrbitSegments))
			pts := b.Orbit.Points
			Expect(pts[0]).To(Equal(pts[len(pts)-1]))
			for _, p := range pts {
				Expect(p.Len()).To(BeNumerically("~", b.Descriptor.Distance, 1e-9))
			}
			Expect(b.Orbit.Visible).To(BeTrue())
		}
	})

	It("attaches a ring only to ringed bodies, lying in the orbital plane", func() {
		s, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		for _, b := range s.Bodies {
			if !b.Descriptor.Ringed {
				Expect(b.Ring).To(BeNil())
				continue
			}
			Expect(b.Name()).To(Equal("Saturn"))
			Expect(b.Ring.Inner).To(BeNumerically("~", b.Descriptor.Radius*1.5, 1e-12))
			Expect(b.Ring.Outer).To(BeNumerically("~", b.Descriptor.Radius*2.5, 1e-12))
			Expect(b.Ring.Color).To(Equal(uint32(scene.RingColor)))
			Expect(b.Ring.Color).NotTo(Equal(b.Material.Color))

			inner, outer := b.Ring.Outline(b.Position)
			Expect(inner).To(HaveLen(scene.RingSegments + 1))
			for _, p := range outer {
				Expect(p.Y()).To(BeNumerically("~", 0, 1e-9))
			}
		}
	})

	It("falls back to flat color when a body has no texture", func() {
		s, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		saturn, ok := s.Body("Saturn")
		Expect(ok).To(BeTrue())
		Expect(saturn.Material.Textured()).To(BeFalse())
		Expect(saturn.Material.Color).To(Equal(uint32(0xfad5a5)))

		earth, ok := s.Body("Earth")
		Expect(ok).To(BeTrue())
		Expect(earth.Material.Textured()).To(BeTrue())
	})

	It("scatters the requested number of stars inside the cube", func() {
		s, err := scene.Build(catalog, surface, scene.WithStars(500, 400))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Stars.Points).To(HaveLen(500))
		for _, p := range s.Stars.Points {
			for _, c := range []float64{p.X(), p.Y(), p.Z()} {
				Expect(math.Abs(c)).To(BeNumerically("<=", 200))
			}
		}
	})

	It("gives every build a fresh identity", func() {
		a, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		b, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.ID).NotTo(Equal(b.ID))
	})

	Context("when rendering is unavailable", func() {
		It("fails without building a scene", func() {
			surface.unavailable = errors.New("no webgl")
			s, err := scene.Build(catalog, surface)
			Expect(s).To(BeNil())
			Expect(err).To(MatchError(scene.ErrRenderingUnavailable))
			Expect(surface.mounted).To(BeEmpty())
		})

		It("treats a nil surface the same way", func() {
			_, err := scene.Build(catalog, nil)
			Expect(err).To(MatchError(scene.ErrRenderingUnavailable))
		})
	})

	It("rejects an invalid catalog", func() {
		catalog[2].Name = catalog[1].Name
		_, err := scene.Build(catalog, surface)
		Expect(err).To(MatchError(bodies.ErrDuplicateName))
	})

	It("does not hand out a scene whose mount failed", func() {
		surface.mountErr = errors.New("busy")
		s, err := scene.Build(catalog, surface, scene.WithStars(0, 0))
		Expect(err).To(HaveOccurred())
		Expect(s).To(BeNil())
	})
})

var _ = Describe("Scene", func() {
	var s *scene.Scene

	BeforeEach(func() {
		var err error
		s, err = scene.Build(bodies.List(), &fakeSurface{}, scene.WithSeed(3), scene.WithStars(0, 0))
		Expect(err).NotTo(HaveOccurred())
	})

	It("lists the sun first among pickables", func() {
		p := s.Pickables()
		Expect(p).To(HaveLen(9))
		Expect(p[0].Name()).To(Equal("Sun"))
		Expect(p[0].Bounds().Center).To(Equal(mgl64.Vec3{}))
	})

	It("resolves entities by name until teardown", func() {
		p, ok := s.Lookup("Earth")
		Expect(ok).To(BeTrue())
		Expect(p.Info()[0].Label).To(Equal("Diameter"))

		s.Teardown()
		Expect(s.Live()).To(BeFalse())
		_, ok = s.Lookup("Earth")
		Expect(ok).To(BeFalse())
		Expect(s.Pickables()).To(BeEmpty())
	})

	It("derives position from the orbital angle", func() {
		b, _ := s.Body("Mars")
		b.Angle = math.Pi / 2
		b.UpdatePosition()
		Expect(b.Position.X()).To(BeNumerically("~", 0, 1e-9))
		Expect(b.Position.Z()).To(BeNumerically("~", 20, 1e-9))
	})
})
