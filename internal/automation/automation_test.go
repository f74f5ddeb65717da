package automation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/control"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
)

func TestAutomation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Automation Suite")
}

const tour = `
name: tour
description: select earth, speed up, hide orbits, then stop
frames: 100
steps:
  - {frame: 2, action: select, body: Earth}
  - {frame: 3, action: speed, value: 4}
  - {frame: 3, action: orbits, enabled: false}
  - {frame: 5, action: labels, enabled: false}
  - {frame: 6, action: close}
  - {frame: 7, action: click, x: 0.5, y: 0.5}
  - {frame: 8, action: rotate, azimuth: 0.3}
  - {frame: 9, action: zoom, value: 1.5}
  - {frame: 10, action: reset}
  - {frame: 12, action: stop}
`

var _ = Describe("Scenario", func() {
	Describe("parsing", func() {
		It("reads steps and their targets", func() {
			s, err := automation.ParseScenario([]byte(tour))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Name).To(Equal("tour"))
			Expect(s.Frames).To(Equal(100))
			Expect(s.Steps).To(HaveLen(10))
			Expect(s.LastFrame()).To(Equal(12))
		})

		DescribeTable("rejects bad steps",
			func(doc string) {
				_, err := automation.ParseScenario([]byte(doc))
				Expect(errors.Is(err, automation.ErrInvalidScenario)).To(BeTrue())
			},
			Entry("frame zero", "steps: [{frame: 0, action: reset}]"),
			Entry("unknown action", "steps: [{frame: 1, action: warp}]"),
			Entry("select without body", "steps: [{frame: 1, action: select}]"),
			Entry("click off screen", "steps: [{frame: 1, action: click, x: 1.5, y: 0}]"),
			Entry("zero zoom", "steps: [{frame: 1, action: zoom}]"),
			Entry("pan by NaN", "steps: [{frame: 1, action: pan, x: .nan}]"),
			Entry("negative frames", "frames: -1"),
			Entry("not yaml", "steps: [{"),
		)

		It("loads from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "tour.yaml")
			Expect(os.WriteFile(path, []byte(tour), 0644)).To(Succeed())
			s, err := automation.LoadScenario(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Steps).To(HaveLen(10))
		})
	})

	Describe("replay", func() {
		var (
			sc      *scene.Scene
			state   *sim.State
			ctl     *control.Controller
			panel   *display.Panel
			surface *display.Headless
			l       *loop.Loop
		)

		BeforeEach(func() {
			var err error
			surface = display.NewHeadless(800, 600)
			sc, err = scene.Build(bodies.List(), surface, scene.WithSeed(8), scene.WithStars(0, 0))
			Expect(err).NotTo(HaveOccurred())
			state = sim.NewState()
			controls := camera.NewControls(camera.New())
			panel = display.NewPanel()
			ctl = control.New(state, sc, controls, panel)
			l = loop.New(sc, state, controls, surface, sim.NewClock())
			l.Resize(800, 600)
		})

		It("applies each step before its frame and stops on request", func() {
			s, err := automation.ParseScenario([]byte(tour))
			Expect(err).NotTo(HaveOccurred())
			r := automation.Bind(s, l, ctl, surface.Viewport)

			var seen []string
			l.AfterFrame(func(frame int) {
				switch frame {
				case 2:
					seen = append(seen, "selected:"+state.Selected.Name)
				case 3:
					Expect(state.Speed).To(Equal(4.0))
					Expect(state.ShowOrbits).To(BeFalse())
					Expect(sc.Bodies[0].Orbit.Visible).To(BeFalse())
				case 6:
					Expect(panel.Visible()).To(BeFalse())
				case 7:
					seen = append(seen, "clicked:"+state.Selected.Name)
				}
			})

			Expect(l.Run(context.Background(), loop.Fixed(s.Frames))).To(Succeed())

			Expect(l.Frame()).To(Equal(11))
			Expect(r.Applied()).To(Equal(10))
			Expect(r.Pending()).To(BeEmpty())
			Expect(seen).To(Equal([]string{"selected:Earth", "clicked:Sun"}))
			Expect(state.ShowLabels).To(BeFalse())
			Expect(ctl.Controls().Camera().Position).To(Equal(camera.InitialPosition))
		})

		It("pans the view along the camera's right axis", func() {
			s, err := automation.ParseScenario([]byte("steps: [{frame: 1, action: pan, x: 5}]"))
			Expect(err).NotTo(HaveOccurred())
			automation.Bind(s, l, ctl, surface.Viewport)
			Expect(l.Run(context.Background(), loop.Fixed(200))).To(Succeed())

			target := ctl.Controls().Camera().Target
			Expect(target.X()).To(BeNumerically("~", 5, 0.1))
			Expect(target.Y()).To(BeNumerically("~", 0, 1e-9))
			Expect(target.Z()).To(BeNumerically("~", 0, 1e-9))
		})

		It("warns and carries on when a body is missing", func() {
			s, err := automation.ParseScenario([]byte("steps: [{frame: 1, action: select, body: Pluto}]"))
			Expect(err).NotTo(HaveOccurred())
			r := automation.Bind(s, l, ctl, surface.Viewport)
			Expect(l.Run(context.Background(), loop.Fixed(3))).To(Succeed())
			Expect(r.Applied()).To(Equal(1))
			Expect(state.Selected.Empty()).To(BeTrue())
		})
	})
})
