package display

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/scene"
)

func TestHeadlessRender(t *testing.T) {
	h := NewHeadless(80, 40)
	s, err := scene.Build(bodies.List(), h, scene.WithStars(0, 0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := h.Render(Frame{Number: 1, Scene: s}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Frames() != 1 || h.Last().Number != 1 {
		t.Errorf("unexpected frame bookkeeping: %d frames, last %d", h.Frames(), h.Last().Number)
	}

	other, _ := scene.Build(bodies.List(), NewHeadless(1, 1), scene.WithStars(0, 0))
	if err := h.Render(Frame{Number: 2, Scene: other}); err == nil {
		t.Error("expected error rendering an unmounted scene")
	}
}

func TestHeadlessResize(t *testing.T) {
	h := NewHeadless(80, 40)
	h.Resize(100, 50)
	h.Resize(100, 50)
	vp := h.Viewport()
	if vp.Width != 100 || vp.Height != 50 {
		t.Errorf("viewport = %+v", vp)
	}
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Reason: "no tty"}
	if err := u.Available(); !errors.Is(err, scene.ErrRenderingUnavailable) {
		t.Errorf("expected ErrRenderingUnavailable, got %v", err)
	}
	s, err := scene.Build(bodies.List(), u)
	if s != nil || !errors.Is(err, scene.ErrRenderingUnavailable) {
		t.Errorf("build on unavailable surface: %v, %v", s, err)
	}
}

func TestPanel(t *testing.T) {
	p := NewPanel()
	if p.Visible() {
		t.Fatal("panel should start hidden")
	}

	pairs := []bodies.InfoPair{{Label: "Diameter", Value: "12,742 km"}, {Label: "Moons", Value: "1"}}
	p.Show("Earth", pairs)
	pairs[0].Value = "changed"

	name, got := p.Content()
	if !p.Visible() || name != "Earth" {
		t.Errorf("unexpected panel state: visible=%v name=%q", p.Visible(), name)
	}
	if got[0].Value != "12,742 km" || got[1].Label != "Moons" {
		t.Errorf("panel content not preserved in order: %+v", got)
	}

	p.Hide()
	p.Hide()
	if p.Visible() {
		t.Error("panel should be hidden")
	}
}

func TestProject(t *testing.T) {
	h := NewHeadless(800, 600)
	s, err := scene.Build(bodies.List(), h, scene.WithSeed(1), scene.WithStars(50, 400))
	if err != nil {
		t.Fatal(err)
	}
	cam := camera.New()
	cam.SetAspect(800, 600)

	l := Project(Frame{Scene: s, Camera: cam, ShowLabels: true, Selected: "Earth"}, h.Viewport())
	if len(l.Discs) != 9 {
		t.Fatalf("expected 9 discs, got %d", len(l.Discs))
	}
	if len(l.Orbits) != 8 {
		t.Errorf("expected 8 orbits, got %d", len(l.Orbits))
	}
	for i := 1; i < len(l.Discs); i++ {
		if l.Discs[i].Depth > l.Discs[i-1].Depth {
			t.Fatalf("discs not ordered far to near at %d", i)
		}
	}

	var sun *Disc
	selected := 0
	for i := range l.Discs {
		if l.Discs[i].Central {
			sun = &l.Discs[i]
		}
		if l.Discs[i].Selected {
			selected++
			if l.Discs[i].Name != "Earth" {
				t.Errorf("wrong disc selected: %s", l.Discs[i].Name)
			}
		}
		if l.Discs[i].Name == "Saturn" {
			if len(l.Discs[i].Rings) != 2 {
				t.Errorf("saturn should have two ring edges")
			}
			if l.Discs[i].RingColor != scene.RingColor {
				t.Errorf("ring color %06x, want %06x", l.Discs[i].RingColor, scene.RingColor)
			}
		}
	}
	if selected != 1 {
		t.Errorf("expected exactly one selected disc, got %d", selected)
	}
	if sun == nil {
		t.Fatal("sun missing")
	}
	if math.Abs(sun.Center.X-400) > 1e-6 || math.Abs(sun.Center.Y-300) > 1e-6 {
		t.Errorf("sun should project to the viewport center, got %+v", sun.Center)
	}
	if sun.Glow <= sun.Radius {
		t.Errorf("glow %f should exceed radius %f", sun.Glow, sun.Radius)
	}

	for _, b := range s.Bodies {
		b.Orbit.Visible = false
	}
	if l := Project(Frame{Scene: s, Camera: cam}, h.Viewport()); len(l.Orbits) != 0 {
		t.Errorf("hidden orbits should not be projected")
	}

	if l := Project(Frame{Scene: s}, h.Viewport()); len(l.Discs) != 0 {
		t.Error("nothing should be projected without a camera")
	}
}
