// Package display defines the collaborators the core draws to: a rendering
// surface and an info panel. Hosts provide the real implementations; this
// package ships headless ones for batch runs and tests.
package display

import (
	"errors"
	"fmt"

	"github.com/san-kum/orrery/internal/bodies"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/pick"
	"github.com/san-kum/orrery/internal/scene"
)

// Frame is one render submission.
type Frame struct {
	Number     int
	Scene      *scene.Scene
	Camera     *camera.Camera
	ShowLabels bool
	Speed      float64
	// Selected names the highlighted entity, if any.
	Selected string
}

// Surface accepts a scene, keeps track of the viewport and draws frames.
type Surface interface {
	scene.Surface
	Resize(width, height int)
	Viewport() pick.Viewport
	Render(Frame) error
}

// InfoPanel shows the details of the selected entity.
type InfoPanel interface {
	Show(name string, pairs []bodies.InfoPair)
	Hide()
	Visible() bool
}

// Headless is a surface that draws nothing. It remembers the last frame
// submitted to it.
type Headless struct {
	width, height int
	scene         *scene.Scene
	last          Frame
	frames        int
}

func NewHeadless(width, height int) *Headless {
	return &Headless{width: width, height: height}
}

func (h *Headless) Available() error { return nil }

func (h *Headless) Mount(s *scene.Scene) error {
	if s == nil {
		return errors.New("display: nil scene")
	}
	h.scene = s
	return nil
}

func (h *Headless) Resize(width, height int) {
	h.width, h.height = width, height
}

func (h *Headless) Viewport() pick.Viewport {
	return pick.Viewport{Width: float64(h.width), Height: float64(h.height)}
}

func (h *Headless) Render(f Frame) error {
	if f.Scene != h.scene {
		return fmt.Errorf("display: frame %d is for a scene that is not mounted", f.Number)
	}
	h.last = f
	h.frames++
	return nil
}

// Frames returns how many frames have been rendered.
func (h *Headless) Frames() int { return h.frames }

// Last returns the most recent frame.
func (h *Headless) Last() Frame { return h.last }

// Unavailable is a surface on a host without rendering support.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Available() error {
	reason := u.Reason
	if reason == "" {
		reason = "no renderer"
	}
	return fmt.Errorf("%w: %s", scene.ErrRenderingUnavailable, reason)
}

func (u Unavailable) Mount(*scene.Scene) error   { return u.Available() }
func (u Unavailable) Resize(int, int)            {}
func (u Unavailable) Viewport() pick.Viewport    { return pick.Viewport{} }
func (u Unavailable) Render(Frame) error         { return u.Available() }
