package control

import (
	"math"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/pick"
	"github.com/san-kum/orrery/internal/prefs"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	MaxSpeed = sim.MaxSpeed
	// SpeedStep is the increment used by NudgeSpeed callers.
	SpeedStep = 0.1
)

type Controller struct {
	state    *sim.State
	scene    *scene.Scene
	controls *camera.Controls
	panel    display.InfoPanel
	prefs    *prefs.Store

	onTheme []func(prefs.Theme)
}

type Option func(*Controller)

// WithPrefs backs ToggleTheme with a persistent store.
func WithPrefs(p *prefs.Store) Option {
	return func(c *Controller) { c.prefs = p }
}

// OnTheme registers a callback run after every theme change.
func OnTheme(fn func(prefs.Theme)) Option {
	return func(c *Controller) { c.onTheme = append(c.onTheme, fn) }
}

func New(state *sim.State, sc *scene.Scene, controls *camera.Controls, panel display.InfoPanel, opts ...Option) *Controller {
	c := &Controller{
		state:    state,
		scene:    sc,
		controls: controls,
		panel:    panel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prefs == nil {
		c.prefs, _ = prefs.Open("")
	}
	return c
}

func (c *Controller) State() *sim.State          { return c.state }
func (c *Controller) Scene() *scene.Scene        { return c.scene }
func (c *Controller) Controls() *camera.Controls { return c.controls }

// SetSpeedMultiplier sets the global orbit speed. Negative and NaN values
// become 0, values above MaxSpeed become MaxSpeed.
func (c *Controller) SetSpeedMultiplier(v float64) float64 {
	v = sim.ClampSpeed(v)
	if c.state.Speed != v {
		logging.L().Debug("speed changed", "from", c.state.Speed, "to", v)
	}
	c.state.Speed = v
	return v
}

// NudgeSpeed adds delta to the current multiplier.
func (c *Controller) NudgeSpeed(delta float64) float64 {
	// stay on the 0.1 slider grid
	return c.SetSpeedMultiplier(math.Round((c.state.Speed+delta)*10) / 10)
}

func (c *Controller) SetLabelsVisible(v bool) { c.state.ShowLabels = v }

// SetOrbitsVisible takes effect on the next rendered frame.
func (c *Controller) SetOrbitsVisible(v bool) { c.state.ShowOrbits = v }

func (c *Controller) ResetCamera() {
	c.controls.Reset()
	logging.L().Debug("camera reset")
}

func (c *Controller) RotateCamera(dAzimuth, dElevation float64) {
	c.controls.Rotate(dAzimuth, dElevation)
}

func (c *Controller) ZoomCamera(scale float64) {
	c.controls.Zoom(scale)
}

// PanCamera shifts the camera and its target along the view plane.
func (c *Controller) PanCamera(dx, dy float64) {
	c.controls.Pan(dx, dy)
}

// SelectEntity selects p and shows its details. Entities that are not part
// of the live scene are ignored.
func (c *Controller) SelectEntity(p scene.Pickable) bool {
	if p == nil || !c.scene.Live() {
		return false
	}
	found, ok := c.scene.Lookup(p.Name())
	if !ok || found != p {
		return false
	}
	c.state.Selected = sim.Selection{Scene: c.scene.ID, Name: p.Name()}
	c.panel.Show(p.Name(), p.Info())
	logging.L().Info("entity selected", "name", p.Name())
	return true
}

// Click picks at a pointer position and selects the hit, if any.
func (c *Controller) Click(x, y float64, vp pick.Viewport) (scene.Pickable, bool) {
	if !c.scene.Live() {
		return nil, false
	}
	p, ok := pick.Pick(x, y, vp, c.controls.Camera(), c.scene.Pickables())
	if !ok {
		return nil, false
	}
	return p, c.SelectEntity(p)
}

func (c *Controller) CloseInfoPanel() {
	c.state.ClearSelection()
	c.panel.Hide()
}

// Selected resolves the current selection against the live scene. A
// selection that no longer resolves is cleared.
func (c *Controller) Selected() (scene.Pickable, bool) {
	sel := c.state.Selected
	if sel.Empty() {
		return nil, false
	}
	if c.scene.Live() && sel.Scene == c.scene.ID {
		if p, ok := c.scene.Lookup(sel.Name); ok {
			return p, true
		}
	}
	c.CloseInfoPanel()
	return nil, false
}

// Theme returns the active color theme.
func (c *Controller) Theme() prefs.Theme { return c.prefs.Theme() }

// ToggleTheme switches between light and dark and persists the choice.
func (c *Controller) ToggleTheme() (prefs.Theme, error) {
	t, err := c.prefs.Toggle()
	if err != nil {
		logging.L().Warn("theme not saved", "err", err)
		return t, err
	}
	for _, fn := range c.onTheme {
		fn(t)
	}
	return t, nil
}

// Replace swaps in a freshly built scene, dropping any selection made in
// the old one.
func (c *Controller) Replace(sc *scene.Scene) {
	old := c.scene
	c.CloseInfoPanel()
	c.scene = sc
	if old != nil && old != sc {
		old.Teardown()
	}
}

// Teardown clears the selection, hides the panel and tears the scene down.
func (c *Controller) Teardown() {
	c.CloseInfoPanel()
	if c.scene != nil {
		c.scene.Teardown()
	}
}
