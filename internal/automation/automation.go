// Package automation scripts interaction: a scenario is a YAML list of
// controller inputs pinned to frame numbers, replayed through the render
// loop's frame hook.
package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/control"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/pick"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted run.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Frames      int    `yaml:"frames"`
	Steps       []Step `yaml:"steps"`
}

// Step is one input applied just before the given frame is ticked.
//
//	speed   value
//	nudge   value
//	labels  enabled
//	orbits  enabled
//	select  body
//	click   x, y (fractions of the viewport, 0..1 from the top left)
//	rotate  azimuth, elevation
//	pan     x, y (world units along the view plane)
//	zoom    value
//	close, reset, stop
type Step struct {
	Frame     int     `yaml:"frame"`
	Action    string  `yaml:"action"`
	Value     float64 `yaml:"value,omitempty"`
	Enabled   bool    `yaml:"enabled,omitempty"`
	Body      string  `yaml:"body,omitempty"`
	X         float64 `yaml:"x,omitempty"`
	Y         float64 `yaml:"y,omitempty"`
	Azimuth   float64 `yaml:"azimuth,omitempty"`
	Elevation float64 `yaml:"elevation,omitempty"`
}

var actions = map[string]bool{
	"speed": true, "nudge": true, "labels": true, "orbits": true, "select": true,
	"click": true, "rotate": true, "pan": true, "zoom": true, "close": true, "reset": true, "stop": true,
}

// LoadScenario loads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalidScenario, s.Frames)
	}
	for i, step := range s.Steps {
		if step.Frame < 1 {
			return fmt.Errorf("%w: step %d: frame %d", ErrInvalidScenario, i+1, step.Frame)
		}
		if !actions[step.Action] {
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i+1, step.Action)
		}
		switch step.Action {
		case "select":
			if step.Body == "" {
				return fmt.Errorf("%w: step %d: select needs a body", ErrInvalidScenario, i+1)
			}
		case "pan":
			if math.IsNaN(step.X) || math.IsInf(step.X, 0) || math.IsNaN(step.Y) || math.IsInf(step.Y, 0) {
				return fmt.Errorf("%w: step %d: pan by (%v, %v)", ErrInvalidScenario, i+1, step.X, step.Y)
			}
		case "click":
			if step.X < 0 || step.X > 1 || step.Y < 0 || step.Y > 1 {
				return fmt.Errorf("%w: step %d: click at (%v, %v)", ErrInvalidScenario, i+1, step.X, step.Y)
			}
		case "zoom":
			if !(step.Value > 0) {
				return fmt.Errorf("%w: step %d: zoom scale %v", ErrInvalidScenario, i+1, step.Value)
			}
		}
	}
	return nil
}

// LastFrame is the highest frame any step targets.
func (s *Scenario) LastFrame() int {
	last := 0
	for _, step := range s.Steps {
		last = max(last, step.Frame)
	}
	return last
}

// Runner replays a scenario against a controller.
type Runner struct {
	scenario *Scenario
	ctl      *control.Controller
	loop     *loop.Loop
	viewport func() pick.Viewport
	byFrame  map[int][]Step
	applied  int
}

// Bind registers the scenario on the loop's frame hook. viewport supplies
// the surface size used to place clicks.
func Bind(s *Scenario, l *loop.Loop, ctl *control.Controller, viewport func() pick.Viewport) *Runner {
	r := &Runner{
		scenario: s,
		ctl:      ctl,
		loop:     l,
		viewport: viewport,
		byFrame:  make(map[int][]Step),
	}
	for _, step := range s.Steps {
		r.byFrame[step.Frame] = append(r.byFrame[step.Frame], step)
	}
	l.OnFrame(r.apply)
	return r
}

// Applied is the number of steps run so far.
func (r *Runner) Applied() int { return r.applied }

// Pending lists the frames that still have steps to run, in order.
func (r *Runner) Pending() []int {
	frames := make([]int, 0, len(r.byFrame))
	for f := range r.byFrame {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

func (r *Runner) apply(frame int) {
	steps, ok := r.byFrame[frame]
	if !ok {
		return
	}
	delete(r.byFrame, frame)
	for _, step := range steps {
		r.run(step)
		r.applied++
		logging.L().Debug("scenario step", "scenario", r.scenario.Name, "frame", frame, "action", step.Action)
	}
}

func (r *Runner) run(step Step) {
	ctl := r.ctl
	switch step.Action {
	case "speed":
		ctl.SetSpeedMultiplier(step.Value)
	case "nudge":
		ctl.NudgeSpeed(step.Value)
	case "labels":
		ctl.SetLabelsVisible(step.Enabled)
	case "orbits":
		ctl.SetOrbitsVisible(step.Enabled)
	case "select":
		p, ok := ctl.Scene().Lookup(step.Body)
		if !ok || !ctl.SelectEntity(p) {
			logging.L().Warn("scenario select failed", "body", step.Body)
		}
	case "click":
		vp := r.viewport()
		ctl.Click(step.X*vp.Width, step.Y*vp.Height, vp)
	case "rotate":
		ctl.RotateCamera(step.Azimuth, step.Elevation)
	case "pan":
		ctl.PanCamera(step.X, step.Y)
	case "zoom":
		ctl.ZoomCamera(step.Value)
	case "close":
		ctl.CloseInfoPanel()
	case "reset":
		ctl.ResetCamera()
	case "stop":
		r.loop.Stop()
	}
}
