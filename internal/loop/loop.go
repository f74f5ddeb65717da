// Package loop drives the per-frame sequence: advance the clock, update the
// derived visuals, then hand the frame to the display surface.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
)

var ErrStopped = errors.New("loop: stopped")

type Loop struct {
	scene    *scene.Scene
	state    *sim.State
	controls *camera.Controls
	surface  display.Surface
	clock    sim.Clock

	frame    int
	hooks    []func(frame int)
	after    []func(frame int)
	stop     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

func New(sc *scene.Scene, state *sim.State, controls *camera.Controls, surface display.Surface, clock sim.Clock) *Loop {
	return &Loop{
		scene:    sc,
		state:    state,
		controls: controls,
		surface:  surface,
		clock:    clock,
		stop:     make(chan struct{}),
	}
}

// OnFrame registers fn to run before each tick with the upcoming frame
// number. Scripted input goes here.
func (l *Loop) OnFrame(fn func(frame int)) { l.hooks = append(l.hooks, fn) }

// AfterFrame registers fn to run after each successful tick.
func (l *Loop) AfterFrame(fn func(frame int)) { l.after = append(l.after, fn) }

// Frame returns the number of completed ticks.
func (l *Loop) Frame() int { return l.frame }

func (l *Loop) Scene() *scene.Scene { return l.scene }

// SetScene points the loop at a new scene, starting from the next tick.
func (l *Loop) SetScene(sc *scene.Scene) { l.scene = sc }

// Resize updates the surface and the camera aspect from the new viewport.
// Repeating it with the same size changes nothing.
func (l *Loop) Resize(width, height int) {
	l.surface.Resize(width, height)
	vp := l.surface.Viewport()
	l.controls.Camera().SetAspect(vp.Width, vp.Height)
}

// Tick advances the simulation by one frame and renders it.
func (l *Loop) Tick() error {
	sc := l.scene
	if !sc.Live() {
		return fmt.Errorf("loop: frame %d: scene is not live", l.frame+1)
	}

	l.clock.AdvanceCentral(sc.Sun)
	for _, b := range sc.Bodies {
		l.clock.Step(b, l.state.Speed)
	}
	for _, b := range sc.Bodies {
		if b.Orbit != nil {
			b.Orbit.Visible = l.state.ShowOrbits
		}
	}
	l.clock.RotateStars(sc.Stars)
	l.controls.Update()

	var selected string
	if sel := l.state.Selected; sel.Scene == sc.ID {
		selected = sel.Name
	}

	l.frame++
	err := l.surface.Render(display.Frame{
		Number:     l.frame,
		Scene:      sc,
		Camera:     l.controls.Camera(),
		ShowLabels: l.state.ShowLabels,
		Speed:      l.state.Speed,
		Selected:   selected,
	})
	if err != nil {
		return fmt.Errorf("loop: render frame %d: %w", l.frame, err)
	}
	for _, fn := range l.after {
		fn(l.frame)
	}
	return nil
}

// Run ticks once per frame signal until the source is exhausted, ctx is
// done or Stop is called. Stop and exhaustion return nil.
func (l *Loop) Run(ctx context.Context, src FrameSource) error {
	frames := src.Frames()
	defer src.Close()

	logging.L().Info("loop started", "scene", l.scene.ID)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			logging.L().Info("loop stopped", "frames", l.frame)
			return nil
		case _, ok := <-frames:
			if !ok {
				logging.L().Info("loop finished", "frames", l.frame)
				return nil
			}
			if err := l.Step(); err != nil {
				if errors.Is(err, ErrStopped) {
					return nil
				}
				return err
			}
		}
	}
}

// Step runs the frame hooks and one tick. It is what a host calls from its
// own frame callback.
func (l *Loop) Step() error {
	if l.stopped.Load() {
		return ErrStopped
	}
	for _, fn := range l.hooks {
		fn(l.frame + 1)
	}
	if l.stopped.Load() {
		return ErrStopped
	}
	return l.Tick()
}

// Stop halts Run. It may be called from any goroutine, more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stop)
	})
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool { return l.stopped.Load() }
