package viz

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/control"
	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/loop"
	"github.com/san-kum/orrery/internal/prefs"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	hudRows    = 3
	panelWidth = 34

	rotateStep = 0.15
	zoomStep   = 1.15
	panStep    = 2.0
)

type TickMsg time.Time

// App is the interactive terminal host. Each TickMsg drives one loop step;
// keys and mouse clicks go to the controller between ticks.
type App struct {
	ctl    *control.Controller
	loop   *loop.Loop
	term   *Terminal
	panel  *display.Panel
	styles Styles
	fps    int

	rebuild func() (*scene.Scene, error)

	width, height int
	err           error
}

func NewApp(ctl *control.Controller, l *loop.Loop, term *Terminal, panel *display.Panel, fps int) *App {
	if fps <= 0 {
		fps = 60
	}
	a := &App{
		ctl:   ctl,
		loop:  l,
		term:  term,
		panel: panel,
		fps:   fps,
	}
	a.applyTheme(ctl.Theme())
	return a
}

// SetRebuild enables the "n" key, which replaces the scene with a freshly
// built one.
func (a *App) SetRebuild(fn func() (*scene.Scene, error)) { a.rebuild = fn }

// Err returns the error that ended the program, if any.
func (a *App) Err() error { return a.err }

func (a *App) Init() tea.Cmd { return a.tick() }

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(a.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if err := a.loop.Step(); err != nil {
			if !errors.Is(err, loop.ErrStopped) {
				a.err = err
			}
			return a, tea.Quit
		}
		return a, a.tick()
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
	case tea.MouseMsg:
		a.mouse(msg)
	case tea.KeyMsg:
		return a, a.key(msg)
	}
	return a, nil
}

func (a *App) resize() {
	cols := a.width - panelWidth
	if cols < MinCols {
		cols = a.width
	}
	rows := a.height - hudRows
	if rows < 1 {
		rows = 1
	}
	a.loop.Resize(cols, rows)
}

func (a *App) mouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		x, y := a.term.CellCenter(msg.X, msg.Y)
		if p, ok := a.ctl.Click(x, y, a.term.Viewport()); ok {
			logging.L().Debug("clicked", "name", p.Name(), "col", msg.X, "row", msg.Y)
		}
	case tea.MouseButtonWheelUp:
		a.ctl.ZoomCamera(1 / zoomStep)
	case tea.MouseButtonWheelDown:
		a.ctl.ZoomCamera(zoomStep)
	}
}

func (a *App) key(msg tea.KeyMsg) tea.Cmd {
	state := a.ctl.State()
	switch msg.String() {
	case "q", "ctrl+c":
		a.loop.Stop()
		return tea.Quit
	case "+", "=":
		a.ctl.NudgeSpeed(control.SpeedStep)
	case "-", "_":
		a.ctl.NudgeSpeed(-control.SpeedStep)
	case "0":
		a.ctl.SetSpeedMultiplier(0)
	case "1":
		a.ctl.SetSpeedMultiplier(1)
	case "l":
		a.ctl.SetLabelsVisible(!state.ShowLabels)
	case "o":
		a.ctl.SetOrbitsVisible(!state.ShowOrbits)
	case "r":
		a.ctl.ResetCamera()
	case "x", "esc":
		a.ctl.CloseInfoPanel()
	case "t":
		if t, err := a.ctl.ToggleTheme(); err == nil {
			a.applyTheme(t)
		}
	case "tab":
		a.selectNext()
	case "n":
		a.reseed()
	case "left", "h":
		a.ctl.RotateCamera(-rotateStep, 0)
	case "right":
		a.ctl.RotateCamera(rotateStep, 0)
	case "up", "k":
		a.ctl.RotateCamera(0, rotateStep)
	case "down", "j":
		a.ctl.RotateCamera(0, -rotateStep)
	case "shift+left":
		a.ctl.PanCamera(-panStep, 0)
	case "shift+right":
		a.ctl.PanCamera(panStep, 0)
	case "shift+up":
		a.ctl.PanCamera(0, panStep)
	case "shift+down":
		a.ctl.PanCamera(0, -panStep)
	case "z", "pgup":
		a.ctl.ZoomCamera(1 / zoomStep)
	case "Z", "pgdown":
		a.ctl.ZoomCamera(zoomStep)
	}
	return nil
}

// selectNext walks the selection through every pickable entity.
func (a *App) selectNext() {
	all := a.ctl.Scene().Pickables()
	if len(all) == 0 {
		return
	}
	next := 0
	if cur, ok := a.ctl.Selected(); ok {
		for i, p := range all {
			if p == cur {
				next = (i + 1) % len(all)
				break
			}
		}
	}
	a.ctl.SelectEntity(all[next])
}

func (a *App) reseed() {
	if a.rebuild == nil {
		return
	}
	sc, err := a.rebuild()
	if err != nil {
		logging.L().Warn("rebuild failed", "err", err)
		return
	}
	a.ctl.Replace(sc)
	a.loop.SetScene(sc)
}

func (a *App) applyTheme(t prefs.Theme) {
	th := GetTheme(t)
	a.styles = NewStyles(th)
	a.term.SetTheme(th)
}

func (a *App) View() string {
	view := a.term.Canvas().Render()
	if a.panel.Visible() {
		name, pairs := a.panel.Content()
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, " ", a.styles.InfoBox(name, pairs))
	}
	return view + "\n" + a.hud()
}

func (a *App) hud() string {
	s, state := a.styles, a.ctl.State()
	status := []string{
		s.Title.Render("ORRERY"),
		s.Subtle.Render("speed ") + s.Value.Render(FormatSpeed(state.Speed)),
		s.Flag("labels", state.ShowLabels),
		s.Flag("orbits", state.ShowOrbits),
		s.Subtle.Render("theme ") + s.Value.Render(string(a.ctl.Theme())),
	}
	hints := s.Hints(
		"click/tab", "select",
		"+/-", "speed",
		"l", "labels",
		"o", "orbits",
		"arrows/z", "camera",
		"shift+arrows", "pan",
		"r", "reset",
		"t", "theme",
		"n", "new",
		"q", "quit",
	)
	return strings.Join(status, "  ") + "\n" + hints
}

// Run starts the program and blocks until the user quits.
func Run(a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return a.err
}
