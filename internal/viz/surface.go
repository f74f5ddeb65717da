package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/pick"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	MinCols = 20
	MinRows = 8
)

// Terminal is a display surface that draws frames onto a braille canvas.
// Its viewport is measured in braille sub-pixels, two per column and four
// per row, which keeps the aspect close to square on most fonts.
type Terminal struct {
	cols, rows int
	canvas     *Canvas
	scene      *scene.Scene
	theme      Theme
	frames     int
}

func NewTerminal(cols, rows int, theme Theme) *Terminal {
	return &Terminal{
		cols:   cols,
		rows:   rows,
		canvas: NewCanvas(cols, rows),
		theme:  theme,
	}
}

func (t *Terminal) Available() error {
	if t.cols < MinCols || t.rows < MinRows {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", t.cols, t.rows, MinCols, MinRows)
	}
	return nil
}

func (t *Terminal) Mount(s *scene.Scene) error {
	t.scene = s
	return nil
}

// Resize reallocates the canvas for a new cell grid.
func (t *Terminal) Resize(cols, rows int) {
	if cols == t.cols && rows == t.rows {
		return
	}
	t.cols, t.rows = cols, rows
	t.canvas = NewCanvas(cols, rows)
}

func (t *Terminal) Viewport() pick.Viewport {
	w, h := t.canvas.PixelSize()
	return pick.Viewport{Width: float64(w), Height: float64(h)}
}

// CellCenter maps a terminal cell to the sub-pixel at its center.
func (t *Terminal) CellCenter(col, row int) (float64, float64) {
	return float64(col*2 + 1), float64(row*4 + 2)
}

func (t *Terminal) SetTheme(th Theme) { t.theme = th }
func (t *Terminal) Canvas() *Canvas   { return t.canvas }
func (t *Terminal) Frames() int       { return t.frames }

func (t *Terminal) Render(f display.Frame) error {
	if f.Scene != t.scene {
		return fmt.Errorf("viz: frame %d is for a scene that is not mounted", f.Number)
	}
	l := display.Project(f, t.Viewport())
	t.draw(l)
	t.frames++
	return nil
}

func (t *Terminal) draw(l display.Layout) {
	c := t.canvas
	c.Clear()

	c.SetPen(t.theme.Star)
	for _, p := range l.Stars {
		c.Set(px(p.X), px(p.Y))
	}

	c.SetPen(t.theme.Orbit)
	for _, line := range l.Orbits {
		drawPolyline(c, line)
	}

	for _, d := range l.Discs {
		cx, cy, r := px(d.Center.X), px(d.Center.Y), px(d.Radius)
		if d.Central {
			c.SetPen(t.theme.Primary)
			c.DrawCircle(cx, cy, px(d.Glow))
		}
		c.SetPen(BodyColor(d.Color))
		c.FillCircle(cx, cy, r)
		if len(d.Rings) > 0 {
			c.SetPen(BodyColor(d.RingColor))
			for _, ring := range d.Rings {
				drawPolyline(c, ring)
			}
		}
		if d.Selected {
			c.SetPen(t.theme.Accent)
			c.DrawCircle(cx, cy, r+3)
		}
	}

	if l.Labels {
		c.SetPen(t.theme.Text)
		for _, d := range l.Discs {
			c.Text(px(d.Center.X+d.Radius)+3, px(d.Center.Y), d.Name)
		}
	}
	c.SetPen("")
}

func drawPolyline(c *Canvas, pts []display.Point) {
	for i := 1; i < len(pts); i++ {
		c.DrawLine(px(pts[i-1].X), px(pts[i-1].Y), px(pts[i].X), px(pts[i].Y))
	}
}

// px rounds a layout coordinate to a sub-pixel. Values beyond the int32
// range are clamped so the conversion stays defined.
func px(v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	return int(math.Round(math.Max(math.MinInt32, math.Min(v, math.MaxInt32))))
}
