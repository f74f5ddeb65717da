package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/orrery/internal/display"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/pick"
	"github.com/san-kum/orrery/internal/prefs"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	labelSize   = 12
	circleSteps = 48
	glowAlpha   = 0x40

	// maxExtent skips shapes projected from points near the camera plane.
	maxExtent = 1 << 14
)

// Palette holds the non-body colors of a raster frame.
type Palette struct {
	Background color.RGBA
	Orbit      color.RGBA
	Star       color.RGBA
	Label      color.RGBA
	Highlight  color.RGBA
}

var (
	PaletteDark = Palette{
		Background: color.RGBA{0x0a, 0x0a, 0x12, 0xff},
		Orbit:      color.RGBA{0x44, 0x44, 0x66, 0xff},
		Star:       color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		Label:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		Highlight:  color.RGBA{0xff, 0x88, 0xff, 0xff},
	}
	PaletteLight = Palette{
		Background: color.RGBA{0xf4, 0xf4, 0xf8, 0xff},
		Orbit:      color.RGBA{0xb0, 0xb0, 0xc0, 0xff},
		Star:       color.RGBA{0x88, 0x88, 0x88, 0xff},
		Label:      color.RGBA{0x1a, 0x1a, 0x1a, 0xff},
		Highlight:  color.RGBA{0xa0, 0x20, 0x8a, 0xff},
	}
)

func PaletteFor(t prefs.Theme) Palette {
	if t == prefs.Dark {
		return PaletteDark
	}
	return PaletteLight
}

// RGB converts a 0xRRGGBB body color.
func RGB(c uint32) color.RGBA {
	return color.RGBA{uint8(c >> 16), uint8(c >> 8), uint8(c), 0xff}
}

// Image is an offscreen display surface that rasterizes frames into an
// RGBA buffer.
type Image struct {
	width, height int
	palette       Palette
	textureDir    string

	scene    *scene.Scene
	img      *image.RGBA
	rast     *vector.Rasterizer
	textures map[string]image.Image
	frames   int
}

func NewImage(width, height int, palette Palette) *Image {
	return &Image{
		width:    width,
		height:   height,
		palette:  palette,
		textures: make(map[string]image.Image),
	}
}

// SetTextureDir points texture lookups at a directory. Bodies whose
// texture cannot be read there are drawn in their flat color.
func (m *Image) SetTextureDir(dir string) { m.textureDir = dir }

func (m *Image) Available() error {
	if m.width <= 0 || m.height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", scene.ErrRenderingUnavailable, m.width, m.height)
	}
	return nil
}

func (m *Image) Mount(s *scene.Scene) error {
	m.scene = s
	return nil
}

func (m *Image) Resize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.img, m.rast = nil, nil
}

func (m *Image) Viewport() pick.Viewport {
	return pick.Viewport{Width: float64(m.width), Height: float64(m.height)}
}

func (m *Image) Frames() int { return m.frames }

// Image returns the last rendered frame, or nil before the first render.
func (m *Image) Image() *image.RGBA { return m.img }

func (m *Image) Render(f display.Frame) error {
	if err := m.Available(); err != nil {
		return err
	}
	if f.Scene != m.scene {
		return fmt.Errorf("export: frame %d: scene is not mounted", f.Number)
	}
	if m.img == nil {
		m.img = image.NewRGBA(image.Rect(0, 0, m.width, m.height))
		m.rast = vector.NewRasterizer(m.width, m.height)
	}
	m.draw(display.Project(f, m.Viewport()))
	m.frames++
	return nil
}

// WritePNG encodes the last rendered frame.
func (m *Image) WritePNG(w io.Writer) error {
	if m.img == nil {
		return fmt.Errorf("export: nothing rendered")
	}
	return png.Encode(w, m.img)
}

func (m *Image) draw(lay display.Layout) {
	dst := m.img
	draw.Draw(dst, dst.Bounds(), image.NewUniform(m.palette.Background), image.Point{}, draw.Src)

	for _, s := range lay.Stars {
		x, y := int(s.X), int(s.Y)
		if image.Pt(x, y).In(dst.Bounds()) {
			dst.SetRGBA(x, y, m.palette.Star)
		}
	}
	for _, orbit := range lay.Orbits {
		m.polyline(orbit, 1, m.palette.Orbit)
	}

	for _, d := range lay.Discs {
		if d.Radius <= 0 {
			continue
		}
		base := RGB(d.Color)
		if d.Glow > d.Radius {
			glow := color.NRGBA{base.R, base.G, base.B, glowAlpha}
			m.circle(d.Center, d.Glow, glow)
		}
		if tex := m.texture(d.Texture); tex != nil {
			m.texturedDisc(d, tex)
		} else {
			m.circle(d.Center, d.Radius, base)
		}
		if len(d.Rings) > 0 {
			rc := RGB(d.RingColor)
			ringColor := color.NRGBA{rc.R, rc.G, rc.B, uint8(math.Round(scene.RingOpacity * 0xff))}
			for _, ring := range d.Rings {
				m.polyline(ring, 1.5, ringColor)
			}
		}
		if d.Selected {
			m.ring(d.Center, d.Radius+3, 1.5, m.palette.Highlight)
		}
	}

	if lay.Labels {
		face := labelFace()
		for _, d := range lay.Discs {
			dr := font.Drawer{
				Dst:  dst,
				Src:  image.NewUniform(m.palette.Label),
				Face: face,
				Dot:  fixed.P(int(d.Center.X+d.Radius+4), int(d.Center.Y-d.Radius-2)),
			}
			dr.DrawString(d.Name)
		}
	}
}

func (m *Image) fill(c color.Color) {
	m.rast.DrawOp = draw.Over
	m.rast.Draw(m.img, m.img.Bounds(), image.NewUniform(c), image.Point{})
	m.rast.Reset(m.width, m.height)
}

func (m *Image) circle(center display.Point, r float64, c color.Color) {
	if !(r <= maxExtent) {
		return
	}
	m.rast.MoveTo(float32(center.X+r), float32(center.Y))
	for i := 1; i < circleSteps; i++ {
		a := 2 * math.Pi * float64(i) / circleSteps
		m.rast.LineTo(float32(center.X+r*math.Cos(a)), float32(center.Y+r*math.Sin(a)))
	}
	m.rast.ClosePath()
	m.fill(c)
}

// ring strokes a circle outline as an annulus; inner path runs backwards
// so the non-zero fill leaves the hole empty.
func (m *Image) ring(center display.Point, r, width float64, c color.Color) {
	if !(r <= maxExtent) {
		return
	}
	outer, inner := r+width/2, math.Max(r-width/2, 0)
	m.rast.MoveTo(float32(center.X+outer), float32(center.Y))
	for i := 1; i < circleSteps; i++ {
		a := 2 * math.Pi * float64(i) / circleSteps
		m.rast.LineTo(float32(center.X+outer*math.Cos(a)), float32(center.Y+outer*math.Sin(a)))
	}
	m.rast.ClosePath()
	m.rast.MoveTo(float32(center.X+inner), float32(center.Y))
	for i := circleSteps - 1; i > 0; i-- {
		a := 2 * math.Pi * float64(i) / circleSteps
		m.rast.LineTo(float32(center.X+inner*math.Cos(a)), float32(center.Y+inner*math.Sin(a)))
	}
	m.rast.ClosePath()
	m.fill(c)
}

func (m *Image) polyline(pts []display.Point, width float64, c color.Color) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 || l > maxExtent {
			continue
		}
		nx, ny := -dy/l*width/2, dx/l*width/2
		m.rast.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		m.rast.LineTo(float32(b.X+nx), float32(b.Y+ny))
		m.rast.LineTo(float32(b.X-nx), float32(b.Y-ny))
		m.rast.LineTo(float32(a.X-nx), float32(a.Y-ny))
		m.rast.ClosePath()
	}
	m.fill(c)
}

// texturedDisc maps an equirectangular texture onto the visible hemisphere.
func (m *Image) texturedDisc(d display.Disc, tex image.Image) {
	tb := tex.Bounds()
	r := d.Radius
	x0, x1 := int(math.Floor(d.Center.X-r)), int(math.Ceil(d.Center.X+r))
	y0, y1 := int(math.Floor(d.Center.Y-r)), int(math.Ceil(d.Center.Y+r))
	bounds := m.img.Bounds()
	for y := max(y0, bounds.Min.Y); y < min(y1, bounds.Max.Y); y++ {
		for x := max(x0, bounds.Min.X); x < min(x1, bounds.Max.X); x++ {
			nx := (float64(x) + 0.5 - d.Center.X) / r
			ny := (float64(y) + 0.5 - d.Center.Y) / r
			rr := nx*nx + ny*ny
			if rr > 1 {
				continue
			}
			nz := math.Sqrt(1 - rr)
			u := 0.5 + math.Atan2(nx, nz)/(2*math.Pi)
			v := 0.5 + math.Asin(ny)/math.Pi
			tx := tb.Min.X + min(int(u*float64(tb.Dx())), tb.Dx()-1)
			ty := tb.Min.Y + min(int(v*float64(tb.Dy())), tb.Dy()-1)
			m.img.Set(x, y, tex.At(tx, ty))
		}
	}
}

// texture loads a body texture once. Failures are cached as nil and
// logged so the body falls back to its flat color.
func (m *Image) texture(name string) image.Image {
	if name == "" {
		return nil
	}
	if tex, ok := m.textures[name]; ok {
		return tex
	}
	tex, err := loadTexture(filepath.Join(m.textureDir, name))
	if err != nil {
		logging.L().Warn("texture unavailable, using flat color", "texture", name, "err", err)
	}
	m.textures[name] = tex
	return tex
}

func loadTexture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

var (
	faceOnce sync.Once
	face     font.Face
)

func labelFace() font.Face {
	faceOnce.Do(func() {
		face = basicfont.Face7x13
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			logging.L().Warn("label font unavailable", "err", err)
			return
		}
		f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    labelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			logging.L().Warn("label font unavailable", "err", err)
			return
		}
		face = f
	})
	return face
}
