package display

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/pick"
	"github.com/san-kum/orrery/internal/scene"
)

// Point is a projected position in viewport pixels.
type Point struct {
	X, Y float64
}

// Disc is a projected body.
type Disc struct {
	Name      string
	Center    Point
	Radius    float64
	Depth     float64
	Color     uint32
	Texture   string
	Central   bool
	Glow      float64
	Rings     [][]Point
	RingColor uint32
	Selected  bool
}

// Layout is a frame flattened to 2D, ready for any raster back end.
type Layout struct {
	Width, Height float64
	Stars         []Point
	Orbits        [][]Point
	Discs         []Disc
	Labels        bool
}

// Project flattens a frame for a viewport. Discs are ordered far to near.
// Anything behind the camera is dropped.
func Project(f Frame, vp pick.Viewport) Layout {
	out := Layout{Width: vp.Width, Height: vp.Height, Labels: f.ShowLabels}
	sc, cam := f.Scene, f.Camera
	if !sc.Live() || cam == nil {
		return out
	}

	toScreen := func(p mgl64.Vec3) (Point, bool) {
		ndc, ok := cam.Project(p)
		if !ok {
			return Point{}, false
		}
		x, y := vp.ToScreen(ndc)
		return Point{x, y}, true
	}

	if sc.Stars != nil {
		for _, p := range sc.Stars.Points {
			if sp, ok := toScreen(scene.RotateY(p, sc.Stars.Rotation)); ok {
				out.Stars = append(out.Stars, sp)
			}
		}
	}

	for _, b := range sc.Bodies {
		if b.Orbit == nil || !b.Orbit.Visible {
			continue
		}
		out.Orbits = append(out.Orbits, polyline(b.Orbit.Points, toScreen))
	}

	discAt := func(center mgl64.Vec3, radius float64) (Disc, bool) {
		c, ok := toScreen(center)
		if !ok {
			return Disc{}, false
		}
		return Disc{
			Center: c,
			Radius: screenRadius(cam, center, radius, c, toScreen),
			Depth:  center.Sub(cam.Position).Len(),
		}, true
	}

	if sun := sc.Sun; sun != nil {
		if d, ok := discAt(mgl64.Vec3{}, sun.Descriptor.Radius); ok {
			d.Name, d.Color, d.Texture, d.Central = sun.Name(), sun.Material.Color, sun.Material.Texture, true
			d.Glow = d.Radius * scene.GlowRadius / sun.Descriptor.Radius
			out.Discs = append(out.Discs, d)
		}
	}
	for _, b := range sc.Bodies {
		d, ok := discAt(b.Position, b.Descriptor.Radius)
		if !ok {
			continue
		}
		d.Name, d.Color, d.Texture = b.Name(), b.Material.Color, b.Material.Texture
		if b.Ring != nil {
			inner, outer := b.Ring.Outline(b.Position)
			d.Rings = [][]Point{polyline(inner, toScreen), polyline(outer, toScreen)}
			d.RingColor = b.Ring.Color
		}
		out.Discs = append(out.Discs, d)
	}
	if f.Selected != "" {
		for i := range out.Discs {
			out.Discs[i].Selected = out.Discs[i].Name == f.Selected
		}
	}

	sort.SliceStable(out.Discs, func(i, j int) bool { return out.Discs[i].Depth > out.Discs[j].Depth })
	return out
}

func polyline(pts []mgl64.Vec3, toScreen func(mgl64.Vec3) (Point, bool)) []Point {
	line := make([]Point, 0, len(pts))
	for _, p := range pts {
		if sp, ok := toScreen(p); ok {
			line = append(line, sp)
		}
	}
	return line
}

func screenRadius(cam *camera.Camera, center mgl64.Vec3, radius float64, c Point, toScreen func(mgl64.Vec3) (Point, bool)) float64 {
	edge, ok := toScreen(center.Add(cam.Right().Mul(radius)))
	if !ok {
		return 0
	}
	dx, dy := edge.X-c.X, edge.Y-c.Y
	return mgl64.Vec2{dx, dy}.Len()
}
