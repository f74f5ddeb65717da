package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viz"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgHeader(sb *strings.Builder, width, height float64, bg color.RGBA) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(bg))
}

// CanvasToSVG converts a braille canvas to SVG, one dot per lit sub-pixel
// in the cell's pen color.
func CanvasToSVG(canvas *viz.Canvas, scale float64, pal Palette) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.PixelSize()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	svgHeader(&sb, width, height, pal.Background)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := string(canvas.Colors[row][col])
			if fill == "" {
				fill = hex(pal.Label)
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill)
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PathPoint is one vertex of a plotted path.
type PathPoint struct{ X, Y float64 }

// PathToSVG plots a path scaled to fit the image with 10% padding.
func PathToSVG(points []PathPoint, width, height int, stroke string, pal Palette) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height), pal.Background)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

// OrbitDiagram draws the scene from above: orbit circles, the sun and each
// body at its current angle, scaled so the outermost orbit fits.
func OrbitDiagram(sc *scene.Scene, size int, labels bool, pal Palette) string {
	if !sc.Live() || size <= 0 {
		return ""
	}

	extent := 0.0
	if sc.Sun != nil {
		extent = sc.Sun.Descriptor.Radius
	}
	for _, b := range sc.Bodies {
		extent = math.Max(extent, b.Descriptor.Distance+b.Descriptor.Radius)
	}
	if extent == 0 {
		extent = 1
	}
	half := float64(size) / 2
	scale := half * 0.92 / extent

	var sb strings.Builder
	svgHeader(&sb, float64(size), float64(size), pal.Background)

	fmt.Fprintf(&sb, "<g fill=\"none\" stroke=\"%s\" stroke-width=\"1\">\n", hex(pal.Orbit))
	for _, b := range sc.Bodies {
		if b.Orbit != nil && !b.Orbit.Visible {
			continue
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", half, half, b.Descriptor.Distance*scale)
	}
	sb.WriteString("</g>\n")

	dot := func(name string, x, z, r float64, c uint32) {
		cx, cy := half+x*scale, half+z*scale
		fmt.Fprintf(&sb, "<circle id=\"%s\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			strings.ToLower(name), cx, cy, math.Max(r*scale, 1.5), hex(RGB(c)))
		if labels {
			fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" font-family=\"sans-serif\" font-size=\"11\" fill=\"%s\">%s</text>\n",
				cx+math.Max(r*scale, 1.5)+3, cy-3, hex(pal.Label), name)
		}
	}
	if sc.Sun != nil {
		dot(sc.Sun.Name(), 0, 0, sc.Sun.Descriptor.Radius, sc.Sun.Material.Color)
	}
	for _, b := range sc.Bodies {
		dot(b.Name(), b.Position.X(), b.Position.Z(), b.Descriptor.Radius, b.Material.Color)
		if b.Ring != nil {
			fmt.Fprintf(&sb, "<ellipse cx=\"%.1f\" cy=\"%.1f\" rx=\"%.1f\" ry=\"%.1f\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%.1f\"/>\n",
				half+b.Position.X()*scale, half+b.Position.Z()*scale,
				(b.Ring.Inner+b.Ring.Outer)/2*scale, (b.Ring.Inner+b.Ring.Outer)/2*scale, hex(RGB(b.Ring.Color)), scene.RingOpacity)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
