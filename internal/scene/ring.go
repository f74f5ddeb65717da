package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Outline returns the inner and outer edges of the ring in world space,
// centered on the owning body's position. Each edge is a closed polyline.
func (r *Ring) Outline(center mgl64.Vec3) (inner, outer []mgl64.Vec3) {
	rot := mgl64.Rotate3DX(r.Tilt)
	edge := func(radius float64) []mgl64.Vec3 {
		pts := make([]mgl64.Vec3, r.Segments+1)
		for i := 0; i <= r.Segments; i++ {
			a := float64(i) / float64(r.Segments) * 2 * math.Pi
			// rings start in the local XY plane
			local := mgl64.Vec3{math.Cos(a) * radius, math.Sin(a) * radius, 0}
			pts[i] = center.Add(rot.Mul3x1(local))
		}
		return pts
	}
	return edge(r.Inner), edge(r.Outer)
}

// RotateY turns a point about the world Y axis.
func RotateY(p mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(angle).Mul3x1(p)
}
