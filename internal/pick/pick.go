// Package pick resolves pointer positions into scene entities by casting a
// ray from the camera through the pointer and testing it against each
// candidate's bounding sphere.
package pick

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/scene"
)

// Viewport is the drawable area in pixels, origin top-left.
type Viewport struct {
	Width, Height float64
}

// Contains reports whether a pointer position lies inside the viewport.
func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= v.Width && y <= v.Height
}

func (v Viewport) degenerate() bool {
	return !(v.Width > 0) || !(v.Height > 0)
}

// NDC converts a pointer position into normalized device coordinates.
// Screen Y grows downwards while NDC Y grows upwards.
func NDC(x, y float64, vp Viewport) (mgl64.Vec2, bool) {
	if vp.degenerate() || math.IsNaN(x) || math.IsNaN(y) || !vp.Contains(x, y) {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{
		x/vp.Width*2 - 1,
		-(y/vp.Height)*2 + 1,
	}, true
}

// ToScreen maps normalized device coordinates back to pointer coordinates.
func (v Viewport) ToScreen(ndc mgl64.Vec3) (x, y float64) {
	return (ndc.X() + 1) / 2 * v.Width, (1 - ndc.Y()) / 2 * v.Height
}

// Ray is a half-line. Dir is unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// RayFromCamera builds the pick ray through an NDC point.
func RayFromCamera(ndc mgl64.Vec2, cam *camera.Camera) (Ray, bool) {
	vp := cam.ViewProjection()
	if math.Abs(vp.Det()) < 1e-12 {
		return Ray{}, false
	}
	inv := vp.Inv()
	far := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 1, 1})
	if far.W() == 0 {
		return Ray{}, false
	}
	p := far.Vec3().Mul(1 / far.W())
	dir := p.Sub(cam.Position)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: cam.Position, Dir: dir.Normalize()}, true
}

// IntersectSphere returns the smallest positive distance at which the ray
// enters or, when starting inside, leaves the sphere.
func (r Ray) IntersectSphere(s scene.Sphere) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t > 0 {
		return t, true
	}
	if t := -b + sq; t > 0 {
		return t, true
	}
	return 0, false
}

// Hit is one intersected candidate.
type Hit struct {
	Entity   scene.Pickable
	Distance float64
}

// Cast tests every candidate and returns the nearest hit.
func Cast(r Ray, candidates []scene.Pickable) (Hit, bool) {
	var (
		best  Hit
		found bool
	)
	for _, c := range candidates {
		if c == nil {
			continue
		}
		t, ok := r.IntersectSphere(c.Bounds())
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Entity: c, Distance: t}
			found = true
		}
	}
	return best, found
}

// Pick returns the entity under the pointer, if any. Positions outside the
// viewport never match.
func Pick(x, y float64, vp Viewport, cam *camera.Camera, candidates []scene.Pickable) (scene.Pickable, bool) {
	if cam == nil {
		return nil, false
	}
	ndc, ok := NDC(x, y, vp)
	if !ok {
		return nil, false
	}
	r, ok := RayFromCamera(ndc, cam)
	if !ok {
		return nil, false
	}
	hit, ok := Cast(r, candidates)
	if !ok {
		return nil, false
	}
	return hit.Entity, true
}
