package board

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point Origin + t·Dir.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// RayCaster turns normalised device coordinates into a world ray. The
// CameraRig is the usual implementation.
type RayCaster interface {
	RayFromNDC(nx, ny float64) (Ray, bool)
}

// Rect is a canvas bounding rectangle in pointer pixels.
type Rect struct {
	Left, Top, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Left+r.Width && y >= r.Top && y <= r.Top+r.Height
}

// Canvas provides the bounding rectangle pointer coordinates are relative to.
type Canvas interface {
	BoundingClientRect() Rect
}

// PlaneIntersector intersects a ray with the horizontal plane world.y = planeY.
type PlaneIntersector func(ray Ray, planeY float64) (r3.Vec, bool)

// parallelEps is the smallest |dir·normal| still treated as crossing the plane.
const parallelEps = 1e-12

// IntersectPlane is the default PlaneIntersector. It misses when the ray is
// parallel to the plane or the plane lies behind the ray origin.
func IntersectPlane(ray Ray, planeY float64) (r3.Vec, bool) {
	normal := r3.Vec{Y: 1}
	denom := r3.Dot(ray.Dir, normal)
	if math.Abs(denom) < parallelEps {
		return r3.Vec{}, false
	}
	t := (planeY - r3.Dot(ray.Origin, normal)) / denom
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return r3.Vec{}, false
	}
	return ray.At(t), true
}

// PickResult is a successful ground pick.
type PickResult struct {
	World WorldPoint
	Grid  GridCell
}

// Picker maps pointer positions to grid cells in the 3D view.
type Picker struct {
	coord     *Coordinator
	caster    RayCaster
	intersect PlaneIntersector
	planeElev float64 // ground plane elevation in elevation units
	log       Logger
}

// NewPicker creates a picker casting rays through caster onto the y=0 plane.
func NewPicker(coord *Coordinator, caster RayCaster, log Logger) *Picker {
	if log == nil {
		log = NopLogger{}
	}
	return &Picker{
		coord:     coord,
		caster:    caster,
		intersect: IntersectPlane,
		log:       log,
	}
}

// SetIntersector replaces the ray/plane primitive. Nil restores the default.
func (p *Picker) SetIntersector(fn PlaneIntersector) {
	if fn == nil {
		fn = IntersectPlane
	}
	p.intersect = fn
}

// SetPlaneElevation moves the pick plane to a terrain elevation (in
// elevation units, scaled by the coordinator's ElevationUnit).
func (p *Picker) SetPlaneElevation(elev float64) {
	p.planeElev = elev
}

// PickGroundSync casts a ray through the pointer and returns the world point
// and cell it hits. It returns false when the pointer is outside the canvas,
// no ray primitive is available, or the ray misses the plane; the caller
// then falls back to its 2D path (see ResolveCell).
func (p *Picker) PickGroundSync(px, py float64, canvas Canvas) (PickResult, bool) {
	if p.caster == nil {
		p.log.Warnf("pick", "degraded_backend: no ray caster")
		return PickResult{}, false
	}
	if canvas == nil {
		return PickResult{}, false
	}
	rect := canvas.BoundingClientRect()
	if !(rect.Width > 0) || !(rect.Height > 0) || !rect.Contains(px, py) {
		return PickResult{}, false
	}

	nx := (px-rect.Left)/rect.Width*2 - 1
	ny := -((py-rect.Top)/rect.Height*2 - 1)
	ray, ok := p.caster.RayFromNDC(nx, ny)
	if !ok {
		return PickResult{}, false
	}
	planeY := p.planeElev * p.coord.Config().ElevationUnit
	hit, ok := p.intersect(ray, planeY)
	if !ok {
		return PickResult{}, false
	}
	return PickResult{
		World: WorldPoint{X: hit.X, Y: hit.Y, Z: hit.Z},
		Grid:  p.coord.WorldToGrid(hit.X, hit.Z),
	}, true
}

// ResolveCell composes the 3D pick with the caller's 2D interaction path: if
// the ray pick misses, fallback2D receives the original pointer position and
// its answer is used as-is.
func (p *Picker) ResolveCell(px, py float64, canvas Canvas, fallback2D func(px, py float64) (GridCell, bool)) (GridCell, bool) {
	if res, ok := p.PickGroundSync(px, py, canvas); ok {
		return res.Grid, true
	}
	if fallback2D == nil {
		return GridCell{}, false
	}
	return fallback2D(px, py)
}
