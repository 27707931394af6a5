package board

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frustum is an orthographic view volume's ground-plane extent in world
// units. Top is the edge at the top of the screen (smaller Z).
type Frustum struct {
	Left, Right, Top, Bottom float64
}

// Width returns Right-Left.
func (f Frustum) Width() float64 { return f.Right - f.Left }

// Height returns Bottom-Top.
func (f Frustum) Height() float64 { return f.Bottom - f.Top }

// OrthoCamera is the injected camera handle the rig drives.
type OrthoCamera interface {
	SetFrustum(f Frustum)
	LookAt(target WorldPoint)
	UpdateProjection()
}

// CameraLimits configures a CameraRig.
type CameraLimits struct {
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64 // multiplicative step for ZoomIn/ZoomOut
	BaseSpan float64 // half-height of the view in world units at zoom 1
	Aspect   float64 // viewport width / height
	Height   float64 // eye height above the ground plane
	Tilt     float64 // screen-up shift per unit of height; 0 = straight down
}

// DefaultCameraLimits matches the viewer's defaults.
var DefaultCameraLimits = CameraLimits{
	MinZoom:  0.5,
	MaxZoom:  4,
	ZoomStep: 1.1,
	BaseSpan: 12,
	Aspect:   16.0 / 9.0,
	Height:   100,
}

// CameraState is the rig's mutable pan/zoom state.
type CameraState struct {
	TargetX, TargetZ float64
	Zoom             float64
	BaseSpan         float64
}

// CameraRig manages top-down orthographic pan and zoom. Zoom is a
// magnification: the visible half-height is BaseSpan/Zoom.
type CameraRig struct {
	cam    OrthoCamera
	state  CameraState
	limits CameraLimits
}

// NewCameraRig creates a rig at zoom 1 (clamped) looking at the origin.
func NewCameraRig(limits CameraLimits) *CameraRig {
	if !(limits.MinZoom > 0) {
		limits.MinZoom = DefaultCameraLimits.MinZoom
	}
	if limits.MaxZoom < limits.MinZoom {
		limits.MaxZoom = limits.MinZoom
	}
	if !(limits.ZoomStep > 1) {
		limits.ZoomStep = DefaultCameraLimits.ZoomStep
	}
	if !(limits.BaseSpan > 0) {
		limits.BaseSpan = DefaultCameraLimits.BaseSpan
	}
	if !(limits.Aspect > 0) {
		limits.Aspect = 1
	}
	if !(limits.Height > 0) {
		limits.Height = DefaultCameraLimits.Height
	}
	if limits.Tilt < 0 {
		limits.Tilt = 0
	}
	r := &CameraRig{limits: limits}
	r.state = CameraState{Zoom: r.clamp(1), BaseSpan: limits.BaseSpan}
	return r
}

// Attach binds the rig to cam and applies the current pan/zoom immediately.
func (r *CameraRig) Attach(cam OrthoCamera) {
	r.cam = cam
	r.apply(true)
}

// State returns a copy of the pan/zoom state.
func (r *CameraRig) State() CameraState { return r.state }

// Limits returns the rig configuration.
func (r *CameraRig) Limits() CameraLimits { return r.limits }

func (r *CameraRig) clamp(z float64) float64 {
	if math.IsNaN(z) {
		return r.limits.MinZoom
	}
	return math.Max(r.limits.MinZoom, math.Min(r.limits.MaxZoom, z))
}

// SetZoom clamps z to [MinZoom, MaxZoom] and recomputes the frustum.
// Zoom is a magnification: the visible half-height is BaseSpan/Zoom, so
// zoom 2 shows half the span that zoom 1 does.
func (r *CameraRig) SetZoom(z float64) {
	r.state.Zoom = r.clamp(z)
	r.apply(false)
}

// ZoomIn magnifies by one step.
func (r *CameraRig) ZoomIn() { r.SetZoom(r.state.Zoom * r.limits.ZoomStep) }

// ZoomOut shrinks by one step.
func (r *CameraRig) ZoomOut() { r.SetZoom(r.state.Zoom / r.limits.ZoomStep) }

// Pan moves the target by (dx, dz) world units and re-aims the camera.
func (r *CameraRig) Pan(dx, dz float64) {
	r.state.TargetX += dx
	r.state.TargetZ += dz
	r.apply(true)
}

// CenterOn moves the target to (x, z).
func (r *CameraRig) CenterOn(x, z float64) {
	r.state.TargetX = x
	r.state.TargetZ = z
	r.apply(true)
}

// SetAspect updates the viewport aspect ratio (width/height).
func (r *CameraRig) SetAspect(aspect float64) {
	if !(aspect > 0) {
		return
	}
	r.limits.Aspect = aspect
	r.apply(false)
}

// Frustum returns the current view extent around the target.
func (r *CameraRig) Frustum() Frustum {
	halfH := r.state.BaseSpan / r.state.Zoom
	halfW := halfH * r.limits.Aspect
	return Frustum{
		Left:   r.state.TargetX - halfW,
		Right:  r.state.TargetX + halfW,
		Top:    r.state.TargetZ - halfH,
		Bottom: r.state.TargetZ + halfH,
	}
}

func (r *CameraRig) apply(aim bool) {
	if r.cam == nil {
		return
	}
	r.cam.SetFrustum(r.Frustum())
	if aim {
		r.cam.LookAt(WorldPoint{X: r.state.TargetX, Z: r.state.TargetZ})
	}
	r.cam.UpdateProjection()
}

// RayFromNDC builds the pick ray for normalised device coordinates (x right,
// y up, both in [-1,1]). With Tilt 0 the ray points straight down; otherwise
// it leans so that every point on it lands on the same pixel of the tilted
// view, and it crosses y=0 at the ground point under the pointer.
func (r *CameraRig) RayFromNDC(nx, ny float64) (Ray, bool) {
	f := r.Frustum()
	x := f.Left + (nx+1)/2*f.Width()
	z := f.Top + (1-ny)/2*f.Height()
	h := r.limits.Height
	tilt := r.limits.Tilt
	return Ray{
		Origin: r3.Vec{X: x, Y: h, Z: z + tilt*h},
		Dir:    r3.Vec{Y: -1, Z: -tilt},
	}, true
}
