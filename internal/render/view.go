package render

import (
	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
)

// Projector maps world points to screen pixels and gives a painter's depth
// (larger = nearer the viewer, drawn later).
type Projector interface {
	Project(p board.WorldPoint) (x, y float64)
	Depth(p board.WorldPoint) float64
	// PixelsPerWorld is the on-screen size of one world unit on the ground.
	PixelsPerWorld() float64
}

// Viewport is the on-screen rectangle the board is drawn into.
type Viewport struct {
	X, Y, W, H float64
}

// BoundingClientRect implements board.Canvas.
func (v Viewport) BoundingClientRect() board.Rect {
	return board.Rect{Left: v.X, Top: v.Y, Width: v.W, Height: v.H}
}

// OrthoView is the hybrid 3D view: an orthographic top-down camera whose
// image is sheared by Tilt so terrace walls show. It is the board.OrthoCamera
// the CameraRig drives.
type OrthoView struct {
	Viewport Viewport
	Tilt     float64

	frustum board.Frustum
	target  board.WorldPoint
	geo     ebiten.GeoM
	inv     ebiten.GeoM
	scale   float64
	version int
}

// NewOrthoView creates a view over vp. Attach it to a rig before drawing.
func NewOrthoView(vp Viewport, tilt float64) *OrthoView {
	return &OrthoView{Viewport: vp, Tilt: tilt, scale: 1}
}

// SetFrustum implements board.OrthoCamera.
func (v *OrthoView) SetFrustum(f board.Frustum) { v.frustum = f }

// LookAt implements board.OrthoCamera.
func (v *OrthoView) LookAt(target board.WorldPoint) { v.target = target }

// UpdateProjection implements board.OrthoCamera. It maps the frustum onto
// the viewport; vertical scale follows the frustum height so square cells
// stay square when the rig's aspect matches the viewport.
func (v *OrthoView) UpdateProjection() {
	f := v.frustum
	if f.Width() <= 0 || f.Height() <= 0 {
		return
	}
	v.scale = v.Viewport.H / f.Height()
	var g ebiten.GeoM
	g.Translate(-f.Left, -f.Top)
	g.Scale(v.Viewport.W/f.Width(), v.scale)
	g.Translate(v.Viewport.X, v.Viewport.Y)
	v.geo = g
	v.inv = g
	v.inv.Invert()
	v.version++
}

// ScreenToGround maps a screen pixel onto the ground plane (y = 0) of the
// current frame. It works for pixels outside the viewport too.
func (v *OrthoView) ScreenToGround(px, py float64) (x, z float64) {
	return v.inv.Apply(px, py)
}

// Version increments every time the projection changes.
func (v *OrthoView) Version() int { return v.version }

// Target returns the last LookAt point.
func (v *OrthoView) Target() board.WorldPoint { return v.target }

// Project implements Projector.
func (v *OrthoView) Project(p board.WorldPoint) (float64, float64) {
	return v.geo.Apply(p.X, p.Z-v.Tilt*p.Y)
}

// Depth implements Projector.
func (v *OrthoView) Depth(p board.WorldPoint) float64 {
	return p.Z + v.Tilt*p.Y
}

// PixelsPerWorld implements Projector.
func (v *OrthoView) PixelsPerWorld() float64 { return v.scale }

// IsoView is the 2D isometric view. It reuses the coordinator's isometric
// mapping and the rig's target and zoom so both views pan and zoom together.
type IsoView struct {
	Viewport    Viewport
	ElevationPx float64 // screen pixels per elevation step at zoom 1

	coord   *board.Coordinator
	rig     *board.CameraRig
	geo     ebiten.GeoM
	inv     ebiten.GeoM
	zoom    float64
	last    board.CameraState
	version int
}

// NewIsoView creates an isometric view bound to coord and rig.
func NewIsoView(vp Viewport, coord *board.Coordinator, rig *board.CameraRig, elevationPx float64) *IsoView {
	v := &IsoView{Viewport: vp, ElevationPx: elevationPx, coord: coord, rig: rig}
	v.Update()
	return v
}

// Update recomputes the pan/zoom transform from the rig.
func (v *IsoView) Update() {
	st := v.rig.State()
	if v.version > 0 && st == v.last {
		return
	}
	v.last = st
	v.version++
	tile := v.coord.Config().TileWorldSize
	c := v.coord.GridPointToScreen(board.ProjectionIsometric, st.TargetX/tile, st.TargetZ/tile)
	var g ebiten.GeoM
	g.Translate(-c.X, -c.Y)
	g.Scale(st.Zoom, st.Zoom)
	g.Translate(v.Viewport.X+v.Viewport.W/2, v.Viewport.Y+v.Viewport.H/2)
	v.geo = g
	v.inv = g
	v.inv.Invert()
	v.zoom = st.Zoom
}

// Version increments every time Update sees a new camera state.
func (v *IsoView) Version() int { return v.version }

// Zoom returns the zoom applied by the last Update.
func (v *IsoView) Zoom() float64 { return v.zoom }

// LayoutToScreen maps a point in the coordinator's layout space to pixels.
func (v *IsoView) LayoutToScreen(p board.ScreenPoint) (float64, float64) {
	return v.geo.Apply(p.X, p.Y)
}

// ScreenToGrid is the 2D pointer path: undo pan/zoom, then invert the
// isometric mapping to the nearest cell.
func (v *IsoView) ScreenToGrid(sx, sy float64) (board.GridCell, bool) {
	lx, ly := v.inv.Apply(sx, sy)
	return v.coord.ScreenToGrid(lx, ly), true
}

// Project implements Projector.
func (v *IsoView) Project(p board.WorldPoint) (float64, float64) {
	cfg := v.coord.Config()
	s := v.coord.GridPointToScreen(board.ProjectionIsometric, p.X/cfg.TileWorldSize, p.Z/cfg.TileWorldSize)
	return v.geo.Apply(s.X, s.Y-p.Y/cfg.ElevationUnit*v.ElevationPx)
}

// Depth implements Projector.
func (v *IsoView) Depth(p board.WorldPoint) float64 {
	return p.X + p.Z + 0.01*p.Y
}

// PixelsPerWorld implements Projector.
func (v *IsoView) PixelsPerWorld() float64 {
	l := v.coord.Layout()
	return l.IsoTileHeight * v.zoom / v.coord.Config().TileWorldSize
}
