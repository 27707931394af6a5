package render

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
)

// rebuildDelay is how many ticks terrain edits are coalesced before the
// mesh is rebuilt.
const rebuildDelay = 6

// pickPasses bounds the plane-elevation refinement of a 3D pick.
const pickPasses = 3

// ViewerConfig describes a viewer session.
type ViewerConfig struct {
	Width, Height int
	Cols, Rows    int
	Seed          int64
	HardEdges     bool
	Projection    board.Projection
	Styles        board.StyleTable
	Terrain       board.TerrainConfig
	Tilt          float64 // oblique shear of the 3D view
}

// DefaultViewerConfig is a 40x30 board in a 1280x800 window.
var DefaultViewerConfig = ViewerConfig{
	Width:      1280,
	Height:     800,
	Cols:       40,
	Rows:       30,
	Seed:       42,
	HardEdges:  true,
	Projection: board.ProjectionTopDown,
	Styles:     board.DefaultStyles,
	Terrain:    board.DefaultTerrainConfig,
	Tilt:       0.35,
}

// Viewer is the interactive board editor. It implements ebiten.Game.
type Viewer struct {
	cfg     ViewerConfig
	session *board.Session
	log     *board.EventLog
	hm      *board.Heightmap
	backend *Backend
	ortho   *OrthoView
	iso     *IsoView
	mesh    MeshRenderer
	rng     *rand.Rand

	placed    []*board.Placeable
	rebuildIn int // ticks until a pending rebuild; 0 = none
	rebuilds  int

	hover        board.GridCell
	hoverOK      bool
	hoverVisible bool // lead token can see hover
	status       string
	showHUD      bool

	prevKeys  map[ebiten.Key]bool
	prevMouse map[ebiten.MouseButton]bool
}

// NewViewer builds the session, terrain and views for cfg.
func NewViewer(cfg ViewerConfig) (*Viewer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("viewer %dx%d board %dx%d: %w", cfg.Width, cfg.Height, cfg.Cols, cfg.Rows, board.ErrInvalidConfig)
	}
	if cfg.Styles == nil {
		cfg.Styles = board.DefaultStyles
	}

	vp := Viewport{W: float64(cfg.Width), H: float64(cfg.Height)}
	limits := board.DefaultCameraLimits
	limits.Aspect = vp.W / vp.H
	limits.Tilt = cfg.Tilt

	el := board.NewEventLog(log.Default())
	backend := NewBackend()
	s, err := board.NewSession(
		board.WithFactory(backend),
		board.WithLogger(el),
		board.WithStyleTable(cfg.Styles),
		board.WithCameraLimits(limits),
		board.WithProjection(cfg.Projection),
	)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:       cfg,
		session:   s,
		log:       el,
		hm:        board.NewHeightmap(cfg.Cols, cfg.Rows),
		backend:   backend,
		ortho:     NewOrthoView(vp, cfg.Tilt),
		rng:       rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- deterministic terrain, not security
		showHUD:   true,
		prevKeys:  map[ebiten.Key]bool{},
		prevMouse: map[ebiten.MouseButton]bool{},
	}
	board.GenerateTerrain(v.hm, v.rng, cfg.Terrain)

	s.Camera.Attach(v.ortho)
	tile := s.Coord.Config().TileWorldSize
	s.Camera.CenterOn(float64(cfg.Cols-1)/2*tile, float64(cfg.Rows-1)/2*tile)
	v.iso = NewIsoView(vp, s.Coord, s.Camera, 16)

	v.seedTokens()
	v.rebuild()
	return v, nil
}

// Session exposes the underlying board session.
func (v *Viewer) Session() *board.Session { return v.session }

// tokenLift is the sprite lift of seeded tokens, in layout pixels.
const tokenLift = -8

func (v *Viewer) seedTokens() {
	mid := board.GridCell{X: v.cfg.Cols / 2, Y: v.cfg.Rows / 2}
	v.session.AddToken("alpha", mid, tokenLift)
	v.session.AddToken("bravo", board.GridCell{X: mid.X + 3, Y: mid.Y + 1}, tokenLift)
}

func (v *Viewer) rebuild() {
	v.mesh.SetGeometry(v.session.BuildTerrain(v.hm, v.cfg.HardEdges))
	v.rebuilds++
}

// scheduleRebuild arms the debounce timer without extending a pending one.
func (v *Viewer) scheduleRebuild() {
	if v.rebuildIn == 0 {
		v.rebuildIn = rebuildDelay
	}
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	v.handleInput()
	v.tick()
	return nil
}

// tick advances the rebuild debounce and commits instance writes.
func (v *Viewer) tick() {
	if v.rebuildIn > 0 {
		v.rebuildIn--
		if v.rebuildIn == 0 {
			v.rebuild()
		}
	}
	v.iso.Update()
	v.session.Pool.Flush()
}

func (v *Viewer) keyPressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !v.prevKeys[k]
}

func (v *Viewer) mousePressed(cur map[ebiten.MouseButton]bool, b ebiten.MouseButton) bool {
	cur[b] = ebiten.IsMouseButtonPressed(b)
	return cur[b] && !v.prevMouse[b]
}

func (v *Viewer) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	currentMouse := map[ebiten.MouseButton]bool{}
	rig := v.session.Camera

	// Camera pan: WASD or arrow keys, slower when zoomed in.
	st := rig.State()
	pan := st.BaseSpan / st.Zoom * 0.02
	var dx, dz float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dz -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dz += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += pan
	}
	if dx != 0 || dz != 0 {
		rig.Pan(dx, dz)
	}

	// Zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		rig.SetZoom(st.Zoom * math.Pow(rig.Limits().ZoomStep, wy))
	}
	if v.keyPressed(currentKeys, ebiten.KeyEqual) {
		rig.ZoomIn()
	}
	if v.keyPressed(currentKeys, ebiten.KeyMinus) {
		rig.ZoomOut()
	}

	if v.keyPressed(currentKeys, ebiten.KeyTab) {
		m := v.session.ToggleMode()
		v.status = "projection: " + m.String()
	}
	if v.keyPressed(currentKeys, ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}

	mx, my := ebiten.CursorPosition()
	v.hover, v.hoverOK = v.pickCell(float64(mx), float64(my))
	v.hoverVisible = v.hoverOK && v.leadCanSee(v.hover)

	if v.mousePressed(currentMouse, ebiten.MouseButtonLeft) && v.hoverOK {
		v.editHeight(v.hover, 1)
	}
	if v.mousePressed(currentMouse, ebiten.MouseButtonRight) && v.hoverOK {
		v.editHeight(v.hover, -1)
	}
	if v.keyPressed(currentKeys, ebiten.KeyT) && v.hoverOK {
		v.place("tree", v.hover)
	}
	if v.keyPressed(currentKeys, ebiten.KeyR) && v.hoverOK {
		v.place("rock", v.hover)
	}
	if v.keyPressed(currentKeys, ebiten.KeyX) {
		v.removeLast()
	}
	if v.keyPressed(currentKeys, ebiten.KeyM) && v.hoverOK {
		if toks := v.session.Tokens(); len(toks) > 0 {
			v.session.MoveToken(toks[0], v.hover)
			v.status = fmt.Sprintf("moved %s to (%d,%d)", toks[0].ID, v.hover.X, v.hover.Y)
		}
	}
	if v.keyPressed(currentKeys, ebiten.KeyC) {
		v.copyReport()
	}

	v.prevKeys = currentKeys
	v.prevMouse = currentMouse
}

// pickCell resolves the cell under the pointer for the active projection.
// In the 3D view the ray is re-cast against the plane at the last hit's
// ground height until the cell stops changing.
func (v *Viewer) pickCell(px, py float64) (board.GridCell, bool) {
	if v.session.Mode() == board.ProjectionIsometric {
		c, ok := v.iso.ScreenToGrid(px, py)
		return c, ok && v.hm.InBounds(c.X, c.Y)
	}

	picker := v.session.Picker
	defer picker.SetPlaneElevation(0)
	picker.SetPlaneElevation(0)
	var cell board.GridCell
	ok := false
	for i := 0; i < pickPasses; i++ {
		c, hit := picker.ResolveCell(px, py, v.ortho.Viewport, v.groundCell)
		if !hit {
			break
		}
		if ok && c == cell {
			break
		}
		cell, ok = c, true
		picker.SetPlaneElevation(v.hm.Height(c.X, c.Y))
	}
	return cell, ok && v.hm.InBounds(cell.X, cell.Y)
}

// groundCell is the 3D view's 2D path: the top-down frame inverted onto the
// ground plane.
func (v *Viewer) groundCell(px, py float64) (board.GridCell, bool) {
	x, z := v.ortho.ScreenToGround(px, py)
	return v.session.Coord.WorldToGrid(x, z), true
}

// leadCanSee reports whether the first token has line of sight to c.
func (v *Viewer) leadCanSee(c board.GridCell) bool {
	toks := v.session.Tokens()
	if len(toks) == 0 {
		return false
	}
	return board.LineOfSight(v.hm, toks[0].Cell, c, sightEye)
}

func (v *Viewer) editHeight(c board.GridCell, delta float64) {
	h := v.hm.Raise(c.X, c.Y, delta)
	for _, p := range v.placed {
		if p.Cell == c {
			p.Elevation = h
			v.session.Pool.Update(p)
		}
	}
	v.status = fmt.Sprintf("cell (%d,%d) height %.0f", c.X, c.Y, h)
	v.scheduleRebuild()
}

func (v *Viewer) place(typeKey string, c board.GridCell) {
	p := &board.Placeable{
		Type:      typeKey,
		Cell:      c,
		Elevation: v.hm.Height(c.X, c.Y),
		Rotation:  v.rng.Float64() * 2 * math.Pi,
	}
	if _, ok := v.session.Pool.Add(p); !ok {
		v.status = "no graphics backend"
		return
	}
	v.placed = append(v.placed, p)
	v.status = fmt.Sprintf("placed %s at (%d,%d)", typeKey, c.X, c.Y)
}

func (v *Viewer) removeLast() {
	if len(v.placed) == 0 {
		return
	}
	p := v.placed[len(v.placed)-1]
	v.placed = v.placed[:len(v.placed)-1]
	v.session.Pool.Remove(p)
	v.status = fmt.Sprintf("removed %s at (%d,%d)", p.Type, p.Cell.X, p.Cell.Y)
}

// Report is the session report plus viewer counters.
func (v *Viewer) Report() string {
	r := v.session.Report()
	if g := v.mesh.Geometry(); g != nil {
		r += fmt.Sprintf("mesh vertices=%d triangles=%d walls=%d advanced=%t\n",
			g.VertexCount(), g.TriangleCount(), g.Walls, g.Advanced)
	}
	r += fmt.Sprintf("rebuilds=%d events=%d\n", v.rebuilds, len(v.log.Entries()))
	return r
}

func (v *Viewer) copyReport() {
	if err := clipboard.WriteAll(v.Report()); err != nil {
		v.log.Warnf("viewer", "clipboard_failed: %v", err)
		v.status = "clipboard unavailable"
		return
	}
	v.status = "report copied to clipboard"
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

// Close releases the session's graphics resources.
func (v *Viewer) Close() {
	v.mesh.Release()
	v.session.Close()
}
