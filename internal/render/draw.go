package render

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{R: 18, G: 22, B: 26, A: 255}
	hoverColor      = color.RGBA{R: 255, G: 240, B: 120, A: 230}
	sightClear      = color.RGBA{R: 90, G: 230, B: 120, A: 200}
	sightBlocked    = color.RGBA{R: 240, G: 70, B: 60, A: 200}
	tokenColor      = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	tokenRim        = color.RGBA{R: 20, G: 10, B: 10, A: 255}
	hudPanelColor   = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	hudTextColor    = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// projector returns the active view and its version.
func (v *Viewer) projector() (Projector, int) {
	if v.session.Mode() == board.ProjectionIsometric {
		return v.iso, v.iso.Version()
	}
	return v.ortho, v.ortho.Version()
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	proj, version := v.projector()

	v.mesh.Draw(screen, proj, version)
	if v.hoverOK {
		v.drawHover(screen, proj, v.hover)
		v.drawSightLine(screen, proj, v.hover)
	}
	v.backend.Draw(screen, proj)
	v.drawTokens(screen, proj)
	if v.showHUD {
		v.drawHUD(screen)
	}
}

// drawHover outlines the top face of cell c.
func (v *Viewer) drawHover(screen *ebiten.Image, proj Projector, c board.GridCell) {
	coord := v.session.Coord
	half := coord.Config().TileWorldSize / 2
	centre := coord.GridToWorld(c.X, c.Y, v.hm.Height(c.X, c.Y))
	corners := [4]board.WorldPoint{
		{X: centre.X - half, Y: centre.Y, Z: centre.Z - half},
		{X: centre.X + half, Y: centre.Y, Z: centre.Z - half},
		{X: centre.X + half, Y: centre.Y, Z: centre.Z + half},
		{X: centre.X - half, Y: centre.Y, Z: centre.Z + half},
	}
	for i := range corners {
		ax, ay := proj.Project(corners[i])
		bx, by := proj.Project(corners[(i+1)%4])
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 2, hoverColor, true)
	}
}

// sightEye is the eye height, in elevation units, used for token sight lines.
const sightEye = 1.0

// drawSightLine joins the lead token to cell c, green when it can see it.
func (v *Viewer) drawSightLine(screen *ebiten.Image, proj Projector, c board.GridCell) {
	toks := v.session.Tokens()
	if len(toks) == 0 || toks[0].Cell == c {
		return
	}
	from := toks[0].Cell
	coord := v.session.Coord
	eye := sightEye * coord.Config().ElevationUnit
	a := coord.GridToWorld(from.X, from.Y, v.hm.Height(from.X, from.Y))
	b := coord.GridToWorld(c.X, c.Y, v.hm.Height(c.X, c.Y))
	a.Y += eye
	b.Y += eye
	ax, ay := proj.Project(a)
	bx, by := proj.Project(b)
	col := sightBlocked
	if v.hoverVisible {
		col = sightClear
	}
	vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1.5, col, true)
}

// tokenScreen maps a token's reconciled screen position into the window.
// The iso layout position is panned and lifted by the ground height; the
// top-down layout position is taken back to the ground plane and drawn
// through the 3D view so its lift survives as a screen-up shift.
func (v *Viewer) tokenScreen(t *board.Token) (float64, float64) {
	coord := v.session.Coord
	cfg := coord.Config()
	h := v.hm.Height(t.Cell.X, t.Cell.Y)
	if v.session.Mode() == board.ProjectionIsometric {
		x, y := v.iso.LayoutToScreen(t.Screen)
		return x, y - h*v.iso.ElevationPx*v.iso.Zoom()
	}
	gx, gy := coord.ScreenToGridPoint(board.ProjectionTopDown, t.Screen.X, t.Screen.Y)
	return v.ortho.Project(board.WorldPoint{
		X: gx * cfg.TileWorldSize,
		Y: h * cfg.ElevationUnit,
		Z: gy * cfg.TileWorldSize,
	})
}

func (v *Viewer) drawTokens(screen *ebiten.Image, proj Projector) {
	r := float32(proj.PixelsPerWorld() * v.session.Coord.Config().TileWorldSize * 0.3)
	if r < 3 {
		r = 3
	}
	for _, t := range v.session.Tokens() {
		x, y := v.tokenScreen(t)
		fx, fy := float32(x), float32(y)
		vector.FillCircle(screen, fx, fy, r+1.5, tokenRim, true)
		vector.FillCircle(screen, fx, fy, r, tokenColor, true)
		text.Draw(screen, t.ID, basicfont.Face7x13, int(fx+r+3), int(fy+4), hudTextColor)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	st := v.session.Camera.State()
	ps := v.session.Pool.Stats()
	hover := "-"
	if v.hoverOK {
		sight := "hidden"
		if v.hoverVisible {
			sight = "visible"
		}
		hover = fmt.Sprintf("(%d,%d) h=%.0f %s  %s", v.hover.X, v.hover.Y,
			v.hm.Height(v.hover.X, v.hover.Y), v.hm.Ground(v.hover.X, v.hover.Y), sight)
	}
	lines := []string{
		fmt.Sprintf("VIEW: %s  Tab=switch", v.session.Mode()),
		fmt.Sprintf("ZOOM: %.2f  wheel or +/-   WASD pan", st.Zoom),
		"CELL: " + hover,
		fmt.Sprintf("POOL: %d groups  %d instances", ps.Groups, ps.Instances),
		"LMB raise  RMB lower  T tree  R rock  X undo place",
		"M move token  C copy report  H hide HUD",
	}
	if g := v.mesh.Geometry(); g != nil {
		lines = append(lines, fmt.Sprintf("MESH: %d verts  %d walls", g.VertexCount(), g.Walls))
	}
	if v.status != "" {
		lines = append(lines, "> "+v.status)
	}

	const lineH = 16
	w := float32(0)
	for _, l := range lines {
		if lw := float32(len(l) * 7); lw > w {
			w = lw
		}
	}
	vector.FillRect(screen, 8, 8, w+16, float32(len(lines)*lineH+10), hudPanelColor, false)
	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, 16, 24+i*lineH, hudTextColor)
	}
}
