package board

// Projection is the active 2D screen mapping. There are exactly two.
type Projection uint8

const (
	ProjectionIsometric Projection = iota // 2D isometric diamond view
	ProjectionTopDown                     // hybrid 3D view, square top-down framing
)

// String returns the mode name.
func (p Projection) String() string {
	if p == ProjectionTopDown {
		return "topdown"
	}
	return "isometric"
}

// Other returns the opposite projection.
func (p Projection) Other() Projection {
	if p == ProjectionTopDown {
		return ProjectionIsometric
	}
	return ProjectionTopDown
}

// ParseProjection maps "isometric"/"iso" and "topdown"/"3d" to a Projection.
func ParseProjection(s string) (Projection, bool) {
	switch s {
	case "isometric", "iso", "2d":
		return ProjectionIsometric, true
	case "topdown", "3d":
		return ProjectionTopDown, true
	}
	return ProjectionIsometric, false
}

// Token is a creature/marker sprite standing on a cell. Screen and BaselineY
// are written by the reconciler; the elevation offset Screen.Y-BaselineY is
// the sprite's visual lift above the ground and survives projection switches.
type Token struct {
	ID        string
	Cell      GridCell
	Screen    ScreenPoint
	BaselineY float64
}

// ElevationOffset returns the token's vertical pixel lift above its baseline.
func (t *Token) ElevationOffset() float64 {
	return t.Screen.Y - t.BaselineY
}

// ProjectionContext exposes the live tokens a mode switch rewrites.
type ProjectionContext interface {
	Tokens() []*Token
}

// Reconciler owns the projection state machine. ReprojectAll is its only
// transition.
type Reconciler struct {
	coord *Coordinator
	mode  Projection
}

// NewReconciler starts in the given mode.
func NewReconciler(coord *Coordinator, mode Projection) *Reconciler {
	return &Reconciler{coord: coord, mode: mode}
}

// Mode returns the current projection.
func (r *Reconciler) Mode() Projection { return r.mode }

// Place positions a token on its cell under the current projection, lifted
// by offset pixels (negative = up the screen).
func (r *Reconciler) Place(t *Token, offset float64) {
	base := r.coord.GridToScreenIn(r.mode, t.Cell.X, t.Cell.Y)
	t.BaselineY = base.Y
	t.Screen = ScreenPoint{X: base.X, Y: base.Y + offset}
}

// ReprojectAll switches to next and rewrites every token's screen position:
// the new ground baseline plus the offset the token carried before.
func (r *Reconciler) ReprojectAll(ctx ProjectionContext, next Projection) {
	for _, t := range ctx.Tokens() {
		if t == nil {
			continue
		}
		offset := t.Screen.Y - t.BaselineY
		base := r.coord.GridToScreenIn(next, t.Cell.X, t.Cell.Y)
		t.BaselineY = base.Y
		t.Screen = ScreenPoint{X: base.X, Y: base.Y + offset}
	}
	r.mode = next
}

// TokenList is a ProjectionContext over a plain slice.
type TokenList []*Token

// Tokens implements ProjectionContext.
func (l TokenList) Tokens() []*Token { return l }
