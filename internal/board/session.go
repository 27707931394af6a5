package board

import (
	"fmt"
	"strings"
)

// Session is the single context the board's components share: one
// coordinator, camera rig, picker, placeable pool and projection state.
// Construct it once at startup, pass it by reference, Close it on teardown.
type Session struct {
	Coord      *Coordinator
	Camera     *CameraRig
	Picker     *Picker
	Pool       *Pool
	Reconciler *Reconciler
	Log        Logger

	factory GraphicsFactory
	wallEps float64
	tokens  []*Token
	closed  bool
}

type sessionConfig struct {
	spatial  SpatialConfig
	layout   ScreenLayout
	limits   CameraLimits
	factory  GraphicsFactory
	logger   Logger
	styles   StyleTable
	capacity int
	wallEps  float64
	mode     Projection
}

// SessionOption configures NewSession.
type SessionOption func(*sessionConfig)

// WithSpatialConfig sets the grid→world scale.
func WithSpatialConfig(c SpatialConfig) SessionOption {
	return func(sc *sessionConfig) { sc.spatial = c }
}

// WithScreenLayout sets the 2D projection tile sizes.
func WithScreenLayout(l ScreenLayout) SessionOption {
	return func(sc *sessionConfig) { sc.layout = l }
}

// WithCameraLimits sets zoom bounds, zoom step and view span.
func WithCameraLimits(l CameraLimits) SessionOption {
	return func(sc *sessionConfig) { sc.limits = l }
}

// WithFactory injects the graphics backend. Without one the session runs headless.
func WithFactory(f GraphicsFactory) SessionOption {
	return func(sc *sessionConfig) { sc.factory = f }
}

// WithLogger sets the warning sink.
func WithLogger(l Logger) SessionOption {
	return func(sc *sessionConfig) { sc.logger = l }
}

// WithStyleTable sets the placeable style table.
func WithStyleTable(t StyleTable) SessionOption {
	return func(sc *sessionConfig) { sc.styles = t }
}

// WithPoolCapacity sets the per-group instance capacity.
func WithPoolCapacity(n int) SessionOption {
	return func(sc *sessionConfig) { sc.capacity = n }
}

// WithWallEpsilon sets the height delta above which wall skirts are built.
func WithWallEpsilon(eps float64) SessionOption {
	return func(sc *sessionConfig) { sc.wallEps = eps }
}

// WithProjection sets the starting projection.
func WithProjection(p Projection) SessionOption {
	return func(sc *sessionConfig) { sc.mode = p }
}

// NewSession builds every component from the given options.
func NewSession(opts ...SessionOption) (*Session, error) {
	sc := sessionConfig{
		spatial:  DefaultSpatialConfig,
		layout:   DefaultScreenLayout,
		limits:   DefaultCameraLimits,
		styles:   DefaultStyles,
		capacity: DefaultGroupCapacity,
		logger:   NopLogger{},
	}
	for _, o := range opts {
		o(&sc)
	}
	coord, err := NewCoordinator(sc.spatial, sc.layout)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if sc.factory == nil {
		sc.logger.Warnf("backend", "degraded_backend: no graphics factory, running headless")
	}
	rig := NewCameraRig(sc.limits)
	return &Session{
		Coord:      coord,
		Camera:     rig,
		Picker:     NewPicker(coord, rig, sc.logger),
		Pool:       NewPool(coord, sc.factory, sc.styles, sc.capacity, sc.logger),
		Reconciler: NewReconciler(coord, sc.mode),
		Log:        sc.logger,
		factory:    sc.factory,
		wallEps:    sc.wallEps,
	}, nil
}

// Mode returns the active projection.
func (s *Session) Mode() Projection { return s.Reconciler.Mode() }

// SetMode switches projection and reprojects every token.
func (s *Session) SetMode(m Projection) {
	s.Reconciler.ReprojectAll(s, m)
}

// ToggleMode switches to the other projection.
func (s *Session) ToggleMode() Projection {
	next := s.Mode().Other()
	s.SetMode(next)
	return next
}

// Tokens implements ProjectionContext.
func (s *Session) Tokens() []*Token { return s.tokens }

// AddToken places a new token on cell, lifted by offset screen pixels.
func (s *Session) AddToken(id string, cell GridCell, offset float64) *Token {
	t := &Token{ID: id, Cell: cell}
	s.Reconciler.Place(t, offset)
	s.tokens = append(s.tokens, t)
	return t
}

// MoveToken moves a token to cell, keeping its elevation offset.
func (s *Session) MoveToken(t *Token, cell GridCell) {
	off := t.ElevationOffset()
	t.Cell = cell
	s.Reconciler.Place(t, off)
}

// RemoveToken drops the token with the given id.
func (s *Session) RemoveToken(id string) bool {
	for i, t := range s.tokens {
		if t.ID == id {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return true
		}
	}
	return false
}

// BuildTerrain builds fresh geometry for hm with the session's scale and
// wall epsilon. It returns nil when the session runs headless.
func (s *Session) BuildTerrain(hm *Heightmap, hardEdges bool) *MeshGeometry {
	p := MeshParamsFor(hm, s.Coord.Config(), s.factory)
	p.HardEdges = hardEdges
	p.WallEpsilon = s.wallEps
	p.Logger = s.Log
	return BuildMesh(p)
}

// Report returns a short multi-line status summary.
func (s *Session) Report() string {
	var sb strings.Builder
	cfg := s.Coord.Config()
	cam := s.Camera.State()
	st := s.Pool.Stats()
	fmt.Fprintf(&sb, "mode=%s tile=%.2f elev=%.2f\n", s.Mode(), cfg.TileWorldSize, cfg.ElevationUnit)
	fmt.Fprintf(&sb, "camera target=(%.2f,%.2f) zoom=%.2f\n", cam.TargetX, cam.TargetZ, cam.Zoom)
	fmt.Fprintf(&sb, "pool groups=%d instances=%d\n", st.Groups, st.Instances)
	fmt.Fprintf(&sb, "tokens=%d\n", len(s.tokens))
	return sb.String()
}

// Close releases backend resources. Safe to call twice.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.Pool.Release()
	s.factory = nil
}
