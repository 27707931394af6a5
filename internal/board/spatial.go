package board

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GridCell is an integer grid coordinate. Validity against the board size is
// the caller's concern.
type GridCell struct {
	X, Y int
}

// WorldPoint is a 3D world coordinate. X and Z lie on the ground plane, Y is up.
type WorldPoint struct {
	X, Y, Z float64
}

// ScreenPoint is a pixel position.
type ScreenPoint struct {
	X, Y float64
}

// SpatialConfig scales grid units into world units.
type SpatialConfig struct {
	TileWorldSize float64 // world units per grid cell on the ground plane
	ElevationUnit float64 // world units per elevation step
}

// DefaultSpatialConfig is one world unit per cell and per elevation step.
var DefaultSpatialConfig = SpatialConfig{
	TileWorldSize: 1,
	ElevationUnit: 1,
}

func (c SpatialConfig) validate() error {
	if !(c.TileWorldSize > 0) || math.IsInf(c.TileWorldSize, 0) {
		return fmt.Errorf("tile world size %v must be > 0: %w", c.TileWorldSize, ErrInvalidConfig)
	}
	if !(c.ElevationUnit > 0) || math.IsInf(c.ElevationUnit, 0) {
		return fmt.Errorf("elevation unit %v must be > 0: %w", c.ElevationUnit, ErrInvalidConfig)
	}
	return nil
}

// ConfigPatch is a partial SpatialConfig. Nil fields keep their current value.
type ConfigPatch struct {
	TileWorldSize *float64
	ElevationUnit *float64
}

// ScreenLayout holds the pixel dimensions of both 2D projections.
type ScreenLayout struct {
	IsoTileWidth  float64 // diamond width in pixels
	IsoTileHeight float64 // diamond height in pixels
	TopDownTile   float64 // square tile edge in pixels
	OriginX       float64 // screen position of cell (0,0)
	OriginY       float64
}

// DefaultScreenLayout is the classic 2:1 isometric diamond.
var DefaultScreenLayout = ScreenLayout{
	IsoTileWidth:  64,
	IsoTileHeight: 32,
	TopDownTile:   32,
}

func (l ScreenLayout) validate() error {
	if !(l.IsoTileWidth > 0) || !(l.IsoTileHeight > 0) || !(l.TopDownTile > 0) {
		return fmt.Errorf("screen tile sizes %vx%v / %v must be > 0: %w",
			l.IsoTileWidth, l.IsoTileHeight, l.TopDownTile, ErrInvalidConfig)
	}
	return nil
}

// Coordinator converts between grid, world and screen space. Every other
// component derives positions from it so that tokens, terrain and pointer
// input agree on where a cell is.
type Coordinator struct {
	cfg    SpatialConfig
	layout ScreenLayout
}

// NewCoordinator validates both configs and returns a Coordinator.
func NewCoordinator(cfg SpatialConfig, layout ScreenLayout) (*Coordinator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	return &Coordinator{cfg: cfg, layout: layout}, nil
}

// Config returns the current spatial config.
func (c *Coordinator) Config() SpatialConfig { return c.cfg }

// Layout returns the screen layout.
func (c *Coordinator) Layout() ScreenLayout { return c.layout }

// Reconfigure merges patch into the current config. Both fields are applied
// together or not at all.
func (c *Coordinator) Reconfigure(patch ConfigPatch) error {
	next := c.cfg
	if patch.TileWorldSize != nil {
		next.TileWorldSize = *patch.TileWorldSize
	}
	if patch.ElevationUnit != nil {
		next.ElevationUnit = *patch.ElevationUnit
	}
	if err := next.validate(); err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}
	c.cfg = next
	return nil
}

// GridToWorld returns the world position of a cell centre at the given elevation.
func (c *Coordinator) GridToWorld(gx, gy int, elevation float64) WorldPoint {
	return WorldPoint{
		X: float64(gx) * c.cfg.TileWorldSize,
		Y: elevation * c.cfg.ElevationUnit,
		Z: float64(gy) * c.cfg.TileWorldSize,
	}
}

// WorldToGrid returns the cell whose centre is nearest to (x, z).
// Ties round away from zero.
func (c *Coordinator) WorldToGrid(x, z float64) GridCell {
	return GridCell{
		X: int(math.Round(x / c.cfg.TileWorldSize)),
		Y: int(math.Round(z / c.cfg.TileWorldSize)),
	}
}

// GridToScreen is the isometric mapping of a cell to its ground-plane pixel.
func (c *Coordinator) GridToScreen(gx, gy int) ScreenPoint {
	return c.GridToScreenIn(ProjectionIsometric, gx, gy)
}

// ScreenToGrid inverts GridToScreen, rounding to the nearest cell.
func (c *Coordinator) ScreenToGrid(sx, sy float64) GridCell {
	return c.ScreenToGridIn(ProjectionIsometric, sx, sy)
}

// GridToScreenIn maps a cell to its ground-plane pixel under mode.
func (c *Coordinator) GridToScreenIn(mode Projection, gx, gy int) ScreenPoint {
	return c.GridPointToScreen(mode, float64(gx), float64(gy))
}

// GridPointToScreen is GridToScreenIn for fractional grid positions.
func (c *Coordinator) GridPointToScreen(mode Projection, gx, gy float64) ScreenPoint {
	l := c.layout
	if mode == ProjectionTopDown {
		return ScreenPoint{
			X: gx*l.TopDownTile + l.OriginX,
			Y: gy*l.TopDownTile + l.OriginY,
		}
	}
	return ScreenPoint{
		X: (gx-gy)*l.IsoTileWidth/2 + l.OriginX,
		Y: (gx+gy)*l.IsoTileHeight/2 + l.OriginY,
	}
}

// ScreenToGridIn inverts GridToScreenIn for mode, rounding to the nearest cell.
func (c *Coordinator) ScreenToGridIn(mode Projection, sx, sy float64) GridCell {
	gx, gy := c.ScreenToGridPoint(mode, sx, sy)
	return GridCell{X: int(math.Round(gx)), Y: int(math.Round(gy))}
}

// ScreenToGridPoint is the unrounded inverse of GridPointToScreen.
func (c *Coordinator) ScreenToGridPoint(mode Projection, sx, sy float64) (gx, gy float64) {
	l := c.layout
	sx -= l.OriginX
	sy -= l.OriginY
	if mode == ProjectionTopDown {
		return sx / l.TopDownTile, sy / l.TopDownTile
	}
	// sx = (gx-gy)*w/2, sy = (gx+gy)*h/2
	a := sx / (l.IsoTileWidth / 2)
	b := sy / (l.IsoTileHeight / 2)
	return (a + b) / 2, (b - a) / 2
}
