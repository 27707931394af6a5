package board

import (
	"errors"
	"testing"
)

func TestGridWorldRoundTrip(t *testing.T) {
	for _, tile := range []float64{0.25, 1, 1.5, 2, 7.3} {
		c := mustCoordinator(SpatialConfig{TileWorldSize: tile, ElevationUnit: 0.5})
		for gy := -20; gy <= 20; gy++ {
			for gx := -20; gx <= 20; gx++ {
				w := c.GridToWorld(gx, gy, float64(gx-gy))
				if got := c.WorldToGrid(w.X, w.Z); got != (GridCell{gx, gy}) {
					t.Fatalf("tile=%v: (%d,%d) → %+v → %+v", tile, gx, gy, w, got)
				}
			}
		}
	}
}

func TestReconfigureThenGridToWorld(t *testing.T) {
	c := mustCoordinator(DefaultSpatialConfig)
	if err := c.Reconfigure(ConfigPatch{TileWorldSize: ptr(2), ElevationUnit: ptr(1)}); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	got := c.GridToWorld(2, 3, 4)
	if got != (WorldPoint{X: 4, Y: 4, Z: 6}) {
		t.Fatalf("expected {4 4 6}, got %+v", got)
	}
}

func TestReconfigure_PartialKeepsOtherField(t *testing.T) {
	c := mustCoordinator(SpatialConfig{TileWorldSize: 3, ElevationUnit: 0.5})
	if err := c.Reconfigure(ConfigPatch{ElevationUnit: ptr(2)}); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	if cfg := c.Config(); cfg.TileWorldSize != 3 || cfg.ElevationUnit != 2 {
		t.Fatalf("expected {3 2}, got %+v", cfg)
	}
}

func TestReconfigure_RejectsAtomically(t *testing.T) {
	c := mustCoordinator(SpatialConfig{TileWorldSize: 3, ElevationUnit: 0.5})
	err := c.Reconfigure(ConfigPatch{TileWorldSize: ptr(4), ElevationUnit: ptr(0)})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if cfg := c.Config(); cfg.TileWorldSize != 3 || cfg.ElevationUnit != 0.5 {
		t.Fatalf("config partially applied: %+v", cfg)
	}
}

func TestNewCoordinator_RejectsBadLayout(t *testing.T) {
	_, err := NewCoordinator(DefaultSpatialConfig, ScreenLayout{IsoTileWidth: 64})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGridToScreen_Isometric(t *testing.T) {
	c := mustCoordinator(DefaultSpatialConfig)
	got := c.GridToScreen(3, 1)
	// (3-1)*64/2, (3+1)*32/2
	if got != (ScreenPoint{X: 64, Y: 64}) {
		t.Fatalf("expected (64,64), got %+v", got)
	}
}

func TestScreenGridRoundTrip_BothProjections(t *testing.T) {
	layout := ScreenLayout{IsoTileWidth: 64, IsoTileHeight: 32, TopDownTile: 24, OriginX: 400, OriginY: 40}
	c, err := NewCoordinator(DefaultSpatialConfig, layout)
	if err != nil {
		t.Fatal(err)
	}
	for _, mode := range []Projection{ProjectionIsometric, ProjectionTopDown} {
		for gy := -15; gy <= 15; gy++ {
			for gx := -15; gx <= 15; gx++ {
				s := c.GridToScreenIn(mode, gx, gy)
				if got := c.ScreenToGridIn(mode, s.X, s.Y); got != (GridCell{gx, gy}) {
					t.Fatalf("%s: (%d,%d) → %+v → %+v", mode, gx, gy, s, got)
				}
				// A few pixels of jitter still lands in the same cell.
				if got := c.ScreenToGridIn(mode, s.X+3, s.Y-2); got != (GridCell{gx, gy}) {
					t.Fatalf("%s: jittered (%d,%d) → %+v", mode, gx, gy, got)
				}
			}
		}
	}
}

func TestScreenToGrid_TiesRoundAwayFromZero(t *testing.T) {
	c := mustCoordinator(DefaultSpatialConfig)
	// Half a topdown tile either side of the origin.
	if got := c.ScreenToGridIn(ProjectionTopDown, 16, 16); got != (GridCell{1, 1}) {
		t.Fatalf("expected (1,1), got %+v", got)
	}
	if got := c.ScreenToGridIn(ProjectionTopDown, -16, -16); got != (GridCell{-1, -1}) {
		t.Fatalf("expected (-1,-1), got %+v", got)
	}
	if got := c.WorldToGrid(-0.5, 0.5); got != (GridCell{-1, 1}) {
		t.Fatalf("expected (-1,1), got %+v", got)
	}
}
