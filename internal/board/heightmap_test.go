package board

import (
	"math/rand"
	"testing"
)

func TestNewHeightmap_DefaultFlatGrass(t *testing.T) {
	hm := NewHeightmap(10, 8)
	if hm.Cols != 10 || hm.Rows != 8 {
		t.Fatalf("expected 10x8, got %dx%d", hm.Cols, hm.Rows)
	}
	for row := 0; row < hm.Rows; row++ {
		for col := 0; col < hm.Cols; col++ {
			if h := hm.Height(col, row); h != 0 {
				t.Fatalf("cell (%d,%d) height=%v, want 0", col, row, h)
			}
			if g := hm.Ground(col, row); g != GroundGrass {
				t.Fatalf("cell (%d,%d) ground=%s, want grass", col, row, g)
			}
		}
	}
}

func TestHeightmap_OutOfBounds(t *testing.T) {
	hm := NewHeightmap(3, 3)
	if hm.At(-1, 0) != nil {
		t.Fatal("out of bounds At should return nil")
	}
	if hm.Height(5, 5) != 0 {
		t.Fatal("out of bounds Height should be 0")
	}
	// Should not panic.
	hm.SetElevation(99, 99, 3)
	hm.SetGround(-1, -1, GroundRock)
	if hm.Raise(-1, 2, 1) != 0 {
		t.Fatal("out of bounds Raise should return 0")
	}
	if neg := NewHeightmap(-2, 4); neg.Cols != 0 || len(neg.Cells) != 0 {
		t.Fatalf("negative cols should clamp to 0, got %d", neg.Cols)
	}
}

func TestHeightmap_RaiseAndFlatten(t *testing.T) {
	hm := NewHeightmap(4, 4)
	hm.Raise(1, 2, 1.5)
	if got := hm.Raise(1, 2, 1); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	hm.Flatten(1)
	for i, c := range hm.Cells {
		if c.Elevation != 1 {
			t.Fatalf("cell %d elevation %v after flatten", i, c.Elevation)
		}
	}
}

func TestHeightmap_WallDarkerThanGround(t *testing.T) {
	hm := NewHeightmap(1, 1)
	top := hm.GroundColor(0, 0)
	wall := hm.WallColorFor(0, 0)
	if wall.R >= top.R || wall.G >= top.G || wall.B >= top.B {
		t.Fatalf("wall %+v should be darker than top %+v", wall, top)
	}
}

func TestValueNoise2D_Range(t *testing.T) {
	seed := int64(12345)
	for y := -10.0; y < 10.0; y += 0.37 {
		for x := -10.0; x < 10.0; x += 0.37 {
			v := valueNoise2D(x, y, seed)
			if v < 0 || v > 1 {
				t.Fatalf("noise at (%.2f,%.2f) = %f, out of [0,1]", x, y, v)
			}
		}
	}
}

func TestGenerateTerrain_Deterministic(t *testing.T) {
	a := NewHeightmap(40, 30)
	b := NewHeightmap(40, 30)
	GenerateTerrain(a, rand.New(rand.NewSource(9)), DefaultTerrainConfig)
	GenerateTerrain(b, rand.New(rand.NewSource(9)), DefaultTerrainConfig)
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, a.Cells[i], b.Cells[i])
		}
	}
}

func TestGenerateTerrain_TerracedAndVaried(t *testing.T) {
	hm := NewHeightmap(100, 60)
	GenerateTerrain(hm, rand.New(rand.NewSource(42)), DefaultTerrainConfig)

	grounds := make(map[GroundType]int)
	levels := make(map[float64]int)
	for _, c := range hm.Cells {
		grounds[c.Ground]++
		levels[c.Elevation]++
		if c.Elevation < 0 || c.Elevation > DefaultTerrainConfig.MaxElevation {
			t.Fatalf("elevation %v out of [0,%v]", c.Elevation, DefaultTerrainConfig.MaxElevation)
		}
		if c.Elevation != float64(int(c.Elevation)) {
			t.Fatalf("elevation %v is not on a terrace", c.Elevation)
		}
	}
	t.Logf("Grounds: %v", grounds)
	t.Logf("Levels: %v", levels)
	if len(levels) < 2 {
		t.Fatalf("expected several terraces, got %d", len(levels))
	}
	if len(grounds) < 3 {
		t.Fatalf("expected at least 3 ground types, got %d", len(grounds))
	}
}
