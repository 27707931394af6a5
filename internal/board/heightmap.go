package board

// GroundType identifies the surface of a cell. It drives the biome colour the
// mesh builder paints on the cell's top face.
type GroundType uint8

const (
	GroundGrass     GroundType = iota // Default open ground
	GroundGrassLong                   // Tall grass
	GroundScrub                       // Low bushes / bramble
	GroundMud                         // Wet lowland
	GroundSand                        // Shoreline
	GroundGravel                      // Loose stone
	GroundDirt                        // Packed earth
	GroundRock                        // Bare cliff rock
	GroundSnow                        // High peaks
	GroundWater                       // Shallow water
	groundTypeCount                   // sentinel
)

// String returns the ground name used in reports.
func (g GroundType) String() string {
	switch g {
	case GroundGrass:
		return "grass"
	case GroundGrassLong:
		return "long_grass"
	case GroundScrub:
		return "scrub"
	case GroundMud:
		return "mud"
	case GroundSand:
		return "sand"
	case GroundGravel:
		return "gravel"
	case GroundDirt:
		return "dirt"
	case GroundRock:
		return "rock"
	case GroundSnow:
		return "snow"
	case GroundWater:
		return "water"
	default:
		return "unknown"
	}
}

// RGB is a linear colour with channels in [0,1].
type RGB struct {
	R, G, B float32
}

func rgb8(r, g, b uint8) RGB {
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// Scale multiplies every channel by f, clamped to [0,1].
func (c RGB) Scale(f float32) RGB {
	return RGB{R: clamp01(c.R * f), G: clamp01(c.G * f), B: clamp01(c.B * f)}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// groundBaseColour returns the base colour for a ground type.
func groundBaseColour(g GroundType) RGB {
	switch g {
	case GroundGrass:
		return rgb8(78, 122, 64)
	case GroundGrassLong:
		return rgb8(88, 140, 62)
	case GroundScrub:
		return rgb8(96, 110, 66)
	case GroundMud:
		return rgb8(100, 80, 56)
	case GroundSand:
		return rgb8(196, 180, 132)
	case GroundGravel:
		return rgb8(128, 122, 112)
	case GroundDirt:
		return rgb8(120, 98, 72)
	case GroundRock:
		return rgb8(112, 108, 104)
	case GroundSnow:
		return rgb8(232, 236, 240)
	case GroundWater:
		return rgb8(56, 90, 150)
	default:
		return rgb8(78, 112, 64)
	}
}

// Cell is one heightmap sample.
type Cell struct {
	Elevation float64
	Ground    GroundType
}

// Heightmap is a rectangular grid of per-cell elevations. It is the
// heightfield the terrain coordinator owns and hands to the mesh builder.
type Heightmap struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewHeightmap creates a flat grass heightmap of the given dimensions.
// Negative dimensions are treated as zero.
func NewHeightmap(cols, rows int) *Heightmap {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Heightmap{
		Cols:  cols,
		Rows:  rows,
		Cells: make([]Cell, cols*rows),
	}
}

// InBounds returns true if (col, row) is within the heightmap.
func (hm *Heightmap) InBounds(col, row int) bool {
	return col >= 0 && col < hm.Cols && row >= 0 && row < hm.Rows
}

// At returns a pointer to the cell at (col, row), or nil if out of bounds.
func (hm *Heightmap) At(col, row int) *Cell {
	if !hm.InBounds(col, row) {
		return nil
	}
	return &hm.Cells[row*hm.Cols+col]
}

// Height returns the elevation at (col, row); out of bounds reads are 0.
func (hm *Heightmap) Height(col, row int) float64 {
	if !hm.InBounds(col, row) {
		return 0
	}
	return hm.Cells[row*hm.Cols+col].Elevation
}

// Ground returns the ground type at (col, row).
func (hm *Heightmap) Ground(col, row int) GroundType {
	if !hm.InBounds(col, row) {
		return GroundGrass
	}
	return hm.Cells[row*hm.Cols+col].Ground
}

// SetElevation sets the elevation of a cell.
func (hm *Heightmap) SetElevation(col, row int, e float64) {
	if !hm.InBounds(col, row) {
		return
	}
	hm.Cells[row*hm.Cols+col].Elevation = e
}

// SetGround sets the ground type of a cell.
func (hm *Heightmap) SetGround(col, row int, g GroundType) {
	if !hm.InBounds(col, row) {
		return
	}
	hm.Cells[row*hm.Cols+col].Ground = g
}

// Raise adds delta to a cell's elevation and returns the new value.
func (hm *Heightmap) Raise(col, row int, delta float64) float64 {
	c := hm.At(col, row)
	if c == nil {
		return 0
	}
	c.Elevation += delta
	return c.Elevation
}

// Flatten resets every cell to elevation e.
func (hm *Heightmap) Flatten(e float64) {
	for i := range hm.Cells {
		hm.Cells[i].Elevation = e
	}
}

// GroundColor is the biome colour lookup for a cell's top face. Higher cells
// are drawn slightly lighter so terraces read even in a top-down view.
func (hm *Heightmap) GroundColor(col, row int) RGB {
	base := groundBaseColour(hm.Ground(col, row))
	return base.Scale(1 + 0.04*float32(hm.Height(col, row)))
}

// WallColorFor is the colour of the cliff skirt hanging off a cell.
func (hm *Heightmap) WallColorFor(col, row int) RGB {
	g := hm.Ground(col, row)
	if g == GroundWater {
		g = GroundSand
	}
	return groundBaseColour(g).Scale(0.55)
}

// MeshParamsFor wires a heightmap into the mesh builder's accessors.
func MeshParamsFor(hm *Heightmap, cfg SpatialConfig, factory GraphicsFactory) MeshParams {
	return MeshParams{
		Cols:       hm.Cols,
		Rows:       hm.Rows,
		Height:     hm.Height,
		Spatial:    cfg,
		BiomeColor: hm.GroundColor,
		WallColor:  hm.WallColorFor,
		Factory:    factory,
	}
}
