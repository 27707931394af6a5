package board

import "math"

// MeshParams is the input to BuildMesh. Height, BiomeColor and WallColor are
// read-only accessors; out-of-range reads are their concern.
type MeshParams struct {
	Cols, Rows int
	Height     func(x, y int) float64 // nil = flat at elevation 0
	Spatial    SpatialConfig

	HardEdges     bool
	ForceAdvanced bool
	WallEpsilon   float64 // walls are emitted where |Δh| > WallEpsilon

	BiomeColor func(x, y int) RGB // top face colour; nil = grass
	WallColor  func(x, y int) RGB // wall colour; nil = dark earth

	Factory GraphicsFactory // nil = headless, BuildMesh returns nil
	Logger  Logger
}

// Advanced reports whether the params select per-cell hard-edged geometry.
func (p MeshParams) Advanced() bool {
	return p.HardEdges || p.ForceAdvanced
}

// MeshGeometry is a freshly built terrain mesh. Positions and Colors are flat
// xyz / rgb triples, one per vertex; Indices are flat triangle triples.
// The caller owns it and must release any backend copy before rebuilding.
type MeshGeometry struct {
	Positions []float32
	Colors    []float32
	Indices   []uint32
	Walls     int  // wall quads emitted (advanced mode only)
	Advanced  bool // built in advanced mode
}

// VertexCount returns the number of vertices.
func (g *MeshGeometry) VertexCount() int { return len(g.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (g *MeshGeometry) TriangleCount() int { return len(g.Indices) / 3 }

// Vertex returns the world position of vertex i.
func (g *MeshGeometry) Vertex(i int) WorldPoint {
	return WorldPoint{
		X: float64(g.Positions[i*3]),
		Y: float64(g.Positions[i*3+1]),
		Z: float64(g.Positions[i*3+2]),
	}
}

// VertexColor returns the colour of vertex i.
func (g *MeshGeometry) VertexColor(i int) RGB {
	return RGB{R: g.Colors[i*3], G: g.Colors[i*3+1], B: g.Colors[i*3+2]}
}

var (
	defaultBiomeColor = groundBaseColour(GroundGrass)
	defaultWallColor  = groundBaseColour(GroundDirt).Scale(0.55)
)

// BuildMesh turns a heightfield into terrain geometry. It returns nil when no
// graphics factory is available, and an empty mesh when cols or rows <= 0.
//
// Cell (x, y) covers [(x-½)·tile, (x+½)·tile] × [(y-½)·tile, (y+½)·tile] on
// the ground plane, so WorldToGrid maps any point of its top face back to it.
func BuildMesh(p MeshParams) *MeshGeometry {
	log := p.Logger
	if log == nil {
		log = NopLogger{}
	}
	if p.Factory == nil {
		log.Warnf("mesh", "degraded_backend: no graphics factory, skipping %dx%d build", p.Cols, p.Rows)
		return nil
	}
	if p.Cols <= 0 || p.Rows <= 0 {
		return &MeshGeometry{Advanced: p.Advanced()}
	}
	if p.Spatial.validate() != nil {
		log.Warnf("mesh", "invalid_spatial: %+v, using defaults", p.Spatial)
		p.Spatial = DefaultSpatialConfig
	}
	if p.Height == nil {
		p.Height = func(int, int) float64 { return 0 }
	} else {
		raw := p.Height
		p.Height = func(x, y int) float64 {
			h := raw(x, y)
			if math.IsNaN(h) || math.IsInf(h, 0) {
				return 0
			}
			return h
		}
	}
	if p.BiomeColor == nil {
		p.BiomeColor = func(int, int) RGB { return defaultBiomeColor }
	}
	if p.WallColor == nil {
		p.WallColor = func(int, int) RGB { return defaultWallColor }
	}
	if p.WallEpsilon < 0 {
		p.WallEpsilon = 0
	}

	mb := meshBuilder{p: p}
	if p.Advanced() {
		mb.buildAdvanced()
	} else {
		mb.buildPlane()
	}
	return &mb.geom
}

type meshBuilder struct {
	p    MeshParams
	geom MeshGeometry
}

func (mb *meshBuilder) vertex(x, y, z float64, c RGB) uint32 {
	idx := uint32(len(mb.geom.Positions) / 3) // #nosec G115 -- vertex counts stay far below 2^32
	mb.geom.Positions = append(mb.geom.Positions, float32(x), float32(y), float32(z))
	mb.geom.Colors = append(mb.geom.Colors, c.R, c.G, c.B)
	return idx
}

func (mb *meshBuilder) tri(a, b, c uint32) {
	mb.geom.Indices = append(mb.geom.Indices, a, b, c)
}

// edge returns the world ground coordinate of the boundary below cell i.
func (mb *meshBuilder) edge(i int) float64 {
	return (float64(i) - 0.5) * mb.p.Spatial.TileWorldSize
}

func (mb *meshBuilder) elev(h float64) float64 {
	return h * mb.p.Spatial.ElevationUnit
}

// buildPlane shares one vertex per grid corner. Corner height is the mean of
// the cells touching it, which smooths steps into ramps.
func (mb *meshBuilder) buildPlane() {
	p := mb.p
	vc := (p.Cols + 1) * (p.Rows + 1)
	mb.geom.Positions = make([]float32, 0, vc*3)
	mb.geom.Colors = make([]float32, 0, vc*3)
	mb.geom.Indices = make([]uint32, 0, p.Cols*p.Rows*6)

	for cy := 0; cy <= p.Rows; cy++ {
		for cx := 0; cx <= p.Cols; cx++ {
			var sum float64
			n := 0
			for dy := -1; dy <= 0; dy++ {
				for dx := -1; dx <= 0; dx++ {
					x, y := cx+dx, cy+dy
					if x < 0 || y < 0 || x >= p.Cols || y >= p.Rows {
						continue
					}
					sum += p.Height(x, y)
					n++
				}
			}
			col := p.BiomeColor(min(cx, p.Cols-1), min(cy, p.Rows-1))
			mb.vertex(mb.edge(cx), mb.elev(sum/float64(n)), mb.edge(cy), col)
		}
	}

	stride := uint32(p.Cols + 1) // #nosec G115
	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			a := uint32(y)*stride + uint32(x) // #nosec G115
			b := a + 1
			d := a + stride
			c := d + 1
			// Counter-clockwise seen from above (+Y).
			mb.tri(a, c, b)
			mb.tri(a, d, c)
		}
	}
}

// buildAdvanced emits four private vertices per cell so every top face is
// flat-coloured and steps stay sharp, then skirts each elevation step with a
// vertical wall quad.
func (mb *meshBuilder) buildAdvanced() {
	p := mb.p
	mb.geom.Advanced = true
	mb.geom.Positions = make([]float32, 0, p.Cols*p.Rows*12)
	mb.geom.Colors = make([]float32, 0, p.Cols*p.Rows*12)
	mb.geom.Indices = make([]uint32, 0, p.Cols*p.Rows*6)

	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			h := mb.elev(p.Height(x, y))
			col := p.BiomeColor(x, y)
			x0, x1 := mb.edge(x), mb.edge(x+1)
			z0, z1 := mb.edge(y), mb.edge(y+1)
			a := mb.vertex(x0, h, z0, col)
			b := mb.vertex(x1, h, z0, col)
			c := mb.vertex(x1, h, z1, col)
			d := mb.vertex(x0, h, z1, col)
			mb.tri(a, c, b)
			mb.tri(a, d, c)
		}
	}

	// Walls along X: boundary between (x,y) and (x+1,y) is the plane
	// world.x = edge(x+1).
	for y := 0; y < p.Rows; y++ {
		for x := 0; x+1 < p.Cols; x++ {
			mb.wallX(x, y)
		}
	}
	// Walls along Z: boundary between (x,y) and (x,y+1).
	for y := 0; y+1 < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			mb.wallZ(x, y)
		}
	}
}

func (mb *meshBuilder) step(ax, ay, bx, by int) (lo, hi float64, highX, highY int, ok bool) {
	ha := mb.p.Height(ax, ay)
	hb := mb.p.Height(bx, by)
	d := ha - hb
	if d < 0 {
		d = -d
	}
	if d <= mb.p.WallEpsilon {
		return 0, 0, 0, 0, false
	}
	if ha > hb {
		return mb.elev(hb), mb.elev(ha), ax, ay, true
	}
	return mb.elev(ha), mb.elev(hb), bx, by, true
}

func (mb *meshBuilder) wallX(x, y int) {
	lo, hi, hx, hy, ok := mb.step(x, y, x+1, y)
	if !ok {
		return
	}
	col := mb.p.WallColor(hx, hy)
	ex := mb.edge(x + 1)
	z0, z1 := mb.edge(y), mb.edge(y+1)
	a := mb.vertex(ex, lo, z0, col)
	b := mb.vertex(ex, lo, z1, col)
	c := mb.vertex(ex, hi, z1, col)
	d := mb.vertex(ex, hi, z0, col)
	// Face toward the lower cell.
	if hx == x {
		mb.tri(a, c, b)
		mb.tri(a, d, c)
	} else {
		mb.tri(a, b, c)
		mb.tri(a, c, d)
	}
	mb.geom.Walls++
}

func (mb *meshBuilder) wallZ(x, y int) {
	lo, hi, hx, hy, ok := mb.step(x, y, x, y+1)
	if !ok {
		return
	}
	col := mb.p.WallColor(hx, hy)
	ez := mb.edge(y + 1)
	x0, x1 := mb.edge(x), mb.edge(x+1)
	a := mb.vertex(x0, lo, ez, col)
	b := mb.vertex(x1, lo, ez, col)
	c := mb.vertex(x1, hi, ez, col)
	d := mb.vertex(x0, hi, ez, col)
	if hy == y {
		mb.tri(a, b, c)
		mb.tri(a, c, d)
	} else {
		mb.tri(a, c, b)
		mb.tri(a, d, c)
	}
	mb.geom.Walls++
}
