package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxBatchVertices keeps each DrawTriangles call within uint16 indices.
const maxBatchVertices = 65535 / 3 * 3

var whiteSubImage *ebiten.Image

func whiteSource() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// MeshRenderer draws the terrain MeshGeometry with DrawTriangles. It owns the
// current geometry; SetGeometry drops the previous one.
type MeshRenderer struct {
	geom  *board.MeshGeometry
	order []int // triangle draw order, back to front
	key   orderKey

	vertices []ebiten.Vertex
	indices  []uint16
}

type orderKey struct {
	proj    Projector
	version int
}

// SetGeometry replaces the geometry. Nil clears it.
func (mr *MeshRenderer) SetGeometry(g *board.MeshGeometry) {
	mr.geom = g
	mr.order = nil
}

// Geometry returns the current geometry.
func (mr *MeshRenderer) Geometry() *board.MeshGeometry { return mr.geom }

// Release drops the geometry and scratch buffers.
func (mr *MeshRenderer) Release() {
	mr.geom = nil
	mr.order = nil
	mr.vertices = nil
	mr.indices = nil
}

// triangleOrder returns triangle indices sorted back to front under proj.
func triangleOrder(g *board.MeshGeometry, proj Projector) []int {
	n := g.TriangleCount()
	order := make([]int, n)
	depth := make([]float64, n)
	for t := 0; t < n; t++ {
		order[t] = t
		var sum float64
		for k := 0; k < 3; k++ {
			sum += proj.Depth(g.Vertex(int(g.Indices[t*3+k])))
		}
		depth[t] = sum / 3
	}
	sort.SliceStable(order, func(i, j int) bool {
		return depth[order[i]] < depth[order[j]]
	})
	return order
}

// Draw renders the geometry. version identifies the projector state; the
// triangle order is re-sorted only when it changes.
func (mr *MeshRenderer) Draw(dst *ebiten.Image, proj Projector, version int) {
	g := mr.geom
	if g == nil || g.TriangleCount() == 0 {
		return
	}
	key := orderKey{proj: proj, version: version}
	if mr.order == nil || mr.key != key {
		mr.order = triangleOrder(g, proj)
		mr.key = key
	}

	mr.vertices = mr.vertices[:0]
	mr.indices = mr.indices[:0]
	src := whiteSource()
	op := &ebiten.DrawTrianglesOptions{}
	for _, t := range mr.order {
		for corner := 0; corner < 3; corner++ {
			vi := int(g.Indices[t*3+corner])
			x, y := proj.Project(g.Vertex(vi))
			c := g.VertexColor(vi)
			mr.indices = append(mr.indices, uint16(len(mr.vertices))) // #nosec G115 -- batch is capped below 65535
			mr.vertices = append(mr.vertices, ebiten.Vertex{
				DstX:   float32(x),
				DstY:   float32(y),
				SrcX:   1,
				SrcY:   1,
				ColorR: c.R,
				ColorG: c.G,
				ColorB: c.B,
				ColorA: 1,
			})
		}
		if len(mr.vertices) >= maxBatchVertices {
			dst.DrawTriangles(mr.vertices, mr.indices, src, op)
			mr.vertices = mr.vertices[:0]
			mr.indices = mr.indices[:0]
		}
	}
	if len(mr.vertices) > 0 {
		dst.DrawTriangles(mr.vertices, mr.indices, src, op)
	}
}
