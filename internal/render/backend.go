package render

import (
	"image/color"

	"github.com/Garsondee/battlegrid/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Backend is the ebiten implementation of board.GraphicsFactory. Instance
// batches are drawn as small vector shapes at their projected positions.
type Backend struct {
	batches []*InstanceBatch
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{}
}

// NewInstanceBuffer implements board.GraphicsFactory.
func (b *Backend) NewInstanceBuffer(typeKey string, capacity int, style board.PlaceableStyle) board.InstanceBuffer {
	ib := &InstanceBatch{
		TypeKey:   typeKey,
		Style:     style,
		pending:   make([]board.InstanceTransform, capacity),
		committed: make([]board.InstanceTransform, capacity),
	}
	b.batches = append(b.batches, ib)
	return ib
}

// Batches returns the batches that have not been released.
func (b *Backend) Batches() []*InstanceBatch {
	out := make([]*InstanceBatch, 0, len(b.batches))
	for _, ib := range b.batches {
		if !ib.released {
			out = append(out, ib)
		}
	}
	return out
}

// InstanceBatch holds one group's slots. Writes land in pending and become
// visible on Commit.
type InstanceBatch struct {
	TypeKey string
	Style   board.PlaceableStyle

	pending   []board.InstanceTransform
	committed []board.InstanceTransform
	commits   int
	released  bool
}

// SetSlot implements board.InstanceBuffer.
func (ib *InstanceBatch) SetSlot(slot int, t board.InstanceTransform) {
	if ib.released || slot < 0 || slot >= len(ib.pending) {
		return
	}
	ib.pending[slot] = t
}

// Commit implements board.InstanceBuffer.
func (ib *InstanceBatch) Commit() {
	if ib.released {
		return
	}
	copy(ib.committed, ib.pending)
	ib.commits++
}

// Release implements board.InstanceBuffer.
func (ib *InstanceBatch) Release() {
	ib.released = true
	ib.pending = nil
	ib.committed = nil
}

// Visible returns the committed, non-hidden instances.
func (ib *InstanceBatch) Visible() []board.InstanceTransform {
	var out []board.InstanceTransform
	for _, t := range ib.committed {
		if !t.Hidden() {
			out = append(out, t)
		}
	}
	return out
}

func toRGBA(c board.RGB, a uint8) color.RGBA {
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: a}
}

// Draw renders every visible instance of the batch.
func (ib *InstanceBatch) Draw(dst *ebiten.Image, proj Projector) {
	ppw := proj.PixelsPerWorld()
	for _, t := range ib.Visible() {
		x, y := proj.Project(t.Position)
		fx, fy := float32(x), float32(y)
		r := float32(t.Scale * ppw * 0.5)
		col := toRGBA(t.Color, 255)
		shadow := color.RGBA{R: 0, G: 0, B: 0, A: 70}
		switch ib.Style.Kind {
		case board.KindTree:
			// Trunk, then canopy lifted above it.
			vector.FillCircle(dst, fx, fy, r*0.6, shadow, true)
			vector.FillRect(dst, fx-r*0.12, fy-r*0.9, r*0.24, r*0.9, color.RGBA{R: 90, G: 62, B: 40, A: 255}, false)
			vector.FillCircle(dst, fx, fy-r*1.1, r*0.75, col, true)
		case board.KindRock:
			vector.FillCircle(dst, fx, fy, r*0.7, shadow, true)
			vector.FillCircle(dst, fx, fy-r*0.2, r*0.6, col, true)
		case board.KindBush:
			vector.FillCircle(dst, fx-r*0.3, fy-r*0.3, r*0.5, col, true)
			vector.FillCircle(dst, fx+r*0.3, fy-r*0.3, r*0.5, col, true)
			vector.FillCircle(dst, fx, fy-r*0.6, r*0.5, col, true)
		default:
			vector.FillRect(dst, fx-r*0.5, fy-r, r, r, col, false)
			vector.StrokeRect(dst, fx-r*0.5, fy-r, r, r, 1, color.RGBA{R: 30, G: 20, B: 10, A: 255}, false)
		}
	}
}

// Draw renders every live batch.
func (b *Backend) Draw(dst *ebiten.Image, proj Projector) {
	for _, ib := range b.Batches() {
		ib.Draw(dst, proj)
	}
}
