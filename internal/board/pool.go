package board

import (
	"github.com/google/uuid"
)

// DefaultGroupCapacity is the slot count of each instance group.
const DefaultGroupCapacity = 64

// PlaceableHandle is a non-owning reference into the pool.
type PlaceableHandle struct {
	Group string // InstanceGroup.ID
	Slot  int
	Gen   uint32 // slot generation at allocation
}

// Placeable is a decorative object on the board (tree, rock, crate...). It
// only carries its handle; the pool never reaches back into it except to
// set or clear that handle.
type Placeable struct {
	Type      string
	Cell      GridCell
	Elevation float64 // surface elevation of the cell, in elevation units
	Rotation  float64

	handle PlaceableHandle
	placed bool
}

// Handle returns the pool handle and whether the placeable is in the pool.
func (p *Placeable) Handle() (PlaceableHandle, bool) {
	return p.handle, p.placed
}

// InstanceGroup is one fixed-capacity batch of same-type instances.
type InstanceGroup struct {
	ID       string
	TypeKey  string
	Capacity int
	Style    PlaceableStyle

	free     []int // stack of unused slots
	occupied []bool
	gen      []uint32 // bumped on every release
	live     int
	dirty    bool
	buf      InstanceBuffer
}

// Live returns the number of occupied slots.
func (g *InstanceGroup) Live() int { return g.live }

// FreeSlots returns the number of unused slots.
func (g *InstanceGroup) FreeSlots() int { return len(g.free) }

// Dirty reports whether the group has slot writes not yet committed.
func (g *InstanceGroup) Dirty() bool { return g.dirty }

func (g *InstanceGroup) write(slot int, t InstanceTransform) {
	if g.buf != nil {
		g.buf.SetSlot(slot, t)
	}
	g.dirty = true
}

func (g *InstanceGroup) alloc() (int, bool) {
	n := len(g.free)
	if n == 0 {
		return 0, false
	}
	slot := g.free[n-1]
	g.free = g.free[:n-1]
	g.occupied[slot] = true
	g.live++
	return slot, true
}

func (g *InstanceGroup) release(slot int) bool {
	if slot < 0 || slot >= g.Capacity || !g.occupied[slot] {
		return false
	}
	g.occupied[slot] = false
	g.gen[slot]++
	g.free = append(g.free, slot)
	g.live--
	return true
}

// PoolStats summarises a Pool. Groups counts every group ever created;
// Instances counts live slots only.
type PoolStats struct {
	Groups    int
	Instances int
}

// Pool places decorative placeables into instanced draw batches. Groups are
// created lazily per type and never resized or freed; a full group gets a
// sibling of the same type. Not safe for concurrent use.
type Pool struct {
	coord    *Coordinator
	factory  GraphicsFactory
	styles   StyleTable
	capacity int
	log      Logger

	groups []*InstanceGroup
	byType map[string][]*InstanceGroup
	byID   map[string]*InstanceGroup
	live   int
}

// NewPool creates an empty pool. capacity <= 0 uses DefaultGroupCapacity and
// a nil style table uses DefaultStyles.
func NewPool(coord *Coordinator, factory GraphicsFactory, styles StyleTable, capacity int, log Logger) *Pool {
	if capacity <= 0 {
		capacity = DefaultGroupCapacity
	}
	if styles == nil {
		styles = DefaultStyles
	}
	if log == nil {
		log = NopLogger{}
	}
	return &Pool{
		coord:    coord,
		factory:  factory,
		styles:   styles,
		capacity: capacity,
		log:      log,
		byType:   make(map[string][]*InstanceGroup),
		byID:     make(map[string]*InstanceGroup),
	}
}

func (p *Pool) newGroup(typeKey string) *InstanceGroup {
	style, ok := p.styles.Resolve(typeKey)
	if !ok {
		p.log.Warnf("pool", "unknown_type: no style for %q, using default", typeKey)
	}
	g := &InstanceGroup{
		ID:       uuid.NewString(),
		TypeKey:  typeKey,
		Capacity: p.capacity,
		Style:    style,
		free:     make([]int, 0, p.capacity),
		occupied: make([]bool, p.capacity),
		gen:      make([]uint32, p.capacity),
		buf:      p.factory.NewInstanceBuffer(typeKey, p.capacity, style),
	}
	// Stack order hands out slot 0 first.
	for i := p.capacity - 1; i >= 0; i-- {
		g.free = append(g.free, i)
	}
	p.groups = append(p.groups, g)
	p.byType[typeKey] = append(p.byType[typeKey], g)
	p.byID[g.ID] = g
	return g
}

func (p *Pool) transformFor(obj *Placeable, style PlaceableStyle) InstanceTransform {
	return InstanceTransform{
		Position: p.coord.GridToWorld(obj.Cell.X, obj.Cell.Y, obj.Elevation+style.YOffset),
		Scale:    style.Scale * p.coord.Config().TileWorldSize,
		Rotation: obj.Rotation,
		Color:    style.Color,
	}
}

// Add places obj into a free slot of a group of its type and stores the
// handle on obj. It returns false only when no graphics backend is
// available. Adding an already placed object returns its existing handle.
func (p *Pool) Add(obj *Placeable) (PlaceableHandle, bool) {
	if obj == nil {
		return PlaceableHandle{}, false
	}
	if obj.placed {
		return obj.handle, true
	}
	if p.factory == nil {
		p.log.Warnf("pool", "degraded_backend: cannot place %q at %v", obj.Type, obj.Cell)
		return PlaceableHandle{}, false
	}

	var g *InstanceGroup
	for _, cand := range p.byType[obj.Type] {
		if cand.FreeSlots() > 0 {
			g = cand
			break
		}
	}
	if g == nil {
		g = p.newGroup(obj.Type)
	}
	slot, _ := g.alloc()
	g.write(slot, p.transformFor(obj, g.Style))
	p.live++

	obj.handle = PlaceableHandle{Group: g.ID, Slot: slot, Gen: g.gen[slot]}
	obj.placed = true
	return obj.handle, true
}

// Update rewrites obj's slot after its cell, elevation or rotation changed.
func (p *Pool) Update(obj *Placeable) bool {
	g := p.groupOf(obj)
	if g == nil {
		return false
	}
	g.write(obj.handle.Slot, p.transformFor(obj, g.Style))
	return true
}

func (p *Pool) groupOf(obj *Placeable) *InstanceGroup {
	if obj == nil || !obj.placed {
		return nil
	}
	h := obj.handle
	g := p.byID[h.Group]
	if g == nil || h.Slot < 0 || h.Slot >= g.Capacity || !g.occupied[h.Slot] {
		return nil
	}
	// A handle from before the slot was recycled belongs to someone else.
	if g.gen[h.Slot] != h.Gen {
		return nil
	}
	return g
}

// Remove hides obj's slot, returns it to the free list and clears obj's
// handle. Groups are kept. It returns false if obj was not placed here.
func (p *Pool) Remove(obj *Placeable) bool {
	g := p.groupOf(obj)
	if g == nil {
		return false
	}
	slot := obj.handle.Slot
	g.write(slot, InstanceTransform{})
	g.release(slot)
	p.live--

	obj.handle = PlaceableHandle{}
	obj.placed = false
	return true
}

// Stats returns the group and live instance counts.
func (p *Pool) Stats() PoolStats {
	return PoolStats{Groups: len(p.groups), Instances: p.live}
}

// Groups returns every group in creation order.
func (p *Pool) Groups() []*InstanceGroup {
	out := make([]*InstanceGroup, len(p.groups))
	copy(out, p.groups)
	return out
}

// Flush commits every dirty group's buffer and returns how many were committed.
// Call once per rendered frame.
func (p *Pool) Flush() int {
	n := 0
	for _, g := range p.groups {
		if !g.dirty || g.buf == nil {
			continue
		}
		g.buf.Commit()
		g.dirty = false
		n++
	}
	return n
}

// Release frees every backend buffer. The pool degrades to a no-op afterwards.
func (p *Pool) Release() {
	for _, g := range p.groups {
		if g.buf != nil {
			g.buf.Release()
			g.buf = nil
		}
	}
	p.factory = nil
}
