package board

// fakeFactory records every buffer it hands out.
type fakeFactory struct {
	buffers []*fakeBuffer
}

func (f *fakeFactory) NewInstanceBuffer(typeKey string, capacity int, style PlaceableStyle) InstanceBuffer {
	b := &fakeBuffer{typeKey: typeKey, slots: make([]InstanceTransform, capacity), style: style}
	f.buffers = append(f.buffers, b)
	return b
}

type fakeBuffer struct {
	typeKey  string
	style    PlaceableStyle
	slots    []InstanceTransform
	commits  int
	released bool
}

func (b *fakeBuffer) SetSlot(slot int, t InstanceTransform) {
	b.slots[slot] = t
}

func (b *fakeBuffer) Commit() {
	b.commits++
}

func (b *fakeBuffer) Release() {
	b.released = true
}

// fakeCamera records what the rig asked of it.
type fakeCamera struct {
	frustum Frustum
	target  WorldPoint
	updates int
	lookAts int
}

func (c *fakeCamera) SetFrustum(f Frustum) {
	c.frustum = f
}

func (c *fakeCamera) LookAt(target WorldPoint) {
	c.target = target
	c.lookAts++
}

func (c *fakeCamera) UpdateProjection() {
	c.updates++
}

type fakeCanvas Rect

func (c fakeCanvas) BoundingClientRect() Rect { return Rect(c) }

func mustCoordinator(cfg SpatialConfig) *Coordinator {
	c, err := NewCoordinator(cfg, DefaultScreenLayout)
	if err != nil {
		panic(err)
	}
	return c
}

func ptr(v float64) *float64 { return &v }
