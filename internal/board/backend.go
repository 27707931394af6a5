package board

// GraphicsFactory is the optional 3D backend capability. When a component is
// handed a nil factory it degrades to a no-op and logs a warning.
type GraphicsFactory interface {
	// NewInstanceBuffer allocates a fixed-capacity instanced draw batch for
	// one placeable type. The capacity never changes afterwards.
	NewInstanceBuffer(typeKey string, capacity int, style PlaceableStyle) InstanceBuffer
}

// InstanceBuffer is one fixed-capacity instanced draw batch.
type InstanceBuffer interface {
	SetSlot(slot int, t InstanceTransform)
	// Commit uploads pending slot writes for the next render.
	Commit()
	Release()
}

// InstanceTransform is the per-instance data written into a slot.
type InstanceTransform struct {
	Position WorldPoint
	Scale    float64 // 0 hides the instance
	Rotation float64 // radians around the up axis
	Color    RGB
}

// Hidden reports whether the transform collapses the instance to nothing.
func (t InstanceTransform) Hidden() bool {
	return t.Scale == 0
}
