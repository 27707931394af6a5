package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// sidewaysCaster always returns a ray parallel to the ground.
type sidewaysCaster struct{}

func (sidewaysCaster) RayFromNDC(nx, ny float64) (Ray, bool) {
	return Ray{Origin: r3.Vec{Y: 5}, Dir: r3.Vec{X: 1}}, true
}

func newTestPicker() (*Picker, *CameraRig) {
	coord := mustCoordinator(DefaultSpatialConfig)
	rig := NewCameraRig(CameraLimits{MinZoom: 1, MaxZoom: 1, BaseSpan: 5, Aspect: 2, Height: 50})
	rig.CenterOn(10, 10)
	return NewPicker(coord, rig, nil), rig
}

func TestPickGroundSync_CentreHitsTarget(t *testing.T) {
	p, _ := newTestPicker()
	canvas := fakeCanvas{Left: 100, Top: 50, Width: 800, Height: 400}

	res, ok := p.PickGroundSync(500, 250, canvas)
	require.True(t, ok)
	assert.InDelta(t, 10.0, res.World.X, 1e-9)
	assert.InDelta(t, 0.0, res.World.Y, 1e-9)
	assert.InDelta(t, 10.0, res.World.Z, 1e-9)
	assert.Equal(t, GridCell{10, 10}, res.Grid)
}

func TestPickGroundSync_CornerMapsToFrustumEdge(t *testing.T) {
	p, rig := newTestPicker()
	canvas := fakeCanvas{Width: 800, Height: 400}
	f := rig.Frustum()

	res, ok := p.PickGroundSync(0, 0, canvas)
	require.True(t, ok)
	assert.InDelta(t, f.Left, res.World.X, 1e-9)
	assert.InDelta(t, f.Top, res.World.Z, 1e-9)

	res, ok = p.PickGroundSync(800, 400, canvas)
	require.True(t, ok)
	assert.InDelta(t, f.Right, res.World.X, 1e-9)
	assert.InDelta(t, f.Bottom, res.World.Z, 1e-9)
}

func TestPickGroundSync_OutsideCanvas(t *testing.T) {
	p, _ := newTestPicker()
	canvas := fakeCanvas{Left: 100, Top: 50, Width: 800, Height: 400}
	for _, pt := range [][2]float64{{99, 60}, {500, 49}, {901, 60}, {500, 451}} {
		if _, ok := p.PickGroundSync(pt[0], pt[1], canvas); ok {
			t.Fatalf("pointer %v outside canvas should miss", pt)
		}
	}
	if _, ok := p.PickGroundSync(0, 0, fakeCanvas{}); ok {
		t.Fatal("zero-size canvas should miss")
	}
	if _, ok := p.PickGroundSync(0, 0, nil); ok {
		t.Fatal("nil canvas should miss")
	}
}

func TestPickGroundSync_ParallelRayMisses(t *testing.T) {
	p := NewPicker(mustCoordinator(DefaultSpatialConfig), sidewaysCaster{}, nil)
	if _, ok := p.PickGroundSync(10, 10, fakeCanvas{Width: 100, Height: 100}); ok {
		t.Fatal("parallel ray should miss")
	}
}

func TestPickGroundSync_NoCasterDegrades(t *testing.T) {
	el := NewEventLog(nil)
	p := NewPicker(mustCoordinator(DefaultSpatialConfig), nil, el)
	if _, ok := p.PickGroundSync(10, 10, fakeCanvas{Width: 100, Height: 100}); ok {
		t.Fatal("no caster should miss")
	}
	assert.Equal(t, 1, el.Count("pick", "degraded_backend"))
}

func TestPickGroundSync_PlaneElevation(t *testing.T) {
	coord := mustCoordinator(SpatialConfig{TileWorldSize: 1, ElevationUnit: 0.5})
	rig := NewCameraRig(CameraLimits{MinZoom: 1, MaxZoom: 1, BaseSpan: 5, Aspect: 1, Height: 50})
	p := NewPicker(coord, rig, nil)
	p.SetPlaneElevation(4)
	res, ok := p.PickGroundSync(50, 50, fakeCanvas{Width: 100, Height: 100})
	require.True(t, ok)
	assert.InDelta(t, 2.0, res.World.Y, 1e-12)
}

func TestPickGroundSync_CustomIntersector(t *testing.T) {
	p, _ := newTestPicker()
	p.SetIntersector(func(Ray, float64) (r3.Vec, bool) { return r3.Vec{}, false })
	if _, ok := p.PickGroundSync(10, 10, fakeCanvas{Width: 100, Height: 100}); ok {
		t.Fatal("intersector miss should propagate")
	}
	p.SetIntersector(nil)
	if _, ok := p.PickGroundSync(10, 10, fakeCanvas{Width: 100, Height: 100}); !ok {
		t.Fatal("nil intersector should restore the default")
	}
}

func TestIntersectPlane_BehindOrigin(t *testing.T) {
	ray := Ray{Origin: r3.Vec{Y: 5}, Dir: r3.Vec{Y: 1}}
	if _, ok := IntersectPlane(ray, 0); ok {
		t.Fatal("plane behind the ray should miss")
	}
}

func TestResolveCell_FallsBackTo2D(t *testing.T) {
	p := NewPicker(mustCoordinator(DefaultSpatialConfig), sidewaysCaster{}, nil)
	canvas := fakeCanvas{Width: 100, Height: 100}
	var gotX, gotY float64
	cell, ok := p.ResolveCell(12, 34, canvas, func(px, py float64) (GridCell, bool) {
		gotX, gotY = px, py
		return GridCell{7, 8}, true
	})
	require.True(t, ok)
	assert.Equal(t, GridCell{7, 8}, cell)
	assert.Equal(t, 12.0, gotX)
	assert.Equal(t, 34.0, gotY)

	if _, ok := p.ResolveCell(12, 34, canvas, nil); ok {
		t.Fatal("no fallback should report a miss")
	}
}

func TestResolveCell_PrefersRayHit(t *testing.T) {
	p, _ := newTestPicker()
	called := false
	cell, ok := p.ResolveCell(400, 200, fakeCanvas{Width: 800, Height: 400}, func(float64, float64) (GridCell, bool) {
		called = true
		return GridCell{}, true
	})
	require.True(t, ok)
	assert.False(t, called)
	assert.Equal(t, GridCell{10, 10}, cell)
}
