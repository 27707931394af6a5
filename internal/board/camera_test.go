package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraRig_SetZoomClamps(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 0.5, MaxZoom: 2, BaseSpan: 10, Aspect: 1})
	rig.SetZoom(0.1)
	assert.Equal(t, 0.5, rig.State().Zoom)
	rig.SetZoom(5)
	assert.Equal(t, 2.0, rig.State().Zoom)
	rig.SetZoom(1.3)
	assert.Equal(t, 1.3, rig.State().Zoom)
}

func TestCameraRig_AttachAppliesImmediately(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 0.5, MaxZoom: 2, BaseSpan: 10, Aspect: 2})
	rig.CenterOn(4, 6)
	cam := &fakeCamera{}
	rig.Attach(cam)

	require.Equal(t, 1, cam.updates)
	assert.Equal(t, WorldPoint{X: 4, Z: 6}, cam.target)
	assert.Equal(t, Frustum{Left: -16, Right: 24, Top: -4, Bottom: 16}, cam.frustum)
}

func TestCameraRig_ZoomNarrowsFrustum(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 0.5, MaxZoom: 4, ZoomStep: 1.1, BaseSpan: 10, Aspect: 1})
	cam := &fakeCamera{}
	rig.Attach(cam)
	before := cam.frustum.Width()

	rig.ZoomIn()
	assert.InDelta(t, 1.1, rig.State().Zoom, 1e-12)
	assert.Less(t, cam.frustum.Width(), before)
	assert.InDelta(t, 20/1.1, cam.frustum.Height(), 1e-9)

	rig.ZoomOut()
	assert.InDelta(t, 1.0, rig.State().Zoom, 1e-12)
	assert.InDelta(t, before, cam.frustum.Width(), 1e-9)
}

func TestCameraRig_ZoomStepsClamp(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 0.5, MaxZoom: 2, ZoomStep: 1.1, BaseSpan: 10, Aspect: 1})
	for i := 0; i < 50; i++ {
		rig.ZoomIn()
	}
	assert.Equal(t, 2.0, rig.State().Zoom)
	for i := 0; i < 50; i++ {
		rig.ZoomOut()
	}
	assert.Equal(t, 0.5, rig.State().Zoom)
}

func TestCameraRig_PanMovesTargetAndReaims(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 1, MaxZoom: 1, BaseSpan: 5, Aspect: 1})
	cam := &fakeCamera{}
	rig.Attach(cam)
	rig.Pan(3, -2)
	rig.Pan(1, 1)

	st := rig.State()
	assert.Equal(t, 4.0, st.TargetX)
	assert.Equal(t, -1.0, st.TargetZ)
	assert.Equal(t, WorldPoint{X: 4, Z: -1}, cam.target)
	assert.Equal(t, Frustum{Left: -1, Right: 9, Top: -6, Bottom: 4}, cam.frustum)
	assert.Equal(t, 3, cam.lookAts)
}

func TestCameraRig_Idempotent(t *testing.T) {
	rig := NewCameraRig(DefaultCameraLimits)
	cam := &fakeCamera{}
	rig.Attach(cam)
	rig.SetZoom(1.7)
	first := cam.frustum
	rig.SetZoom(1.7)
	assert.Equal(t, first, cam.frustum)
}

func TestCameraRig_UnattachedIsSafe(t *testing.T) {
	rig := NewCameraRig(DefaultCameraLimits)
	rig.Pan(1, 1)
	rig.ZoomIn()
	rig.SetAspect(0)
	assert.Equal(t, DefaultCameraLimits.Aspect, rig.Limits().Aspect)
}

func TestCameraRig_RayFromNDC(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 1, MaxZoom: 1, BaseSpan: 5, Aspect: 2, Height: 50})
	rig.CenterOn(10, 20)

	ray, ok := rig.RayFromNDC(0, 0)
	require.True(t, ok)
	assert.Equal(t, 10.0, ray.Origin.X)
	assert.Equal(t, 20.0, ray.Origin.Z)
	assert.Equal(t, 50.0, ray.Origin.Y)
	assert.Equal(t, -1.0, ray.Dir.Y)

	// Top-left corner of the view.
	ray, _ = rig.RayFromNDC(-1, 1)
	assert.InDelta(t, 0.0, ray.Origin.X, 1e-12)
	assert.InDelta(t, 15.0, ray.Origin.Z, 1e-12)
}

func TestCameraRig_TiltedRayStaysOnPixel(t *testing.T) {
	rig := NewCameraRig(CameraLimits{MinZoom: 1, MaxZoom: 1, BaseSpan: 5, Aspect: 1, Height: 40, Tilt: 0.5})
	rig.CenterOn(3, 3)
	ray, _ := rig.RayFromNDC(0, 0)

	ground, ok := IntersectPlane(ray, 0)
	require.True(t, ok)
	assert.InDelta(t, 3.0, ground.Z, 1e-12)

	// The same pixel sees a terrace of height 2 one cell further down the map.
	raised, ok := IntersectPlane(ray, 2)
	require.True(t, ok)
	assert.InDelta(t, 4.0, raised.Z, 1e-12)
	assert.InDelta(t, 3.0, raised.X, 1e-12)
}
