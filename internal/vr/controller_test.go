package vr

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(h Hand, d DeviceState) Snapshot {
	s := NewSnapshot()
	s.Devices[h] = d
	return s
}

func controllerAt(x, y, z, trigger float32) DeviceState {
	return DeviceState{
		Class:     DeviceController,
		Connected: true,
		Pose:      mgl32.Translate3D(x, y, z),
		Trigger:   trigger,
	}
}

func TestNewControllerStateDefaults(t *testing.T) {
	primary := NewControllerState(Primary)
	secondary := NewControllerState(Secondary)

	assert.False(t, primary.Connected)
	assert.False(t, secondary.Connected)
	assert.Equal(t, DefaultPrimaryPad, primary.Pad, "primary pad starts forward-biased")
	assert.Equal(t, rl.Vector2{}, secondary.Pad)
	assert.Equal(t, rl.MatrixIdentity(), primary.Pose)
}

func TestUpdateReadsConnectedController(t *testing.T) {
	c := NewControllerState(Secondary)
	dev := controllerAt(1, 2, 3, 0.5)
	dev.PadTouched = true
	dev.Pad = mgl32.Vec2{0.25, -0.5}

	require.NoError(t, c.Update(snapshotWith(Secondary, dev)))

	assert.True(t, c.Connected)
	assert.Equal(t, rl.Vector3{X: 1, Y: 2, Z: 3}, c.Position())
	assert.Equal(t, float32(0.5), c.Trigger)
	assert.Equal(t, rl.Vector2{X: 0.25, Y: -0.5}, c.Pad)
}

func TestUpdateKeepsPadUntilTouched(t *testing.T) {
	c := NewControllerState(Primary)
	require.NoError(t, c.Update(snapshotWith(Primary, controllerAt(0, 0, 0, 0))))
	assert.Equal(t, DefaultPrimaryPad, c.Pad)
}

func TestUpdateClampsTrigger(t *testing.T) {
	c := NewControllerState(Primary)
	require.NoError(t, c.Update(snapshotWith(Primary, controllerAt(0, 0, 0, 1.7))))
	assert.Equal(t, float32(1), c.Trigger)

	require.NoError(t, c.Update(snapshotWith(Primary, controllerAt(0, 0, 0, -0.2))))
	assert.Equal(t, float32(0), c.Trigger)
}

func TestUpdateDisconnectKeepsStaleValues(t *testing.T) {
	c := NewControllerState(Secondary)
	require.NoError(t, c.Update(snapshotWith(Secondary, controllerAt(1, 1, 1, 0.8))))

	// Slot vanishes entirely.
	require.NoError(t, c.Update(NewSnapshot()))
	assert.False(t, c.Connected)
	assert.Equal(t, float32(0.8), c.Trigger, "stale trigger is retained")
	assert.Equal(t, float32(0), c.EffectiveTrigger(), "but has no effect while disconnected")

	// Slot present but reported disconnected.
	require.NoError(t, c.Update(snapshotWith(Secondary, controllerAt(1, 1, 1, 0.8))))
	dev := controllerAt(5, 5, 5, 0.1)
	dev.Connected = false
	require.NoError(t, c.Update(snapshotWith(Secondary, dev)))
	assert.False(t, c.Connected)
	assert.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, c.Position())
}

func TestUpdateMismatchLeavesStateUnchanged(t *testing.T) {
	c := NewControllerState(Primary)
	require.NoError(t, c.Update(snapshotWith(Primary, controllerAt(1, 2, 3, 0.4))))
	before := *c

	tracker := controllerAt(9, 9, 9, 1)
	tracker.Class = DeviceTracker
	tracker.PadTouched = true
	tracker.Pad = mgl32.Vec2{-1, -1}
	err := c.Update(snapshotWith(Primary, tracker))

	var mismatch *DeviceMismatchError
	require.True(t, errors.As(err, &mismatch), "expected DeviceMismatchError, got %v", err)
	assert.Equal(t, Primary, mismatch.Hand)
	assert.Equal(t, DeviceTracker, mismatch.Got)
	assert.Equal(t, before, *c)
}

func TestEffectiveTrigger(t *testing.T) {
	for _, trigger := range []float32{0, 0.5, 1} {
		c := NewControllerState(Secondary)
		require.NoError(t, c.Update(snapshotWith(Secondary, controllerAt(0, 0, 0, trigger))))
		assert.Equal(t, trigger, c.EffectiveTrigger())

		require.NoError(t, c.Update(NewSnapshot()))
		assert.Equal(t, float32(0), c.EffectiveTrigger())
	}
}

func TestTrackedControllersSkipsNonControllers(t *testing.T) {
	s := NewSnapshot()
	s.Devices[Primary] = controllerAt(1, 0, 0, 0)
	tracker := controllerAt(2, 0, 0, 0)
	tracker.Class = DeviceTracker
	s.Devices[Secondary] = tracker

	tracked := s.TrackedControllers()
	require.Len(t, tracked, 1)
	assert.Equal(t, Primary, tracked[0].Hand)
	assert.Equal(t, rl.Vector3{X: 1}, Translation(tracked[0].Pose))
}

func TestToMatrixMatchesMathgl(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.7))
	p := mgl32.Vec3{0.3, -0.2, 0.9}
	want := mgl32.TransformCoordinate(p, m)

	got := rl.Vector3Transform(rl.Vector3{X: p.X(), Y: p.Y(), Z: p.Z()}, ToMatrix(m))
	assert.InDelta(t, want.X(), got.X, 1e-5)
	assert.InDelta(t, want.Y(), got.Y, 1e-5)
	assert.InDelta(t, want.Z(), got.Z, 1e-5)
	assert.Equal(t, rl.MatrixIdentity(), ToMatrix(mgl32.Mat4{}), "zero matrix is treated as identity")
}
