package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

func TestInLedgeBand(t *testing.T) {
	cases := []struct {
		y    float64
		want bool
	}{
		{2.49, false},
		{2.5, true},
		{2.55, true},
		{2.6, true},
		{2.61, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, InLedgeBand(c.y, 3.0, 0.4, 0.5), "y=%v", c.y)
	}
}

// hangingFixture puts the player in the hang band facing a 2-unit climbable
// block whose top is at y=2.5, then runs until the attach tween and the
// grace period are over.
func hangingFixture(t *testing.T) (*fixture, ecs.Entity, *LedgeHangSystem) {
	t.Helper()
	f := newFixture(t, mgl64.Vec3{0, 2.05, -0.4})
	ledge := f.crate(t, "block", mgl64.Vec3{0, 1.5, 1}, 2, true)
	hangSys := NewLedgeHangSystem(f.scene, nil)

	step(f.w, hangSys)
	flags := f.flags()
	require.True(t, flags.Hanging)
	require.True(t, flags.Climbing)
	require.False(t, flags.CanMove)

	hang, ok := ecs.Get(f.w, f.p, component.LedgeHangComponent.Kind())
	require.True(t, ok)
	assert.True(t, hang.Attaching)
	assert.Equal(t, uint64(ledge), hang.Ledge)

	for i := 0; i < 40; i++ {
		step(f.w, NewTweenSystem(), NewTaskSystem())
	}
	require.True(t, flags.CanMove)
	require.False(t, hang.Attaching)
	require.True(t, hang.YLockSet)
	require.NotNil(t, hang.Plane)
	return f, ledge, hangSys
}

func TestLedgeGrab(t *testing.T) {
	f, _, _ := hangingFixture(t)

	body, ok := f.scene.Body(f.p)
	require.True(t, ok)
	assert.Zero(t, body.Mass())
	lock, ok := ecs.Get(f.w, f.p, component.MassLockComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, lock.Original)

	tr := f.transform(f.p)
	assert.InDelta(t, -0.2, tr.Position.Z(), 1e-9, "attach tween pulls toward the wall")
	assert.InDelta(t, 2.05, tr.Position.Y(), 1e-9)
}

func TestLedgeGrabOutsideBand(t *testing.T) {
	f := newFixture(t, mgl64.Vec3{0, 1.5, -0.4})
	f.crate(t, "block", mgl64.Vec3{0, 1.5, 1}, 2, true)

	step(f.w, NewLedgeHangSystem(f.scene, nil))

	assert.False(t, f.flags().Hanging)
	assert.False(t, ecs.Has(f.w, f.p, component.LedgeHangComponent.Kind()))
}

func TestLedgeShimmyKeepsHeightAndPlane(t *testing.T) {
	f, _, hangSys := hangingFixture(t)
	f.input().Right = true

	for i := 0; i < 10; i++ {
		step(f.w, hangSys)
	}

	tr := f.transform(f.p)
	assert.InDelta(t, 0.2, tr.Position.X(), 1e-9)
	assert.InDelta(t, 2.05, tr.Position.Y(), 1e-9)
	assert.InDelta(t, -0.2, tr.Position.Z(), 1e-9)
	assert.True(t, f.flags().Hanging)
}

func TestLedgeClimbUp(t *testing.T) {
	f, _, hangSys := hangingFixture(t)
	f.input().Forward = true

	step(f.w, hangSys)

	flags := f.flags()
	assert.False(t, flags.Hanging)
	assert.True(t, flags.ClimbingUp)
	assert.Equal(t, component.ForcedClimbUp, f.lock().Forced)
	assert.False(t, f.input().Forward, "input is cleared for the climb-up")
	assert.False(t, ecs.Has(f.w, f.p, component.LedgeHangComponent.Kind()))

	for i := 0; i < 120; i++ {
		step(f.w, NewTaskSystem())
	}

	tr := f.transform(f.p)
	assert.InDelta(t, 2.85, tr.Position.Y(), 1e-9)
	assert.InDelta(t, 0.4, tr.Position.Z(), 1e-9)
	assert.False(t, flags.ClimbingUp)
	assert.True(t, flags.Grounded)
	assert.False(t, f.lock().Active())
	body, _ := f.scene.Body(f.p)
	assert.Equal(t, 1.0, body.Mass())
}

func TestLedgeRelease(t *testing.T) {
	f, _, hangSys := hangingFixture(t)
	f.input().Back = true

	step(f.w, hangSys)
	hang, ok := ecs.Get(f.w, f.p, component.LedgeHangComponent.Kind())
	require.True(t, ok)
	assert.True(t, hang.Releasing)
	assert.False(t, f.flags().Climbing)

	for i := 0; i < 10; i++ {
		step(f.w, NewTweenSystem(), NewTaskSystem())
	}
	assert.False(t, f.flags().Hanging)
	assert.False(t, ecs.Has(f.w, f.p, component.LedgeHangComponent.Kind()))
	assert.InDelta(t, -1.2, f.transform(f.p).Position.Z(), 1e-9)
}

func TestLedgeLostDrops(t *testing.T) {
	f, ledge, hangSys := hangingFixture(t)
	f.transform(ledge).Position = mgl64.Vec3{10, 1.5, 10}

	step(f.w, hangSys)

	assert.False(t, f.flags().Hanging)
	assert.InDelta(t, -2, f.velocity(t, f.p).Y(), 1e-9)
}
