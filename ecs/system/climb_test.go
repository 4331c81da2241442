package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// wallFixture stands the player against the -Z face of a climbable block.
func wallFixture(t *testing.T) (*fixture, ecs.Entity, *ClimbSystem) {
	t.Helper()
	f := newFixture(t, mgl64.Vec3{0, 0.3, -0.4})
	wall := f.crate(t, "wall", mgl64.Vec3{0, 1.5, 1}, 2, true)
	return f, wall, NewClimbSystem(f.scene, f.anims, nil)
}

func climbOf(f *fixture) *component.Climb {
	c, _ := ecs.Get(f.w, f.p, component.ClimbComponent.Kind())
	return c
}

func TestClimbSticksAndLocksHeight(t *testing.T) {
	f, wall, climb := wallFixture(t)

	step(f.w, climb)

	flags := f.flags()
	assert.True(t, flags.CanClimb)
	assert.Equal(t, uint64(wall), flags.ClimbTarget)
	assert.True(t, flags.Climbing)

	v := f.velocity(t, f.p)
	assert.InDelta(t, 0.4, v.Z(), 1e-9, "stick force pushes into the wall")
	body, _ := f.scene.Body(f.p)
	assert.Zero(t, body.Mass())
	assert.True(t, climbOf(f).YLockSet)
	assert.InDelta(t, 0.3, climbOf(f).YLock, 1e-9)
}

func TestClimbUpwardInput(t *testing.T) {
	f, _, climb := wallFixture(t)
	f.input().Forward = true

	step(f.w, climb)

	v := f.velocity(t, f.p)
	assert.InDelta(t, 2, v.Y(), 1e-9)
	assert.InDelta(t, 0.4, v.Z(), 1e-9)
	assert.False(t, climbOf(f).YLockSet)
}

func TestClimbClearsJumpLock(t *testing.T) {
	f, _, climb := wallFixture(t)
	f.lock().Set(component.ForcedJump)

	step(f.w, climb)

	assert.False(t, f.lock().Active())
}

func TestWallJump(t *testing.T) {
	f, _, climb := wallFixture(t)
	step(f.w, climb)
	require.True(t, f.flags().Climbing)

	f.input().JumpPressed = true
	step(f.w, climb)

	assert.Equal(t, component.ForcedJump, f.lock().Forced)
	assert.False(t, f.flags().Climbing)
	assert.False(t, f.input().JumpPressed)

	v := f.velocity(t, f.p)
	assert.InDelta(t, 0, v.X(), 1e-9)
	assert.InDelta(t, 6, v.Y(), 1e-9)
	assert.InDelta(t, -5, v.Z(), 1e-9)

	body, _ := f.scene.Body(f.p)
	assert.Equal(t, 1.0, body.Mass(), "mass comes back for the jump")
	assert.InDelta(t, 0.5, climbOf(f).Cooldown, 1e-9)

	tw, ok := ecs.Get(f.w, f.p, component.RotationTweenComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 20.0/60.0, tw.Duration, 1e-9)
	back := common.ForwardOf(tw.To)
	assert.InDelta(t, -1, back.Z(), 1e-9)

	// the cooldown suppresses re-attaching
	step(f.w, climb)
	assert.False(t, f.flags().Climbing)
	assert.Less(t, climbOf(f).Cooldown, 0.5)
}

func TestClimbExitsWhenWallGone(t *testing.T) {
	f, wall, climb := wallFixture(t)
	step(f.w, climb)
	require.True(t, f.flags().Climbing)

	f.transform(wall).Position = mgl64.Vec3{20, 1.5, 20}
	step(f.w, climb)

	assert.False(t, f.flags().Climbing)
	assert.False(t, f.flags().CanClimb)
	body, _ := f.scene.Body(f.p)
	assert.Equal(t, 1.0, body.Mass())
}

func TestClimbExitsOnTopFace(t *testing.T) {
	f, wall, climb := wallFixture(t)
	step(f.w, climb)
	require.True(t, f.flags().Climbing)

	f.flags().OnTopFace = true
	f.flags().StandingOn = uint64(wall)
	step(f.w, climb)

	assert.False(t, f.flags().Climbing)
}
