package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/entity"
	"github.com/milk9111/ledgerunner/ecs/sim"
	"github.com/milk9111/ledgerunner/prefabs"
)

type moverFixture struct {
	*fixture
	agent      ecs.Entity
	crowd      *sim.Crowd
	highlights *sim.Highlights
	systems    []ecs.System
}

// newMoverFixture builds a 20x20 floor with one box mover at the origin
// whose drop zone surrounds its start.
func newMoverFixture(t *testing.T) *moverFixture {
	t.Helper()
	f := newFixture(t, mgl64.Vec3{-8, 0.3, -8})

	spec := entity.DefaultBoxMoverSpec()
	agent, err := entity.NewBoxMoverAt(f.w, spec, prefabs.BoxMoverPlacementSpec{
		DropZone: &prefabs.BoxSpec{Min: prefabs.Vec3{-2, -1, -2}, Max: prefabs.Vec3{2, 3, 2}},
	})
	require.NoError(t, err)
	f.anims.Attach(agent, sim.NewAnimator(map[string]float64{
		"idle": 2, "walkforward": 1, "carrywalk": 1, "pickup": 0.5, "drop": 0.5,
	}))

	nav := sim.NewNavPlane(f.scene, component.LevelBounds{Width: 20, Depth: 20}, 0, 0.25, spec.Agent.Radius, nil)
	crowd := sim.NewCrowd(nav, nil)
	highlights := sim.NewHighlights()

	return &moverFixture{
		fixture:    f,
		agent:      agent,
		crowd:      crowd,
		highlights: highlights,
		systems: []ecs.System{
			NewBoxMoverSystem(f.scene, nav, crowd, f.anims, highlights, nil),
			nav,
			crowd,
			f.scene,
			f.anims,
			NewHierarchySystem(),
			NewTaskSystem(),
		},
	}
}

func (m *moverFixture) mover() *component.BoxMover {
	bm, _ := ecs.Get(m.w, m.agent, component.BoxMoverComponent.Kind())
	return bm
}

func (m *moverFixture) tick() {
	step(m.w, m.systems...)
}

// runUntil ticks until cond holds or max ticks pass, collecting the agent's
// state entries.
func (m *moverFixture) runUntil(max int, seen *[]string, cond func() bool) bool {
	for i := 0; i < max; i++ {
		m.tick()
		for _, ev := range drainEvents(m.w, ecs.EventBoxMoverState) {
			change := ev.Data.(ecs.StateChange)
			if n := len(*seen); n == 0 || (*seen)[n-1] != change.To {
				*seen = append(*seen, change.To)
			}
		}
		if cond() {
			return true
		}
	}
	return false
}

func TestBoxMoverFetchesCrate(t *testing.T) {
	m := newMoverFixture(t)
	crate := m.crate(t, "crate", mgl64.Vec3{4, 0.4, 0}, 0.8, false)

	var seen []string
	ok := m.runUntil(120, &seen, func() bool { return m.mover().Target != 0 })
	require.True(t, ok, "poll should find the crate, states %v", seen)
	assert.Equal(t, uint64(crate), m.mover().Target)
	assert.Equal(t, component.BoxMoverSeek, m.mover().State)
	assert.True(t, m.highlights.Highlighted(crate))

	ok = m.runUntil(600, &seen, func() bool { return m.mover().State == component.BoxMoverCarry })
	require.True(t, ok, "states %v", seen)
	caps, _ := ecs.Get(m.w, crate, component.CapabilitiesComponent.Kind())
	assert.Equal(t, component.HolderAgent, caps.HeldBy.Kind)
	assert.Equal(t, uint64(m.agent), m.transform(crate).Parent)
	assert.InDelta(t, 2.0, m.mover().HeldMass, 1e-9)
	assert.False(t, m.highlights.Highlighted(crate), "held crates lose their outline")

	ok = m.runUntil(900, &seen, func() bool {
		return m.mover().State == component.BoxMoverIdle && m.mover().Held == 0
	})
	require.True(t, ok, "states %v", seen)
	assert.Equal(t, []string{"IDLE", "SEEK", "PICKUP", "CARRY", "DROP", "RETURN", "IDLE"}, seen)

	assert.False(t, m.transform(crate).Parented())
	assert.False(t, caps.Held())
	body, ok := m.scene.Body(crate)
	require.True(t, ok)
	assert.Equal(t, 2.0, body.Mass())
	assert.True(t, m.mover().InDropZone(m.transform(crate).Position))

	// the crate now sits in the drop zone, so nothing new is picked
	for i := 0; i < 180; i++ {
		m.tick()
	}
	assert.Equal(t, component.BoxMoverIdle, m.mover().State)
	assert.True(t, body.Collisions(), "collisions come back after the grace period")
}

func TestBoxMoverPicksUpOnArrival(t *testing.T) {
	m := newMoverFixture(t)
	crate := m.crate(t, "crate", mgl64.Vec3{4, 0.4, 0}, 0.8, false)
	cfg, ok := ecs.Get(m.w, m.agent, component.BoxMoverConfigComponent.Kind())
	require.True(t, ok)
	// the transform catches up with the crowd at the start of the next
	// update, so reach is measured from the crowd position
	inReach := func() bool {
		pos, ok := m.crowd.AgentPosition(m.mover().AgentIdx)
		return ok && pos.Sub(m.transform(crate).Position).Len() < cfg.CaptureRadius
	}

	for i := 0; i < 600; i++ {
		if m.mover().State != component.BoxMoverSeek || !inReach() {
			m.tick()
			require.NotEqual(t, component.BoxMoverPickup, m.mover().State, "pickup only follows a seek in reach")
			continue
		}

		m.tick()
		require.Equal(t, component.BoxMoverPickup, m.mover().State, "reaching the crate picks it up that tick")
		assert.Equal(t, uint64(crate), m.mover().Held)
		assert.Equal(t, uint64(m.agent), m.transform(crate).Parent)

		m.tick()
		require.Equal(t, component.BoxMoverCarry, m.mover().State)
		assert.Equal(t, uint64(m.agent), m.transform(crate).Parent)
		return
	}
	t.Fatalf("agent never reached the crate, state %v", m.mover().State)
}

func TestBoxMoverPollReacquires(t *testing.T) {
	m := newMoverFixture(t)

	var seen []string
	m.runUntil(150, &seen, func() bool { return false })
	require.Equal(t, component.BoxMoverIdle, m.mover().State)

	crate := m.crate(t, "late", mgl64.Vec3{-4, 0.4, 3}, 0.8, false)
	ok := m.runUntil(120, &seen, func() bool { return m.mover().Target == uint64(crate) })
	assert.True(t, ok, "the periodic poll should pick up a new crate, states %v", seen)
}

func TestBoxMoverIgnoresHiddenCrate(t *testing.T) {
	m := newMoverFixture(t)
	_, err := entity.NewWall(m.w, m.scene, prefabs.SolidSpec{
		Name:   "screen",
		Center: prefabs.Vec3{3, 1, 0},
		Size:   prefabs.Vec3{0.4, 2, 6},
	})
	require.NoError(t, err)
	crate := m.crate(t, "hidden", mgl64.Vec3{5, 0.4, 0}, 0.8, false)

	var seen []string
	m.runUntil(150, &seen, func() bool { return false })

	assert.Zero(t, m.mover().Target)
	assert.Equal(t, component.BoxMoverIdle, m.mover().State)
	assert.False(t, m.highlights.Highlighted(crate))
}

func TestBoxMoverDropsTargetTakenByPlayer(t *testing.T) {
	m := newMoverFixture(t)
	crate := m.crate(t, "crate", mgl64.Vec3{6, 0.4, 0}, 0.8, false)

	var seen []string
	require.True(t, m.runUntil(120, &seen, func() bool { return m.mover().Target != 0 }))

	caps, _ := ecs.Get(m.w, crate, component.CapabilitiesComponent.Kind())
	caps.HeldBy = component.Holder{Kind: component.HolderPlayer, Entity: uint64(m.p)}
	m.tick()

	assert.Equal(t, component.BoxMoverIdle, m.mover().State)
	assert.Zero(t, m.mover().Target)
}
