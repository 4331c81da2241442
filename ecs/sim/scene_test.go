package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const dt = 1.0 / 60.0

func box(t *testing.T, w *ecs.World, center, half mgl64.Vec3, pickable bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(center)))
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		HalfExtents: half,
		Solid:       true,
		Pickable:    pickable,
	}))
	return e
}

func tick(w *ecs.World, n int, systems ...ecs.System) {
	w.SetDeltaSeconds(dt)
	for i := 0; i < n; i++ {
		for _, s := range systems {
			s.Update(w)
		}
	}
}

func position(w *ecs.World, e ecs.Entity) mgl64.Vec3 {
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	return tr.Position
}

func newFloorScene(t *testing.T) (*ecs.World, *Scene) {
	t.Helper()
	w := ecs.NewWorld()
	scene := NewScene(w, nil)
	floor := box(t, w, mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{10, 0.5, 10}, false)
	scene.CreateBody(floor, component.Material{Friction: 1})
	return w, scene
}

func TestSceneBodyFallsAndRests(t *testing.T) {
	w, scene := newFloorScene(t)
	crate := box(t, w, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, true)
	body := scene.CreateBody(crate, component.Material{Mass: 1, Friction: 1})

	tick(w, 10, scene)
	assert.Less(t, position(w, crate).Y(), 2.0)
	assert.Less(t, body.LinearVelocity().Y(), 0.0)

	tick(w, 170, scene)
	assert.InDelta(t, 0.5, position(w, crate).Y(), 1e-9)
	assert.Zero(t, body.LinearVelocity().Y())
}

func TestSceneFrictionDampsSliding(t *testing.T) {
	w, scene := newFloorScene(t)
	crate := box(t, w, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, true)
	body := scene.CreateBody(crate, component.Material{Mass: 1, Friction: 1})
	body.SetLinearVelocity(mgl64.Vec3{3, 0, 0})

	tick(w, 120, scene)

	assert.Less(t, body.LinearVelocity().X(), 0.1)
	assert.Greater(t, position(w, crate).X(), 0.0)
}

func TestSceneWithoutCollisionsFallsThrough(t *testing.T) {
	w, scene := newFloorScene(t)
	crate := box(t, w, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, true)
	body := scene.CreateBody(crate, component.Material{Mass: 1})
	body.SetCollisions(false)

	tick(w, 60, scene)

	assert.Less(t, position(w, crate).Y(), -1.0)
}

func TestSceneKinematicBodyIgnoresGravity(t *testing.T) {
	w, scene := newFloorScene(t)
	e := box(t, w, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, false)
	body := scene.CreateBody(e, component.Material{})
	body.SetLinearVelocity(mgl64.Vec3{1, 0, 0})

	tick(w, 60, scene)

	p := position(w, e)
	assert.InDelta(t, 1, p.X(), 1e-9)
	assert.InDelta(t, 3, p.Y(), 1e-9)
}

func TestSceneSkipsSleepingAndParented(t *testing.T) {
	w, scene := newFloorScene(t)
	sleeper := box(t, w, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, false)
	scene.CreateBody(sleeper, component.Material{Mass: 1}).Sleep()

	child := box(t, w, mgl64.Vec3{2, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, false)
	scene.CreateBody(child, component.Material{Mass: 1})
	tr, _ := ecs.Get(w, child, component.TransformComponent.Kind())
	tr.Parent = uint64(sleeper)

	tick(w, 30, scene)

	assert.Equal(t, 3.0, position(w, sleeper).Y())
	assert.Equal(t, 3.0, position(w, child).Y())
}

func TestSceneForgetsDeadBodies(t *testing.T) {
	w, scene := newFloorScene(t)
	e := box(t, w, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, false)
	scene.CreateBody(e, component.Material{Mass: 1})

	ecs.DestroyEntity(w, e)
	_, ok := scene.Body(e)
	assert.False(t, ok)

	tick(w, 1, scene)
	_, ok = scene.bodies[e]
	assert.False(t, ok)
}

func TestPickWithRay(t *testing.T) {
	w := ecs.NewWorld()
	scene := NewScene(w, nil)
	near := box(t, w, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0.5, 0.5, 0.5}, true)
	far := box(t, w, mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0.5, 0.5, 0.5}, true)
	box(t, w, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0.2, 0.2, 0.2}, false)

	ray := engine.Ray{Direction: mgl64.Vec3{0, 0, 2}, Length: 10}

	cases := []struct {
		name   string
		ray    engine.Ray
		filter func(ecs.Entity) bool
		hit    bool
		want   ecs.Entity
		dist   float64
	}{
		{name: "nearest", ray: ray, hit: true, want: near, dist: 1.5},
		{name: "filtered", ray: ray, filter: func(e ecs.Entity) bool { return e != near }, hit: true, want: far, dist: 4.5},
		{name: "too short", ray: engine.Ray{Direction: ray.Direction, Length: 1}},
		{name: "wrong way", ray: engine.Ray{Direction: mgl64.Vec3{0, 0, -1}, Length: 10}},
		{name: "no direction", ray: engine.Ray{Length: 10}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := scene.PickWithRay(c.ray, c.filter)
			require.Equal(t, c.hit, info.Hit)
			if !c.hit {
				assert.Zero(t, info.Entity)
				return
			}
			assert.Equal(t, c.want, info.Entity)
			assert.InDelta(t, c.dist, info.Distance, 1e-9)
			assert.Equal(t, mgl64.Vec3{0, 0, -1}, info.Normal)
			assert.InDelta(t, c.dist, info.Point.Z(), 1e-9)
		})
	}
}

func TestSceneBounds(t *testing.T) {
	w := ecs.NewWorld()
	scene := NewScene(w, nil)
	e := box(t, w, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0.5, 1, 0.5}, false)

	b, ok := scene.Bounds(e)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0.5, 1, 2.5}, b.Min)
	assert.Equal(t, mgl64.Vec3{1.5, 3, 3.5}, b.Max)

	_, ok = scene.Bounds(ecs.CreateEntity(w))
	assert.False(t, ok)
}
