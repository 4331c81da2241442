// Package sim is a headless implementation of the engine contracts: simple
// box-versus-box rigid bodies, ray picking over colliders, a chipmunk-backed
// navigation plane, a path-following crowd and a clip-timing animator.
package sim

import (
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	Gravity = -9.81

	// frictionRate scales Material.Friction into horizontal damping per second
	// for bodies resting on something.
	frictionRate = 4.0
)

// Scene owns every body and answers spatial queries against the world it
// was built for. Update integrates one physics step.
type Scene struct {
	world   *ecs.World
	bodies  map[ecs.Entity]*Body
	gravity float64
	logger  *slog.Logger
}

func NewScene(w *ecs.World, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{
		world:   w,
		bodies:  make(map[ecs.Entity]*Body),
		gravity: Gravity,
		logger:  logger.With("system", "physics"),
	}
}

func (s *Scene) Body(e ecs.Entity) (engine.Body, bool) {
	b, ok := s.bodies[e]
	if !ok || !ecs.IsAlive(s.world, e) {
		return nil, false
	}
	return b, true
}

// CreateBody replaces any body e already has.
func (s *Scene) CreateBody(e ecs.Entity, mat component.Material) engine.Body {
	b := newBody(mat)
	s.bodies[e] = b
	s.logger.Debug("body created", "entity", e, "mass", mat.Mass)
	return b
}

func (s *Scene) DisposeBody(e ecs.Entity) {
	if _, ok := s.bodies[e]; ok {
		s.logger.Debug("body disposed", "entity", e)
	}
	delete(s.bodies, e)
}

func (s *Scene) Bounds(e ecs.Entity) (common.AABB, bool) {
	tr, ok := ecs.Get(s.world, e, component.TransformComponent.Kind())
	if !ok {
		return common.AABB{}, false
	}
	col, ok := ecs.Get(s.world, e, component.ColliderComponent.Kind())
	if !ok {
		return common.AABB{}, false
	}
	return common.AABBFromCenter(tr.Position, col.HalfExtents), true
}

func (s *Scene) PickWithRay(ray engine.Ray, filter func(ecs.Entity) bool) engine.PickInfo {
	best := engine.PickInfo{Distance: math.Inf(1)}
	if ray.Direction.LenSqr() < 1e-12 || ray.Length <= 0 {
		return engine.PickInfo{}
	}
	dir := ray.Direction.Normalize()

	ecs.ForEach2(s.world, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, tr *component.Transform) {
		if !col.Pickable {
			return
		}
		if filter != nil && !filter(e) {
			return
		}
		box := common.AABBFromCenter(tr.Position, col.HalfExtents)
		t, normal, ok := box.RayHit(ray.Origin, dir, ray.Length)
		if !ok || t >= best.Distance {
			return
		}
		best = engine.PickInfo{
			Hit:      true,
			Entity:   e,
			Distance: t,
			Point:    ray.Origin.Add(dir.Mul(t)),
			Normal:   normal,
		}
	})
	if !best.Hit {
		return engine.PickInfo{}
	}
	return best
}

// Update advances every awake body by the world's delta.
func (s *Scene) Update(w *ecs.World) {
	dt := w.DeltaSeconds()
	if dt <= 0 {
		return
	}
	for _, e := range slices.Sorted(maps.Keys(s.bodies)) {
		b := s.bodies[e]
		if !ecs.IsAlive(w, e) {
			delete(s.bodies, e)
			continue
		}
		if b.sleeping || b.static() {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || tr.Parented() {
			continue
		}
		s.integrate(w, e, b, tr, dt)
	}
}

func (s *Scene) integrate(w *ecs.World, e ecs.Entity, b *Body, tr *component.Transform, dt float64) {
	if b.material.Mass > 0 {
		b.velocity[1] += s.gravity * dt
	}
	tr.Position = tr.Position.Add(b.velocity.Mul(dt))

	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok || !col.Solid || !b.collisions {
		return
	}

	supported := false
	for other, ob := range s.bodies {
		if other == e || !ob.collisions {
			continue
		}
		obox, ok := s.obstacle(w, other)
		if !ok {
			continue
		}
		box := common.AABBFromCenter(tr.Position, col.HalfExtents)
		push, axis, ok := penetration(box, obox)
		if !ok {
			continue
		}
		tr.Position = tr.Position.Add(push)
		if push[axis]*b.velocity[axis] < 0 {
			b.velocity[axis] = 0
		}
		if axis == 1 && push[1] > 0 {
			supported = true
		}
	}

	if supported {
		damp := 1 / (1 + b.material.Friction*frictionRate*dt)
		b.velocity[0] *= damp
		b.velocity[2] *= damp
	}
}

// obstacle is the solid box of an unparented entity.
func (s *Scene) obstacle(w *ecs.World, e ecs.Entity) (common.AABB, bool) {
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok || !col.Solid {
		return common.AABB{}, false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.Parented() {
		return common.AABB{}, false
	}
	return common.AABBFromCenter(tr.Position, col.HalfExtents), true
}

// penetration returns the smallest push that separates a from b, and the
// axis it acts on. Touching boxes do not overlap.
func penetration(a, b common.AABB) (mgl64.Vec3, int, bool) {
	var push mgl64.Vec3
	best := math.Inf(1)
	axis := -1
	for i := 0; i < 3; i++ {
		down := a.Max[i] - b.Min[i]
		up := b.Max[i] - a.Min[i]
		if down <= 0 || up <= 0 {
			return mgl64.Vec3{}, 0, false
		}
		if up < down {
			if up < best {
				best, axis = up, i
				push = mgl64.Vec3{}
				push[i] = up
			}
		} else if down < best {
			best, axis = down, i
			push = mgl64.Vec3{}
			push[i] = -down
		}
	}
	return push, axis, axis >= 0
}

var (
	_ engine.Scene       = (*Scene)(nil)
	_ engine.Body        = (*Body)(nil)
	_ engine.Navigator   = (*NavPlane)(nil)
	_ engine.Crowd       = (*Crowd)(nil)
	_ engine.Animator    = (*Animator)(nil)
	_ engine.Animators   = (*Animators)(nil)
	_ engine.Highlighter = (*Highlights)(nil)
)
