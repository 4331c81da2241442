package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

// Task names on the player's queue.
const (
	TaskClimbUp      = "climb_up"
	TaskHangGrace    = "hang_grace"
	TaskLedgeRelease = "ledge_release"
	TaskThrow        = "throw"
)

// playerView bundles the player's components for one tick. Every pointer is
// non-nil when lookupPlayer succeeds.
type playerView struct {
	e     ecs.Entity
	tr    *component.Transform
	flags *component.PlayerFlags
	input *component.Input
	lock  *component.ForcedStateLock
	cfg   *component.PlayerConfig
	tasks *component.Tasks
}

func lookupPlayer(w *ecs.World) (playerView, bool) {
	if w == nil {
		return playerView{}, false
	}
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return playerView{}, false
	}
	p := playerView{e: e}
	if p.tr, ok = ecs.Get(w, e, component.TransformComponent.Kind()); !ok {
		return playerView{}, false
	}
	if p.flags, ok = ecs.Get(w, e, component.PlayerFlagsComponent.Kind()); !ok {
		return playerView{}, false
	}
	if p.input, ok = ecs.Get(w, e, component.InputComponent.Kind()); !ok {
		return playerView{}, false
	}
	if p.lock, ok = ecs.Get(w, e, component.ForcedStateLockComponent.Kind()); !ok {
		return playerView{}, false
	}
	if p.cfg, ok = ecs.Get(w, e, component.PlayerConfigComponent.Kind()); !ok {
		return playerView{}, false
	}
	p.tasks = ensureTasks(w, e)
	return p, true
}

func ensureTasks(w *ecs.World, e ecs.Entity) *component.Tasks {
	if t, ok := ecs.Get(w, e, component.TasksComponent.Kind()); ok {
		return t
	}
	t := &component.Tasks{}
	_ = ecs.Add(w, e, component.TasksComponent.Kind(), t)
	return t
}

func (p playerView) forward() mgl64.Vec3 {
	return common.ForwardOf(p.tr.Rotation)
}

func (p playerView) right() mgl64.Vec3 {
	return common.RightOf(p.tr.Rotation)
}

// hitbox is the forward interaction volume.
func (p playerView) hitbox() common.AABB {
	center := p.tr.Position.Add(p.tr.Rotation.Rotate(mgl64.Vec3{0, 0, p.cfg.HitboxForwardOffset}))
	return common.AABBFromCenter(center, p.cfg.HitboxSize.Mul(0.5))
}

// capsule is the collision volume as a box.
func (p playerView) capsule() common.AABB {
	r := p.cfg.CapsuleRadius
	return common.AABBFromCenter(p.tr.Position, mgl64.Vec3{r, p.cfg.CapsuleHeight / 2, r})
}

func worldToLocal(parent *component.Transform, p mgl64.Vec3) mgl64.Vec3 {
	return parent.Rotation.Inverse().Rotate(p.Sub(parent.Position))
}

func localToWorld(parent *component.Transform, local mgl64.Vec3) mgl64.Vec3 {
	return parent.Position.Add(parent.Rotation.Rotate(local))
}

// climbableFilter accepts enabled climbable level objects.
func climbableFilter(w *ecs.World) func(ecs.Entity) bool {
	return func(e ecs.Entity) bool {
		caps, ok := ecs.Get(w, e, component.CapabilitiesComponent.Kind())
		return ok && caps.Enabled && caps.Climbable
	}
}

func isParented(w *ecs.World, e ecs.Entity) bool {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	return ok && tr.Parented()
}

// removeMass makes e kinematic and remembers the mass it had. Repeated calls
// keep the first remembered mass.
func removeMass(w *ecs.World, scene engine.Scene, e ecs.Entity) {
	body, ok := scene.Body(e)
	if !ok {
		return
	}
	if !ecs.Has(w, e, component.MassLockComponent.Kind()) {
		_ = ecs.Add(w, e, component.MassLockComponent.Kind(), &component.MassLock{Original: body.Mass()})
	}
	body.SetMass(0)
}

// resetMass restores the mass remembered by removeMass. Without a lock it
// does nothing.
func resetMass(w *ecs.World, scene engine.Scene, e ecs.Entity) {
	lock, ok := ecs.Get(w, e, component.MassLockComponent.Kind())
	if !ok {
		return
	}
	ecs.Remove(w, e, component.MassLockComponent.Kind())
	if body, ok := scene.Body(e); ok {
		body.SetMass(lock.Original)
	}
}

func setVelocity(scene engine.Scene, e ecs.Entity, v mgl64.Vec3) {
	if body, ok := scene.Body(e); ok {
		body.SetLinearVelocity(v)
	}
}

func velocityOf(scene engine.Scene, e ecs.Entity) (mgl64.Vec3, bool) {
	body, ok := scene.Body(e)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return body.LinearVelocity(), true
}
