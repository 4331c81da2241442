package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const throwClipSpeed = 1.5

// defaultCrateMaterial is used when a held crate has no snapshot to restore.
var defaultCrateMaterial = component.Material{Mass: 2, Friction: 1, Restitution: 0}

// PickupSystem handles the player's single carry slot: pickup, drop, the
// carry-in animation and the delayed throw.
type PickupSystem struct {
	scene  engine.Scene
	anims  engine.Animators
	logger *slog.Logger
}

func NewPickupSystem(scene engine.Scene, anims engine.Animators, logger *slog.Logger) *PickupSystem {
	return &PickupSystem{scene: scene, anims: anims, logger: systemLogger(logger, "pickup")}
}

func (s *PickupSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	carry := ensureCarry(w, p.e)

	s.animate(w, carry)

	if !p.flags.CanMove || p.lock.BlocksAction() {
		return
	}

	if carry.Holding() && !p.tasks.Pending(TaskThrow) && (p.input.PunchPressed || p.input.KickPressed) {
		s.scheduleThrow(w, p, carry)
		return
	}

	if p.input.PickupPressed {
		p.input.PickupPressed = false
		if carry.Holding() {
			s.Drop(w)
		} else {
			s.TryPickup(w)
		}
	}
}

func ensureCarry(w *ecs.World, e ecs.Entity) *component.Carry {
	if c, ok := ecs.Get(w, e, component.CarryComponent.Kind()); ok {
		return c
	}
	c := &component.Carry{}
	_ = ecs.Add(w, e, component.CarryComponent.Kind(), c)
	return c
}

// animate pulls the held object from where it was picked up toward the
// carry offset.
func (s *PickupSystem) animate(w *ecs.World, carry *component.Carry) {
	if !carry.Holding() || !carry.Animating {
		return
	}
	p, ok := lookupPlayer(w)
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, ecs.Entity(carry.Held), component.TransformComponent.Kind())
	if !ok {
		carry.Animating = false
		return
	}
	carry.Progress += w.DeltaSeconds() * p.cfg.CarryAnimationSpeed
	if carry.Progress >= 1 {
		carry.Progress = 1
		carry.Animating = false
	}
	tr.Local = carry.Start.Add(carry.Offset.Sub(carry.Start).Mul(carry.Progress))
}

// TryPickup attaches the first carryable crate overlapping the hitbox. It
// does nothing while the player already holds something.
func (s *PickupSystem) TryPickup(w *ecs.World) bool {
	p, ok := lookupPlayer(w)
	if !ok {
		return false
	}
	carry := ensureCarry(w, p.e)
	if carry.Holding() {
		return false
	}

	hitbox := p.hitbox()
	var target ecs.Entity
	for _, e := range w.Query(component.CrateTagComponent.Kind(), component.CapabilitiesComponent.Kind()) {
		caps, _ := ecs.Get(w, e, component.CapabilitiesComponent.Kind())
		if !caps.Movable || caps.Climbable || !caps.Enabled || caps.Held() {
			continue
		}
		b, ok := s.scene.Bounds(e)
		if !ok || !b.Intersects(hitbox) {
			continue
		}
		target = e
		break
	}
	if target == 0 {
		return false
	}
	tr, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	mat := defaultCrateMaterial
	if body, ok := s.scene.Body(target); ok {
		mat = body.Material()
		if lock, ok := ecs.Get(w, target, component.MassLockComponent.Kind()); ok {
			mat.Mass = lock.Original
		}
	}
	ecs.Remove(w, target, component.MassLockComponent.Kind())
	ecs.Remove(w, target, component.PlayerContactComponent.Kind())
	_ = ecs.Add(w, target, component.PhysicsSnapshotComponent.Kind(), &component.PhysicsSnapshot{Material: mat})
	s.scene.DisposeBody(target)

	local := worldToLocal(p.tr, tr.Position)
	tr.Parent = uint64(p.e)
	tr.Local = local

	carry.Held = uint64(target)
	carry.Start = local
	carry.Progress = 0
	carry.Animating = true
	if carry.Offset == (mgl64.Vec3{}) {
		carry.Offset = p.cfg.CarryOffset
	}

	caps, _ := ecs.Get(w, target, component.CapabilitiesComponent.Kind())
	caps.HeldBy = component.Holder{Kind: component.HolderPlayer, Entity: uint64(p.e)}

	w.Events().Push(ecs.Event{Type: ecs.EventCratePickedUp, Data: ecs.EntityEvent{Entity: target, Other: p.e}})
	s.logger.Debug("picked up", "crate", target)
	return true
}

// Drop releases the held crate where it is and rebuilds its body from the
// snapshot taken at pickup.
func (s *PickupSystem) Drop(w *ecs.World) bool {
	p, ok := lookupPlayer(w)
	if !ok {
		return false
	}
	carry := ensureCarry(w, p.e)
	if !carry.Holding() {
		return false
	}
	held := ecs.Entity(carry.Held)
	*carry = component.Carry{}

	if !ecs.IsAlive(w, held) {
		return false
	}
	if tr, ok := ecs.Get(w, held, component.TransformComponent.Kind()); ok {
		tr.Position = localToWorld(p.tr, tr.Local)
		tr.Parent = 0
		tr.Local = mgl64.Vec3{}
	}

	mat := defaultCrateMaterial
	if snap, ok := ecs.Get(w, held, component.PhysicsSnapshotComponent.Kind()); ok {
		mat = snap.Material
	}
	ecs.Remove(w, held, component.PhysicsSnapshotComponent.Kind())
	s.scene.CreateBody(held, mat)

	if caps, ok := ecs.Get(w, held, component.CapabilitiesComponent.Kind()); ok {
		caps.HeldBy = component.Holder{}
	}
	w.Events().Push(ecs.Event{Type: ecs.EventCrateDropped, Data: ecs.EntityEvent{Entity: held, Other: p.e}})
	return true
}

func (s *PickupSystem) scheduleThrow(w *ecs.World, p playerView, carry *component.Carry) {
	cube := carry.Held
	p.tasks.Schedule(TaskThrow, p.cfg.ThrowDelay, func() {
		cur, ok := lookupPlayer(w)
		if !ok {
			return
		}
		c := ensureCarry(w, cur.e)
		if c.Held != cube {
			s.logger.Debug("throw skipped, crate no longer held", "crate", ecs.Entity(cube))
			return
		}
		if !s.Drop(w) {
			return
		}
		fwd := cur.forward()
		dir := mgl64.Vec3{fwd.X(), cur.cfg.ThrowLift, fwd.Z()}.Normalize()
		setVelocity(s.scene, ecs.Entity(cube), dir.Mul(cur.cfg.ThrowForce))
	})

	if anim, ok := animationFor(s.anims, p.e, s.logger); ok {
		anim.playOnce("punch", throwClipSpeed, nil)
	}
	p.input.PunchPressed = false
	p.input.KickPressed = false
}
