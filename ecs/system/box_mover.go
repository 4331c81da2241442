package system

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	TaskBoxMoverScan = "box_mover_scan"

	boxMoverTurnThreshold = 0.01
	boxMoverLOSSlack      = 0.01
	boxMoverMinPathPoints = 1
)

// BoxMoverSystem runs the crate-relocating agent: it finds the nearest
// reachable crate, walks to it, carries it back to its start and drops it.
type BoxMoverSystem struct {
	scene       engine.Scene
	nav         engine.Navigator
	crowd       engine.Crowd
	anims       engine.Animators
	highlighter engine.Highlighter
	logger      *slog.Logger
}

func NewBoxMoverSystem(scene engine.Scene, nav engine.Navigator, crowd engine.Crowd, anims engine.Animators, highlighter engine.Highlighter, logger *slog.Logger) *BoxMoverSystem {
	return &BoxMoverSystem{
		scene:       scene,
		nav:         nav,
		crowd:       crowd,
		anims:       anims,
		highlighter: highlighter,
		logger:      systemLogger(logger, "box_mover"),
	}
}

// boxMoverView is one agent's components for a tick.
type boxMoverView struct {
	e     ecs.Entity
	tr    *component.Transform
	bm    *component.BoxMover
	cfg   *component.BoxMoverConfig
	tasks *component.Tasks
}

func (s *BoxMoverSystem) Update(w *ecs.World) {
	if s.scene == nil || s.nav == nil || s.crowd == nil {
		return
	}
	for _, e := range w.Query(component.BoxMoverComponent.Kind(), component.TransformComponent.Kind(), component.BoxMoverConfigComponent.Kind()) {
		v := boxMoverView{e: e, tasks: ensureTasks(w, e)}
		v.tr, _ = ecs.Get(w, e, component.TransformComponent.Kind())
		v.bm, _ = ecs.Get(w, e, component.BoxMoverComponent.Kind())
		v.cfg, _ = ecs.Get(w, e, component.BoxMoverConfigComponent.Kind())
		s.updateAgent(w, v)
	}
}

func (s *BoxMoverSystem) updateAgent(w *ecs.World, v boxMoverView) {
	if !s.ensureAgent(v) {
		return
	}
	if !v.bm.Entered {
		v.bm.PollTimer = v.cfg.PollPeriod
		s.enter(w, v, component.BoxMoverIdle)
	}

	s.syncLocomotion(v)

	dt := w.DeltaSeconds()
	if v.bm.IdleDelay > 0 {
		v.bm.IdleDelay -= dt
	}

	s.updateState(w, v)
	s.poll(w, v, dt)
	s.updateLocomotionClip(v)
}

func (s *BoxMoverSystem) ensureAgent(v boxMoverView) bool {
	if v.bm.HasAgent {
		return true
	}
	spawn := v.tr.Position
	if p, ok := s.nav.ClosestPoint(spawn); ok {
		spawn = p
	}
	a := v.cfg.Agent
	v.bm.AgentIdx = s.crowd.AddAgent(spawn, engine.AgentParams{
		Radius:                a.Radius,
		Height:                a.Height,
		MaxAcceleration:       a.MaxAcceleration,
		MaxSpeed:              a.MaxSpeed,
		CollisionQueryRange:   a.CollisionQueryRange,
		PathOptimizationRange: a.PathOptimizationRange,
		SeparationWeight:      a.SeparationWeight,
	})
	if v.bm.AgentIdx < 0 {
		s.logger.Warn("crowd rejected agent", "entity", v.e)
		return false
	}
	v.bm.HasAgent = true
	return true
}

// syncLocomotion copies the crowd agent's position onto the transform and
// faces the direction of travel.
func (s *BoxMoverSystem) syncLocomotion(v boxMoverView) {
	pos, ok := s.crowd.AgentPosition(v.bm.AgentIdx)
	if !ok {
		return
	}
	if !v.bm.HasLastNavPos {
		v.bm.LastNavPos = pos
		v.bm.HasLastNavPos = true
	}
	v.bm.NavDelta = pos.Sub(v.bm.LastNavPos)
	v.bm.LastNavPos = pos
	v.tr.Position = pos

	if v.bm.NavDelta.Len() > boxMoverTurnThreshold {
		d := v.bm.NavDelta.Normalize()
		v.tr.Rotation = common.YawRotation(math.Atan2(d.X(), d.Z()))
	}
}

func (s *BoxMoverSystem) updateState(w *ecs.World, v boxMoverView) {
	bm := v.bm
	switch bm.State {
	case component.BoxMoverIdle:
		if bm.Target != 0 {
			s.enter(w, v, component.BoxMoverSeek)
		}

	case component.BoxMoverSeek:
		target := ecs.Entity(bm.Target)
		if target == 0 || !ecs.IsAlive(w, target) {
			bm.Target = 0
			if !v.tasks.Pending(TaskBoxMoverScan) {
				s.enter(w, v, component.BoxMoverIdle)
			}
			return
		}
		if caps, ok := ecs.Get(w, target, component.CapabilitiesComponent.Kind()); ok && caps.Held() {
			s.logger.Debug("target taken by someone else", "crate", target)
			s.enter(w, v, component.BoxMoverIdle)
			return
		}
		ttr, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}
		if v.tr.Position.Sub(ttr.Position).Len() < v.cfg.CaptureRadius {
			s.enter(w, v, component.BoxMoverPickup)
		}

	case component.BoxMoverPickup:
		if bm.Held != 0 {
			s.enter(w, v, component.BoxMoverCarry)
		} else {
			s.enter(w, v, component.BoxMoverIdle)
		}

	case component.BoxMoverCarry:
		if v.tr.Position.Sub(bm.Start).Len() < v.cfg.DropRadius {
			s.enter(w, v, component.BoxMoverDrop)
		}

	case component.BoxMoverDrop:
		s.enter(w, v, component.BoxMoverReturn)

	case component.BoxMoverReturn:
		if v.tr.Position.Sub(bm.Start).Len() < v.cfg.ReturnRadius {
			s.enter(w, v, component.BoxMoverIdle)
		}
	}
}

// poll re-acquires a target once per period when the agent is idle-handed
// and not already seeking.
func (s *BoxMoverSystem) poll(w *ecs.World, v boxMoverView, dt float64) {
	bm := v.bm
	bm.PollTimer -= dt
	if bm.PollTimer > 0 {
		return
	}
	bm.PollTimer = v.cfg.PollPeriod

	if bm.Target != 0 || bm.Held != 0 || bm.State == component.BoxMoverSeek || bm.IdleDelay > 0 {
		return
	}
	if best, ok := s.scan(w, v, true); ok {
		s.logger.Info("poll reacquired target", "agent", v.e, "crate", best)
		s.enter(w, v, component.BoxMoverSeek)
	}
}

func (s *BoxMoverSystem) updateLocomotionClip(v boxMoverView) {
	if v.bm.State != component.BoxMoverSeek && v.bm.State != component.BoxMoverReturn {
		return
	}
	clip := "idle"
	if v.bm.Moving() {
		clip = "walkforward"
	}
	if v.bm.Anim != clip {
		s.playLooping(v, clip)
	}
}

func (s *BoxMoverSystem) playLooping(v boxMoverView, clip string) {
	v.bm.Anim = clip
	if anim, ok := animationFor(s.anims, v.e, s.logger); ok {
		anim.playLooping(clip, 1)
	}
}

func (s *BoxMoverSystem) playOnce(v boxMoverView, clip string) {
	v.bm.Anim = clip
	if anim, ok := animationFor(s.anims, v.e, s.logger); ok {
		anim.playOnce(clip, v.cfg.AnimationSpeed, nil)
	}
}

// enter switches state and runs the entry effect. Re-entering the current
// state is ignored once the agent has started.
func (s *BoxMoverSystem) enter(w *ecs.World, v boxMoverView, next component.BoxMoverState) {
	prev := v.bm.State
	if v.bm.Entered && prev == next {
		return
	}
	v.bm.State = next
	v.bm.Entered = true
	s.logger.Debug("state", "agent", v.e, "from", prev, "to", next)
	w.Events().Push(ecs.Event{
		Type: ecs.EventBoxMoverState,
		Data: ecs.StateChange{Entity: v.e, From: prev.String(), To: next.String()},
	})

	switch next {
	case component.BoxMoverIdle:
		v.bm.Target = 0
		v.bm.IdleDelay = v.cfg.IdleDelay
		s.playLooping(v, "idle")

	case component.BoxMoverSeek:
		v.tasks.Schedule(TaskBoxMoverScan, v.cfg.SettleDelay, func() {
			s.scan(w, v, false)
		})
		s.playLooping(v, "walkforward")

	case component.BoxMoverPickup:
		s.attach(w, v, ecs.Entity(v.bm.Target))
		s.playOnce(v, "pickup")

	case component.BoxMoverCarry:
		s.gotoStart(v)
		s.playLooping(v, "carrywalk")

	case component.BoxMoverDrop:
		s.release(w, v)
		s.playOnce(v, "drop")

	case component.BoxMoverReturn:
		s.gotoStart(v)
		s.playLooping(v, "walkforward")
	}
}

func (s *BoxMoverSystem) gotoStart(v boxMoverView) {
	dest := v.bm.Start
	if p, ok := s.nav.ClosestPoint(dest); ok {
		dest = p
	}
	if !s.crowd.AgentGoto(v.bm.AgentIdx, dest) {
		s.logger.Warn("agent goto failed", "agent", v.e, "dest", dest)
	}
}

// attach parents the crate to the hold point and freezes its body.
func (s *BoxMoverSystem) attach(w *ecs.World, v boxMoverView, crate ecs.Entity) {
	if crate == 0 || v.bm.Held != 0 {
		return
	}
	tr, ok := ecs.Get(w, crate, component.TransformComponent.Kind())
	if !ok {
		return
	}
	caps, ok := ecs.Get(w, crate, component.CapabilitiesComponent.Kind())
	if !ok || caps.Held() {
		return
	}

	v.bm.HeldMass = 0
	if body, ok := s.scene.Body(crate); ok {
		v.bm.HeldMass = body.Mass()
		if lock, ok := ecs.Get(w, crate, component.MassLockComponent.Kind()); ok {
			v.bm.HeldMass = lock.Original
		}
		body.SetMass(0)
		body.SetLinearVelocity(mgl64.Vec3{})
		body.Sleep()
	}
	ecs.Remove(w, crate, component.MassLockComponent.Kind())
	ecs.Remove(w, crate, component.PlayerContactComponent.Kind())

	tr.Parent = uint64(v.e)
	tr.Local = v.cfg.HoldPoint
	tr.Position = localToWorld(v.tr, tr.Local)
	caps.HeldBy = component.Holder{Kind: component.HolderAgent, Entity: uint64(v.e)}
	v.bm.Held = uint64(crate)

	s.unhighlight(v, crate)
	w.Events().Push(ecs.Event{Type: ecs.EventCratePickedUp, Data: ecs.EntityEvent{Entity: crate, Other: v.e}})
}

// release puts the held crate down just in front of the agent. Collisions
// stay off for a short grace period so the crate does not snag the agent.
func (s *BoxMoverSystem) release(w *ecs.World, v boxMoverView) {
	crate := ecs.Entity(v.bm.Held)
	if crate == 0 {
		return
	}
	v.bm.Held = 0
	mass := v.bm.HeldMass
	v.bm.HeldMass = 0
	if mass <= 0 {
		mass = v.cfg.DefaultDropMass
	}
	if !ecs.IsAlive(w, crate) {
		return
	}

	if tr, ok := ecs.Get(w, crate, component.TransformComponent.Kind()); ok {
		// the crate's bottom ends up DropLift above the agent's feet
		lift := v.cfg.DropLift
		if col, ok := ecs.Get(w, crate, component.ColliderComponent.Kind()); ok {
			lift += col.HalfExtents.Y()
		}
		fwd := common.FlatForward(v.tr.Rotation)
		tr.Parent = 0
		tr.Local = mgl64.Vec3{}
		tr.Position = v.tr.Position.Add(mgl64.Vec3{0, lift, 0}).Add(fwd.Mul(v.cfg.DropForward))
	}
	if caps, ok := ecs.Get(w, crate, component.CapabilitiesComponent.Kind()); ok {
		caps.HeldBy = component.Holder{}
	}

	body, ok := s.scene.Body(crate)
	if ok {
		body.SetCollisions(false)
		body.SetMass(mass)
		body.WakeUp()
		body.SetLinearVelocity(mgl64.Vec3{0, v.cfg.DropNudge, 0})

		scene := s.scene
		v.tasks.Schedule(fmt.Sprintf("box_mover_collide_%d", uint64(crate)), v.cfg.CollisionGrace, func() {
			if b, ok := scene.Body(crate); ok {
				b.SetCollisions(true)
			}
		})
	}
	w.Events().Push(ecs.Event{Type: ecs.EventCrateDropped, Data: ecs.EntityEvent{Entity: crate, Other: v.e}})
}

// scan finds the nearest crate the agent can reach and see. Every valid
// candidate is highlighted. Unless scanOnly is set, the winner becomes the
// target and the agent is sent toward it.
func (s *BoxMoverSystem) scan(w *ecs.World, v boxMoverView, scanOnly bool) (ecs.Entity, bool) {
	pos := v.tr.Position
	eye := mgl64.Vec3{0, v.cfg.EyeHeight, 0}
	valid := make(map[uint64]bool)

	var best ecs.Entity
	var bestNav mgl64.Vec3
	bestDist := math.Inf(1)

	for _, e := range w.Query(component.CrateTagComponent.Kind(), component.CapabilitiesComponent.Kind(), component.TransformComponent.Kind()) {
		caps, _ := ecs.Get(w, e, component.CapabilitiesComponent.Kind())
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if !caps.Enabled || !caps.Movable || caps.Climbable || caps.Held() || tr.Parented() {
			continue
		}
		if v.bm.InDropZone(tr.Position) {
			continue
		}
		navPos, ok := s.nav.ClosestPoint(tr.Position)
		if !ok {
			continue
		}
		if len(s.nav.ComputePath(pos, navPos)) < boxMoverMinPathPoints {
			continue
		}
		if !s.lineOfSight(w, v.e, pos.Add(eye), tr.Position, e) {
			continue
		}

		valid[uint64(e)] = true
		s.highlight(v, e)

		if d := pos.Sub(tr.Position).Len(); d < bestDist {
			best, bestNav, bestDist = e, navPos, d
		}
	}

	for id := range v.bm.Highlighted {
		if !valid[id] {
			s.unhighlight(v, ecs.Entity(id))
		}
	}

	if best == 0 {
		return 0, false
	}
	if scanOnly {
		return best, true
	}
	if !s.crowd.AgentGoto(v.bm.AgentIdx, bestNav) {
		s.logger.Warn("agent goto failed", "agent", v.e, "crate", best)
		return best, false
	}
	s.logger.Info("target acquired", "agent", v.e, "crate", best, "distance", bestDist)
	v.bm.Target = uint64(best)
	return best, true
}

// lineOfSight reports whether the first pickable thing on the way from the
// eye to the crate's centre is the crate itself.
func (s *BoxMoverSystem) lineOfSight(w *ecs.World, self ecs.Entity, from, to mgl64.Vec3, crate ecs.Entity) bool {
	d := to.Sub(from)
	dist := d.Len()
	if dist < 1e-9 {
		return true
	}
	hit := s.scene.PickWithRay(engine.Ray{Origin: from, Direction: d.Mul(1 / dist), Length: dist + boxMoverLOSSlack}, func(e ecs.Entity) bool {
		return e != self && !isParented(w, e)
	})
	return hit.Hit && hit.Entity == crate
}

func (s *BoxMoverSystem) highlight(v boxMoverView, e ecs.Entity) {
	if v.bm.Highlighted == nil {
		v.bm.Highlighted = make(map[uint64]bool)
	}
	if v.bm.Highlighted[uint64(e)] {
		return
	}
	v.bm.Highlighted[uint64(e)] = true
	if s.highlighter != nil {
		s.highlighter.Highlight(e)
	}
}

func (s *BoxMoverSystem) unhighlight(v boxMoverView, e ecs.Entity) {
	if !v.bm.Highlighted[uint64(e)] {
		return
	}
	delete(v.bm.Highlighted, uint64(e))
	if s.highlighter != nil {
		s.highlighter.Unhighlight(e)
	}
}
