package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	climbSlerpFactor  = 0.2
	climbSidewaysLift = 0.15
	climbClip         = "climbwall"
)

// ClimbSystem detects climbable walls in front of the player and drives the
// wall-climb: orientation, stick force, Y-lock and wall jump.
type ClimbSystem struct {
	scene  engine.Scene
	anims  engine.Animators
	logger *slog.Logger
}

func NewClimbSystem(scene engine.Scene, anims engine.Animators, logger *slog.Logger) *ClimbSystem {
	return &ClimbSystem{scene: scene, anims: anims, logger: systemLogger(logger, "climb")}
}

func (s *ClimbSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	climb, ok := ecs.Get(w, p.e, component.ClimbComponent.Kind())
	if !ok {
		return
	}

	s.detect(w, p)

	if climb.Cooldown > 0 {
		climb.Cooldown -= w.DeltaSeconds()
		return
	}
	if _, ok := s.scene.Body(p.e); !ok {
		return
	}
	if p.flags.Hanging || p.flags.ClimbingUp {
		return
	}
	s.updateClimbing(w, p, climb)
}

// detect records the climbable object overlapping the hitbox.
func (s *ClimbSystem) detect(w *ecs.World, p playerView) {
	hitbox := p.hitbox()
	p.flags.CanClimb = false
	p.flags.ClimbTarget = 0
	for _, e := range w.Query(component.CapabilitiesComponent.Kind(), component.TransformComponent.Kind()) {
		caps, _ := ecs.Get(w, e, component.CapabilitiesComponent.Kind())
		if !caps.Enabled || !caps.Climbable {
			continue
		}
		b, ok := s.scene.Bounds(e)
		if !ok || !b.Intersects(hitbox) {
			continue
		}
		p.flags.CanClimb = true
		p.flags.ClimbTarget = uint64(e)
		return
	}
}

func (s *ClimbSystem) updateClimbing(w *ecs.World, p playerView, climb *component.Climb) {
	target := ecs.Entity(p.flags.ClimbTarget)
	if target == 0 {
		s.exitClimb(w, p)
		return
	}

	fwd := p.forward()
	origin := p.tr.Position.Add(mgl64.Vec3{0, p.cfg.ClimbRayHeight, 0})
	hit := s.scene.PickWithRay(engine.Ray{Origin: origin, Direction: fwd, Length: p.cfg.ClimbRayLength}, func(e ecs.Entity) bool {
		return e == target
	})
	if !hit.Hit {
		s.exitClimb(w, p)
		return
	}

	p.flags.Climbing = true
	if p.lock.Forced == component.ForcedJump {
		p.lock.Clear()
	}

	if p.input.JumpPressed {
		s.jumpBackFromWall(w, p, climb, fwd)
		return
	}

	if p.flags.OnTopFace && p.flags.StandingOn == uint64(target) {
		s.exitClimb(w, p)
		return
	}

	var normal mgl64.Vec3
	if hit.Normal.Len() > 1e-9 {
		normal = hit.Normal.Normalize()
		face := common.LookRotation(normal.Mul(-1), common.Up)
		p.tr.Rotation = mgl64.QuatSlerp(p.tr.Rotation, face, climbSlerpFactor).Normalize()
	}

	mx, my := 0.0, 0.0
	if p.input.Right {
		mx++
	}
	if p.input.Left {
		mx--
	}
	if p.input.Forward {
		my++
	}
	if p.input.Back {
		my--
	}

	stick := normal.Mul(-p.cfg.ClimbStickForce)
	vel := stick
	if mx != 0 || my != 0 {
		move := common.RightOf(p.tr.Rotation).Mul(mx).Add(common.Up.Mul(my))
		if mx != 0 && my == 0 {
			move[1] = climbSidewaysLift
		}
		vel = move.Normalize().Mul(p.cfg.ClimbSpeed).Add(stick)
	}
	setVelocity(s.scene, p.e, vel)
	removeMass(w, s.scene, p.e)

	anim, hasAnim := animationFor(s.anims, p.e, s.logger)
	if !p.input.Moving() {
		if !climb.YLockSet {
			climb.YLock = p.tr.Position.Y()
			climb.YLockSet = true
		}
		if hasAnim {
			anim.pause(climbClip)
		}
		p.tr.Position[1] = climb.YLock
		return
	}
	climb.YLockSet = false
	if hasAnim {
		anim.resume(climbClip)
	}
}

// jumpBackFromWall launches the player away from the wall and suppresses
// climb detection for the cooldown.
func (s *ClimbSystem) jumpBackFromWall(w *ecs.World, p playerView, climb *component.Climb, fwd mgl64.Vec3) {
	p.lock.Set(component.ForcedJump)

	back := fwd.Mul(-1).Normalize()
	setVelocity(s.scene, p.e, mgl64.Vec3{
		back.X() * p.cfg.ClimbJumpBackLateral,
		p.cfg.ClimbJumpBackVertical,
		back.Z() * p.cfg.ClimbJumpBackLateral,
	})

	resetMass(w, s.scene, p.e)
	p.flags.Climbing = false
	climb.Cooldown = p.cfg.ClimbCooldown
	climb.YLockSet = false

	_ = ecs.Add(w, p.e, component.RotationTweenComponent.Kind(), &component.RotationTween{
		From:     p.tr.Rotation,
		To:       common.LookRotation(back, common.Up),
		Duration: component.FramesToSeconds(p.cfg.ClimbSpinDurationFrames),
	})
	p.input.JumpPressed = false
}

func (s *ClimbSystem) exitClimb(w *ecs.World, p playerView) {
	if !p.flags.Climbing {
		return
	}
	resetMass(w, s.scene, p.e)
	p.flags.Climbing = false
	if c, ok := ecs.Get(w, p.e, component.ClimbComponent.Kind()); ok {
		c.YLockSet = false
	}
}

// startClimbUp begins the scripted climb over a ledge. The move lands after
// ClimbUpDuration; until then input is ignored and the body is kinematic.
func startClimbUp(w *ecs.World, scene engine.Scene, p playerView) bool {
	if p.flags.OnTopFace || p.flags.ClimbingUp {
		return false
	}

	step := common.FlatForward(p.tr.Rotation).Mul(p.cfg.ClimbUpStep.Z()).Add(mgl64.Vec3{0, p.cfg.ClimbUpStep.Y(), 0})
	scheduled := p.tasks.Schedule(TaskClimbUp, p.cfg.ClimbUpDuration, func() {
		finishClimbUp(w, scene, step)
	})
	if !scheduled {
		return false
	}

	p.flags.ClimbingUp = true
	p.flags.Climbing = true
	p.flags.Hanging = false
	p.input.Clear()
	p.lock.Set(component.ForcedClimbUp)

	setVelocity(scene, p.e, mgl64.Vec3{})
	removeMass(w, scene, p.e)
	return true
}

func finishClimbUp(w *ecs.World, scene engine.Scene, step mgl64.Vec3) {
	p, ok := lookupPlayer(w)
	if !ok || !p.flags.ClimbingUp {
		return
	}
	p.tr.Position = p.tr.Position.Add(step)

	p.flags.ClimbingUp = false
	stopHanging(w, scene, p)
	resetMass(w, scene, p.e)
	setVelocity(scene, p.e, mgl64.Vec3{})

	p.flags.Grounded = true
	p.flags.CanJump = true
	p.lock.Clear()
}
