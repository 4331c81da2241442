package system

import (
	"log/slog"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	// jumpApexVelocity ends the jump lock once the body starts to fall.
	jumpApexVelocity = -0.1
	// fallVelocity is the airborne vertical speed that enters fall.
	fallVelocity    = -1.0
	oneShotClipRate = 1.5
)

var playerStateClips = map[component.PlayerState]string{
	component.PlayerStateIdle:        "idle",
	component.PlayerStateWalk:        "walkforward",
	component.PlayerStateRun:         "run",
	component.PlayerStateJump:        "jump",
	component.PlayerStateFall:        "fallingidle",
	component.PlayerStateClimb:       "climbwall",
	component.PlayerStateHang:        "hangidle",
	component.PlayerStateShimmyLeft:  "hangshimmyleft",
	component.PlayerStateShimmyRight: "hangshimmyright",
	component.PlayerStateClimbUp:     "climbup",
	component.PlayerStatePunch:       "punch",
	component.PlayerStateKick:        "kick",
	component.PlayerStateCarryIdle:   "carryidle",
	component.PlayerStateCarryWalk:   "carrywalk",
}

// PlayerStateInputs is everything the resolver looks at.
type PlayerStateInputs struct {
	Current component.PlayerState
	Forced  component.ForcedState

	Grounded   bool
	Hanging    bool
	ClimbingUp bool
	Climbing   bool
	Carrying   bool

	Moving bool
	Left   bool
	Right  bool
	Run    bool
	Punch  bool
	Kick   bool

	VelocityY float64
}

// PlayerStateDecision is the outcome of one resolution. Forced is the lock
// value to store; Next is entered only when Enter is set.
type PlayerStateDecision struct {
	Next   component.PlayerState
	Enter  bool
	Forced component.ForcedState
}

// ResolvePlayerState applies the priority rules. The first matching rule
// decides the tick.
func ResolvePlayerState(in PlayerStateInputs) PlayerStateDecision {
	keep := PlayerStateDecision{Next: in.Current, Forced: in.Forced}
	enter := func(s component.PlayerState, forced component.ForcedState) PlayerStateDecision {
		return PlayerStateDecision{Next: s, Enter: true, Forced: forced}
	}

	// Landing ends a jump; the state follows next tick.
	if in.Grounded && in.Forced == component.ForcedJump {
		keep.Forced = component.ForcedNone
		return keep
	}

	if in.Forced == component.ForcedJump {
		if in.VelocityY < jumpApexVelocity {
			return enter(component.PlayerStateFall, component.ForcedNone)
		}
		return enter(component.PlayerStateJump, in.Forced)
	}

	if in.Forced != component.ForcedNone {
		return enter(in.Forced.State(), in.Forced)
	}

	if in.Punch {
		return enter(component.PlayerStatePunch, component.ForcedPunch)
	}
	if in.Kick {
		return enter(component.PlayerStateKick, component.ForcedKick)
	}

	if in.Hanging {
		switch {
		case in.Left:
			return enter(component.PlayerStateShimmyLeft, in.Forced)
		case in.Right:
			return enter(component.PlayerStateShimmyRight, in.Forced)
		}
		return enter(component.PlayerStateHang, in.Forced)
	}

	if in.ClimbingUp {
		return enter(component.PlayerStateClimbUp, in.Forced)
	}

	if in.Climbing {
		return enter(component.PlayerStateClimb, in.Forced)
	}

	if in.Grounded {
		switch {
		case in.Carrying && in.Moving:
			return enter(component.PlayerStateCarryWalk, in.Forced)
		case in.Carrying:
			return enter(component.PlayerStateCarryIdle, in.Forced)
		case in.Moving && in.Run:
			return enter(component.PlayerStateRun, in.Forced)
		case in.Moving:
			return enter(component.PlayerStateWalk, in.Forced)
		}
		return enter(component.PlayerStateIdle, in.Forced)
	}

	if in.VelocityY <= fallVelocity && in.Current != component.PlayerStateFall {
		return enter(component.PlayerStateFall, component.ForcedNone)
	}
	return keep
}

// PlayerStateMachineSystem resolves the player's state after physics and
// drives the animator from state entries.
type PlayerStateMachineSystem struct {
	scene  engine.Scene
	anims  engine.Animators
	logger *slog.Logger
}

func NewPlayerStateMachineSystem(scene engine.Scene, anims engine.Animators, logger *slog.Logger) *PlayerStateMachineSystem {
	return &PlayerStateMachineSystem{scene: scene, anims: anims, logger: systemLogger(logger, "player_fsm")}
}

func (s *PlayerStateMachineSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	fsm, ok := ecs.Get(w, p.e, component.PlayerStateMachineComponent.Kind())
	if !ok {
		return
	}
	if s.anims != nil {
		if a, ok := s.anims.Animator(p.e); ok && !a.Ready() {
			return
		}
	}
	vel, ok := velocityOf(s.scene, p.e)
	if !ok {
		return
	}

	d := ResolvePlayerState(PlayerStateInputs{
		Current:    fsm.Current,
		Forced:     p.lock.Forced,
		Grounded:   p.flags.Grounded,
		Hanging:    p.flags.Hanging,
		ClimbingUp: p.flags.ClimbingUp,
		Climbing:   p.flags.Climbing,
		Carrying:   p.flags.Carrying,
		Moving:     p.input.Moving(),
		Left:       p.input.Left,
		Right:      p.input.Right,
		Run:        p.input.Run,
		Punch:      p.input.PunchPressed,
		Kick:       p.input.KickPressed,
		VelocityY:  vel.Y(),
	})

	pressed := p.lock.Forced == component.ForcedNone && d.Forced != component.ForcedNone
	p.lock.Forced = d.Forced
	if d.Enter {
		// A fresh press restarts a one-shot the player is still showing so
		// the new lock gets its own completion.
		if pressed && d.Next.OneShot() {
			fsm.Entered = false
		}
		s.enter(w, p, fsm, d.Next)
	}
}

// SetStateByName enters the named state. Unknown names are logged and
// ignored.
func (s *PlayerStateMachineSystem) SetStateByName(w *ecs.World, name string) bool {
	state, ok := component.ParsePlayerState(name)
	if !ok {
		s.logger.Warn("unknown player state", "state", name)
		return false
	}
	p, ok := lookupPlayer(w)
	if !ok {
		return false
	}
	fsm, ok := ecs.Get(w, p.e, component.PlayerStateMachineComponent.Kind())
	if !ok {
		return false
	}
	return s.enter(w, p, fsm, state)
}

// enter runs the entry effect of next. Re-entering the current state does
// nothing; a state other than the one the lock pins is refused.
func (s *PlayerStateMachineSystem) enter(w *ecs.World, p playerView, fsm *component.PlayerStateMachine, next component.PlayerState) bool {
	if fsm.Entered && fsm.Current == next {
		return false
	}
	if p.lock.IsLocked(next) {
		s.logger.Warn("state refused, forced state active", "state", next, "forced", p.lock.Forced)
		return false
	}

	prev := fsm.Current
	fsm.Current = next
	fsm.Entered = true

	clip := playerStateClips[next]
	anim, hasAnim := animationFor(s.anims, p.e, s.logger)
	if next.OneShot() {
		forced, _ := component.ForcedFor(next)
		p.lock.Set(forced)
		lock := p.lock
		release := func() {
			if lock.Forced == forced {
				lock.Clear()
			}
		}
		if !hasAnim || !anim.playOnce(clip, oneShotClipRate, release) {
			release()
		}
	} else if hasAnim {
		anim.playLooping(clip, 1)
	}

	w.Events().Push(ecs.Event{
		Type: ecs.EventPlayerState,
		Data: ecs.StateChange{Entity: p.e, From: prev.String(), To: next.String()},
	})
	return true
}
