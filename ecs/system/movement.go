package system

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	airborneSpeedScale = 0.4
	carrySpeedScale    = 0.75
	groundDamping      = 0.9
	lookSensitivity    = 0.1
	lookDeadZone       = 0.1
)

// MovementSystem turns input into horizontal velocity, jumps and turning.
type MovementSystem struct {
	scene  engine.Scene
	logger *slog.Logger
}

func NewMovementSystem(scene engine.Scene, logger *slog.Logger) *MovementSystem {
	return &MovementSystem{scene: scene, logger: systemLogger(logger, "movement")}
}

func (s *MovementSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	body, ok := s.scene.Body(p.e)
	if !ok || !p.flags.CanMove {
		return
	}

	if !p.flags.Climbing && !p.lock.BlocksAction() {
		s.move(p, body)
	}
	s.jump(p, body)
	s.turn(p)
}

func (s *MovementSystem) move(p playerView, body engine.Body) {
	in := p.input
	var dir mgl64.Vec3
	fwd := common.FlatForward(p.tr.Rotation)
	right := mgl64.Vec3{fwd.Z(), 0, -fwd.X()}
	if in.Forward {
		dir = dir.Add(fwd)
	}
	if in.Back {
		dir = dir.Sub(fwd)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}

	vel := body.LinearVelocity()
	if dir.LenSqr() < 1e-12 {
		if p.flags.Grounded {
			body.SetLinearVelocity(mgl64.Vec3{vel.X() * groundDamping, vel.Y(), vel.Z() * groundDamping})
		}
		return
	}

	speed := MoveSpeed(p.cfg, in.Run, p.flags.Grounded, p.flags.Carrying)
	dir = dir.Normalize().Mul(speed)
	body.SetLinearVelocity(mgl64.Vec3{dir.X(), vel.Y(), dir.Z()})
}

// MoveSpeed is the horizontal speed for the given modifiers. Running is
// ignored while carrying.
func MoveSpeed(cfg *component.PlayerConfig, run, grounded, carrying bool) float64 {
	speed := cfg.WalkSpeed
	if run && !carrying {
		speed = cfg.RunSpeed
	}
	if !grounded {
		speed *= airborneSpeedScale
	}
	if carrying {
		speed *= carrySpeedScale
	}
	return speed
}

func (s *MovementSystem) jump(p playerView, body engine.Body) {
	if !p.input.JumpPressed {
		return
	}
	p.input.JumpPressed = false
	if p.lock.BlocksAction() || p.flags.Climbing {
		return
	}
	if !p.flags.Grounded || !p.flags.CanJump {
		return
	}
	vel := body.LinearVelocity()
	body.SetLinearVelocity(mgl64.Vec3{vel.X(), p.cfg.JumpForce, vel.Z()})
	p.flags.Grounded = false
	p.flags.CanJump = false
	p.lock.Set(component.ForcedJump)
}

func (s *MovementSystem) turn(p playerView) {
	look := p.input.LookX * lookSensitivity
	if math.Abs(look) <= lookDeadZone {
		return
	}
	p.tr.Rotation = p.tr.Rotation.Mul(common.YawRotation(look * p.cfg.TurnRate)).Normalize()
}
