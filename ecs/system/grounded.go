package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const topFaceProbeLength = 0.6

// GroundedSystem probes below the player. It is the only writer of Grounded
// and CanJump outside jumps and climb-up, and of the top-face and platform
// flags.
type GroundedSystem struct {
	scene engine.Scene
}

func NewGroundedSystem(scene engine.Scene) *GroundedSystem {
	return &GroundedSystem{scene: scene}
}

func (s *GroundedSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	vel, ok := velocityOf(s.scene, p.e)
	if !ok {
		return
	}

	down := mgl64.Vec3{0, -1, 0}
	f := p.flags
	f.Grounded = false
	f.CanJump = false
	f.OnPlatform = false
	f.Platform = 0

	hit := s.scene.PickWithRay(engine.Ray{Origin: p.tr.Position, Direction: down, Length: p.cfg.GroundedRayLength}, func(e ecs.Entity) bool {
		return e != p.e && !isParented(w, e)
	})
	if hit.Hit {
		gap := hit.Distance - p.cfg.CapsuleHeight/2
		if gap <= p.cfg.GroundedThreshold && math.Abs(vel.Y()) < p.cfg.GroundedVelocityThreshold {
			f.Grounded = true
			f.CanJump = true
			if ecs.Has(w, hit.Entity, component.MovingPlatformComponent.Kind()) {
				f.OnPlatform = true
				f.Platform = uint64(hit.Entity)
			}
		}
	}

	top := s.scene.PickWithRay(engine.Ray{Origin: p.tr.Position, Direction: down, Length: topFaceProbeLength}, climbableFilter(w))
	f.OnTopFace = top.Hit
	if top.Hit {
		f.StandingOn = uint64(top.Entity)
	}
}
