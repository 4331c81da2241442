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
	ledgeAttachDistance = 0.2
	ledgeAttachFrames   = 10
	ledgeReleaseFrames  = 5
	ledgeBandEpsilon    = 1e-9
)

// LedgeHangSystem grabs ledges whose top is just above the player and runs
// the hang: shimmy, plane lock, climb-up and release.
type LedgeHangSystem struct {
	scene  engine.Scene
	logger *slog.Logger
}

func NewLedgeHangSystem(scene engine.Scene, logger *slog.Logger) *LedgeHangSystem {
	return &LedgeHangSystem{scene: scene, logger: systemLogger(logger, "ledge_hang")}
}

func (s *LedgeHangSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok || s.scene == nil {
		return
	}
	if _, ok := s.scene.Body(p.e); !ok {
		return
	}
	if p.flags.ClimbingUp || !p.flags.CanMove {
		return
	}

	if !p.flags.Hanging {
		if ledge, ok := s.detect(w, p); ok {
			s.startHanging(w, p, ledge)
		}
		return
	}

	hang, ok := ecs.Get(w, p.e, component.LedgeHangComponent.Kind())
	if !ok {
		stopHanging(w, s.scene, p)
		return
	}
	if hang.Releasing || hang.Attaching {
		return
	}
	s.updateHanging(w, p, hang)
}

// detect returns the ledge in front of the player when the player's Y lies
// in the hang band below its top.
func (s *LedgeHangSystem) detect(w *ecs.World, p playerView) (ecs.Entity, bool) {
	hit := s.scene.PickWithRay(engine.Ray{
		Origin:    p.tr.Position,
		Direction: p.forward(),
		Length:    p.cfg.LedgeHangDetectionRange,
	}, climbableFilter(w))
	if !hit.Hit {
		return 0, false
	}
	b, ok := s.scene.Bounds(hit.Entity)
	if !ok {
		return 0, false
	}
	if !InLedgeBand(p.tr.Position.Y(), b.Max.Y(), p.cfg.LedgeHangMinYDiff, p.cfg.LedgeHangMaxYDiff) {
		return 0, false
	}
	return hit.Entity, true
}

// InLedgeBand reports whether y lies in [top-maxDiff, top-minDiff].
func InLedgeBand(y, top, minDiff, maxDiff float64) bool {
	return y >= top-maxDiff-ledgeBandEpsilon && y <= top-minDiff+ledgeBandEpsilon
}

func (s *LedgeHangSystem) startHanging(w *ecs.World, p playerView, ledge ecs.Entity) {
	s.logger.Debug("ledge grabbed", "player", p.e, "ledge", ledge)

	hang := &component.LedgeHang{Ledge: uint64(ledge), Attaching: true}
	_ = ecs.Add(w, p.e, component.LedgeHangComponent.Kind(), hang)

	p.flags.Hanging = true
	p.flags.Climbing = true
	removeMass(w, s.scene, p.e)
	setVelocity(s.scene, p.e, mgl64.Vec3{})

	fwd := common.FlatForward(p.tr.Rotation)
	from := p.tr.Position
	to := from.Add(fwd.Mul(ledgeAttachDistance))
	e := p.e
	_ = ecs.Add(w, p.e, component.PositionTweenComponent.Kind(), &component.PositionTween{
		From:     from,
		To:       to,
		Duration: component.FramesToSeconds(ledgeAttachFrames),
		OnDone: func() {
			h, ok := ecs.Get(w, e, component.LedgeHangComponent.Kind())
			if !ok {
				return
			}
			tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok {
				return
			}
			h.Attaching = false
			h.YLock = tr.Position.Y()
			h.YLockSet = true
			h.Plane = &component.PlaneLock{Anchor: tr.Position, Normal: fwd.Mul(-1)}
		},
	})

	p.flags.CanMove = false
	p.tasks.Schedule(TaskHangGrace, p.cfg.LedgeHangGrace, func() {
		if f, ok := ecs.Get(w, e, component.PlayerFlagsComponent.Kind()); ok {
			f.CanMove = true
		}
	})
}

func (s *LedgeHangSystem) updateHanging(w *ecs.World, p playerView, hang *component.LedgeHang) {
	if p.input.Left {
		p.tr.Position = p.tr.Position.Sub(p.right().Mul(p.cfg.LedgeHangShimmySpeed))
	}
	if p.input.Right {
		p.tr.Position = p.tr.Position.Add(p.right().Mul(p.cfg.LedgeHangShimmySpeed))
	}
	if hang.YLockSet {
		p.tr.Position[1] = hang.YLock
	}
	if hang.Plane != nil {
		n := hang.Plane.Normal
		if n.LenSqr() > 1e-12 {
			n = n.Normalize()
			drift := p.tr.Position.Sub(hang.Plane.Anchor).Dot(n)
			p.tr.Position = p.tr.Position.Sub(n.Mul(drift))
		}
	}

	ledge := ecs.Entity(hang.Ledge)
	probe := s.scene.PickWithRay(engine.Ray{
		Origin:    p.tr.Position,
		Direction: p.forward(),
		Length:    p.cfg.LedgeHangForwardRayLength,
	}, func(e ecs.Entity) bool { return e == ledge })
	if !probe.Hit {
		s.logger.Debug("ledge lost, dropping", "player", p.e)
		stopHanging(w, s.scene, p)
		setVelocity(s.scene, p.e, mgl64.Vec3{0, p.cfg.LedgeHangDropImpulseY, 0})
		return
	}

	switch {
	case p.input.Forward:
		stopHanging(w, s.scene, p)
		startClimbUp(w, s.scene, p)
	case p.input.Back:
		s.release(w, p, hang)
	default:
		setVelocity(s.scene, p.e, mgl64.Vec3{})
	}
}

// release steps back from the wall and lets go after a short delay.
func (s *LedgeHangSystem) release(w *ecs.World, p playerView, hang *component.LedgeHang) {
	p.flags.Climbing = false
	hang.Releasing = true

	back := common.FlatForward(p.tr.Rotation).Mul(-p.cfg.LedgeHangLerpDropDistance)
	_ = ecs.Add(w, p.e, component.PositionTweenComponent.Kind(), &component.PositionTween{
		From:     p.tr.Position,
		To:       p.tr.Position.Add(back),
		Duration: component.FramesToSeconds(ledgeReleaseFrames),
	})

	scene := s.scene
	p.tasks.Schedule(TaskLedgeRelease, p.cfg.LedgeHangReleaseDelay, func() {
		if cur, ok := lookupPlayer(w); ok && cur.flags.Hanging {
			stopHanging(w, scene, cur)
		}
	})
}

// stopHanging clears every piece of hang state and gives the body its mass
// back.
func stopHanging(w *ecs.World, scene engine.Scene, p playerView) {
	ecs.Remove(w, p.e, component.LedgeHangComponent.Kind())
	p.flags.Hanging = false
	p.flags.Climbing = false
	if scene != nil {
		resetMass(w, scene, p.e)
	}
}
