package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	platformRestTolerance = 0.1
	platformRestRadius    = 2.0
	platformMaxStep       = 1.0
	platformFrameRate     = 60.0
)

// MovingPlatformSystem moves platforms back and forth and carries whatever
// rests on top of them.
type MovingPlatformSystem struct {
	scene engine.Scene
}

func NewMovingPlatformSystem(scene engine.Scene) *MovingPlatformSystem {
	return &MovingPlatformSystem{scene: scene}
}

func (s *MovingPlatformSystem) Update(w *ecs.World) {
	frames := w.DeltaSeconds() * platformFrameRate
	ecs.ForEach2(w, component.MovingPlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, mp *component.MovingPlatform, tr *component.Transform) {
		prev := tr.Position
		mp.Frame += frames
		tr.Position = PlatformPosition(mp)
		mp.Delta = tr.Position.Sub(prev)
		s.carryRiders(w, e, tr, mp.Delta)
	})
}

// PlatformPosition is where mp sits at its current frame. Even legs run
// start to end, odd legs come back.
func PlatformPosition(mp *component.MovingPlatform) mgl64.Vec3 {
	if mp.DurationFrames <= 0 {
		return mp.Start
	}
	d := float64(mp.DurationFrames)
	leg := math.Floor(mp.Frame / d)
	t := (mp.Frame - leg*d) / d
	if int(leg)%2 == 1 {
		t = 1 - t
	}
	return common.LerpVec3(mp.Start, mp.End, t)
}

func (s *MovingPlatformSystem) carryRiders(w *ecs.World, platform ecs.Entity, tr *component.Transform, delta mgl64.Vec3) {
	if delta.LenSqr() == 0 || delta.Len() >= platformMaxStep {
		return
	}
	col, ok := ecs.Get(w, platform, component.ColliderComponent.Kind())
	if !ok {
		return
	}
	top := tr.Position.Y() - delta.Y() + col.HalfExtents.Y()
	center := tr.Position.Sub(delta)

	if p, ok := lookupPlayer(w); ok && !p.flags.Climbing && !p.flags.Hanging {
		if restsOn(p.tr.Position.Y()-p.cfg.CapsuleHeight/2, top, p.tr.Position, center) {
			p.tr.Position = p.tr.Position.Add(delta)
		}
	}

	ecs.ForEach3(w, component.CrateTagComponent.Kind(), component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, _ *component.CrateTag, ctr *component.Transform, ccol *component.Collider) {
		if ctr.Parented() {
			return
		}
		if s.scene != nil {
			if body, ok := s.scene.Body(e); !ok || (body.Mass() == 0 && !ecs.Has(w, e, component.MassLockComponent.Kind())) {
				return
			}
		}
		if restsOn(ctr.Position.Y()-ccol.HalfExtents.Y(), top, ctr.Position, center) {
			ctr.Position = ctr.Position.Add(delta)
		}
	})
}

// restsOn reports whether a bottom face at bottomY sits on a top face at
// topY near the platform centre.
func restsOn(bottomY, topY float64, pos, center mgl64.Vec3) bool {
	return math.Abs(bottomY-topY) < platformRestTolerance && common.FlatDistance(pos, center) < platformRestRadius
}
