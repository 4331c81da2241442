package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// TweenSystem steps position and rotation tweens. A finished tween is
// removed before its OnDone runs, so OnDone may start another.
type TweenSystem struct{}

func NewTweenSystem() *TweenSystem {
	return &TweenSystem{}
}

func (s *TweenSystem) Update(w *ecs.World) {
	dt := w.DeltaSeconds()

	ecs.ForEach2(w, component.PositionTweenComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tw *component.PositionTween, tr *component.Transform) {
		t := advanceTween(&tw.Elapsed, tw.Duration, dt)
		tr.Position = common.LerpVec3(tw.From, tw.To, t)
		if t < 1 {
			return
		}
		done := tw.OnDone
		ecs.Remove(w, e, component.PositionTweenComponent.Kind())
		if done != nil {
			done()
		}
	})

	ecs.ForEach2(w, component.RotationTweenComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tw *component.RotationTween, tr *component.Transform) {
		t := advanceTween(&tw.Elapsed, tw.Duration, dt)
		tr.Rotation = mgl64.QuatSlerp(tw.From, tw.To, t).Normalize()
		if t >= 1 {
			ecs.Remove(w, e, component.RotationTweenComponent.Kind())
		}
	})
}

func advanceTween(elapsed *float64, duration, dt float64) float64 {
	*elapsed += dt
	if duration <= 0 {
		return 1
	}
	return common.Clamp01(*elapsed / duration)
}
