package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	crateBoundsInset = 0.5
	crateFloorY      = -99.5
	crateCeilingY    = 99.5
	crateBounce      = -0.5
)

// BoundsClampSystem keeps the player and loose crates inside the level.
// A crate that hits a wall has the offending velocity reflected and damped.
type BoundsClampSystem struct {
	scene engine.Scene
}

func NewBoundsClampSystem(scene engine.Scene) *BoundsClampSystem {
	return &BoundsClampSystem{scene: scene}
}

func (s *BoundsClampSystem) Update(w *ecs.World) {
	_, bounds, ok := ecs.Singleton(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	if p, ok := lookupPlayer(w); ok {
		p.tr.Position, _ = bounds.ClampXZ(p.tr.Position, p.cfg.BoundsMargin)
	}

	if s.scene == nil {
		return
	}
	ecs.ForEach2(w, component.CrateTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.CrateTag, tr *component.Transform) {
		if tr.Parented() {
			return
		}
		body, ok := s.scene.Body(e)
		if !ok || body.Mass() == 0 {
			return
		}
		clamped, vel, hit := clampCrate(*bounds, tr.Position, body.LinearVelocity())
		if !hit {
			return
		}
		tr.Position = clamped
		body.SetLinearVelocity(vel)
	})
}

func clampCrate(b component.LevelBounds, pos, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, bool) {
	lo := mgl64.Vec3{b.MinX() + crateBoundsInset, crateFloorY, b.MinZ() + crateBoundsInset}
	hi := mgl64.Vec3{b.MaxX() - crateBoundsInset, crateCeilingY, b.MaxZ() - crateBoundsInset}
	hit := false
	for i := 0; i < 3; i++ {
		c := common.Clamp(pos[i], lo[i], hi[i])
		if c != pos[i] {
			pos[i] = c
			vel[i] *= crateBounce
			hit = true
		}
	}
	return pos, vel, hit
}
