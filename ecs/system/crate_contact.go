package system

import (
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

// CrateContactSystem makes a loose crate kinematic while the player touches
// or stands on it, so the player cannot shove it around.
type CrateContactSystem struct {
	scene engine.Scene
}

func NewCrateContactSystem(scene engine.Scene) *CrateContactSystem {
	return &CrateContactSystem{scene: scene}
}

func (s *CrateContactSystem) Update(w *ecs.World) {
	if s.scene == nil {
		return
	}
	p, ok := lookupPlayer(w)
	if !ok {
		return
	}
	capsule := p.capsule()
	hitbox := p.hitbox()

	ecs.ForEach2(w, component.CrateTagComponent.Kind(), component.CapabilitiesComponent.Kind(), func(e ecs.Entity, _ *component.CrateTag, caps *component.Capabilities) {
		if !caps.Movable || caps.Held() {
			return
		}
		b, ok := s.scene.Bounds(e)
		if !ok {
			return
		}
		touching := b.Intersects(capsule) || b.Intersects(hitbox) || (p.flags.OnTopFace && p.flags.StandingOn == uint64(e))

		contact, had := ecs.Get(w, e, component.PlayerContactComponent.Kind())
		switch {
		case touching && (!had || !contact.Touching):
			removeMass(w, s.scene, e)
			_ = ecs.Add(w, e, component.PlayerContactComponent.Kind(), &component.PlayerContact{Touching: true})
		case !touching && had && contact.Touching:
			resetMass(w, s.scene, e)
			ecs.Remove(w, e, component.PlayerContactComponent.Kind())
		}
	})
}
