package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

const (
	carryRaiseFactor   = 0.5
	carryForwardFactor = 0.675
	carryHeightCap     = 1.5
)

// CarrySyncSystem keeps the held crate at a height-dependent offset in front
// of the player, clamped inside the level bounds.
type CarrySyncSystem struct{}

func NewCarrySyncSystem() *CarrySyncSystem {
	return &CarrySyncSystem{}
}

func (s *CarrySyncSystem) Update(w *ecs.World) {
	p, ok := lookupPlayer(w)
	if !ok {
		return
	}
	carry, ok := ecs.Get(w, p.e, component.CarryComponent.Kind())
	if !ok {
		p.flags.Carrying = false
		return
	}
	p.flags.Carrying = carry.Holding()
	if !carry.Holding() {
		return
	}

	held := ecs.Entity(carry.Held)
	tr, ok := ecs.Get(w, held, component.TransformComponent.Kind())
	if !ok {
		return
	}
	height := 0.0
	if col, ok := ecs.Get(w, held, component.ColliderComponent.Kind()); ok {
		height = col.Height()
	}

	local := CarryOffsetFor(height)
	carry.Clamped = false
	if _, bounds, ok := ecs.Singleton(w, component.LevelBoundsComponent.Kind()); ok {
		world := localToWorld(p.tr, local)
		clamped, moved := bounds.ClampXZ(world, p.cfg.BoundsMargin)
		if moved {
			carry.Clamped = true
			local = worldToLocal(p.tr, clamped)
		}
	}

	carry.Offset = local
	if !carry.Animating {
		tr.Local = local
	}
}

// CarryOffsetFor is the local carry offset for an object of the given
// height: raised by half its height and pushed forward less as it grows.
func CarryOffsetFor(height float64) mgl64.Vec3 {
	capped := math.Min(height, carryHeightCap)
	return mgl64.Vec3{
		0,
		height * carryRaiseFactor,
		height * carryForwardFactor * (1.1 - 0.1*capped),
	}
}
