package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/prefabs"
)

const BoxMoverPrefab = "box_mover.yaml"

func DefaultBoxMoverSpec() prefabs.BoxMoverSpec {
	cfg := component.DefaultBoxMoverConfig()
	return prefabs.BoxMoverSpec{
		Name: "box_mover",
		Agent: prefabs.AgentSpec{
			Radius:                cfg.Agent.Radius,
			Height:                cfg.Agent.Height,
			MaxAcceleration:       cfg.Agent.MaxAcceleration,
			MaxSpeed:              cfg.Agent.MaxSpeed,
			CollisionQueryRange:   cfg.Agent.CollisionQueryRange,
			PathOptimizationRange: cfg.Agent.PathOptimizationRange,
			SeparationWeight:      cfg.Agent.SeparationWeight,
		},
		HoldPoint:       prefabs.Vec3(cfg.HoldPoint),
		CaptureRadius:   cfg.CaptureRadius,
		DropRadius:      cfg.DropRadius,
		ReturnRadius:    cfg.ReturnRadius,
		IdleDelay:       cfg.IdleDelay,
		SettleDelay:     cfg.SettleDelay,
		PollPeriod:      cfg.PollPeriod,
		EyeHeight:       cfg.EyeHeight,
		DropForward:     cfg.DropForward,
		DropLift:        cfg.DropLift,
		DropNudge:       cfg.DropNudge,
		CollisionGrace:  cfg.CollisionGrace,
		DefaultDropMass: cfg.DefaultDropMass,
		AnimationSpeed:  cfg.AnimationSpeed,
	}
}

func LoadBoxMoverSpec() (prefabs.BoxMoverSpec, error) {
	spec := DefaultBoxMoverSpec()
	if err := prefabs.LoadSpecInto(BoxMoverPrefab, &spec); err != nil {
		return DefaultBoxMoverSpec(), err
	}
	return spec, nil
}

func BoxMoverConfigFromSpec(spec prefabs.BoxMoverSpec) component.BoxMoverConfig {
	var c component.BoxMoverConfig
	c.Agent.Radius = spec.Agent.Radius
	c.Agent.Height = spec.Agent.Height
	c.Agent.MaxAcceleration = spec.Agent.MaxAcceleration
	c.Agent.MaxSpeed = spec.Agent.MaxSpeed
	c.Agent.CollisionQueryRange = spec.Agent.CollisionQueryRange
	c.Agent.PathOptimizationRange = spec.Agent.PathOptimizationRange
	c.Agent.SeparationWeight = spec.Agent.SeparationWeight

	c.HoldPoint = spec.HoldPoint.Vec()
	c.CaptureRadius = spec.CaptureRadius
	c.DropRadius = spec.DropRadius
	c.ReturnRadius = spec.ReturnRadius
	c.IdleDelay = spec.IdleDelay
	c.SettleDelay = spec.SettleDelay
	c.PollPeriod = spec.PollPeriod
	c.EyeHeight = spec.EyeHeight
	c.DropForward = spec.DropForward
	c.DropLift = spec.DropLift
	c.DropNudge = spec.DropNudge
	c.CollisionGrace = spec.CollisionGrace
	c.DefaultDropMass = spec.DefaultDropMass
	c.AnimationSpeed = spec.AnimationSpeed
	return c
}

// NewBoxMoverAt places an agent. Its start point is the spawn position; the
// crowd owns its motion, so it gets no body.
func NewBoxMoverAt(w *ecs.World, spec prefabs.BoxMoverSpec, place prefabs.BoxMoverPlacementSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("box mover: world is nil")
	}
	cfg := BoxMoverConfigFromSpec(spec)
	start := place.Position.Vec()

	e := ecs.CreateEntity(w)
	tr := component.NewTransform(start)
	tr.Rotation = common.YawRotation(mgl64.DegToRad(place.Yaw))

	bm := &component.BoxMover{Start: start}
	if place.DropZone != nil {
		zone := common.AABB{Min: place.DropZone.Min.Vec(), Max: place.DropZone.Max.Vec()}
		bm.DropZone = &zone
	}

	adds := []func() error{
		func() error { return ecs.Add(w, e, component.TransformComponent.Kind(), tr) },
		func() error {
			return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
				HalfExtents: mgl64.Vec3{cfg.Agent.Radius, cfg.Agent.Height / 2, cfg.Agent.Radius},
			})
		},
		func() error { return ecs.Add(w, e, component.BoxMoverTagComponent.Kind(), &component.BoxMoverTag{}) },
		func() error { return ecs.Add(w, e, component.BoxMoverComponent.Kind(), bm) },
		func() error { return ecs.Add(w, e, component.BoxMoverConfigComponent.Kind(), &cfg) },
		func() error { return ecs.Add(w, e, component.TasksComponent.Kind(), &component.Tasks{}) },
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}) },
	}
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("box mover: %w", err)
		}
	}
	if spec.Color != nil {
		_ = ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: spec.Color.Color})
	}
	return e, nil
}

// ApplyBoxMoverSpec retunes every live box mover. Agents already in the crowd
// keep their original agent parameters.
func ApplyBoxMoverSpec(w *ecs.World, spec prefabs.BoxMoverSpec) int {
	n := 0
	ecs.ForEach(w, component.BoxMoverConfigComponent.Kind(), func(e ecs.Entity, cfg *component.BoxMoverConfig) {
		*cfg = BoxMoverConfigFromSpec(spec)
		n++
	})
	return n
}
