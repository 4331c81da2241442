package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
	"github.com/milk9111/ledgerunner/prefabs"
)

const PlayerPrefab = "player.yaml"

// DefaultPlayerSpec mirrors component.DefaultPlayerConfig so a prefab only
// has to name the values it changes.
func DefaultPlayerSpec() prefabs.PlayerSpec {
	cfg := component.DefaultPlayerConfig()
	return prefabs.PlayerSpec{
		Name: "player",
		Movement: prefabs.MovementSpec{
			WalkSpeed: cfg.WalkSpeed,
			RunSpeed:  cfg.RunSpeed,
			JumpForce: cfg.JumpForce,
			TurnRate:  cfg.TurnRate,
		},
		Capsule: prefabs.CapsuleSpec{Height: cfg.CapsuleHeight, Radius: cfg.CapsuleRadius},
		Hitbox:  prefabs.HitboxSpec{Size: prefabs.Vec3(cfg.HitboxSize), ForwardOffset: cfg.HitboxForwardOffset},
		Grounded: prefabs.GroundedSpec{
			RayLength:         cfg.GroundedRayLength,
			Threshold:         cfg.GroundedThreshold,
			VelocityThreshold: cfg.GroundedVelocityThreshold,
		},
		Body: prefabs.MaterialSpec{Mass: cfg.Body.Mass, Friction: cfg.Body.Friction, Restitution: cfg.Body.Restitution},
		Climb: prefabs.ClimbSpec{
			StickForce:       cfg.ClimbStickForce,
			Speed:            cfg.ClimbSpeed,
			JumpBackLateral:  cfg.ClimbJumpBackLateral,
			JumpBackVertical: cfg.ClimbJumpBackVertical,
			SpinFrames:       cfg.ClimbSpinDurationFrames,
			RayHeight:        cfg.ClimbRayHeight,
			RayLength:        cfg.ClimbRayLength,
			Cooldown:         cfg.ClimbCooldown,
			ClimbUpDuration:  cfg.ClimbUpDuration,
			ClimbUpStep:      prefabs.Vec3(cfg.ClimbUpStep),
		},
		LedgeHang: prefabs.LedgeHangSpec{
			DetectionRange:   cfg.LedgeHangDetectionRange,
			MinYDiff:         cfg.LedgeHangMinYDiff,
			MaxYDiff:         cfg.LedgeHangMaxYDiff,
			ShimmySpeed:      cfg.LedgeHangShimmySpeed,
			ForwardRayLength: cfg.LedgeHangForwardRayLength,
			DropImpulseY:     cfg.LedgeHangDropImpulseY,
			LerpDropDistance: cfg.LedgeHangLerpDropDistance,
			Grace:            cfg.LedgeHangGrace,
			ReleaseDelay:     cfg.LedgeHangReleaseDelay,
		},
		Carry: prefabs.CarrySpec{
			Offset:         prefabs.Vec3(cfg.CarryOffset),
			AnimationSpeed: cfg.CarryAnimationSpeed,
			ThrowDelay:     cfg.ThrowDelay,
			ThrowForce:     cfg.ThrowForce,
			ThrowLift:      cfg.ThrowLift,
		},
		BoundsMargin: cfg.BoundsMargin,
	}
}

// LoadPlayerSpec overlays player.yaml on the defaults.
func LoadPlayerSpec() (prefabs.PlayerSpec, error) {
	spec := DefaultPlayerSpec()
	if err := prefabs.LoadSpecInto(PlayerPrefab, &spec); err != nil {
		return DefaultPlayerSpec(), err
	}
	return spec, nil
}

func PlayerConfigFromSpec(spec prefabs.PlayerSpec) component.PlayerConfig {
	return component.PlayerConfig{
		WalkSpeed: spec.Movement.WalkSpeed,
		RunSpeed:  spec.Movement.RunSpeed,
		JumpForce: spec.Movement.JumpForce,
		TurnRate:  spec.Movement.TurnRate,

		CapsuleHeight: spec.Capsule.Height,
		CapsuleRadius: spec.Capsule.Radius,

		HitboxSize:          spec.Hitbox.Size.Vec(),
		HitboxForwardOffset: spec.Hitbox.ForwardOffset,

		GroundedRayLength:         spec.Grounded.RayLength,
		GroundedThreshold:         spec.Grounded.Threshold,
		GroundedVelocityThreshold: spec.Grounded.VelocityThreshold,

		Body: materialFromSpec(spec.Body),

		ClimbStickForce:         spec.Climb.StickForce,
		ClimbSpeed:              spec.Climb.Speed,
		ClimbJumpBackLateral:    spec.Climb.JumpBackLateral,
		ClimbJumpBackVertical:   spec.Climb.JumpBackVertical,
		ClimbSpinDurationFrames: spec.Climb.SpinFrames,
		ClimbRayHeight:          spec.Climb.RayHeight,
		ClimbRayLength:          spec.Climb.RayLength,
		ClimbCooldown:           spec.Climb.Cooldown,
		ClimbUpDuration:         spec.Climb.ClimbUpDuration,
		ClimbUpStep:             spec.Climb.ClimbUpStep.Vec(),

		LedgeHangDetectionRange:   spec.LedgeHang.DetectionRange,
		LedgeHangMinYDiff:         spec.LedgeHang.MinYDiff,
		LedgeHangMaxYDiff:         spec.LedgeHang.MaxYDiff,
		LedgeHangShimmySpeed:      spec.LedgeHang.ShimmySpeed,
		LedgeHangForwardRayLength: spec.LedgeHang.ForwardRayLength,
		LedgeHangDropImpulseY:     spec.LedgeHang.DropImpulseY,
		LedgeHangLerpDropDistance: spec.LedgeHang.LerpDropDistance,
		LedgeHangGrace:            spec.LedgeHang.Grace,
		LedgeHangReleaseDelay:     spec.LedgeHang.ReleaseDelay,

		CarryOffset:         spec.Carry.Offset.Vec(),
		CarryAnimationSpeed: spec.Carry.AnimationSpeed,
		ThrowDelay:          spec.Carry.ThrowDelay,
		ThrowForce:          spec.Carry.ThrowForce,
		ThrowLift:           spec.Carry.ThrowLift,

		BoundsMargin: spec.BoundsMargin,
	}
}

func materialFromSpec(m prefabs.MaterialSpec) component.Material {
	return component.Material{Mass: m.Mass, Friction: m.Friction, Restitution: m.Restitution}
}

// NewPlayerAt creates the player with its body. scene may be nil in tests
// that drive the player without physics.
func NewPlayerAt(w *ecs.World, scene engine.Scene, spec prefabs.PlayerSpec, spawn prefabs.SpawnSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("player: world is nil")
	}
	cfg := PlayerConfigFromSpec(spec)

	e := ecs.CreateEntity(w)
	tr := component.NewTransform(spawn.Position.Vec())
	tr.Rotation = common.YawRotation(mgl64.DegToRad(spawn.Yaw))
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		HalfExtents: mgl64.Vec3{cfg.CapsuleRadius, cfg.CapsuleHeight / 2, cfg.CapsuleRadius},
		Solid:       true,
	}); err != nil {
		return 0, fmt.Errorf("player: add collider: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerConfigComponent.Kind(), &cfg); err != nil {
		return 0, fmt.Errorf("player: add config: %w", err)
	}

	adds := []func() error{
		func() error { return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) },
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}) },
		func() error {
			return ecs.Add(w, e, component.PlayerFlagsComponent.Kind(), &component.PlayerFlags{CanMove: true})
		},
		func() error { return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.ForcedStateLockComponent.Kind(), &component.ForcedStateLock{})
		},
		func() error { return ecs.Add(w, e, component.TasksComponent.Kind(), &component.Tasks{}) },
		func() error { return ecs.Add(w, e, component.ClimbComponent.Kind(), &component.Climb{}) },
		func() error { return ecs.Add(w, e, component.CarryComponent.Kind(), &component.Carry{}) },
		func() error {
			return ecs.Add(w, e, component.PlayerStateMachineComponent.Kind(), &component.PlayerStateMachine{})
		},
	}
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	if spec.Color != nil {
		_ = ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: spec.Color.Color})
	}

	if scene != nil {
		scene.CreateBody(e, cfg.Body)
	}
	return e, nil
}

// ApplyPlayerSpec swaps in retuned values on a live player.
func ApplyPlayerSpec(w *ecs.World, e ecs.Entity, spec prefabs.PlayerSpec) bool {
	cfg, ok := ecs.Get(w, e, component.PlayerConfigComponent.Kind())
	if !ok {
		return false
	}
	*cfg = PlayerConfigFromSpec(spec)
	if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		col.HalfExtents = mgl64.Vec3{cfg.CapsuleRadius, cfg.CapsuleHeight / 2, cfg.CapsuleRadius}
	}
	return true
}
