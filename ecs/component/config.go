package component

import "github.com/go-gl/mathgl/mgl64"

// PlayerConfig is the tuning of the player character. Distances are world
// units, durations seconds unless named Frames.
type PlayerConfig struct {
	WalkSpeed float64
	RunSpeed  float64
	JumpForce float64

	CapsuleHeight float64
	CapsuleRadius float64

	HitboxSize          mgl64.Vec3
	HitboxForwardOffset float64

	GroundedRayLength         float64
	GroundedThreshold         float64
	GroundedVelocityThreshold float64

	Body Material

	ClimbStickForce         float64
	ClimbSpeed              float64
	ClimbJumpBackLateral    float64
	ClimbJumpBackVertical   float64
	ClimbSpinDurationFrames int
	ClimbRayHeight          float64
	ClimbRayLength          float64
	ClimbCooldown           float64
	ClimbUpDuration         float64
	ClimbUpStep             mgl64.Vec3

	LedgeHangDetectionRange   float64
	LedgeHangMinYDiff         float64
	LedgeHangMaxYDiff         float64
	LedgeHangShimmySpeed      float64
	LedgeHangForwardRayLength float64
	LedgeHangDropImpulseY     float64
	LedgeHangLerpDropDistance float64
	LedgeHangGrace            float64
	LedgeHangReleaseDelay     float64

	CarryOffset         mgl64.Vec3
	CarryAnimationSpeed float64
	ThrowDelay          float64
	ThrowForce          float64
	ThrowLift           float64

	BoundsMargin float64
	TurnRate     float64
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		WalkSpeed: 5.0,
		RunSpeed:  6.5,
		JumpForce: 7.5,

		CapsuleHeight: 0.6,
		CapsuleRadius: 0.2,

		HitboxSize:          mgl64.Vec3{0.4, 0.4, 0.4},
		HitboxForwardOffset: 0.2,

		GroundedRayLength:         0.6,
		GroundedThreshold:         0.2,
		GroundedVelocityThreshold: 0.05,

		Body: Material{Mass: 1, Friction: 1, Restitution: 0},

		ClimbStickForce:         0.4,
		ClimbSpeed:              2.0,
		ClimbJumpBackLateral:    5.0,
		ClimbJumpBackVertical:   6.0,
		ClimbSpinDurationFrames: 20,
		ClimbRayHeight:          0.4,
		ClimbRayLength:          0.75,
		ClimbCooldown:           0.5,
		ClimbUpDuration:         1.925,
		ClimbUpStep:             mgl64.Vec3{0, 0.8, 0.6},

		LedgeHangDetectionRange:   0.75,
		LedgeHangMinYDiff:         0.4,
		LedgeHangMaxYDiff:         0.5,
		LedgeHangShimmySpeed:      0.02,
		LedgeHangForwardRayLength: 0.5,
		LedgeHangDropImpulseY:     -2,
		LedgeHangLerpDropDistance: 1.0,
		LedgeHangGrace:            0.5,
		LedgeHangReleaseDelay:     0.1,

		CarryOffset:         mgl64.Vec3{0, 0.35, 0.55},
		CarryAnimationSpeed: 5,
		ThrowDelay:          0.4,
		ThrowForce:          8,
		ThrowLift:           0.35,

		BoundsMargin: 0.3,
		TurnRate:     0.03,
	}
}

var PlayerConfigComponent = NewComponent[PlayerConfig]("player_config")

type BoxMoverConfig struct {
	Agent struct {
		Radius                float64
		Height                float64
		MaxAcceleration       float64
		MaxSpeed              float64
		CollisionQueryRange   float64
		PathOptimizationRange float64
		SeparationWeight      float64
	}

	HoldPoint     mgl64.Vec3
	CaptureRadius float64
	DropRadius    float64
	ReturnRadius  float64

	IdleDelay       float64
	SettleDelay     float64
	PollPeriod      float64
	EyeHeight       float64
	DropForward     float64
	DropLift        float64
	DropNudge       float64
	CollisionGrace  float64
	DefaultDropMass float64
	AnimationSpeed  float64
}

func DefaultBoxMoverConfig() BoxMoverConfig {
	var c BoxMoverConfig
	c.Agent.Radius = 0.3
	c.Agent.Height = 1.0
	c.Agent.MaxAcceleration = 3.0
	c.Agent.MaxSpeed = 2.0
	c.Agent.CollisionQueryRange = 1
	c.Agent.PathOptimizationRange = 1.0
	c.Agent.SeparationWeight = 1

	c.HoldPoint = mgl64.Vec3{0, 0.85, 0.4}
	c.CaptureRadius = 1.5
	c.DropRadius = 1.5
	c.ReturnRadius = 1.0

	c.IdleDelay = 0.5
	c.SettleDelay = 0.05
	c.PollPeriod = 1.0
	c.EyeHeight = 0.5
	c.DropForward = 0.3
	c.DropLift = 0.2
	c.DropNudge = -0.1
	c.CollisionGrace = 0.25
	c.DefaultDropMass = 2
	c.AnimationSpeed = 1.2
	return c
}

var BoxMoverConfigComponent = NewComponent[BoxMoverConfig]("box_mover_config")
