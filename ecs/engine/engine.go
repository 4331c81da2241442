// Package engine declares the collaborators the gameplay systems drive but do
// not implement: rigid bodies, ray picking, navigation, crowd agents,
// animation playback and outline highlighting. ecs/sim provides a headless
// implementation; a renderer-backed engine can provide another.
package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// Body is a rigid body attached to one entity. Mass 0 means kinematic: the
// body moves by its velocity but gravity does not act on it.
type Body interface {
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
	Mass() float64
	SetMass(m float64)
	Material() component.Material
	Sleep()
	WakeUp()
	Sleeping() bool
	SetCollisions(enabled bool)
	Collisions() bool
}

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Length    float64
}

// PickInfo is the nearest hit of a ray query. Entity is zero when Hit is
// false.
type PickInfo struct {
	Hit      bool
	Entity   ecs.Entity
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// Scene answers spatial queries and owns the physics bodies.
type Scene interface {
	Body(e ecs.Entity) (Body, bool)
	CreateBody(e ecs.Entity, mat component.Material) Body
	DisposeBody(e ecs.Entity)
	// PickWithRay returns the closest pickable entity accepted by filter. A nil
	// filter accepts everything.
	PickWithRay(ray Ray, filter func(ecs.Entity) bool) PickInfo
	// Bounds is the world-space box of e's collider.
	Bounds(e ecs.Entity) (common.AABB, bool)
}

type AgentParams struct {
	Radius                float64
	Height                float64
	MaxAcceleration       float64
	MaxSpeed              float64
	CollisionQueryRange   float64
	PathOptimizationRange float64
	SeparationWeight      float64
}

type Navigator interface {
	// ClosestPoint snaps p onto the walkable surface.
	ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, bool)
	// ComputePath returns the corner points from start to end, or nil when no
	// path exists.
	ComputePath(from, to mgl64.Vec3) []mgl64.Vec3
}

type Crowd interface {
	AddAgent(pos mgl64.Vec3, params AgentParams) int
	AgentGoto(idx int, target mgl64.Vec3) bool
	AgentPosition(idx int) (mgl64.Vec3, bool)
}

// Animator plays named clips for one entity.
type Animator interface {
	// Ready reports whether clips have been loaded.
	Ready() bool
	Names() []string
	Has(name string) bool
	IsPlaying(name string) bool
	PlayLooping(name string, speed float64)
	// PlayOnce restarts name and calls onComplete when it ends. onComplete
	// runs on a tick boundary.
	PlayOnce(name string, speed float64, onComplete func())
	Stop(name string)
	Pause(name string)
	Resume(name string)
}

// Animators resolves the animator of an entity.
type Animators interface {
	Animator(e ecs.Entity) (Animator, bool)
}

type Highlighter interface {
	Highlight(e ecs.Entity)
	Unhighlight(e ecs.Entity)
}
