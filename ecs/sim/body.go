package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// Body is the headless rigid body. It carries no shape; the entity's
// collider is used for contacts.
type Body struct {
	velocity   mgl64.Vec3
	material   component.Material
	sleeping   bool
	collisions bool
}

func newBody(mat component.Material) *Body {
	return &Body{material: mat, collisions: true}
}

func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.velocity
}

func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.velocity = v
}

func (b *Body) Mass() float64 {
	return b.material.Mass
}

func (b *Body) SetMass(m float64) {
	b.material.Mass = m
}

// Material reports the body's current mass with its surface properties.
func (b *Body) Material() component.Material {
	return b.material
}

func (b *Body) Sleep() {
	b.sleeping = true
}

func (b *Body) WakeUp() {
	b.sleeping = false
}

func (b *Body) Sleeping() bool {
	return b.sleeping
}

func (b *Body) SetCollisions(enabled bool) {
	b.collisions = enabled
}

func (b *Body) Collisions() bool {
	return b.collisions
}

// static bodies never move.
func (b *Body) static() bool {
	return b.material.Mass == 0 && b.velocity.LenSqr() == 0
}
