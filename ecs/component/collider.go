package component

import "github.com/go-gl/mathgl/mgl64"

// Collider is an axis-aligned box centred on the transform. Solid colliders
// block bodies; Pickable ones answer ray queries.
type Collider struct {
	HalfExtents mgl64.Vec3
	Solid       bool
	Pickable    bool
}

func (c Collider) Height() float64 {
	return c.HalfExtents.Y() * 2
}

var ColliderComponent = NewComponent[Collider]("collider")
