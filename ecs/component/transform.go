package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the authoritative placement of an entity. When Parent is
// non-zero, Local is the offset in the parent's frame and Position/Rotation
// are derived from the parent every tick.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Parent   uint64
	Local    mgl64.Vec3
}

func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}

func (t *Transform) Parented() bool {
	return t.Parent != 0
}

var TransformComponent = NewComponent[Transform]("transform")
