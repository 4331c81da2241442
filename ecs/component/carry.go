package component

import "github.com/go-gl/mathgl/mgl64"

// Carry is the player's single held-object slot.
type Carry struct {
	Held uint64
	// Progress runs 0..1 while the object is pulled into the carry offset.
	Progress  float64
	Animating bool
	Start     mgl64.Vec3
	Offset    mgl64.Vec3
	Clamped   bool
}

func (c *Carry) Holding() bool {
	return c.Held != 0
}

var CarryComponent = NewComponent[Carry]("carry")
