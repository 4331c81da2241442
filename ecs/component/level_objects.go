package component

import "github.com/go-gl/mathgl/mgl64"

type Door struct {
	ClosedY  float64
	OpenY    float64
	Open     bool
	Sliding  bool
	Material Material
}

var DoorComponent = NewComponent[Door]("door")

// PressurePlate toggles when a trigger volume above it overlaps the player
// or a crate. Scripts are names resolved by the plate system.
type PressurePlate struct {
	Size         mgl64.Vec3
	Pressed      bool
	TriggeredBy  []string
	OnActivate   string
	OnDeactivate string
}

func (p *PressurePlate) TriggeredByKind(kind string) bool {
	if len(p.TriggeredBy) == 0 {
		return true
	}
	for _, k := range p.TriggeredBy {
		if k == kind {
			return true
		}
	}
	return false
}

var PressurePlateComponent = NewComponent[PressurePlate]("pressure_plate")

// MovingPlatform ping-pongs between Start and End, spending DurationFrames
// on each leg. Delta is the displacement of the last tick.
type MovingPlatform struct {
	Start          mgl64.Vec3
	End            mgl64.Vec3
	DurationFrames int
	Frame          float64
	Delta          mgl64.Vec3
}

var MovingPlatformComponent = NewComponent[MovingPlatform]("moving_platform")

// PlayerContact tracks whether a crate currently has its mass removed
// because the player touches or stands on it.
type PlayerContact struct {
	Touching bool
}

var PlayerContactComponent = NewComponent[PlayerContact]("player_contact")
