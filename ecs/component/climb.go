package component

type Climb struct {
	// Cooldown suppresses detection after a wall jump, in seconds.
	Cooldown float64
	YLock    float64
	YLockSet bool
}

var ClimbComponent = NewComponent[Climb]("climb")
