package component

type HolderKind uint8

const (
	HolderNone HolderKind = iota
	HolderPlayer
	HolderAgent
)

func (k HolderKind) String() string {
	switch k {
	case HolderPlayer:
		return "player"
	case HolderAgent:
		return "agent"
	default:
		return "none"
	}
}

type Holder struct {
	Kind   HolderKind
	Entity uint64
}

// Capabilities says what gameplay systems may do with a level object. An
// object is never both Climbable and Movable.
type Capabilities struct {
	Climbable bool
	Movable   bool
	Enabled   bool
	HeldBy    Holder
}

func (c *Capabilities) Held() bool {
	return c.HeldBy.Kind != HolderNone
}

var CapabilitiesComponent = NewComponent[Capabilities]("capabilities")
