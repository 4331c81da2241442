package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")

type BoxMoverTag struct{}

var BoxMoverTagComponent = NewComponent[BoxMoverTag]("box_mover_tag")

// CrateTag marks every level cube, climbable or movable.
type CrateTag struct{}

var CrateTagComponent = NewComponent[CrateTag]("crate_tag")

type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]("name")
