package component

// PlayerFlags is the single record of the player's physical situation.
//
//	Grounded, CanJump, OnTopFace, StandingOn, OnPlatform, Platform: grounded system
//	   (Grounded and CanJump also cleared by a jump, set by climb-up)
//	Climbing, CanClimb, ClimbTarget: climb system (ledge hang sets Climbing)
//	Hanging, CanMove: ledge hang system
//	ClimbingUp: climb-up task
//	Carrying: carry sync
type PlayerFlags struct {
	Grounded   bool
	CanJump    bool
	OnTopFace  bool
	StandingOn uint64
	OnPlatform bool
	Platform   uint64

	Climbing    bool
	CanClimb    bool
	ClimbTarget uint64
	ClimbingUp  bool

	Hanging bool
	CanMove bool

	Carrying bool
}

var PlayerFlagsComponent = NewComponent[PlayerFlags]("player_flags")
