package component

type PlayerState uint8

const (
	PlayerStateIdle PlayerState = iota
	PlayerStateWalk
	PlayerStateRun
	PlayerStateJump
	PlayerStateFall
	PlayerStateClimb
	PlayerStateHang
	PlayerStateShimmyLeft
	PlayerStateShimmyRight
	PlayerStateClimbUp
	PlayerStatePunch
	PlayerStateKick
	PlayerStateCarryIdle
	PlayerStateCarryWalk

	playerStateCount
)

var playerStateNames = [playerStateCount]string{
	PlayerStateIdle:        "idle",
	PlayerStateWalk:        "walk",
	PlayerStateRun:         "run",
	PlayerStateJump:        "jump",
	PlayerStateFall:        "fall",
	PlayerStateClimb:       "climb",
	PlayerStateHang:        "hang",
	PlayerStateShimmyLeft:  "shimmyleft",
	PlayerStateShimmyRight: "shimmyright",
	PlayerStateClimbUp:     "climbup",
	PlayerStatePunch:       "punch",
	PlayerStateKick:        "kick",
	PlayerStateCarryIdle:   "carryidle",
	PlayerStateCarryWalk:   "carrywalk",
}

func (s PlayerState) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return playerStateNames[s]
}

func (s PlayerState) Valid() bool {
	return s < playerStateCount
}

// OneShot states play their clip once and hold the forced lock until it ends.
func (s PlayerState) OneShot() bool {
	return s == PlayerStateClimbUp || s == PlayerStatePunch || s == PlayerStateKick
}

// ParsePlayerState maps a state name back to its value.
func ParsePlayerState(name string) (PlayerState, bool) {
	for i, n := range playerStateNames {
		if n == name {
			return PlayerState(i), true
		}
	}
	return 0, false
}

// AllPlayerStates lists every state in declaration order.
func AllPlayerStates() []PlayerState {
	out := make([]PlayerState, 0, playerStateCount)
	for s := PlayerState(0); s < playerStateCount; s++ {
		out = append(out, s)
	}
	return out
}

type PlayerStateMachine struct {
	Current PlayerState
	// Entered is false until the first state entry has run its effect.
	Entered bool
}

var PlayerStateMachineComponent = NewComponent[PlayerStateMachine]("player_state_machine")
