package component

// ForcedState is the exclusive animation lock. ForcedNone is the unlocked
// value.
type ForcedState uint8

const (
	ForcedNone ForcedState = iota
	ForcedPunch
	ForcedKick
	ForcedClimbUp
	ForcedJump
)

func (f ForcedState) String() string {
	if f == ForcedNone {
		return "none"
	}
	return f.State().String()
}

// State is the player state the lock pins. It is meaningless for ForcedNone.
func (f ForcedState) State() PlayerState {
	switch f {
	case ForcedPunch:
		return PlayerStatePunch
	case ForcedKick:
		return PlayerStateKick
	case ForcedClimbUp:
		return PlayerStateClimbUp
	case ForcedJump:
		return PlayerStateJump
	}
	return PlayerStateIdle
}

// ForcedFor returns the lock that pins s, if s can be forced.
func ForcedFor(s PlayerState) (ForcedState, bool) {
	switch s {
	case PlayerStatePunch:
		return ForcedPunch, true
	case PlayerStateKick:
		return ForcedKick, true
	case PlayerStateClimbUp:
		return ForcedClimbUp, true
	case PlayerStateJump:
		return ForcedJump, true
	}
	return ForcedNone, false
}

// ForcedStateLock is owned by the player's animation controller.
type ForcedStateLock struct {
	Forced ForcedState
}

func (l *ForcedStateLock) Set(f ForcedState) {
	l.Forced = f
}

func (l *ForcedStateLock) Clear() {
	l.Forced = ForcedNone
}

func (l *ForcedStateLock) Active() bool {
	return l.Forced != ForcedNone
}

// IsLocked reports whether a lock other than the one for target is held.
func (l *ForcedStateLock) IsLocked(target PlayerState) bool {
	return l.Forced != ForcedNone && l.Forced.State() != target
}

// BlocksAction reports whether a one-shot lock (punch, kick, climb-up) is held.
// The jump lock does not block movement or pickup.
func (l *ForcedStateLock) BlocksAction() bool {
	return l.Forced == ForcedPunch || l.Forced == ForcedKick || l.Forced == ForcedClimbUp
}

var ForcedStateLockComponent = NewComponent[ForcedStateLock]("forced_state_lock")
