package component

// Input is the per-tick action snapshot for the player. The *Pressed fields
// are rising edges and are cleared at the end of every tick; systems that act
// on an edge consume it by clearing it.
type Input struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Run     bool

	JumpPressed   bool
	PunchPressed  bool
	KickPressed   bool
	PickupPressed bool

	// LookX is the horizontal pointer delta while the look button is held.
	LookX float64
}

func (in *Input) Moving() bool {
	return in.Forward || in.Back || in.Left || in.Right
}

func (in *Input) ResetPressed() {
	in.JumpPressed = false
	in.PunchPressed = false
	in.KickPressed = false
	in.PickupPressed = false
	in.LookX = 0
}

// Clear drops every held and pressed action.
func (in *Input) Clear() {
	*in = Input{}
}

var InputComponent = NewComponent[Input]("input")
