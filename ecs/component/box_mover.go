package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
)

type BoxMoverState uint8

const (
	BoxMoverIdle BoxMoverState = iota
	BoxMoverSeek
	BoxMoverPickup
	BoxMoverCarry
	BoxMoverDrop
	BoxMoverReturn
)

func (s BoxMoverState) String() string {
	switch s {
	case BoxMoverIdle:
		return "IDLE"
	case BoxMoverSeek:
		return "SEEK"
	case BoxMoverPickup:
		return "PICKUP"
	case BoxMoverCarry:
		return "CARRY"
	case BoxMoverDrop:
		return "DROP"
	case BoxMoverReturn:
		return "RETURN"
	}
	return "UNKNOWN"
}

type BoxMover struct {
	State BoxMoverState
	// Entered is false until the initial IDLE entry has run.
	Entered bool

	Start    mgl64.Vec3
	DropZone *common.AABB

	AgentIdx int
	HasAgent bool

	Target uint64
	Held   uint64
	// HeldMass is the mass the held crate had when it was attached.
	HeldMass float64

	IdleDelay   float64
	PollTimer   float64
	Highlighted map[uint64]bool

	LastNavPos    mgl64.Vec3
	HasLastNavPos bool
	NavDelta      mgl64.Vec3
	// Anim is the looping clip currently selected for locomotion.
	Anim string
}

func (b *BoxMover) InDropZone(p mgl64.Vec3) bool {
	return b.DropZone != nil && b.DropZone.Contains(p)
}

func (b *BoxMover) Moving() bool {
	return b.NavDelta.LenSqr() > 0.00001
}

var BoxMoverComponent = NewComponent[BoxMover]("box_mover")
