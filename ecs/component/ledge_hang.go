package component

import "github.com/go-gl/mathgl/mgl64"

// PlaneLock pins a point to the plane through Anchor with normal Normal.
type PlaneLock struct {
	Anchor mgl64.Vec3
	Normal mgl64.Vec3
}

type LedgeHang struct {
	Ledge     uint64
	Attaching bool
	YLock     float64
	YLockSet  bool
	Plane     *PlaneLock
	// Releasing is set once the step-back drop has started.
	Releasing bool
}

var LedgeHangComponent = NewComponent[LedgeHang]("ledge_hang")
