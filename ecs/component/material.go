package component

// Material is the physical description of a body, used to recreate one.
type Material struct {
	Mass        float64
	Friction    float64
	Restitution float64
}

// PhysicsSnapshot is the material a held object had before its body was
// disposed.
type PhysicsSnapshot struct {
	Material Material
}

var PhysicsSnapshotComponent = NewComponent[PhysicsSnapshot]("physics_snapshot")

// MassLock marks a body whose mass was removed. Original is restored when
// the lock is released.
type MassLock struct {
	Original float64
}

var MassLockComponent = NewComponent[MassLock]("mass_lock")
