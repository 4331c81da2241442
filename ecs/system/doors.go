package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const doorSlideFrames = 20

// DoorSystem slides doors open and shut. An open door has no body.
type DoorSystem struct {
	scene  engine.Scene
	logger *slog.Logger
}

func NewDoorSystem(scene engine.Scene, logger *slog.Logger) *DoorSystem {
	return &DoorSystem{scene: scene, logger: systemLogger(logger, "doors")}
}

// Update keeps the body of a resting door in step with its state.
func (s *DoorSystem) Update(w *ecs.World) {
	if s.scene == nil {
		return
	}
	ecs.ForEach(w, component.DoorComponent.Kind(), func(e ecs.Entity, d *component.Door) {
		if d.Sliding || d.Open {
			return
		}
		if _, ok := s.scene.Body(e); !ok {
			s.scene.CreateBody(e, d.Material)
		}
	})
}

// FindDoor returns the door with the given name.
func FindDoor(w *ecs.World, name string) (ecs.Entity, bool) {
	for _, e := range w.Query(component.DoorComponent.Kind(), component.NameComponent.Kind()) {
		n, _ := ecs.Get(w, e, component.NameComponent.Kind())
		if n.Value == name {
			return e, true
		}
	}
	return 0, false
}

func (s *DoorSystem) Open(w *ecs.World, e ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DoorComponent.Kind())
	if !ok || d.Open || d.Sliding {
		return false
	}
	if s.scene != nil {
		s.scene.DisposeBody(e)
	}
	return s.slide(w, e, d, d.OpenY, func() {
		d.Open = true
	})
}

func (s *DoorSystem) Close(w *ecs.World, e ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DoorComponent.Kind())
	if !ok || !d.Open || d.Sliding {
		return false
	}
	scene := s.scene
	return s.slide(w, e, d, d.ClosedY, func() {
		d.Open = false
		if scene != nil {
			scene.CreateBody(e, d.Material)
		}
	})
}

func (s *DoorSystem) slide(w *ecs.World, e ecs.Entity, d *component.Door, y float64, done func()) bool {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	d.Sliding = true
	to := mgl64.Vec3{tr.Position.X(), y, tr.Position.Z()}
	s.logger.Debug("door sliding", "door", e, "to_y", y)
	_ = ecs.Add(w, e, component.PositionTweenComponent.Kind(), &component.PositionTween{
		From:     tr.Position,
		To:       to,
		Duration: component.FramesToSeconds(doorSlideFrames),
		OnDone: func() {
			d.Sliding = false
			done()
		},
	})
	return true
}
