package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/prefabs"
)

const (
	plateTriggerLift = 0.1
	plateTravel      = 0.05

	TriggerPlayer = "player"
	TriggerCrate  = "crate"
)

// ScriptLoader returns the source of a named trigger script.
type ScriptLoader func(name string) ([]byte, error)

// PressurePlateSystem toggles plates when the player or a crate enters the
// volume above them and runs the plate's trigger scripts.
type PressurePlateSystem struct {
	doors  *DoorSystem
	load   ScriptLoader
	cache  map[string]*tengo.Compiled
	logger *slog.Logger
}

func NewPressurePlateSystem(doors *DoorSystem, load ScriptLoader, logger *slog.Logger) *PressurePlateSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &PressurePlateSystem{
		doors:  doors,
		load:   load,
		cache:  map[string]*tengo.Compiled{},
		logger: systemLogger(logger, "plates"),
	}
}

// InvalidateScripts drops compiled scripts so edited sources are picked up.
func (s *PressurePlateSystem) InvalidateScripts() {
	s.cache = map[string]*tengo.Compiled{}
}

func (s *PressurePlateSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.PressurePlateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, plate *component.PressurePlate, tr *component.Transform) {
		trigger := common.AABBFromCenter(tr.Position.Add(mgl64.Vec3{0, plateTriggerLift, 0}), plate.Size.Mul(0.5))
		active := s.occupied(w, plate, trigger)
		if active == plate.Pressed {
			return
		}

		plate.Pressed = active
		script := plate.OnDeactivate
		if active {
			tr.Position[1] -= plateTravel
			script = plate.OnActivate
		} else {
			tr.Position[1] += plateTravel
		}
		w.Events().Push(ecs.Event{Type: ecs.EventPlateToggled, Data: ecs.EntityEvent{Entity: e}})

		if script == "" {
			return
		}
		if err := s.run(w, e, script); err != nil {
			s.logger.Warn("trigger script failed", "plate", e, "script", script, "err", err)
		}
	})
}

func (s *PressurePlateSystem) occupied(w *ecs.World, plate *component.PressurePlate, trigger common.AABB) bool {
	if plate.TriggeredByKind(TriggerPlayer) {
		if p, ok := lookupPlayer(w); ok && p.capsule().Intersects(trigger) {
			return true
		}
	}
	if !plate.TriggeredByKind(TriggerCrate) {
		return false
	}
	for _, e := range w.Query(component.CrateTagComponent.Kind(), component.CapabilitiesComponent.Kind(), component.TransformComponent.Kind(), component.ColliderComponent.Kind()) {
		caps, _ := ecs.Get(w, e, component.CapabilitiesComponent.Kind())
		if !caps.Movable {
			continue
		}
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
		if common.AABBFromCenter(tr.Position, col.HalfExtents).Intersects(trigger) {
			return true
		}
	}
	return false
}

func (s *PressurePlateSystem) compile(name string) (*tengo.Compiled, error) {
	if c, ok := s.cache[name]; ok {
		return c, nil
	}
	src, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	script := tengo.NewScript(src)
	_ = script.Add("plate", "")
	_ = script.Add("door_open", &tengo.UserFunction{Name: "door_open"})
	_ = script.Add("door_close", &tengo.UserFunction{Name: "door_close"})
	_ = script.Add("log", &tengo.UserFunction{Name: "log"})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	s.cache[name] = compiled
	return compiled, nil
}

func (s *PressurePlateSystem) run(w *ecs.World, plate ecs.Entity, name string) error {
	compiled, err := s.compile(name)
	if err != nil {
		return err
	}
	plateName := ""
	if n, ok := ecs.Get(w, plate, component.NameComponent.Kind()); ok {
		plateName = n.Value
	}
	if err := compiled.Set("plate", plateName); err != nil {
		return err
	}
	if err := compiled.Set("door_open", s.doorFunc(w, "door_open", s.doors.Open)); err != nil {
		return err
	}
	if err := compiled.Set("door_close", s.doorFunc(w, "door_close", s.doors.Close)); err != nil {
		return err
	}
	if err := compiled.Set("log", &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.logger.Info(strings.Join(parts, " "), "plate", plateName)
		return tengo.UndefinedValue, nil
	}}); err != nil {
		return err
	}
	return compiled.Run()
}

func (s *PressurePlateSystem) doorFunc(w *ecs.World, fn string, act func(*ecs.World, ecs.Entity) bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: fn, Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if s.doors == nil {
			return tengo.FalseValue, nil
		}
		door, ok := FindDoor(w, name)
		if !ok {
			s.logger.Warn("script names unknown door", "door", name)
			return tengo.FalseValue, nil
		}
		if act(w, door) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
