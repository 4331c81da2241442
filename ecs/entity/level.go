package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/engine"
	"github.com/milk9111/ledgerunner/prefabs"
)

const (
	// doorOpenRise is how far above its closed height an open door sits, in
	// door heights.
	doorOpenRise = 1.45

	defaultCrateMass = 2.0
)

var (
	wallColor     = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	crateColor    = color.NRGBA{R: 0xc6, G: 0x86, B: 0x42, A: 0xff}
	climbColor    = color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	doorColor     = color.NRGBA{R: 0xa0, G: 0xa0, B: 0xc0, A: 0xff}
	plateColor    = color.NRGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
	platformColor = color.NRGBA{R: 0x27, G: 0xae, B: 0x60, A: 0xff}
)

// Level holds the handles of everything BuildLevel created.
type Level struct {
	Name      string
	Bounds    ecs.Entity
	Player    ecs.Entity
	BoxMovers []ecs.Entity
	Walls     []ecs.Entity
	Crates    []ecs.Entity
	Doors     []ecs.Entity
	Plates    []ecs.Entity
	Platforms []ecs.Entity
}

// BuildLevel spawns a level layout into w. Static pieces get mass-0 bodies
// so they block; movable crates get a dynamic body.
func BuildLevel(w *ecs.World, scene engine.Scene, lvl prefabs.LevelSpec, player prefabs.PlayerSpec, mover prefabs.BoxMoverSpec) (*Level, error) {
	if w == nil {
		return nil, fmt.Errorf("build level: world is nil")
	}
	out := &Level{Name: lvl.Name}

	out.Bounds = ecs.CreateEntity(w)
	if err := ecs.Add(w, out.Bounds, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Center: lvl.Bounds.Center.Vec(),
		Width:  lvl.Bounds.Width,
		Depth:  lvl.Bounds.Depth,
	}); err != nil {
		return nil, fmt.Errorf("build level %q: add bounds: %w", lvl.Name, err)
	}

	for _, spec := range lvl.Walls {
		e, err := NewWall(w, scene, spec)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.Walls = append(out.Walls, e)
	}
	for _, spec := range lvl.Crates {
		e, err := NewCrate(w, scene, spec)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.Crates = append(out.Crates, e)
	}
	for _, spec := range lvl.Doors {
		e, err := NewDoor(w, scene, spec)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.Doors = append(out.Doors, e)
	}
	for _, spec := range lvl.Plates {
		e, err := NewPlate(w, spec)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.Plates = append(out.Plates, e)
	}
	for _, spec := range lvl.Platforms {
		e, err := NewPlatform(w, scene, spec)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.Platforms = append(out.Platforms, e)
	}

	p, err := NewPlayerAt(w, scene, player, lvl.Player)
	if err != nil {
		return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
	}
	out.Player = p

	for _, place := range lvl.BoxMovers {
		e, err := NewBoxMoverAt(w, mover, place)
		if err != nil {
			return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
		}
		out.BoxMovers = append(out.BoxMovers, e)
	}
	return out, nil
}

// newSolid creates the parts every level piece shares.
func newSolid(w *ecs.World, spec prefabs.SolidSpec, solid bool, fallback color.Color) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(spec.Center.Vec())); err != nil {
		return 0, fmt.Errorf("%s: add transform: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		HalfExtents: spec.Size.Vec().Mul(0.5),
		Solid:       solid,
		Pickable:    solid,
	}); err != nil {
		return 0, fmt.Errorf("%s: add collider: %w", spec.Name, err)
	}
	if spec.Name != "" {
		_ = ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name})
	}
	var c color.Color = fallback
	if spec.Color != nil {
		c = spec.Color.Color
	}
	_ = ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: c})
	return e, nil
}

func staticBody(scene engine.Scene, e ecs.Entity) {
	if scene != nil {
		scene.CreateBody(e, component.Material{Friction: 1})
	}
}

func NewWall(w *ecs.World, scene engine.Scene, spec prefabs.SolidSpec) (ecs.Entity, error) {
	e, err := newSolid(w, spec, true, wallColor)
	if err != nil {
		return 0, fmt.Errorf("wall %w", err)
	}
	staticBody(scene, e)
	return e, nil
}

// NewCrate creates a level cube. Climbable cubes are static; the others are
// movable and fall under gravity.
func NewCrate(w *ecs.World, scene engine.Scene, spec prefabs.CrateSpec) (ecs.Entity, error) {
	fallback := crateColor
	if spec.Climbable {
		fallback = climbColor
	}
	e, err := newSolid(w, spec.SolidSpec, true, fallback)
	if err != nil {
		return 0, fmt.Errorf("crate %w", err)
	}
	if err := ecs.Add(w, e, component.CrateTagComponent.Kind(), &component.CrateTag{}); err != nil {
		return 0, fmt.Errorf("crate %s: add tag: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.CapabilitiesComponent.Kind(), &component.Capabilities{
		Climbable: spec.Climbable,
		Movable:   !spec.Climbable,
		Enabled:   true,
	}); err != nil {
		return 0, fmt.Errorf("crate %s: add capabilities: %w", spec.Name, err)
	}

	if spec.Climbable {
		staticBody(scene, e)
		return e, nil
	}
	mass := spec.Mass
	if mass <= 0 {
		mass = defaultCrateMass
	}
	if scene != nil {
		scene.CreateBody(e, component.Material{Mass: mass, Friction: 1})
	}
	return e, nil
}

func NewDoor(w *ecs.World, scene engine.Scene, spec prefabs.SolidSpec) (ecs.Entity, error) {
	e, err := newSolid(w, spec, true, doorColor)
	if err != nil {
		return 0, fmt.Errorf("door %w", err)
	}
	closed := spec.Center.Vec().Y()
	d := &component.Door{
		ClosedY:  closed,
		OpenY:    closed + spec.Size.Vec().Y()*doorOpenRise,
		Material: component.Material{Friction: 1},
	}
	if err := ecs.Add(w, e, component.DoorComponent.Kind(), d); err != nil {
		return 0, fmt.Errorf("door %s: add door: %w", spec.Name, err)
	}
	if scene != nil {
		scene.CreateBody(e, d.Material)
	}
	return e, nil
}

// NewPlate creates a pressure plate. Plates are flush triggers with no body,
// so nothing has to step up onto them.
func NewPlate(w *ecs.World, spec prefabs.PlateSpec) (ecs.Entity, error) {
	e, err := newSolid(w, spec.SolidSpec, false, plateColor)
	if err != nil {
		return 0, fmt.Errorf("plate %w", err)
	}
	if err := ecs.Add(w, e, component.PressurePlateComponent.Kind(), &component.PressurePlate{
		Size:         spec.Size.Vec(),
		TriggeredBy:  append([]string(nil), spec.TriggeredBy...),
		OnActivate:   spec.OnActivate,
		OnDeactivate: spec.OnDeactivate,
	}); err != nil {
		return 0, fmt.Errorf("plate %s: add plate: %w", spec.Name, err)
	}
	return e, nil
}

func NewPlatform(w *ecs.World, scene engine.Scene, spec prefabs.PlatformSpec) (ecs.Entity, error) {
	e, err := newSolid(w, spec.SolidSpec, true, platformColor)
	if err != nil {
		return 0, fmt.Errorf("platform %w", err)
	}
	if err := ecs.Add(w, e, component.MovingPlatformComponent.Kind(), &component.MovingPlatform{
		Start:          spec.Center.Vec(),
		End:            spec.End.Vec(),
		DurationFrames: spec.DurationFrames,
	}); err != nil {
		return 0, fmt.Errorf("platform %s: add motion: %w", spec.Name, err)
	}
	staticBody(scene, e)
	return e, nil
}

// Crate returns the level cube with the given name.
func Crate(w *ecs.World, name string) (ecs.Entity, bool) {
	for _, e := range w.Query(component.CrateTagComponent.Kind(), component.NameComponent.Kind()) {
		if n, _ := ecs.Get(w, e, component.NameComponent.Kind()); n.Value == name {
			return e, true
		}
	}
	return 0, false
}
