package system

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
	"github.com/milk9111/ledgerunner/ecs/entity"
	"github.com/milk9111/ledgerunner/ecs/sim"
	gameplay "github.com/milk9111/ledgerunner/ecs/system"
	"github.com/milk9111/ledgerunner/prefabs"
)

const navCellSize = 0.25

// Options configures a World. A nil Input polls ebiten.
type Options struct {
	Level  string
	Input  gameplay.InputSource
	Logger *slog.Logger
}

// World owns level loading, the system schedule and prefab hot reload.
type World struct {
	ECS        *ecs.World
	Level      *entity.Level
	Scene      *sim.Scene
	Nav        *sim.NavPlane
	Crowd      *sim.Crowd
	Animators  *sim.Animators
	Highlights *sim.Highlights
	Doors      *gameplay.DoorSystem
	Plates     *gameplay.PressurePlateSystem
	States     *gameplay.PlayerStateMachineSystem
	Pickup     *gameplay.PickupSystem

	PlayerSpec   prefabs.PlayerSpec
	BoxMoverSpec prefabs.BoxMoverSpec

	levelName string
	input     gameplay.InputSource
	logger    *slog.Logger
}

// NewWorld creates a new world and loads the requested level.
func NewWorld(opts Options) (*World, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{input: opts.Input, logger: logger}
	if err := w.Load(opts.Level); err != nil {
		return nil, err
	}
	return w, nil
}

// Load replaces the running level with a fresh one. Tuning prefabs are
// re-read; a broken prefab falls back to defaults with a warning.
func (w *World) Load(levelName string) error {
	if w == nil {
		return fmt.Errorf("world is nil")
	}
	if levelName == "" {
		return fmt.Errorf("level name is empty")
	}
	lvl, err := prefabs.LoadLevel(levelName)
	if err != nil {
		return err
	}

	playerSpec, err := entity.LoadPlayerSpec()
	if err != nil {
		w.logger.Warn("player prefab unusable, using defaults", "err", err)
	}
	moverSpec, err := entity.LoadBoxMoverSpec()
	if err != nil {
		w.logger.Warn("box mover prefab unusable, using defaults", "err", err)
	}

	world := ecs.NewWorld()
	scene := sim.NewScene(world, w.logger)
	built, err := entity.BuildLevel(world, scene, lvl, playerSpec, moverSpec)
	if err != nil {
		return err
	}

	bounds := component.LevelBounds{Center: lvl.Bounds.Center.Vec(), Width: lvl.Bounds.Width, Depth: lvl.Bounds.Depth}
	nav := sim.NewNavPlane(scene, bounds, lvl.GroundY, navCellSize, moverSpec.Agent.Radius, w.logger)
	crowd := sim.NewCrowd(nav, w.logger)
	anims := sim.NewAnimators()
	anims.Attach(built.Player, sim.NewAnimator(playerSpec.Animations))
	for _, e := range built.BoxMovers {
		anims.Attach(e, sim.NewAnimator(moverSpec.Animations))
	}
	highlights := sim.NewHighlights()

	w.ECS = world
	w.Level = built
	w.Scene = scene
	w.Nav = nav
	w.Crowd = crowd
	w.Animators = anims
	w.Highlights = highlights
	w.PlayerSpec = playerSpec
	w.BoxMoverSpec = moverSpec
	w.levelName = strings.TrimSuffix(levelName, ".yaml")
	w.schedule()

	w.logger.Info("level loaded", "level", lvl.Name, "crates", len(built.Crates), "box_movers", len(built.BoxMovers))
	return nil
}

// schedule registers every system in tick order.
func (w *World) schedule() {
	log := w.logger
	w.Doors = gameplay.NewDoorSystem(w.Scene, log)
	w.Plates = gameplay.NewPressurePlateSystem(w.Doors, nil, log)
	w.States = gameplay.NewPlayerStateMachineSystem(w.Scene, w.Animators, log)
	w.Pickup = gameplay.NewPickupSystem(w.Scene, w.Animators, log)

	for _, s := range []ecs.System{
		gameplay.NewInputSystem(w.input),
		gameplay.NewGroundedSystem(w.Scene),
		gameplay.NewClimbSystem(w.Scene, w.Animators, log),
		gameplay.NewLedgeHangSystem(w.Scene, log),
		gameplay.NewCrateContactSystem(w.Scene),
		w.Pickup,
		gameplay.NewMovementSystem(w.Scene, log),
		gameplay.NewCarrySyncSystem(),
		gameplay.NewBoxMoverSystem(w.Scene, w.Nav, w.Crowd, w.Animators, w.Highlights, log),
		gameplay.NewMovingPlatformSystem(w.Scene),
		w.Plates,
		w.Doors,
		w.Nav,
		w.Crowd,
		w.Scene,
		w.Animators,
		gameplay.NewTweenSystem(),
		gameplay.NewBoundsClampSystem(w.Scene),
		gameplay.NewHierarchySystem(),
		w.States,
		gameplay.NewTaskSystem(),
		gameplay.NewInputResetSystem(),
	} {
		w.ECS.AddSystem(s)
	}
}

func (w *World) Update(dt float64) {
	if w == nil || w.ECS == nil {
		return
	}
	w.ECS.Update(dt)
}

func (w *World) LevelName() string {
	return w.levelName
}

// ApplyChange reacts to a hot-reload event. Tuning edits are applied in
// place; an edit to the running level rebuilds it.
func (w *World) ApplyChange(change prefabs.Change) error {
	if w == nil || w.ECS == nil {
		return fmt.Errorf("world is nil")
	}
	if change.Kind == prefabs.ChangeScript {
		w.Plates.InvalidateScripts()
		w.logger.Info("trigger scripts invalidated", "path", change.Path)
		return nil
	}

	base := filepath.Base(change.Path)
	switch {
	case base == entity.PlayerPrefab:
		spec, err := entity.LoadPlayerSpec()
		if err != nil {
			return fmt.Errorf("reload %s: %w", base, err)
		}
		w.PlayerSpec = spec
		entity.ApplyPlayerSpec(w.ECS, w.Level.Player, spec)
		w.logger.Info("player tuning reloaded")
	case base == entity.BoxMoverPrefab:
		spec, err := entity.LoadBoxMoverSpec()
		if err != nil {
			return fmt.Errorf("reload %s: %w", base, err)
		}
		w.BoxMoverSpec = spec
		n := entity.ApplyBoxMoverSpec(w.ECS, spec)
		w.logger.Info("box mover tuning reloaded", "agents", n)
	case strings.TrimSuffix(base, filepath.Ext(base)) == w.levelName:
		return w.Load(w.levelName)
	default:
		w.logger.Debug("ignoring prefab change", "path", change.Path)
	}
	return nil
}

// PlayerStatus is a snapshot for the pause panel.
type PlayerStatus struct {
	State    string
	Forced   string
	Grounded bool
	Climbing bool
	Hanging  bool
	Carrying bool
}

func (w *World) PlayerStatus() (PlayerStatus, bool) {
	if w == nil || w.ECS == nil {
		return PlayerStatus{}, false
	}
	e := w.Level.Player
	sm, ok := ecs.Get(w.ECS, e, component.PlayerStateMachineComponent.Kind())
	if !ok {
		return PlayerStatus{}, false
	}
	flags, _ := ecs.Get(w.ECS, e, component.PlayerFlagsComponent.Kind())
	lock, _ := ecs.Get(w.ECS, e, component.ForcedStateLockComponent.Kind())
	st := PlayerStatus{State: sm.Current.String()}
	if lock != nil {
		st.Forced = lock.Forced.String()
	}
	if flags != nil {
		st.Grounded = flags.Grounded
		st.Climbing = flags.Climbing
		st.Hanging = flags.Hanging
		st.Carrying = flags.Carrying
	}
	return st, true
}

// BoxMoverStates lists each agent's FSM state in spawn order.
func (w *World) BoxMoverStates() []string {
	if w == nil || w.ECS == nil {
		return nil
	}
	out := make([]string, 0, len(w.Level.BoxMovers))
	for _, e := range w.Level.BoxMovers {
		if bm, ok := ecs.Get(w.ECS, e, component.BoxMoverComponent.Kind()); ok {
			out = append(out, bm.State.String())
		}
	}
	return out
}
