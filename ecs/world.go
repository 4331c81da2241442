package ecs

import (
	"fmt"

	"github.com/milk9111/ledgerunner/ecs/component"
)

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// World owns entities, their component stores, the system order and the
// per-tick clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
	systems  []System
	events   EventQueue

	delta float64
	tick  uint64
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*sparseSet)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

func Entities(w *World) []Entity {
	return w.entities.live()
}

func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

func (w *World) Systems() []System {
	return append([]System(nil), w.systems...)
}

// Update advances the clock by dt seconds and runs every system in order.
// Events pushed during the previous tick are dropped first, so callers can
// drain the queue between ticks.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.events.flush()
	w.delta = dt
	w.tick++
	for _, s := range w.systems {
		s.Update(w)
	}
}

// DeltaSeconds is the dt of the tick currently running.
func (w *World) DeltaSeconds() float64 {
	return w.delta
}

// SetDeltaSeconds sets the clock for systems driven outside Update.
func (w *World) SetDeltaSeconds(dt float64) {
	w.delta = dt
}

func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	s := w.stores[id]
	if s == nil && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

func (w *World) addComponent(e Entity, id component.ComponentID, name string, value any) error {
	if !w.entities.isAlive(e) {
		return fmt.Errorf("add %s to %s: %w", name, e, component.ErrEntityNotAlive)
	}
	w.store(id, true).set(e, value)
	return nil
}
