package ecs

import (
	"fmt"

	"github.com/milk9111/ledgerunner/ecs/component"
)

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s to %s: %w", kind, e, component.ErrNilComponent)
	}
	return w.addComponent(e, kind.ID(), kind.Name(), value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := w.store(kind.ID(), false)
	return s != nil && s.remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := w.store(kind.ID(), false)
	return s != nil && s.has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return nil, false
	}
	v, ok := s.get(e)
	if !ok {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok && cast != nil
}

// First returns some entity carrying kind. Removals reorder the store, so
// which one is only meaningful when kind is a singleton.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := w.store(kind.ID(), false)
	if s == nil || s.len() == 0 {
		return 0, false
	}
	return s.dense[0], true
}

// Singleton returns the component of the first entity carrying kind.
func Singleton[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	e, ok := First(w, kind)
	if !ok {
		return 0, nil, false
	}
	v, ok := Get(w, e, kind)
	return e, v, ok
}
