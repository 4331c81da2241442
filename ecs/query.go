package ecs

import "github.com/milk9111/ledgerunner/ecs/component"

type kindID interface {
	ID() component.ComponentID
}

// Query returns the entities that carry every listed kind.
func (w *World) Query(kinds ...kindID) []Entity {
	if len(kinds) == 0 {
		return nil
	}
	sets := make([]*sparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.len())
	for _, e := range smallest.snapshot() {
		all := true
		for _, s := range sets {
			if !s.has(e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

// ForEach visits entities carrying a. Components may be added or removed
// from inside fn; entities whose component disappears mid-iteration are
// skipped.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	s := w.store(a.ID(), false)
	if s == nil {
		return
	}
	for _, e := range s.snapshot() {
		if av, ok := Get(w, e, a); ok {
			fn(e, av)
		}
	}
}

func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(a, b) {
		av, okA := Get(w, e, a)
		bv, okB := Get(w, e, b)
		if okA && okB {
			fn(e, av, bv)
		}
	}
}

func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(a, b, c) {
		av, okA := Get(w, e, a)
		bv, okB := Get(w, e, b)
		cv, okC := Get(w, e, c)
		if okA && okB && okC {
			fn(e, av, bv, cv)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, e := range w.Query(a, b, c, d) {
		av, okA := Get(w, e, a)
		bv, okB := Get(w, e, b)
		cv, okC := Get(w, e, c)
		dv, okD := Get(w, e, d)
		if okA && okB && okC && okD {
			fn(e, av, bv, cv, dv)
		}
	}
}
