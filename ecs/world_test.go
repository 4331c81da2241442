package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/ledgerunner/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("int")

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh == old {
		t.Fatalf("recycled entity must not equal the destroyed handle")
	}
	if fresh.id() != old.id() {
		t.Fatalf("expected slot %d to be reused, got %d", old.id(), fresh.id())
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if old.String() != "1v0" || fresh.String() != "1v1" {
		t.Fatalf("unexpected names %s, %s", old, fresh)
	}
	if got := fresh.LogValue().String(); got != "1v1" {
		t.Fatalf("log value = %q", got)
	}
	if Entity(0).String() != "none" {
		t.Fatalf("zero entity should render as none")
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	hInt := component.NewComponent[int]("int")
	hStr := component.NewComponent[string]("string")

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, hInt.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, hInt.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name:  "overwrite_int_on_e1",
			setup: func() error { return Add(w, e1, hInt.Kind(), intPtr(11)) },
			check: func(t *testing.T) {
				v, _ := Get(w, e1, hInt.Kind())
				if *v != 11 {
					t.Fatalf("expected overwrite to 11, got %d", *v)
				}
			},
		},
		{
			name: "add_string_to_e1_e2",
			setup: func() error {
				if err := Add(w, e1, hStr.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, hStr.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				got := toSet(w.Query(hInt.Kind(), hStr.Kind()))
				if len(got) != 1 {
					t.Fatalf("expected one entity with int+string, got %d", len(got))
				}
				if _, ok := got[e1]; !ok {
					t.Fatalf("expected e1 in query")
				}
			},
		},
		{
			name: "nil_component_rejected",
			setup: func() error {
				if err := Add[int](w, e3, hInt.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
					return errors.New("expected ErrNilComponent")
				}
				return nil
			},
			check: func(t *testing.T) {
				if Has(w, e3, hInt.Kind()) {
					t.Fatalf("nil add must not store")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup: %v", err)
			}
			tc.check(t)
		})
	}

	t.Run("remove_and_first", func(t *testing.T) {
		if !Remove(w, e1, hStr.Kind()) {
			t.Fatalf("expected remove to succeed")
		}
		if Remove(w, e1, hStr.Kind()) {
			t.Fatalf("second remove must report false")
		}
		first, ok := First(w, hStr.Kind())
		if !ok || first != e2 {
			t.Fatalf("expected e2 as first string holder, got %v", first)
		}
	})

	t.Run("destroy_clears_components", func(t *testing.T) {
		DestroyEntity(w, e2)
		if _, ok := First(w, hStr.Kind()); ok {
			t.Fatalf("expected no string holders after destroying e2")
		}
	})
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestForEachToleratesMutation(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("int")
	var ents []Entity
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		ents = append(ents, e)
		_ = Add(w, e, h.Kind(), intPtr(i))
	}

	visited := 0
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		visited++
		if e == ents[0] {
			Remove(w, ents[3], h.Kind())
		}
	})
	if visited != 3 {
		t.Fatalf("expected removed entity to be skipped, visited %d", visited)
	}
}

func TestForEachArities(t *testing.T) {
	w := NewWorld()
	a := component.NewComponent[int]("a")
	b := component.NewComponent[string]("b")
	c := component.NewComponent[float64]("c")
	d := component.NewComponent[bool]("d")

	full := CreateEntity(w)
	partial := CreateEntity(w)
	f := 1.5
	yes := true
	_ = Add(w, full, a.Kind(), intPtr(1))
	_ = Add(w, full, b.Kind(), stringPtr("x"))
	_ = Add(w, full, c.Kind(), &f)
	_ = Add(w, full, d.Kind(), &yes)
	_ = Add(w, partial, a.Kind(), intPtr(2))
	_ = Add(w, partial, b.Kind(), stringPtr("y"))

	n2, n3, n4 := 0, 0, 0
	ForEach2(w, a.Kind(), b.Kind(), func(Entity, *int, *string) { n2++ })
	ForEach3(w, a.Kind(), b.Kind(), c.Kind(), func(Entity, *int, *string, *float64) { n3++ })
	ForEach4(w, a.Kind(), b.Kind(), c.Kind(), d.Kind(), func(e Entity, _ *int, _ *string, _ *float64, _ *bool) {
		n4++
		if e != full {
			t.Fatalf("unexpected entity %v", e)
		}
	})
	if n2 != 2 || n3 != 1 || n4 != 1 {
		t.Fatalf("unexpected counts n2=%d n3=%d n4=%d", n2, n3, n4)
	}
}

type countingSystem struct {
	ticks []float64
}

func (s *countingSystem) Update(w *World) {
	s.ticks = append(s.ticks, w.DeltaSeconds())
	w.Events().Push(Event{Type: "tick"})
}

func TestUpdateRunsSystemsAndKeepsEventsUntilNextTick(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)
	w.AddSystem(nil)

	w.Update(1.0 / 60.0)
	w.Update(0.5)

	if len(sys.ticks) != 2 || sys.ticks[1] != 0.5 {
		t.Fatalf("unexpected ticks %v", sys.ticks)
	}
	if w.Tick() != 2 {
		t.Fatalf("expected tick 2, got %d", w.Tick())
	}
	events := w.Events().Drain()
	if len(events) != 1 {
		t.Fatalf("expected only last tick's event, got %d", len(events))
	}
}

func TestFirstAfterRemoval(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("int")

	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("empty store should have no first entity")
	}

	ents := []Entity{CreateEntity(w), CreateEntity(w), CreateEntity(w)}
	for i, e := range ents {
		if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	Remove(w, ents[0], h.Kind())

	e, ok := First(w, h.Kind())
	if !ok || !Has(w, e, h.Kind()) {
		t.Fatalf("First = %v, %v; want an entity still carrying the component", e, ok)
	}
	if e == ents[0] {
		t.Fatalf("First returned the removed entity")
	}
}
