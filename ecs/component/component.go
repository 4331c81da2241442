package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a component store inside a World. Zero is reserved for
// the invalid kind.
type ComponentID uint32

var lastComponentID atomic.Uint32

// ComponentKind is the typed key for one component store. Every call to
// NewComponentKind yields a fresh store, even for the same T.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any](name string) ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(lastComponentID.Add(1)), name: name}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

// Name is the label used in errors and logs.
func (k ComponentKind[T]) Name() string { return k.name }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return k.name
}

// ComponentHandle is what packages export for each component type, e.g.
// TransformComponent.Kind().
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T](name)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
