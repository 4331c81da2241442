package ecs

// sparseSet stores one component type keyed by entity slot. Values are kept
// as `any` so the world can hold a set per ComponentID.
type sparseSet struct {
	dense  []Entity
	values []any
	sparse []int
}

func newSparseSet() *sparseSet {
	return &sparseSet{}
}

func (s *sparseSet) index(e Entity) (int, bool) {
	id := int(e.id())
	if id <= 0 || id > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet) get(e Entity) (any, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseSet) set(e Entity, v any) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[int(moved.id())-1] = idx

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[int(e.id())-1] = -1
	return true
}

// snapshot copies the dense entity list so callers may mutate the set while
// iterating.
func (s *sparseSet) snapshot() []Entity {
	return append([]Entity(nil), s.dense...)
}

func (s *sparseSet) len() int {
	return len(s.dense)
}
