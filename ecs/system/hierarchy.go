package system

import (
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// HierarchySystem derives the world placement of parented entities. A child
// whose parent is gone is detached where it stands.
type HierarchySystem struct{}

func NewHierarchySystem() *HierarchySystem {
	return &HierarchySystem{}
}

func (s *HierarchySystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, tr *component.Transform) {
		if !tr.Parented() {
			return
		}
		parent, ok := ecs.Get(w, ecs.Entity(tr.Parent), component.TransformComponent.Kind())
		if !ok {
			tr.Parent = 0
			return
		}
		tr.Position = localToWorld(parent, tr.Local)
		tr.Rotation = parent.Rotation
	})
}
