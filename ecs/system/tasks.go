package system

import (
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// TaskSystem advances every task queue and fires the tasks that came due.
// A fired task may schedule new ones; they wait for the next tick.
type TaskSystem struct{}

func NewTaskSystem() *TaskSystem {
	return &TaskSystem{}
}

func (s *TaskSystem) Update(w *ecs.World) {
	dt := w.DeltaSeconds()
	ecs.ForEach(w, component.TasksComponent.Kind(), func(_ ecs.Entity, tasks *component.Tasks) {
		for _, task := range tasks.Advance(dt) {
			if task.Fire != nil {
				task.Fire()
			}
		}
	})
}
