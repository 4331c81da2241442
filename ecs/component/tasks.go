package component

// Task is a deferred continuation that fires once Remaining reaches zero.
type Task struct {
	Name      string
	Remaining float64
	Fire      func()
}

// Tasks is an entity's queue of timed tasks. Names are unique within a
// queue, so membership doubles as the re-entry guard for a continuation.
type Tasks struct {
	items []Task
}

// Schedule queues fire to run after delay seconds. It refuses, and returns
// false, when a task with the same name is still pending.
func (t *Tasks) Schedule(name string, delay float64, fire func()) bool {
	if t.Pending(name) {
		return false
	}
	t.items = append(t.items, Task{Name: name, Remaining: delay, Fire: fire})
	return true
}

func (t *Tasks) Pending(name string) bool {
	for _, task := range t.items {
		if task.Name == name {
			return true
		}
	}
	return false
}

func (t *Tasks) Cancel(name string) bool {
	for i, task := range t.items {
		if task.Name == name {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tasks) Len() int {
	return len(t.items)
}

// Advance subtracts dt from every task and removes the ones that are due,
// returning them in scheduling order.
func (t *Tasks) Advance(dt float64) []Task {
	var due []Task
	kept := t.items[:0]
	for _, task := range t.items {
		task.Remaining -= dt
		if task.Remaining <= 0 {
			due = append(due, task)
			continue
		}
		kept = append(kept, task)
	}
	t.items = kept
	return due
}

var TasksComponent = NewComponent[Tasks]("tasks")
