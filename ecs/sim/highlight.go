package sim

import "github.com/milk9111/ledgerunner/ecs"

// Highlights records which entities are outlined.
type Highlights struct {
	set map[ecs.Entity]bool
}

func NewHighlights() *Highlights {
	return &Highlights{set: make(map[ecs.Entity]bool)}
}

func (h *Highlights) Highlight(e ecs.Entity) {
	h.set[e] = true
}

func (h *Highlights) Unhighlight(e ecs.Entity) {
	delete(h.set, e)
}

func (h *Highlights) Highlighted(e ecs.Entity) bool {
	return h.set[e]
}

func (h *Highlights) Len() int {
	return len(h.set)
}
