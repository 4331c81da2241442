package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventPlayerState   = "player_state"
	EventBoxMoverState = "box_mover_state"
	EventPlateToggled  = "plate_toggled"
	EventCratePickedUp = "crate_picked_up"
	EventCrateDropped  = "crate_dropped"
)

// StateChange is the payload for state transition events.
type StateChange struct {
	Entity Entity
	From   string
	To     string
}

// EntityEvent is the payload for events that concern a single entity, such
// as a crate changing hands.
type EntityEvent struct {
	Entity Entity
	Other  Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
