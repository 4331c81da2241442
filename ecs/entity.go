package ecs

import (
	"log/slog"
	"strconv"
)

// Entity packs a 32-bit slot id (low bits) with a 32-bit generation (high
// bits). Slots are 1-based so the zero Entity is never issued.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID { return entityID(uint32(e)) }

func (e Entity) generation() generation { return generation(e >> entityIDBits) }

// String renders "<slot>v<generation>", e.g. "12v3" for slot 12 reused three times.
func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	buf := strconv.AppendUint(nil, uint64(e.id()), 10)
	buf = append(buf, 'v')
	return string(strconv.AppendUint(buf, uint64(e.generation()), 10))
}

// LogValue keeps slog output stable regardless of handler.
func (e Entity) LogValue() slog.Value {
	return slog.StringValue(e.String())
}

func (e Entity) Valid() bool {
	return e > 0
}
