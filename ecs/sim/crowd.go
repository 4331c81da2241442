package sim

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/engine"
)

const (
	cornerReached = 0.05
	// arriveRadius is where agents start braking for their last corner.
	arriveRadius = 0.5
)

type crowdAgent struct {
	pos      mgl64.Vec3
	velocity mgl64.Vec3
	params   engine.AgentParams
	corners  []mgl64.Vec3
}

// Crowd moves agents along navigator paths with bounded acceleration and a
// simple separation push between neighbours.
type Crowd struct {
	nav    engine.Navigator
	agents []*crowdAgent
	logger *slog.Logger
}

func NewCrowd(nav engine.Navigator, logger *slog.Logger) *Crowd {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crowd{nav: nav, logger: logger.With("system", "crowd")}
}

func (c *Crowd) AddAgent(pos mgl64.Vec3, params engine.AgentParams) int {
	c.agents = append(c.agents, &crowdAgent{pos: pos, params: params})
	return len(c.agents) - 1
}

func (c *Crowd) agent(idx int) (*crowdAgent, bool) {
	if idx < 0 || idx >= len(c.agents) {
		return nil, false
	}
	return c.agents[idx], true
}

// AgentGoto plans a path to target. It fails when no path exists.
func (c *Crowd) AgentGoto(idx int, target mgl64.Vec3) bool {
	a, ok := c.agent(idx)
	if !ok || c.nav == nil {
		return false
	}
	path := c.nav.ComputePath(a.pos, target)
	if len(path) == 0 {
		c.logger.Debug("no path", "agent", idx, "target", target)
		return false
	}
	a.corners = append(a.corners[:0], path[1:]...)
	if len(path) == 1 {
		a.corners = append(a.corners, path[0])
	}
	return true
}

func (c *Crowd) AgentPosition(idx int) (mgl64.Vec3, bool) {
	a, ok := c.agent(idx)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return a.pos, true
}

// Teleport moves an agent and forgets its path.
func (c *Crowd) Teleport(idx int, pos mgl64.Vec3) {
	if a, ok := c.agent(idx); ok {
		a.pos = pos
		a.velocity = mgl64.Vec3{}
		a.corners = nil
	}
}

func (c *Crowd) Update(w *ecs.World) {
	dt := w.DeltaSeconds()
	if dt <= 0 {
		return
	}
	for i, a := range c.agents {
		desired := c.steer(a)
		desired = desired.Add(c.separation(i, a))

		dv := desired.Sub(a.velocity)
		maxDV := a.params.MaxAcceleration * dt
		if l := dv.Len(); l > maxDV && l > 0 {
			dv = dv.Mul(maxDV / l)
		}
		a.velocity = a.velocity.Add(dv)
		a.velocity[1] = 0
		a.pos = a.pos.Add(a.velocity.Mul(dt))
	}
}

// steer is the velocity toward the next corner, slowing near the last one.
func (c *Crowd) steer(a *crowdAgent) mgl64.Vec3 {
	for len(a.corners) > 0 {
		to := a.corners[0].Sub(a.pos)
		to[1] = 0
		if to.Len() > cornerReached {
			break
		}
		a.corners = a.corners[1:]
	}
	if len(a.corners) == 0 {
		return mgl64.Vec3{}
	}
	to := a.corners[0].Sub(a.pos)
	to[1] = 0
	dist := to.Len()
	speed := a.params.MaxSpeed
	if len(a.corners) == 1 && dist < arriveRadius {
		speed *= dist / arriveRadius
	}
	return to.Mul(speed / dist)
}

func (c *Crowd) separation(i int, a *crowdAgent) mgl64.Vec3 {
	var push mgl64.Vec3
	if a.params.SeparationWeight == 0 {
		return push
	}
	for j, o := range c.agents {
		if i == j {
			continue
		}
		d := a.pos.Sub(o.pos)
		d[1] = 0
		dist := d.Len()
		reach := a.params.Radius + o.params.Radius
		if dist == 0 || dist >= reach || dist >= a.params.CollisionQueryRange {
			continue
		}
		push = push.Add(d.Mul((reach - dist) / dist * a.params.SeparationWeight))
	}
	return push
}
