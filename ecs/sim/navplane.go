package sim

import (
	"log/slog"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/common"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

const (
	navStepHeight  = 0.3
	navClearance   = 1.0
	navEdgeEpsilon = 0.01
	navGoalSearch  = 3
)

// NavPlane is a flat walkable rectangle with box obstacles, standing in for
// a navigation mesh. Obstacles live as static chipmunk shapes inflated by
// the agent radius; point queries snap positions off them, a grid A* finds
// routes and segment queries straighten the result.
type NavPlane struct {
	scene *Scene

	minX, minZ float64
	maxX, maxZ float64
	y          float64
	cell       float64
	inflate    float64

	width, depth int
	blocked      []bool

	space     *cp.Space
	obstacles []common.AABB
	logger    *slog.Logger
}

func NewNavPlane(scene *Scene, bounds component.LevelBounds, y, cellSize, inflate float64, logger *slog.Logger) *NavPlane {
	if logger == nil {
		logger = slog.Default()
	}
	if cellSize <= 0 {
		cellSize = 0.25
	}
	n := &NavPlane{
		scene:   scene,
		minX:    bounds.MinX(),
		minZ:    bounds.MinZ(),
		maxX:    bounds.MaxX(),
		maxZ:    bounds.MaxZ(),
		y:       y,
		cell:    cellSize,
		inflate: inflate,
		width:   int(math.Ceil(bounds.Width / cellSize)),
		depth:   int(math.Ceil(bounds.Depth / cellSize)),
		logger:  logger.With("system", "navplane"),
	}
	n.rebuild(nil)
	return n
}

// Update refreshes the obstacle set from the static solids standing on the
// plane. Crates, the player and agents are never obstacles.
func (n *NavPlane) Update(w *ecs.World) {
	var boxes []common.AABB
	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, tr *component.Transform) {
		if !col.Solid || tr.Parented() {
			return
		}
		if ecs.Has(w, e, component.CrateTagComponent.Kind()) || ecs.Has(w, e, component.PlayerTagComponent.Kind()) || ecs.Has(w, e, component.BoxMoverTagComponent.Kind()) {
			return
		}
		if n.scene != nil {
			if _, ok := n.scene.Body(e); !ok {
				return
			}
		}
		box := common.AABBFromCenter(tr.Position, col.HalfExtents)
		if box.Max.Y() <= n.y+navStepHeight || box.Min.Y() >= n.y+navClearance {
			return
		}
		boxes = append(boxes, box)
	})
	n.SetObstacles(boxes)
}

// SetObstacles replaces the obstacle set. An unchanged set is a no-op.
func (n *NavPlane) SetObstacles(boxes []common.AABB) {
	if slices.Equal(boxes, n.obstacles) {
		return
	}
	n.rebuild(boxes)
}

func (n *NavPlane) rebuild(boxes []common.AABB) {
	n.obstacles = slices.Clone(boxes)
	n.space = cp.NewSpace()
	for _, b := range boxes {
		bb := cp.BB{
			L: b.Min.X() - n.inflate,
			B: b.Min.Z() - n.inflate,
			R: b.Max.X() + n.inflate,
			T: b.Max.Z() + n.inflate,
		}
		n.space.AddShape(cp.NewBox2(n.space.StaticBody, bb, 0))
	}

	n.blocked = make([]bool, n.width*n.depth)
	for z := 0; z < n.depth; z++ {
		for x := 0; x < n.width; x++ {
			n.blocked[z*n.width+x] = n.insideObstacle(n.cellCenter(gridCell{X: x, Z: z}))
		}
	}
	n.logger.Debug("navigation rebuilt", "obstacles", len(boxes), "cells", n.width*n.depth)
}

func (n *NavPlane) insideObstacle(p cp.Vector) bool {
	info := n.space.PointQueryNearest(p, 0, cp.SHAPE_FILTER_ALL)
	return info.Shape != nil && info.Distance < 0
}

func (n *NavPlane) clampXZ(x, z float64) cp.Vector {
	return cp.Vector{
		X: common.Clamp(x, n.minX+navEdgeEpsilon, n.maxX-navEdgeEpsilon),
		Y: common.Clamp(z, n.minZ+navEdgeEpsilon, n.maxZ-navEdgeEpsilon),
	}
}

// ClosestPoint projects p onto the plane and pushes it out of any obstacle.
func (n *NavPlane) ClosestPoint(p mgl64.Vec3) (mgl64.Vec3, bool) {
	if n.width <= 0 || n.depth <= 0 {
		return mgl64.Vec3{}, false
	}
	q := n.clampXZ(p.X(), p.Z())
	for i := 0; i < 4; i++ {
		info := n.space.PointQueryNearest(q, 0, cp.SHAPE_FILTER_ALL)
		if info.Shape == nil || info.Distance >= 0 {
			return mgl64.Vec3{q.X, n.y, q.Y}, true
		}
		out := info.Point.Add(info.Gradient.Normalize().Mult(navEdgeEpsilon))
		q = n.clampXZ(out.X, out.Y)
	}
	return mgl64.Vec3{}, false
}

// ComputePath returns the corners from the snapped start to the snapped end,
// both included, or nil when the end cannot be reached.
func (n *NavPlane) ComputePath(from, to mgl64.Vec3) []mgl64.Vec3 {
	a, ok := n.ClosestPoint(from)
	if !ok {
		return nil
	}
	b, ok := n.ClosestPoint(to)
	if !ok {
		return nil
	}

	start := n.cellOf(a)
	goal, ok := n.freeCellNear(n.cellOf(b))
	if !ok {
		return nil
	}
	cells := findGridPath(start, goal, n.width, n.depth, n.isBlocked, n.width*n.depth)
	if cells == nil {
		return nil
	}

	points := make([]mgl64.Vec3, 0, len(cells)+1)
	points = append(points, a)
	for _, c := range cells[1 : len(cells)-1] {
		cc := n.cellCenter(c)
		points = append(points, mgl64.Vec3{cc.X, n.y, cc.Y})
	}
	points = append(points, b)
	return n.smooth(points)
}

// smooth drops every corner that a straight segment can skip.
func (n *NavPlane) smooth(points []mgl64.Vec3) []mgl64.Vec3 {
	if len(points) <= 2 {
		return points
	}
	out := []mgl64.Vec3{points[0]}
	i := 0
	for i < len(points)-1 {
		j := len(points) - 1
		for j > i+1 && !n.visible(points[i], points[j]) {
			j--
		}
		out = append(out, points[j])
		i = j
	}
	return out
}

func (n *NavPlane) visible(a, b mgl64.Vec3) bool {
	info := n.space.SegmentQueryFirst(cp.Vector{X: a.X(), Y: a.Z()}, cp.Vector{X: b.X(), Y: b.Z()}, 0, cp.SHAPE_FILTER_ALL)
	return info.Shape == nil
}

func (n *NavPlane) isBlocked(x, z int) bool {
	return n.blocked[z*n.width+x]
}

func (n *NavPlane) cellOf(p mgl64.Vec3) gridCell {
	x := int((p.X() - n.minX) / n.cell)
	z := int((p.Z() - n.minZ) / n.cell)
	return gridCell{
		X: min(max(x, 0), n.width-1),
		Z: min(max(z, 0), n.depth-1),
	}
}

func (n *NavPlane) cellCenter(c gridCell) cp.Vector {
	return cp.Vector{
		X: n.minX + (float64(c.X)+0.5)*n.cell,
		Y: n.minZ + (float64(c.Z)+0.5)*n.cell,
	}
}

// freeCellNear finds the closest unblocked cell in growing rings around c.
func (n *NavPlane) freeCellNear(c gridCell) (gridCell, bool) {
	if !n.isBlocked(c.X, c.Z) {
		return c, true
	}
	for r := 1; r <= navGoalSearch; r++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				x, z := c.X+dx, c.Z+dz
				if x < 0 || z < 0 || x >= n.width || z >= n.depth || n.isBlocked(x, z) {
					continue
				}
				return gridCell{X: x, Z: z}, true
			}
		}
	}
	return gridCell{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Space exposes the obstacle shapes for debug drawing. Units are world X/Z.
func (n *NavPlane) Space() *cp.Space {
	return n.space
}
