package sim

import "math"

type gridCell struct {
	X int
	Z int
}

var gridNeighbors = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// findGridPath runs A* over an 8-way grid. Diagonal steps may not cut a
// blocked corner. maxNodes bounds the number of expanded cells. The start
// cell is never tested for blocking.
func findGridPath(start, goal gridCell, width, depth int, blocked func(x, z int) bool, maxNodes int) []gridCell {
	if width <= 0 || depth <= 0 {
		return nil
	}
	inside := func(x, z int) bool { return x >= 0 && z >= 0 && x < width && z < depth }
	if !inside(goal.X, goal.Z) || !inside(start.X, start.Z) {
		return nil
	}
	if start == goal {
		return []gridCell{start}
	}
	if blocked(goal.X, goal.Z) {
		return nil
	}

	index := func(c gridCell) int { return c.Z*width + c.X }
	startIdx, goalIdx := index(start), index(goal)

	open := []gridCell{start}
	inOpen := map[int]bool{startIdx: true}
	closed := make(map[int]bool, 128)
	cameFrom := make(map[int]int, 128)
	g := map[int]float64{startIdx: 0}
	f := map[int]float64{startIdx: octile(start, goal)}

	for expanded := 0; len(open) > 0 && expanded < maxNodes; expanded++ {
		bi := 0
		for i, c := range open {
			if f[index(c)] < f[index(open[bi])] {
				bi = i
			}
		}
		cur := open[bi]
		curIdx := index(cur)
		open = append(open[:bi], open[bi+1:]...)
		delete(inOpen, curIdx)
		closed[curIdx] = true

		if curIdx == goalIdx {
			return rebuildGridPath(cameFrom, curIdx, startIdx, width)
		}

		for _, d := range gridNeighbors {
			nx, nz := cur.X+d[0], cur.Z+d[1]
			if !inside(nx, nz) || blocked(nx, nz) {
				continue
			}
			step := 1.0
			if d[0] != 0 && d[1] != 0 {
				if blocked(cur.X+d[0], cur.Z) || blocked(cur.X, cur.Z+d[1]) {
					continue
				}
				step = math.Sqrt2
			}
			n := gridCell{X: nx, Z: nz}
			ni := index(n)
			if closed[ni] {
				continue
			}
			tentative := g[curIdx] + step
			if prev, seen := g[ni]; seen && tentative >= prev {
				continue
			}
			cameFrom[ni] = curIdx
			g[ni] = tentative
			f[ni] = tentative + octile(n, goal)
			if !inOpen[ni] {
				open = append(open, n)
				inOpen[ni] = true
			}
		}
	}
	return nil
}

func rebuildGridPath(cameFrom map[int]int, cur, start, width int) []gridCell {
	var path []gridCell
	for {
		path = append(path, gridCell{X: cur % width, Z: cur / width})
		if cur == start {
			break
		}
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b gridCell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return math.Max(dx, dz) + (math.Sqrt2-1)*math.Min(dx, dz)
}
