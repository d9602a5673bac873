package search

import "github.com/pdrpinto/anyangle/grid"

// NewJPS is jump point search on grid vertices. Octile distance is both the
// edge weight and the heuristic, so paths are 8-directional.
func NewJPS(p Problem, cfg Config) *GridSearch {
	s := newGridSearch(p, cfg)
	s.heuristic = func(x, y int) float64 {
		return grid.OctileDistance(x, y, s.ex, s.ey)
	}
	s.snapshotPerExpansion = true
	j := &jumper{s: s}
	s.expand = j.expand
	return s
}

type jumper struct {
	s          *GridSearch
	directions [8][2]int
	count      int
}

func (j *jumper) expand(current, x, y int) {
	j.computeNeighbours(current, x, y)
	for _, d := range j.directions[:j.count] {
		if successor := j.jump(x, y, d[0], d[1]); successor != -1 {
			j.tryRelax(current, x, y, successor)
		}
	}
}

func (j *jumper) tryRelax(current, cx, cy, dest int) {
	s := j.s
	if s.mem.Visited(dest) {
		return
	}
	dx, dy := s.g.ToTwoDimX(dest), s.g.ToTwoDimY(dest)
	if s.relaxDirect(current, dest, grid.OctileDistance(cx, cy, dx, dy)) {
		s.requeue(dest, dx, dy)
	}
}

func (j *jumper) add(dx, dy int) {
	j.directions[j.count] = [2]int{dx, dy}
	j.count++
}

func (j *jumper) blocked(x, y int) bool { return j.s.g.IsBlocked(x, y) }

// computeNeighbours fills the pruned set of directions to jump in from
// current, based on the direction it was reached from.
func (j *jumper) computeNeighbours(current, cx, cy int) {
	s := j.s
	j.count = 0

	parent := s.mem.Parent(current)
	if parent == -1 {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				if x == 0 && y == 0 {
					continue
				}
				if s.g.NeighbourLineOfSight(cx, cy, cx+x, cy+y) {
					j.add(x, y)
				}
			}
		}
		return
	}

	dirX := cx - s.g.ToTwoDimX(parent)
	dirY := cy - s.g.ToTwoDimY(parent)

	switch {
	case dirX < 0 && dirY < 0:
		if !j.blocked(cx-1, cy-1) {
			j.add(-1, -1)
			j.add(-1, 0)
			j.add(0, -1)
		} else {
			if !j.blocked(cx-1, cy) {
				j.add(-1, 0)
			}
			if !j.blocked(cx, cy-1) {
				j.add(0, -1)
			}
		}
	case dirX < 0 && dirY > 0:
		if !j.blocked(cx-1, cy) {
			j.add(-1, 1)
			j.add(-1, 0)
			j.add(0, 1)
		} else {
			if !j.blocked(cx-1, cy-1) {
				j.add(-1, 0)
			}
			if !j.blocked(cx, cy) {
				j.add(0, 1)
			}
		}
	case dirX < 0:
		switch {
		case j.blocked(cx, cy):
			j.require(!j.blocked(cx-1, cy), "left", cx, cy)
			j.add(-1, 1)
			j.add(0, 1)
			j.add(-1, 0)
		case j.blocked(cx, cy-1):
			j.require(!j.blocked(cx-1, cy-1), "left", cx, cy)
			j.add(-1, -1)
			j.add(0, -1)
			j.add(-1, 0)
		default:
			j.require(false, "left", cx, cy)
		}
	case dirX > 0 && dirY < 0:
		if !j.blocked(cx, cy-1) {
			j.add(1, -1)
			j.add(1, 0)
			j.add(0, -1)
		} else {
			if !j.blocked(cx, cy) {
				j.add(1, 0)
			}
			if !j.blocked(cx-1, cy-1) {
				j.add(0, -1)
			}
		}
	case dirX > 0 && dirY > 0:
		if !j.blocked(cx, cy) {
			j.add(1, 1)
			j.add(1, 0)
			j.add(0, 1)
		} else {
			if !j.blocked(cx, cy-1) {
				j.add(1, 0)
			}
			if !j.blocked(cx-1, cy) {
				j.add(0, 1)
			}
		}
	case dirX > 0:
		switch {
		case j.blocked(cx-1, cy):
			j.require(!j.blocked(cx, cy), "right", cx, cy)
			j.add(1, 1)
			j.add(0, 1)
			j.add(1, 0)
		case j.blocked(cx-1, cy-1):
			j.require(!j.blocked(cx, cy-1), "right", cx, cy)
			j.add(1, -1)
			j.add(0, -1)
			j.add(1, 0)
		default:
			j.require(false, "right", cx, cy)
		}
	case dirY < 0:
		switch {
		case j.blocked(cx, cy):
			j.require(!j.blocked(cx, cy-1), "down", cx, cy)
			j.add(1, -1)
			j.add(1, 0)
			j.add(0, -1)
		case j.blocked(cx-1, cy):
			j.require(!j.blocked(cx-1, cy-1), "down", cx, cy)
			j.add(-1, -1)
			j.add(-1, 0)
			j.add(0, -1)
		default:
			j.require(false, "down", cx, cy)
		}
	default:
		switch {
		case j.blocked(cx, cy-1):
			j.require(!j.blocked(cx, cy), "up", cx, cy)
			j.add(1, 1)
			j.add(1, 0)
			j.add(0, 1)
		case j.blocked(cx-1, cy-1):
			j.require(!j.blocked(cx-1, cy), "up", cx, cy)
			j.add(-1, 1)
			j.add(-1, 0)
			j.add(0, 1)
		default:
			j.require(false, "up", cx, cy)
		}
	}
}

func (j *jumper) require(ok bool, direction string, x, y int) {
	if !ok {
		invariant(ErrImpossibleDirection, "jump %s into (%d,%d)", direction, x, y)
	}
}

func (j *jumper) jump(x, y, dx, dy int) int {
	switch {
	case dx < 0 && dy < 0:
		return j.jumpDownLeft(x, y)
	case dx < 0 && dy > 0:
		return j.jumpUpLeft(x, y)
	case dx < 0:
		return j.jumpLeft(x, y)
	case dx > 0 && dy < 0:
		return j.jumpDownRight(x, y)
	case dx > 0 && dy > 0:
		return j.jumpUpRight(x, y)
	case dx > 0:
		return j.jumpRight(x, y)
	case dy < 0:
		return j.jumpDown(x, y)
	default:
		return j.jumpUp(x, y)
	}
}

func (j *jumper) isGoal(x, y int) bool { return x == j.s.ex && y == j.s.ey }

func (j *jumper) index(x, y int) int { return j.s.g.ToOneDim(x, y) }

// Diagonal jumps are never forced on vertices; they stop where an axis
// jump from the same vertex finds something.

func (j *jumper) jumpDownLeft(x, y int) int {
	for {
		x, y = x-1, y-1
		if j.blocked(x, y) {
			return -1
		}
		if j.isGoal(x, y) || j.jumpLeft(x, y) != -1 || j.jumpDown(x, y) != -1 {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpDownRight(x, y int) int {
	for {
		x, y = x+1, y-1
		if j.blocked(x-1, y) {
			return -1
		}
		if j.isGoal(x, y) || j.jumpDown(x, y) != -1 || j.jumpRight(x, y) != -1 {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpUpLeft(x, y int) int {
	for {
		x, y = x-1, y+1
		if j.blocked(x, y-1) {
			return -1
		}
		if j.isGoal(x, y) || j.jumpLeft(x, y) != -1 || j.jumpUp(x, y) != -1 {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpUpRight(x, y int) int {
	for {
		x, y = x+1, y+1
		if j.blocked(x-1, y-1) {
			return -1
		}
		if j.isGoal(x, y) || j.jumpUp(x, y) != -1 || j.jumpRight(x, y) != -1 {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpLeft(x, y int) int {
	for {
		x--
		if j.blocked(x, y) {
			if j.blocked(x, y-1) {
				return -1
			}
			if !j.blocked(x-1, y) {
				return j.index(x, y)
			}
		}
		if j.blocked(x, y-1) && !j.blocked(x-1, y-1) {
			return j.index(x, y)
		}
		if j.isGoal(x, y) {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpRight(x, y int) int {
	for {
		x++
		if j.blocked(x-1, y) {
			if j.blocked(x-1, y-1) {
				return -1
			}
			if !j.blocked(x, y) {
				return j.index(x, y)
			}
		}
		if j.blocked(x-1, y-1) && !j.blocked(x, y-1) {
			return j.index(x, y)
		}
		if j.isGoal(x, y) {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpDown(x, y int) int {
	for {
		y--
		if j.blocked(x, y) {
			if j.blocked(x-1, y) {
				return -1
			}
			if !j.blocked(x, y-1) {
				return j.index(x, y)
			}
		}
		if j.blocked(x-1, y) && !j.blocked(x-1, y-1) {
			return j.index(x, y)
		}
		if j.isGoal(x, y) {
			return j.index(x, y)
		}
	}
}

func (j *jumper) jumpUp(x, y int) int {
	for {
		y++
		if j.blocked(x, y-1) {
			if j.blocked(x-1, y-1) {
				return -1
			}
			if !j.blocked(x, y) {
				return j.index(x, y)
			}
		}
		if j.blocked(x-1, y-1) && !j.blocked(x-1, y) {
			return j.index(x, y)
		}
		if j.isGoal(x, y) {
			return j.index(x, y)
		}
	}
}
