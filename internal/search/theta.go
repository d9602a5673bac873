package search

import (
	"math"

	"github.com/pdrpinto/anyangle/grid"
)

// NewBasicThetaStar is Theta*: a neighbour is connected straight to the
// current vertex's parent whenever the parent can see it.
func NewBasicThetaStar(p Problem, cfg Config) *GridSearch {
	s := newGridSearch(p, cfg)
	s.relaxNeighbour = s.relaxNeighbourTheta
	s.relax = s.relaxTheta
	return s
}

// NewLazyThetaStar assumes line of sight to the parent when relaxing and
// repairs the parent when the vertex is popped instead.
func NewLazyThetaStar(p Problem, cfg Config) *GridSearch {
	s := NewBasicThetaStar(p, cfg)
	s.relax = s.relaxLazy
	s.onPop = s.verifyLazyParent
	s.snapshotPerExpansion = true
	return s
}

// NewRecursiveThetaStar follows the parent chain upwards for as long as
// each ancestor can see the neighbour.
func NewRecursiveThetaStar(p Problem, cfg Config) *GridSearch {
	s := NewBasicThetaStar(p, cfg)
	s.relax = s.relaxRecursive
	return s
}

// NewAdjustmentThetaStar is Theta* that also tries the four grid
// neighbours of the chosen parent as cheaper parents.
func NewAdjustmentThetaStar(p Problem, cfg Config) *GridSearch {
	s := NewBasicThetaStar(p, cfg)
	s.relax = s.relaxAdjustment
	return s
}

// relaxNeighbourTheta skips neighbours that already share the current
// vertex's parent: by the triangle inequality the relaxation cannot help.
func (s *GridSearch) relaxNeighbourTheta(current, cx, cy, x, y int) {
	if !s.g.IsValidCoordinate(x, y) {
		return
	}
	dest := s.g.ToOneDim(x, y)
	if s.mem.Visited(dest) {
		return
	}
	if parent := s.mem.Parent(current); parent != -1 && parent == s.mem.Parent(dest) && !s.mem.Pending(dest) {
		return
	}
	if !s.g.NeighbourLineOfSight(cx, cy, x, y) {
		return
	}
	if s.relax(current, dest, grid.Distance(cx, cy, x, y)) {
		s.requeue(dest, x, y)
	}
}

// visibleParent returns u's parent when it exists and can see v, else u.
func (s *GridSearch) visibleParent(u, v int) int {
	if parent := s.mem.Parent(u); parent != -1 && s.lineOfSight(parent, v) {
		return parent
	}
	return u
}

func (s *GridSearch) relaxTheta(u, v int, _ float64) bool {
	u = s.visibleParent(u, v)
	return s.relaxDirect(u, v, s.physicalDistance(u, v))
}

func (s *GridSearch) relaxLazy(u, v int, _ float64) bool {
	if parent := s.mem.Parent(u); parent != -1 {
		u = parent
	}
	return s.relaxDirect(u, v, s.physicalDistance(u, v))
}

// verifyLazyParent checks the assumed line of sight of a popped vertex and,
// if it fails, reattaches the vertex to its cheapest visited neighbour.
func (s *GridSearch) verifyLazyParent(current int) {
	parent := s.mem.Parent(current)
	if parent == -1 || s.lineOfSight(current, parent) {
		return
	}
	x, y := s.g.ToTwoDimX(current), s.g.ToTwoDimY(current)
	s.mem.SetDistance(current, math.Inf(1))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			px, py := x+dx, y+dy
			if !s.g.IsValidCoordinate(px, py) {
				continue
			}
			n := s.g.ToOneDim(px, py)
			if !s.mem.Visited(n) || !s.g.NeighbourLineOfSight(x, y, px, py) {
				continue
			}
			if g := s.mem.Distance(n) + grid.Distance(x, y, px, py); g < s.mem.Distance(current) {
				s.mem.SetDistance(current, g)
				s.mem.SetParent(current, n)
			}
		}
	}
}

func (s *GridSearch) relaxRecursive(u, v int, _ float64) bool {
	for {
		parent := s.mem.Parent(u)
		if parent == -1 || !s.lineOfSight(parent, v) {
			break
		}
		u = parent
	}
	return s.relaxDirect(u, v, s.physicalDistance(u, v))
}

func (s *GridSearch) relaxAdjustment(u, v int, _ float64) bool {
	u = s.visibleParent(u, v)
	updated := s.relaxDirect(u, v, s.physicalDistance(u, v))
	if s.adjustFromNeighbours(u, v) {
		updated = true
	}
	return updated
}

// adjustFromNeighbours tries the four axis neighbours of u as parents of v.
func (s *GridSearch) adjustFromNeighbours(u, v int) bool {
	ux, uy := s.g.ToTwoDimX(u), s.g.ToTwoDimY(u)
	updated := false
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		if s.adjustFrom(ux+d[0], uy+d[1], v) {
			updated = true
		}
	}
	return updated
}

func (s *GridSearch) adjustFrom(x, y, v int) bool {
	if !s.g.IsValidCoordinate(x, y) {
		return false
	}
	n := s.g.ToOneDim(x, y)
	newWeight := s.mem.Distance(n) + grid.Distance(x, y, s.g.ToTwoDimX(v), s.g.ToTwoDimY(v))
	if newWeight < s.mem.Distance(v) && s.lineOfSight(n, v) {
		s.mem.SetDistance(v, newWeight)
		s.mem.SetParent(v, n)
		return true
	}
	return false
}
