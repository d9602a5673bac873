package search

import (
	"math"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal"
	"github.com/pdrpinto/anyangle/internal/pqueue"
)

// AcceleratedAStar expands each vertex by jumping to the edges of the
// largest empty square around it. Successors are relaxed against every
// closed vertex that can see them, not only the vertex being expanded.
type AcceleratedAStar struct {
	g              *grid.Grid
	sx, sy, ex, ey int
	recorder       Recorder

	distance []float64
	parent   []int
	visited  []bool
	closed   []int
	ranges   *grid.MaxRanges
	pq       *pqueue.IndirectHeap[float64]

	finish   int
	expanded int
}

func NewAcceleratedAStar(p Problem, cfg Config) *AcceleratedAStar {
	return &AcceleratedAStar{
		g:        p.Grid,
		sx:       p.Start.X,
		sy:       p.Start.Y,
		ex:       p.Goal.X,
		ey:       p.Goal.Y,
		recorder: cfg.Recorder,
	}
}

func (a *AcceleratedAStar) ComputePath() {
	size := a.g.Size()
	start := a.g.ToOneDim(a.sx, a.sy)
	a.finish = a.g.ToOneDim(a.ex, a.ey)
	a.expanded = 0

	a.distance = make([]float64, size)
	a.parent = make([]int, size)
	a.visited = make([]bool, size)
	for i := range a.distance {
		a.distance[i] = math.Inf(1)
		a.parent[i] = -1
	}
	a.distance[start] = 0
	a.ranges = a.g.ComputeMaxDownLeftRanges()
	a.closed = a.closed[:0]

	a.pq = pqueue.FromKeys(a.distance, true)
	a.pq.Heapify()

	for !a.pq.IsEmpty() {
		current, err := a.pq.PopMinIndex()
		if err != nil {
			invariant(err, "accelerated search pop")
		}
		if current == a.finish || math.IsInf(a.distance[current], 1) {
			a.maybeSaveSnapshot()
			break
		}
		a.visited[current] = true
		a.closed = append(a.closed, current)
		a.expanded++

		x, y := a.g.ToTwoDimX(current), a.g.ToTwoDimY(current)
		if square := a.detectMaxSquare(x, y); square == 0 {
			a.relaxUnitSuccessors(x, y)
		} else {
			a.generate(x, y+square)
			a.generate(x, y-square)
			a.generate(x+square, y)
			a.generate(x-square, y)
		}

		a.maybeSaveSnapshot()
	}
}

// relaxUnitSuccessors steps one unit along each axis bordered by an open tile.
func (a *AcceleratedAStar) relaxUnitSuccessors(x, y int) {
	var up, down, left, right bool
	if !a.g.IsBlocked(x-1, y-1) {
		left, down = true, true
	}
	if !a.g.IsBlocked(x, y-1) {
		right, down = true, true
	}
	if !a.g.IsBlocked(x-1, y) {
		left, up = true, true
	}
	if !a.g.IsBlocked(x, y) {
		right, up = true, true
	}
	if up {
		a.generate(x, y+1)
	}
	if down {
		a.generate(x, y-1)
	}
	if left {
		a.generate(x-1, y)
	}
	if right {
		a.generate(x+1, y)
	}
}

func (a *AcceleratedAStar) generate(x, y int) {
	dest := a.g.ToOneDim(x, y)
	if a.visited[dest] {
		return
	}
	if a.relaxFromClosed(dest, x, y) {
		a.pq.DecreaseKey(dest, a.distance[dest]+grid.Distance(x, y, a.ex, a.ey))
	}
}

// relaxFromClosed scans the whole closed list for the cheapest visible
// parent of dest.
func (a *AcceleratedAStar) relaxFromClosed(dest, x, y int) bool {
	changed := false
	for _, from := range a.closed {
		fx, fy := a.g.ToTwoDimX(from), a.g.ToTwoDimY(from)
		newWeight := a.distance[from] + grid.Distance(fx, fy, x, y)
		if newWeight < a.distance[dest] && a.g.LineOfSight(fx, fy, x, y) {
			a.distance[dest] = newWeight
			a.parent[dest] = from
			changed = true
		}
	}
	return changed
}

// detectMaxSquare returns the half-size of the largest empty square centred
// on (x, y), capped by the Chebyshev distance to the goal. Each round probes
// one diagonal step up-right and one down-left to tighten the upper bound.
func (a *AcceleratedAStar) detectMaxSquare(x, y int) int {
	lower := 0
	upper := max(abs(x-a.ex), abs(y-a.ey))
	if upper <= lower {
		return 0
	}
	i, j := a.ranges.Diagonal(x, y)
	for {
		upper = min(upper, a.ranges.UpperBound(i, j, lower))
		if upper <= lower {
			break
		}
		upper = min(upper, a.ranges.UpperBound(i, j, -1-lower))
		if upper <= lower {
			break
		}
		lower++
		if upper <= lower {
			break
		}
	}
	return lower
}

func (a *AcceleratedAStar) Path() []grid.Point {
	if a.distance == nil || math.IsInf(a.distance[a.finish], 1) {
		return nil
	}
	return toPoints(a.g, internal.ReconstructPath(func(i int) int { return a.parent[i] }, a.finish))
}

func (a *AcceleratedAStar) Expanded() int { return a.expanded }

func (a *AcceleratedAStar) maybeSaveSnapshot() {
	if !recording(a.recorder) {
		return
	}
	a.recorder.MaybeSaveSearchSnapshot(func() Snapshot {
		return arraySnapshot(a.g, a.parent, a.visited)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
