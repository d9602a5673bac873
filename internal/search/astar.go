package search

import (
	"math"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal"
	"github.com/pdrpinto/anyangle/internal/memory"
	"github.com/pdrpinto/anyangle/internal/pqueue"
)

type smoothing int

const (
	noSmoothing smoothing = iota
	smoothOnce
	smoothToFixedPoint
)

// GridSearch is best-first search over grid vertices with its distance,
// parent and visited state held in a Context. The A*, Theta* and jump point
// searches are all GridSearch values that differ only in the strategies
// plugged into it.
type GridSearch struct {
	g              *grid.Grid
	sx, sy, ex, ey int
	recorder       Recorder

	mem    *memory.Arena
	pq     *pqueue.ReusableHeap
	ticket memory.Ticket

	start, finish int
	expanded      int

	heuristicWeight float64
	smoothing       smoothing

	// snapshotPerExpansion saves after every expansion instead of whenever
	// the popped key changes.
	snapshotPerExpansion bool

	// Strategies.
	heuristic      func(x, y int) float64
	expand         func(current, x, y int)
	relaxNeighbour func(current, cx, cy, x, y int)
	relax          func(u, v int, weight float64) bool
	onPop          func(current int)
}

func newGridSearch(p Problem, cfg Config) *GridSearch {
	ctx := cfg.context()
	s := &GridSearch{
		g:               p.Grid,
		sx:              p.Start.X,
		sy:              p.Start.Y,
		ex:              p.Goal.X,
		ey:              p.Goal.Y,
		recorder:        cfg.Recorder,
		mem:             ctx.arena,
		pq:              ctx.heap,
		heuristicWeight: 1,
	}
	s.heuristic = s.euclideanHeuristic
	s.expand = s.expandNeighbours
	s.relaxNeighbour = s.relaxNeighbourAStar
	s.relax = s.relaxDirect
	return s
}

// NewAStar is 8-connected A* with Euclidean edge weights and heuristic.
func NewAStar(p Problem, cfg Config) *GridSearch {
	return newGridSearch(p, cfg)
}

// NewDijkstra is NewAStar with the heuristic switched off.
func NewDijkstra(p Problem, cfg Config) *GridSearch {
	s := newGridSearch(p, cfg)
	s.heuristicWeight = 0
	return s
}

// NewAStarOctile is NewAStar guided by the octile distance to the goal.
// Edge weights stay Euclidean.
func NewAStarOctile(p Problem, cfg Config) *GridSearch {
	s := newGridSearch(p, cfg)
	s.heuristic = s.octileHeuristic
	return s
}

// WithPostSmoothing makes the search shortcut its parent chain after the
// goal is reached: once, or until a pass changes nothing.
func (s *GridSearch) WithPostSmoothing(repeated bool) *GridSearch {
	s.smoothing = smoothOnce
	if repeated {
		s.smoothing = smoothToFixedPoint
	}
	return s
}

func (s *GridSearch) ComputePath() {
	size := s.g.Size()
	s.start = s.g.ToOneDim(s.sx, s.sy)
	s.finish = s.g.ToOneDim(s.ex, s.ey)
	s.expanded = 0

	s.pq.Initialise(size, math.Inf(1))
	s.ticket = s.mem.Initialise(size, math.Inf(1), -1, false)
	s.pq.DecreaseKey(s.start, 0)
	s.mem.SetDistance(s.start, 0)

	lastDist := -1.0
	for !s.pq.IsEmpty() {
		dist := s.pq.MinValue()
		current, err := s.pq.PopMinIndex()
		if err != nil {
			invariant(err, "grid search pop")
		}

		if !s.snapshotPerExpansion && math.Abs(dist-lastDist) > 0.01 {
			s.maybeSaveSnapshot()
			lastDist = dist
		}
		if s.onPop != nil {
			s.onPop(current)
		}

		if current == s.finish || math.IsInf(s.mem.Distance(current), 1) {
			if s.snapshotPerExpansion {
				s.maybeSaveSnapshot()
			}
			break
		}
		s.mem.SetVisited(current, true)
		s.expanded++

		s.expand(current, s.g.ToTwoDimX(current), s.g.ToTwoDimY(current))

		if s.snapshotPerExpansion {
			s.maybeSaveSnapshot()
		}
	}

	s.maybePostSmooth()
}

// expandNeighbours relaxes the 8 surrounding vertices.
func (s *GridSearch) expandNeighbours(current, x, y int) {
	s.relaxNeighbour(current, x, y, x-1, y-1)
	s.relaxNeighbour(current, x, y, x, y-1)
	s.relaxNeighbour(current, x, y, x+1, y-1)

	s.relaxNeighbour(current, x, y, x-1, y)
	s.relaxNeighbour(current, x, y, x+1, y)

	s.relaxNeighbour(current, x, y, x-1, y+1)
	s.relaxNeighbour(current, x, y, x, y+1)
	s.relaxNeighbour(current, x, y, x+1, y+1)
}

func (s *GridSearch) relaxNeighbourAStar(current, cx, cy, x, y int) {
	if !s.g.IsValidCoordinate(x, y) {
		return
	}
	dest := s.g.ToOneDim(x, y)
	if s.mem.Visited(dest) {
		return
	}
	if !s.g.NeighbourLineOfSight(cx, cy, x, y) {
		return
	}
	if s.relax(current, dest, grid.Distance(cx, cy, x, y)) {
		s.requeue(dest, x, y)
	}
}

func (s *GridSearch) requeue(v, x, y int) {
	s.pq.DecreaseKey(v, s.mem.Distance(v)+s.heuristic(x, y))
}

// relaxDirect makes u the parent of v if that shortens v's distance.
func (s *GridSearch) relaxDirect(u, v int, weight float64) bool {
	newWeight := s.mem.Distance(u) + weight
	if newWeight < s.mem.Distance(v) {
		s.mem.SetDistance(v, newWeight)
		s.mem.SetParent(v, u)
		return true
	}
	return false
}

func (s *GridSearch) euclideanHeuristic(x, y int) float64 {
	return s.heuristicWeight * grid.Distance(x, y, s.ex, s.ey)
}

func (s *GridSearch) octileHeuristic(x, y int) float64 {
	return s.heuristicWeight * grid.OctileDistance(x, y, s.ex, s.ey)
}

func (s *GridSearch) lineOfSight(a, b int) bool {
	return s.g.LineOfSight(s.g.ToTwoDimX(a), s.g.ToTwoDimY(a), s.g.ToTwoDimX(b), s.g.ToTwoDimY(b))
}

func (s *GridSearch) physicalDistance(a, b int) float64 {
	return grid.Distance(s.g.ToTwoDimX(a), s.g.ToTwoDimY(a), s.g.ToTwoDimX(b), s.g.ToTwoDimY(b))
}

func (s *GridSearch) maybePostSmooth() {
	switch s.smoothing {
	case smoothOnce:
		s.postSmooth()
	case smoothToFixedPoint:
		for s.postSmooth() {
		}
	}
}

// postSmooth walks the parent chain from the goal and, for each vertex,
// skips over ancestors for as long as it can see them. It reports whether
// any parent changed.
func (s *GridSearch) postSmooth() bool {
	changed := false
	for current := s.finish; current != -1; current = s.mem.Parent(current) {
		next := s.mem.Parent(current)
		if next == -1 {
			continue
		}
		for next = s.mem.Parent(next); next != -1; next = s.mem.Parent(next) {
			if !s.lineOfSight(current, next) {
				break
			}
			s.mem.SetParent(current, next)
			changed = true
			s.maybeSaveSnapshot()
		}
	}
	return changed
}

// Path panics with ErrTicketMismatch if the context has been used by another
// search since this one ran.
func (s *GridSearch) Path() []grid.Point {
	s.checkTicket()
	if math.IsInf(s.mem.Distance(s.finish), 1) {
		return nil
	}
	return toPoints(s.g, internal.ReconstructPath(s.mem.Parent, s.finish))
}

func (s *GridSearch) Expanded() int { return s.expanded }

func (s *GridSearch) checkTicket() {
	if err := s.mem.CheckTicket(s.ticket); err != nil {
		invariant(err, "read search state")
	}
}

func (s *GridSearch) maybeSaveSnapshot() {
	if !recording(s.recorder) {
		return
	}
	s.recorder.MaybeSaveSearchSnapshot(s.snapshot)
}

func (s *GridSearch) snapshot() Snapshot {
	s.checkTicket()
	var snap Snapshot
	for i := 0; i < s.g.Size(); i++ {
		if s.mem.Visited(i) {
			snap.Vertices = append(snap.Vertices, s.g.ToPoint(i))
		}
		if p := s.mem.Parent(i); p >= 0 {
			snap.Edges = append(snap.Edges, Segment{From: s.g.ToPoint(p), To: s.g.ToPoint(i)})
		}
	}
	return snap
}

func toPoints(g *grid.Grid, indices []int) []grid.Point {
	if len(indices) == 0 {
		return nil
	}
	points := make([]grid.Point, len(indices))
	for i, index := range indices {
		points[i] = g.ToPoint(index)
	}
	return points
}
