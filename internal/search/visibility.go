package search

import (
	"math"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal"
	"github.com/pdrpinto/anyangle/internal/pqueue"
	"github.com/pdrpinto/anyangle/internal/visgraph"
)

// VisibilityGraphSearch runs Dijkstra or A* over the visibility graph of
// the grid's corners. With graph reuse on, the graph comes from the
// Context's cache and is repurposed for the new start and goal.
type VisibilityGraphSearch struct {
	g              *grid.Grid
	sx, sy, ex, ey int
	recorder       Recorder
	cache          *visgraph.Cache

	heuristicWeight float64
	slow            bool
	breadthFirst    bool

	graph    *visgraph.Graph
	distance []float64
	parent   []int
	visited  []bool
	expanded int
}

func NewVisibilityGraphSearch(p Problem, cfg Config) *VisibilityGraphSearch {
	return &VisibilityGraphSearch{
		g:               p.Grid,
		sx:              p.Start.X,
		sy:              p.Start.Y,
		ex:              p.Goal.X,
		ey:              p.Goal.Y,
		recorder:        cfg.Recorder,
		heuristicWeight: 1,
	}
}

// NewBFSVisibilityGraph finds the path with the fewest turns by running
// breadth-first search over the visibility graph.
func NewBFSVisibilityGraph(p Problem, cfg Config) *VisibilityGraphSearch {
	s := NewVisibilityGraphSearch(p, cfg)
	s.breadthFirst = true
	return s
}

// WithoutHeuristic turns the search into plain Dijkstra.
func (s *VisibilityGraphSearch) WithoutHeuristic() *VisibilityGraphSearch {
	s.heuristicWeight = 0
	return s
}

// WithSlowDijkstra replaces the heap with a linear scan for the closest
// open node. It exists as a reference for the heap-based search.
func (s *VisibilityGraphSearch) WithSlowDijkstra() *VisibilityGraphSearch {
	s.slow = true
	return s
}

// WithGraphReuse takes the graph from ctx's cache, so consecutive searches
// on the same grid only rebuild the start and goal edges.
func (s *VisibilityGraphSearch) WithGraphReuse(ctx *Context) *VisibilityGraphSearch {
	s.cache = ctx.Graphs()
	return s
}

func (s *VisibilityGraphSearch) ComputePath() {
	s.setupGraph()
	size := s.graph.Size()
	s.distance = make([]float64, size)
	s.parent = make([]int, size)
	s.visited = make([]bool, size)
	for i := range s.distance {
		s.distance[i] = math.Inf(1)
		s.parent[i] = -1
	}
	s.distance[s.graph.Start()] = 0
	s.expanded = 0

	switch {
	case s.breadthFirst:
		s.breadthFirstSearch()
	case s.slow:
		s.slowDijkstra()
	default:
		s.heapDijkstra()
	}
}

func (s *VisibilityGraphSearch) setupGraph() {
	var progress func(*visgraph.Graph)
	if recording(s.recorder) {
		progress = s.saveGraphSnapshot
	}
	if s.cache != nil {
		s.graph = s.cache.Get(s.g, s.sx, s.sy, s.ex, s.ey, progress)
	} else {
		s.graph = visgraph.Build(s.g, s.sx, s.sy, s.ex, s.ey, progress)
	}
	if progress != nil {
		progress(s.graph)
	}
}

func (s *VisibilityGraphSearch) heapDijkstra() {
	pq := pqueue.FromKeys(s.distance, true)
	pq.Heapify()

	finish := s.graph.End()
	for !pq.IsEmpty() {
		current, err := pq.PopMinIndex()
		if err != nil {
			invariant(err, "visibility graph pop")
		}
		s.visited[current] = true
		s.expanded++
		if current == finish {
			break
		}

		for _, e := range s.graph.Edges(current) {
			if !s.visited[e.Dest] && s.relax(e) {
				p := s.graph.Coordinate(e.Dest)
				pq.DecreaseKey(e.Dest, s.distance[e.Dest]+s.heuristic(p.X, p.Y))
			}
		}

		s.maybeSaveSnapshot()
	}
}

func (s *VisibilityGraphSearch) slowDijkstra() {
	finish := s.graph.End()
	for {
		current := s.closestOpen()
		if current == -1 {
			break
		}
		s.visited[current] = true
		s.expanded++
		if current == finish {
			break
		}

		for _, e := range s.graph.Edges(current) {
			if !s.visited[e.Dest] {
				s.relax(e)
			}
		}

		s.maybeSaveSnapshot()
	}
}

func (s *VisibilityGraphSearch) closestOpen() int {
	best, bestIndex := math.Inf(1), -1
	for i, d := range s.distance {
		if !s.visited[i] && d < best {
			best, bestIndex = d, i
		}
	}
	return bestIndex
}

func (s *VisibilityGraphSearch) breadthFirstSearch() {
	start, finish := s.graph.Start(), s.graph.End()
	s.visited[start] = true
	if start == finish {
		return
	}

	queue := []int{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		s.expanded++

		for _, e := range s.graph.Edges(current) {
			if s.visited[e.Dest] {
				continue
			}
			s.visited[e.Dest] = true
			s.parent[e.Dest] = current
			s.distance[e.Dest] = s.distance[current] + e.Weight
			if e.Dest == finish {
				return
			}
			queue = append(queue, e.Dest)
		}

		s.maybeSaveSnapshot()
	}
}

func (s *VisibilityGraphSearch) relax(e visgraph.Edge) bool {
	newWeight := s.distance[e.Source] + e.Weight
	if newWeight < s.distance[e.Dest] {
		s.distance[e.Dest] = newWeight
		s.parent[e.Dest] = e.Source
		return true
	}
	return false
}

func (s *VisibilityGraphSearch) heuristic(x, y int) float64 {
	return s.heuristicWeight * grid.Distance(x, y, s.ex, s.ey)
}

func (s *VisibilityGraphSearch) Path() []grid.Point {
	if s.graph == nil || math.IsInf(s.distance[s.graph.End()], 1) {
		return nil
	}
	nodes := internal.ReconstructPath(func(i int) int { return s.parent[i] }, s.graph.End())
	path := make([]grid.Point, len(nodes))
	for i, n := range nodes {
		path[i] = s.graph.Coordinate(n)
	}
	return path
}

func (s *VisibilityGraphSearch) Expanded() int { return s.expanded }

// Graph is the visibility graph used by the last run.
func (s *VisibilityGraphSearch) Graph() *visgraph.Graph { return s.graph }

func (s *VisibilityGraphSearch) maybeSaveSnapshot() {
	if !recording(s.recorder) {
		return
	}
	s.recorder.MaybeSaveSearchSnapshot(func() Snapshot {
		var snap Snapshot
		for i, v := range s.visited {
			if v {
				snap.Vertices = append(snap.Vertices, s.graph.Coordinate(i))
			}
			if p := s.parent[i]; p >= 0 {
				snap.Edges = append(snap.Edges, Segment{From: s.graph.Coordinate(p), To: s.graph.Coordinate(i)})
			}
		}
		return snap
	})
}

// saveGraphSnapshot records the edges of the graph built so far, once per
// undirected edge.
func (s *VisibilityGraphSearch) saveGraphSnapshot(graph *visgraph.Graph) {
	s.recorder.MaybeSaveSearchSnapshot(func() Snapshot {
		var snap Snapshot
		for i := 0; i < graph.Size(); i++ {
			for _, e := range graph.Edges(i) {
				if e.Source < e.Dest {
					snap.Edges = append(snap.Edges, Segment{From: graph.Coordinate(e.Source), To: graph.Coordinate(e.Dest)})
				}
			}
		}
		return snap
	})
}
