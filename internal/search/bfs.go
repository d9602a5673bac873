package search

import (
	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal"
)

// BFS is breadth-first search over axis moves between grid vertices. It
// keeps its own arrays and does not use a Context.
type BFS struct {
	g        *grid.Grid
	recorder Recorder

	start, finish int
	parent        []int
	visited       []bool
	expanded      int
	found         bool
}

// NewBFS finds a path with the fewest axis moves. A move is allowed when at
// least one of the two tiles along it is open.
func NewBFS(p Problem, cfg Config) *BFS {
	return &BFS{
		g:        p.Grid,
		recorder: cfg.Recorder,
		start:    p.Grid.ToOneDim(p.Start.X, p.Start.Y),
		finish:   p.Grid.ToOneDim(p.Goal.X, p.Goal.Y),
	}
}

// ReachableNodes lists every vertex reachable from (sx, sy) by axis moves,
// the start included, in breadth-first order.
func ReachableNodes(g *grid.Grid, sx, sy int) []grid.Point {
	b := &BFS{g: g, start: g.ToOneDim(sx, sy), finish: -1}
	order := b.run()
	return toPoints(g, order)
}

func (b *BFS) ComputePath() {
	b.run()
}

// run searches until the goal is enqueued or the queue runs dry and
// returns the vertices in the order they were enqueued.
func (b *BFS) run() []int {
	size := b.g.Size()
	b.parent = make([]int, size)
	for i := range b.parent {
		b.parent[i] = -1
	}
	b.visited = make([]bool, size)
	b.expanded = 0
	b.found = b.start == b.finish

	order := []int{b.start}
	b.visited[b.start] = true
	if b.found {
		return order
	}

	queue := []int{b.start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		b.expanded++

		x, y := b.g.ToTwoDimX(current), b.g.ToTwoDimY(current)
		moves := [4]struct {
			ok     bool
			dx, dy int
		}{
			{b.g.CanGoDown(x, y), 0, -1},
			{b.g.CanGoUp(x, y), 0, 1},
			{b.g.CanGoLeft(x, y), -1, 0},
			{b.g.CanGoRight(x, y), 1, 0},
		}
		for _, m := range moves {
			if !m.ok {
				continue
			}
			next := b.g.ToOneDim(x+m.dx, y+m.dy)
			if b.visited[next] {
				continue
			}
			b.parent[next] = current
			b.visited[next] = true
			order = append(order, next)
			if next == b.finish {
				b.found = true
				return order
			}
			queue = append(queue, next)
		}

		if recording(b.recorder) {
			b.recorder.MaybeSaveSearchSnapshot(b.snapshot)
		}
	}
	return order
}

func (b *BFS) Path() []grid.Point {
	if !b.found {
		return nil
	}
	return toPoints(b.g, internal.ReconstructPath(func(i int) int { return b.parent[i] }, b.finish))
}

func (b *BFS) Expanded() int { return b.expanded }

func (b *BFS) snapshot() Snapshot {
	return arraySnapshot(b.g, b.parent, b.visited)
}

// arraySnapshot captures searches that keep plain parent and visited
// arrays indexed by grid vertex.
func arraySnapshot(g *grid.Grid, parent []int, visited []bool) Snapshot {
	var snap Snapshot
	for i := range parent {
		if visited[i] {
			snap.Vertices = append(snap.Vertices, g.ToPoint(i))
		}
		if parent[i] >= 0 {
			snap.Edges = append(snap.Edges, Segment{From: g.ToPoint(parent[i]), To: g.ToPoint(i)})
		}
	}
	return snap
}
