// Package visgraph builds the visibility graph over the outer corners of a
// grid's blocked regions and injects a search's start and goal into it.
package visgraph

import (
	"math"

	"github.com/pdrpinto/anyangle/grid"
)

// Edge is a directed, weighted edge between two node indices.
type Edge struct {
	Source int
	Dest   int
	Weight float64
}

// Graph holds one node per outer corner of the grid plus the current start
// and goal, and an edge for every pair of nodes with line of sight. Start and
// goal nodes that are not corners are always the last nodes added, which is
// what lets Repurpose strip them cheaply.
type Graph struct {
	grid      *grid.Grid
	nodes     []grid.Point
	edges     [][]Edge
	nodeIndex []int

	start, end           int
	startPt, endPt       grid.Point
	startIsNew, endIsNew bool
}

// Build scans g for corners, connects every visible pair and then adds start
// (sx, sy) and goal (ex, ey). progress, when non-nil, is called with the
// partial graph periodically while the O(n^2) edge pass runs.
func Build(g *grid.Grid, sx, sy, ex, ey int, progress func(*Graph)) *Graph {
	vg := &Graph{grid: g}
	vg.addNodes()
	vg.addAllEdges(progress)
	vg.addStartAndEnd(sx, sy, ex, ey)
	return vg
}

func (vg *Graph) addNodes() {
	g := vg.grid
	vg.nodeIndex = make([]int, g.Size())
	for y := 0; y <= g.Height(); y++ {
		for x := 0; x <= g.Width(); x++ {
			i := g.ToOneDim(x, y)
			vg.nodeIndex[i] = -1
			if g.IsOuterCorner(x, y) {
				vg.nodeIndex[i] = vg.assignNode(x, y)
			}
		}
	}
}

func (vg *Graph) assignNode(x, y int) int {
	index := len(vg.nodes)
	vg.nodes = append(vg.nodes, grid.Point{X: x, Y: y})
	vg.edges = append(vg.edges, nil)
	return index
}

// assignNodeAndConnect appends a node for (x, y) and links it to every
// existing node it can see.
func (vg *Graph) assignNodeAndConnect(x, y int) int {
	index := vg.assignNode(x, y)
	for i := 0; i < index; i++ {
		p := vg.nodes[i]
		if vg.grid.LineOfSight(x, y, p.X, p.Y) {
			w := grid.Distance(x, y, p.X, p.Y)
			vg.addEdge(i, index, w)
			vg.addEdge(index, i, w)
		}
	}
	return index
}

func (vg *Graph) addAllEdges(progress func(*Graph)) {
	every := max(len(vg.nodes)/10, 1)
	for i, a := range vg.nodes {
		for j := i + 1; j < len(vg.nodes); j++ {
			b := vg.nodes[j]
			if vg.grid.LineOfSight(a.X, a.Y, b.X, b.Y) {
				w := grid.Distance(a.X, a.Y, b.X, b.Y)
				vg.addEdge(i, j, w)
				vg.addEdge(j, i, w)
			}
		}
		if progress != nil && i%every == 0 {
			progress(vg)
		}
	}
}

func (vg *Graph) addEdge(from, to int, weight float64) {
	vg.edges[from] = append(vg.edges[from], Edge{Source: from, Dest: to, Weight: weight})
}

func (vg *Graph) addStartAndEnd(sx, sy, ex, ey int) {
	vg.startPt = grid.Point{X: sx, Y: sy}
	vg.endPt = grid.Point{X: ex, Y: ey}

	si := vg.grid.ToOneDim(sx, sy)
	if vg.nodeIndex[si] != -1 {
		vg.start, vg.startIsNew = vg.nodeIndex[si], false
	} else {
		vg.nodeIndex[si] = vg.assignNodeAndConnect(sx, sy)
		vg.start, vg.startIsNew = vg.nodeIndex[si], true
	}

	ei := vg.grid.ToOneDim(ex, ey)
	if vg.nodeIndex[ei] != -1 {
		vg.end, vg.endIsNew = vg.nodeIndex[ei], false
	} else {
		vg.nodeIndex[ei] = vg.assignNodeAndConnect(ex, ey)
		vg.end, vg.endIsNew = vg.nodeIndex[ei], true
	}
}

// removeStartAndEnd drops the temporary nodes in reverse insertion order:
// the goal was appended after the start, so it is removed first.
func (vg *Graph) removeStartAndEnd() {
	if vg.endIsNew {
		vg.removeLast(vg.endPt)
		vg.endIsNew = false
	}
	if vg.startIsNew {
		vg.removeLast(vg.startPt)
		vg.startIsNew = false
	}
}

func (vg *Graph) removeLast(p grid.Point) {
	index := len(vg.nodes) - 1
	vg.nodeIndex[vg.grid.ToOneDim(p.X, p.Y)] = -1
	vg.nodes = vg.nodes[:index]
	vg.edges = vg.edges[:index]
	for i, list := range vg.edges {
		kept := list[:0]
		for _, e := range list {
			if e.Dest != index {
				kept = append(kept, e)
			}
		}
		vg.edges[i] = kept
	}
}

// Repurpose swaps the start and goal for a new pair without recomputing the
// corner-to-corner edges.
func (vg *Graph) Repurpose(sx, sy, ex, ey int) {
	vg.removeStartAndEnd()
	vg.addStartAndEnd(sx, sy, ex, ey)
}

// Grid returns the grid the graph was built from.
func (vg *Graph) Grid() *grid.Grid { return vg.grid }

func (vg *Graph) Size() int { return len(vg.nodes) }

func (vg *Graph) Start() int { return vg.start }

func (vg *Graph) End() int { return vg.end }

// Coordinate returns the grid vertex of node i.
func (vg *Graph) Coordinate(i int) grid.Point { return vg.nodes[i] }

// Edges lists the outgoing edges of node i. The slice must not be modified.
func (vg *Graph) Edges(i int) []Edge { return vg.edges[i] }

// Edge returns the edge from source to dest, or one with infinite weight when
// the two nodes cannot see each other.
func (vg *Graph) Edge(source, dest int) Edge {
	for _, e := range vg.edges[source] {
		if e.Dest == dest {
			return e
		}
	}
	return Edge{Source: source, Dest: dest, Weight: math.Inf(1)}
}

// SumDegrees counts directed edges.
func (vg *Graph) SumDegrees() int {
	n := 0
	for _, list := range vg.edges {
		n += len(list)
	}
	return n
}
