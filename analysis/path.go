// Package analysis measures paths and the problems they solve: lengths,
// tautness, optimality against the visibility graph, and the summary
// statistics used to characterise a start and goal pair on a map.
package analysis

import (
	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/search"
)

// OptimalTolerance is how much longer than the optimum a path may be and
// still count as optimal.
const OptimalTolerance = 1e-4

// PathLength is the Euclidean length of path.
func PathLength(path []grid.Point) float64 {
	path = RemoveCollinear(path)
	total := 0.0
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		total += grid.Distance(a.X, a.Y, b.X, b.Y)
	}
	return total
}

// RemoveCollinear drops every interior waypoint that lies on the line
// through its kept predecessor and its successor. The endpoints are kept.
func RemoveCollinear(path []grid.Point) []grid.Point {
	if len(path) <= 2 {
		return path
	}
	out := make([]grid.Point, 0, len(path))
	out = append(out, path[0])
	for i := 1; i < len(path)-1; i++ {
		if !collinear(out[len(out)-1], path[i], path[i+1]) {
			out = append(out, path[i])
		}
	}
	return append(out, path[len(path)-1])
}

func collinear(a, b, c grid.Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) == (c.X-a.X)*(b.Y-a.Y)
}

// IsPathTaut reports whether every bend of path wraps tightly around a
// blocked corner. It fails on consecutive duplicate waypoints.
func IsPathTaut(g *grid.Grid, path []grid.Point) (bool, error) {
	for i := 2; i < len(path); i++ {
		a, b, c := path[i-2], path[i-1], path[i]
		taut, err := g.IsTaut(a.X, a.Y, b.X, b.Y, c.X, c.Y)
		if err != nil {
			return false, err
		}
		if !taut {
			return false, nil
		}
	}
	return true, nil
}

// OptimalPathLength is the length of the shortest any-angle path from start
// to goal, found by searching the visibility graph. ok is false when the
// goal cannot be reached.
func OptimalPathLength(g *grid.Grid, start, goal grid.Point) (length float64, ok bool) {
	vg := search.NewVisibilityGraphSearch(search.Problem{Grid: g, Start: start, Goal: goal}, search.Config{})
	vg.ComputePath()
	path := vg.Path()
	if path == nil {
		return 0, false
	}
	return PathLength(path), true
}

// IsOptimal reports whether length is within OptimalTolerance of optimal.
func IsOptimal(length, optimal float64) bool {
	return length-optimal < OptimalTolerance
}
