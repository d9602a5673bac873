package visgraph

import "github.com/pdrpinto/anyangle/grid"

// Cache keeps the most recently built graph and hands it back, repurposed,
// when the next request is for the same grid. A Cache is not safe for
// concurrent use; each search context owns one.
type Cache struct {
	grid  *grid.Grid
	graph *Graph
	hits  int
}

// Get returns a graph for g with start (sx, sy) and goal (ex, ey). Grids are
// matched by identity, so a grid must not be edited between calls.
func (c *Cache) Get(g *grid.Grid, sx, sy, ex, ey int, progress func(*Graph)) *Graph {
	if c.graph == nil || c.grid != g {
		c.graph = Build(g, sx, sy, ex, ey, progress)
		c.grid = g
		return c.graph
	}
	c.hits++
	c.graph.Repurpose(sx, sy, ex, ey)
	return c.graph
}

// Hits is the number of requests served by repurposing.
func (c *Cache) Hits() int { return c.hits }

// Reset forgets the stored graph.
func (c *Cache) Reset() {
	c.grid, c.graph = nil, nil
}
