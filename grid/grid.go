// Package grid models a rectangular map of blocked and open tiles and the
// geometric queries the any-angle searches run against it.
//
// Searches move between grid vertices (tile corners). A grid of width W and
// height H has vertices (x, y) with 0 <= x <= W and 0 <= y <= H, and y grows
// "upwards": tile (x, y) has vertex (x, y) as its bottom-left corner.
package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensions is returned when a grid is constructed with a non-positive size.
	ErrDimensions = errors.New("grid dimensions must be positive")

	// ErrDegenerateTautQuery is returned by IsTaut when the first two points coincide.
	ErrDegenerateTautQuery = errors.New("taut query with coincident first and second points")
)

// Point is a vertex coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a width x height matrix of tiles. It must not be mutated while a
// search is running on it.
type Grid struct {
	width  int
	height int
	tiles  []bool
}

// New returns an open grid of the given size.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]bool, width*height),
	}, nil
}

// FromRows builds a grid from rows of tiles where rows[y][x] reports whether
// tile (x, y) is blocked. All rows must have the same length.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDimensions)
	}
	g, err := New(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrDimensions, y, len(row), g.width)
		}
		for x, blocked := range row {
			g.tiles[y*g.width+x] = blocked
		}
	}
	return g, nil
}

// Width is the number of tile columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of tile rows.
func (g *Grid) Height() int { return g.height }

// Size is the number of vertices, (W+1)*(H+1).
func (g *Grid) Size() int { return (g.width + 1) * (g.height + 1) }

// SetBlocked sets tile (x, y). Out-of-range tiles are ignored.
func (g *Grid) SetBlocked(x, y int, blocked bool) {
	if !g.IsValidTile(x, y) {
		return
	}
	g.tiles[y*g.width+x] = blocked
}

// IsBlocked reports whether tile (x, y) is blocked. Tiles outside the grid
// count as blocked, so the boundary behaves like a wall.
func (g *Grid) IsBlocked(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return true
	}
	return g.tiles[y*g.width+x]
}

// IsValidCoordinate reports whether (x, y) is a vertex of the grid.
func (g *Grid) IsValidCoordinate(x, y int) bool {
	return x >= 0 && y >= 0 && x <= g.width && y <= g.height
}

// IsValidTile reports whether (x, y) names a tile of the grid.
func (g *Grid) IsValidTile(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// ToOneDim maps vertex (x, y) to its linear index y*(W+1)+x.
func (g *Grid) ToOneDim(x, y int) int { return y*(g.width+1) + x }

// ToTwoDimX is the x coordinate of a linear vertex index.
func (g *Grid) ToTwoDimX(index int) int { return index % (g.width + 1) }

// ToTwoDimY is the y coordinate of a linear vertex index.
func (g *Grid) ToTwoDimY(index int) int { return index / (g.width + 1) }

// ToPoint converts a linear vertex index back into a Point.
func (g *Grid) ToPoint(index int) Point {
	return Point{X: g.ToTwoDimX(index), Y: g.ToTwoDimY(index)}
}

// TopRightOfBlockedTile reports whether the tile below and to the left of
// vertex (x, y) is blocked.
func (g *Grid) TopRightOfBlockedTile(x, y int) bool { return g.IsBlocked(x-1, y-1) }

// TopLeftOfBlockedTile reports whether the tile below and to the right of
// vertex (x, y) is blocked.
func (g *Grid) TopLeftOfBlockedTile(x, y int) bool { return g.IsBlocked(x, y-1) }

// BottomRightOfBlockedTile reports whether the tile above and to the left of
// vertex (x, y) is blocked.
func (g *Grid) BottomRightOfBlockedTile(x, y int) bool { return g.IsBlocked(x-1, y) }

// BottomLeftOfBlockedTile reports whether the tile above and to the right of
// vertex (x, y) is blocked.
func (g *Grid) BottomLeftOfBlockedTile(x, y int) bool { return g.IsBlocked(x, y) }

// IsUnblockedCoordinate reports whether at least one of the four tiles
// around vertex (x, y) is open.
func (g *Grid) IsUnblockedCoordinate(x, y int) bool {
	return !g.TopRightOfBlockedTile(x, y) ||
		!g.TopLeftOfBlockedTile(x, y) ||
		!g.BottomRightOfBlockedTile(x, y) ||
		!g.BottomLeftOfBlockedTile(x, y)
}

// IsOuterCorner reports whether vertex (x, y) is the tip of a blocked
// region: one diagonal pair of tiles around it is fully open and at least one
// of the four tiles is blocked.
func (g *Grid) IsOuterCorner(x, y int) bool {
	a := g.IsBlocked(x-1, y-1)
	b := g.IsBlocked(x, y-1)
	c := g.IsBlocked(x, y)
	d := g.IsBlocked(x-1, y)
	return ((!a && !c) || (!d && !b)) && (a || b || c || d)
}

// CanGoUp reports whether an edge leaving vertex (x, y) straight up
// has an open tile on at least one side.
func (g *Grid) CanGoUp(x, y int) bool {
	return !g.BottomRightOfBlockedTile(x, y) || !g.BottomLeftOfBlockedTile(x, y)
}

// CanGoDown reports whether an edge leaving vertex (x, y) straight down
// has an open tile on at least one side.
func (g *Grid) CanGoDown(x, y int) bool {
	return !g.TopRightOfBlockedTile(x, y) || !g.TopLeftOfBlockedTile(x, y)
}

// CanGoLeft reports whether an edge leaving vertex (x, y) straight left
// has an open tile on at least one side.
func (g *Grid) CanGoLeft(x, y int) bool {
	return !g.TopRightOfBlockedTile(x, y) || !g.BottomRightOfBlockedTile(x, y)
}

// CanGoRight reports whether an edge leaving vertex (x, y) straight right
// has an open tile on at least one side.
func (g *Grid) CanGoRight(x, y int) bool {
	return !g.TopLeftOfBlockedTile(x, y) || !g.BottomLeftOfBlockedTile(x, y)
}

// NumBlocked counts the blocked tiles.
func (g *Grid) NumBlocked() int {
	n := 0
	for _, blocked := range g.tiles {
		if blocked {
			n++
		}
	}
	return n
}

// PercentageBlocked is the fraction of blocked tiles, in [0, 1].
func (g *Grid) PercentageBlocked() float64 {
	return float64(g.NumBlocked()) / float64(g.width*g.height)
}
