package grid

import (
	"fmt"
	"math"
)

const (
	sqrtTwo         = math.Sqrt2
	sqrtTwoMinusOne = math.Sqrt2 - 1
)

// Distance is the Euclidean distance between two vertices.
func (g *Grid) Distance(x1, y1, x2, y2 int) float64 {
	return Distance(x1, y1, x2, y2)
}

// Distance is the Euclidean distance between two vertices. Axis-aligned and
// 45 degree moves are computed without a square root.
func Distance(x1, y1, x2, y2 int) float64 {
	dx := x2 - x1
	dy := y2 - y1
	switch {
	case dx == 0:
		return float64(abs(dy))
	case dy == 0:
		return float64(abs(dx))
	case dx == dy || dx == -dy:
		return sqrtTwo * float64(abs(dx))
	default:
		return math.Sqrt(float64(dx*dx + dy*dy))
	}
}

// OctileDistance is min(dx,dy)*(sqrt2-1) + max(dx,dy).
func (g *Grid) OctileDistance(x1, y1, x2, y2 int) float64 {
	return OctileDistance(x1, y1, x2, y2)
}

// OctileDistance is the length of the shortest 8-connected path between
// two vertices on an empty grid.
func OctileDistance(x1, y1, x2, y2 int) float64 {
	dx := abs(x1 - x2)
	dy := abs(y1 - y2)
	lo, hi := dx, dy
	if dy < dx {
		lo, hi = dy, dx
	}
	return float64(lo)*sqrtTwoMinusOne + float64(hi)
}

// NeighbourLineOfSight is LineOfSight restricted to a vertex and one of its
// eight neighbours. The two vertices must differ.
func (g *Grid) NeighbourLineOfSight(x1, y1, x2, y2 int) bool {
	switch {
	case x1 == x2:
		if y1 > y2 {
			return !g.IsBlocked(x1, y2) || !g.IsBlocked(x1-1, y2)
		}
		return !g.IsBlocked(x1, y1) || !g.IsBlocked(x1-1, y1)
	case x1 < x2:
		switch {
		case y1 == y2:
			return !g.IsBlocked(x1, y1) || !g.IsBlocked(x1, y1-1)
		case y1 < y2:
			return !g.IsBlocked(x1, y1)
		default:
			return !g.IsBlocked(x1, y2)
		}
	default:
		switch {
		case y1 == y2:
			return !g.IsBlocked(x2, y1) || !g.IsBlocked(x2, y1-1)
		case y1 < y2:
			return !g.IsBlocked(x2, y1)
		default:
			return !g.IsBlocked(x2, y2)
		}
	}
}

// LineOfSight reports whether the straight segment between two vertices
// avoids every blocked tile. Segments running along a tile edge need one of
// the two tiles beside them open; segments through a vertex need the tile
// on the far side of the crossing open.
func (g *Grid) LineOfSight(x1, y1, x2, y2 int) bool {
	dx, dy := x2-x1, y2-y1
	signX, signY := 1, 1
	offsetX, offsetY := 0, 0
	if dy < 0 {
		dy, signY, offsetY = -dy, -1, -1
	}
	if dx < 0 {
		dx, signX, offsetX = -dx, -1, -1
	}

	f := 0
	if dx >= dy {
		for x1 != x2 {
			f += dy
			if f >= dx {
				if g.IsBlocked(x1+offsetX, y1+offsetY) {
					return false
				}
				y1 += signY
				f -= dx
			}
			if f != 0 && g.IsBlocked(x1+offsetX, y1+offsetY) {
				return false
			}
			if dy == 0 && g.IsBlocked(x1+offsetX, y1) && g.IsBlocked(x1+offsetX, y1-1) {
				return false
			}
			x1 += signX
		}
		return true
	}

	for y1 != y2 {
		f += dx
		if f >= dy {
			if g.IsBlocked(x1+offsetX, y1+offsetY) {
				return false
			}
			x1 += signX
			f -= dy
		}
		if f != 0 && g.IsBlocked(x1+offsetX, y1+offsetY) {
			return false
		}
		if dx == 0 && g.IsBlocked(x1, y1+offsetY) && g.IsBlocked(x1-1, y1+offsetY) {
			return false
		}
		y1 += signY
	}
	return true
}

// FindFirstBlockedTile walks from vertex (x1, y1) along direction (dx, dy)
// and returns the first blocked tile the ray enters. When the ray runs along a
// grid line between two blocked tiles, the coordinate perpendicular to the
// line is reported as -1. (dx, dy) must not be (0, 0).
func (g *Grid) FindFirstBlockedTile(x1, y1, dx, dy int) Point {
	signX, signY := 1, 1
	offsetX, offsetY := 0, 0
	if dy < 0 {
		dy, signY, offsetY = -dy, -1, -1
	}
	if dx < 0 {
		dx, signX, offsetX = -dx, -1, -1
	}

	f := 0
	if dx >= dy {
		for {
			f += dy
			if f >= dx {
				if g.IsBlocked(x1+offsetX, y1+offsetY) {
					return Point{X: x1 + offsetX, Y: y1 + offsetY}
				}
				y1 += signY
				f -= dx
			}
			if f != 0 && g.IsBlocked(x1+offsetX, y1+offsetY) {
				return Point{X: x1 + offsetX, Y: y1 + offsetY}
			}
			if dy == 0 && g.IsBlocked(x1+offsetX, y1) && g.IsBlocked(x1+offsetX, y1-1) {
				return Point{X: x1 + offsetX, Y: -1}
			}
			x1 += signX
		}
	}
	for {
		f += dx
		if f >= dy {
			if g.IsBlocked(x1+offsetX, y1+offsetY) {
				return Point{X: x1 + offsetX, Y: y1 + offsetY}
			}
			x1 += signX
			f -= dy
		}
		if f != 0 && g.IsBlocked(x1+offsetX, y1+offsetY) {
			return Point{X: x1 + offsetX, Y: y1 + offsetY}
		}
		if dx == 0 && g.IsBlocked(x1, y1+offsetY) && g.IsBlocked(x1-1, y1+offsetY) {
			return Point{X: -1, Y: y1 + offsetY}
		}
		y1 += signY
	}
}

// IsTaut reports whether the bent path (x1,y1) -> (x2,y2) -> (x3,y3) wraps
// tightly around a blocked tile at the middle vertex, i.e. no shortcut
// exists past the bend. Collinear continuations are taut.
func (g *Grid) IsTaut(x1, y1, x2, y2, x3, y3 int) (bool, error) {
	switch {
	case x1 < x2:
		switch {
		case y1 < y2:
			return g.tautFromBottomLeft(x1, y1, x2, y2, x3, y3), nil
		case y2 < y1:
			return g.tautFromTopLeft(x1, y1, x2, y2, x3, y3), nil
		default:
			return g.tautFromLeft(x2, y2, x3, y3), nil
		}
	case x2 < x1:
		switch {
		case y1 < y2:
			return g.tautFromBottomRight(x1, y1, x2, y2, x3, y3), nil
		case y2 < y1:
			return g.tautFromTopRight(x1, y1, x2, y2, x3, y3), nil
		default:
			return g.tautFromRight(x2, y2, x3, y3), nil
		}
	default:
		switch {
		case y1 < y2:
			return g.tautFromBottom(x2, y2, x3, y3), nil
		case y2 < y1:
			return g.tautFromTop(x2, y2, x3, y3), nil
		default:
			return false, fmt.Errorf("%w: (%d,%d)", ErrDegenerateTautQuery, x1, y1)
		}
	}
}

// MustIsTaut is IsTaut for callers that have already excluded the
// degenerate case; it panics otherwise.
func (g *Grid) MustIsTaut(x1, y1, x2, y2, x3, y3 int) bool {
	taut, err := g.IsTaut(x1, y1, x2, y2, x3, y3)
	if err != nil {
		panic(err)
	}
	return taut
}

// gradientOrder is the sign of m1 - m2 for the two segments of the bend.
func gradientOrder(x1, y1, x2, y2, x3, y3 int) int {
	return (y2-y1)*(x3-x2) - (y3-y2)*(x2-x1)
}

func (g *Grid) tautFromBottomLeft(x1, y1, x2, y2, x3, y3 int) bool {
	if x3 < x2 || y3 < y2 {
		return false
	}
	switch order := gradientOrder(x1, y1, x2, y2, x3, y3); {
	case order < 0:
		return g.BottomRightOfBlockedTile(x2, y2)
	case order > 0:
		return g.TopLeftOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromTopLeft(x1, y1, x2, y2, x3, y3 int) bool {
	if x3 < x2 || y3 > y2 {
		return false
	}
	switch order := gradientOrder(x1, y1, x2, y2, x3, y3); {
	case order < 0:
		return g.BottomLeftOfBlockedTile(x2, y2)
	case order > 0:
		return g.TopRightOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromBottomRight(x1, y1, x2, y2, x3, y3 int) bool {
	if x3 > x2 || y3 < y2 {
		return false
	}
	switch order := gradientOrder(x1, y1, x2, y2, x3, y3); {
	case order < 0:
		return g.TopRightOfBlockedTile(x2, y2)
	case order > 0:
		return g.BottomLeftOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromTopRight(x1, y1, x2, y2, x3, y3 int) bool {
	if x3 > x2 || y3 > y2 {
		return false
	}
	switch order := gradientOrder(x1, y1, x2, y2, x3, y3); {
	case order < 0:
		return g.TopLeftOfBlockedTile(x2, y2)
	case order > 0:
		return g.BottomRightOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromLeft(x2, y2, x3, y3 int) bool {
	if x3 < x2 {
		return false
	}
	switch {
	case y3 < y2:
		return g.TopRightOfBlockedTile(x2, y2)
	case y3 > y2:
		return g.BottomRightOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromRight(x2, y2, x3, y3 int) bool {
	if x3 > x2 {
		return false
	}
	switch {
	case y3 < y2:
		return g.TopLeftOfBlockedTile(x2, y2)
	case y3 > y2:
		return g.BottomLeftOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromBottom(x2, y2, x3, y3 int) bool {
	if y3 < y2 {
		return false
	}
	switch {
	case x3 < x2:
		return g.TopRightOfBlockedTile(x2, y2)
	case x3 > x2:
		return g.TopLeftOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func (g *Grid) tautFromTop(x2, y2, x3, y3 int) bool {
	if y3 > y2 {
		return false
	}
	switch {
	case x3 < x2:
		return g.BottomRightOfBlockedTile(x2, y2)
	case x3 > x2:
		return g.BottomLeftOfBlockedTile(x2, y2)
	default:
		return true
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
