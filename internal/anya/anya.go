// Package anya implements Anya, an optimal any-angle search whose nodes are
// intervals of grid rows seen from a common base point rather than single
// vertices. Interval endpoints are exact fractions.
package anya

import (
	"fmt"
	"math"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal"
	"github.com/pdrpinto/anyangle/internal/pqueue"
	"github.com/pdrpinto/anyangle/internal/search"
)

// Search is a single Anya run.
type Search struct {
	g              *grid.Grid
	sx, sy, ex, ey int
	recorder       search.Recorder

	// leftDown[y][x] and rightDown[y][x] are the nearest x to the left or
	// right of x where the run of tiles on row y-1 changes between blocked
	// and open.
	leftDown  [][]int
	rightDown [][]int

	states   []*State
	existing map[key]int
	pq       *pqueue.VariableHeap
	goal     int
	expanded int
}

func New(p search.Problem, cfg search.Config) *Search {
	return &Search{
		g:        p.Grid,
		sx:       p.Start.X,
		sy:       p.Start.Y,
		ex:       p.Goal.X,
		ey:       p.Goal.Y,
		recorder: cfg.Recorder,
		goal:     -1,
	}
}

func (a *Search) ComputePath() {
	a.existing = make(map[key]int)
	a.pq = pqueue.NewVariableHeap(0)
	a.states = a.states[:0]
	a.goal = -1
	a.expanded = 0

	// A start vertex walled in on all four sides has no starting intervals,
	// yet it still reaches itself.
	if a.sx == a.ex && a.sy == a.ey {
		start := grid.Point{X: a.sx, Y: a.sy}
		a.states = append(a.states, startState(Whole(a.sx), Whole(a.sx), a.sy, start))
		a.goal = len(a.states) - 1
		return
	}

	a.computeExtents()
	a.generateStartingStates()

	for !a.pq.IsEmpty() {
		a.maybeSaveSnapshot()
		current, err := a.pq.PopMinIndex()
		if err != nil {
			panic(fmt.Errorf("anya pop: %w", err))
		}
		state := a.states[current]
		state.Visited = true

		if state.Y == a.ey && state.XL.LessEqInt(a.ex) && !state.XR.LessInt(a.ex) {
			a.goal = current
			break
		}
		a.expanded++
		a.generateSuccessors(current)
	}
}

// Path returns the base points from the start to the goal's state followed
// by the goal itself, or nil when the goal was not reached.
func (a *Search) Path() []grid.Point {
	if a.goal < 0 {
		return nil
	}
	handles := internal.ReconstructPath(func(h int) int { return a.states[h].Parent }, a.goal)
	path := make([]grid.Point, 0, len(handles)+1)
	for _, h := range handles {
		path = append(path, a.states[h].Base)
	}
	if goal := (grid.Point{X: a.ex, Y: a.ey}); path[len(path)-1] != goal {
		path = append(path, goal)
	}
	return path
}

func (a *Search) Expanded() int { return a.expanded }

func (a *Search) computeExtents() {
	w, h := a.g.Width(), a.g.Height()
	if len(a.leftDown) != h+2 || len(a.leftDown[0]) != w+1 {
		a.leftDown = make([][]int, h+2)
		a.rightDown = make([][]int, h+2)
		for y := range a.leftDown {
			a.leftDown[y] = make([]int, w+1)
			a.rightDown[y] = make([]int, w+1)
		}
	}

	for y := 0; y < h+2; y++ {
		lastBlocked, lastX := true, -1
		for x := 0; x <= w; x++ {
			a.leftDown[y][x] = lastX
			if a.g.IsBlocked(x, y-1) != lastBlocked {
				lastX, lastBlocked = x, !lastBlocked
			}
		}
		lastBlocked, lastX = true, w+1
		for x := w; x >= 0; x-- {
			a.rightDown[y][x] = lastX
			if a.g.IsBlocked(x-1, y-1) != lastBlocked {
				lastX, lastBlocked = x, !lastBlocked
			}
		}
	}
}

func (a *Search) leftUpExtent(x, y int) int   { return a.leftDown[y+1][x] }
func (a *Search) leftDownExtent(x, y int) int { return a.leftDown[y][x] }
func (a *Search) leftAnyExtent(x, y int) int  { return max(a.leftDown[y][x], a.leftDown[y+1][x]) }

func (a *Search) rightUpExtent(x, y int) int   { return a.rightDown[y+1][x] }
func (a *Search) rightDownExtent(x, y int) int { return a.rightDown[y][x] }
func (a *Search) rightAnyExtent(x, y int) int  { return min(a.rightDown[y][x], a.rightDown[y+1][x]) }

func (a *Search) generateStartingStates() {
	g, sx, sy := a.g, a.sx, a.sy
	bottomLeft := g.BottomLeftOfBlockedTile(sx, sy)
	bottomRight := g.BottomRightOfBlockedTile(sx, sy)
	topLeft := g.TopLeftOfBlockedTile(sx, sy)
	topRight := g.TopRightOfBlockedTile(sx, sy)
	start := grid.Point{X: sx, Y: sy}

	if !bottomLeft || !bottomRight {
		left, right := Whole(a.leftUpExtent(sx, sy)), Whole(a.rightUpExtent(sx, sy))
		if bottomLeft {
			right = Whole(sx)
		} else if bottomRight {
			left = Whole(sx)
		}
		a.upwards(-1, &start, left, right, sy)
	}

	if !topLeft || !topRight {
		left, right := Whole(a.leftDownExtent(sx, sy)), Whole(a.rightDownExtent(sx, sy))
		if topLeft {
			right = Whole(sx)
		} else if topRight {
			left = Whole(sx)
		}
		a.downwards(-1, &start, left, right, sy)
	}

	if !topRight || !bottomRight {
		a.sameLevel(-1, &start, a.leftAnyExtent(sx, sy), sx, sy)
	}
	if !topLeft || !bottomLeft {
		a.sameLevel(-1, &start, sx, a.rightAnyExtent(sx, sy), sy)
	}
}

func (a *Search) generateSuccessors(h int) {
	state := a.states[h]
	switch base := state.Base; {
	case base.Y == state.Y:
		a.exploreFromSameLevel(h, state)
	case base.Y < state.Y:
		a.exploreFromBelow(h, state)
	default:
		a.exploreFromAbove(h, state)
	}
}

// exploreFromSameLevel continues a state whose base point lies on its own
// row. Such intervals have whole endpoints and the base is outside them.
func (a *Search) exploreFromSameLevel(h int, state *State) {
	g, y := a.g, state.Y

	if state.XR.Num() <= state.Base.X {
		xL := state.XL.Num()
		pivot := grid.Point{X: xL, Y: y}
		if g.BottomLeftOfBlockedTile(xL, y) {
			if !g.BottomRightOfBlockedTile(xL, y) {
				a.upwards(h, &pivot, Whole(a.leftUpExtent(xL, y)), state.XL, y)
			}
		} else if g.TopLeftOfBlockedTile(xL, y) {
			if !g.TopRightOfBlockedTile(xL, y) {
				a.downwards(h, &pivot, Whole(a.leftDownExtent(xL, y)), state.XL, y)
			}
		}
		if !g.BottomRightOfBlockedTile(xL, y) || !g.TopRightOfBlockedTile(xL, y) {
			a.sameLevel(h, nil, a.leftAnyExtent(xL, y), xL, y)
		}
		return
	}

	xR := state.XR.Num()
	pivot := grid.Point{X: xR, Y: y}
	if g.BottomRightOfBlockedTile(xR, y) {
		if !g.BottomLeftOfBlockedTile(xR, y) {
			a.upwards(h, &pivot, state.XR, Whole(a.rightUpExtent(xR, y)), y)
		}
	} else if g.TopRightOfBlockedTile(xR, y) {
		if !g.TopLeftOfBlockedTile(xR, y) {
			a.downwards(h, &pivot, state.XR, Whole(a.rightDownExtent(xR, y)), y)
		}
	}
	if !g.BottomLeftOfBlockedTile(xR, y) || !g.TopLeftOfBlockedTile(xR, y) {
		a.sameLevel(h, nil, xR, a.rightAnyExtent(xR, y), y)
	}
}

// project extends the ray from base through (x, row) by one more row.
func project(x Fraction, base grid.Point, dy int) Fraction {
	return x.SubInt(base.X).MulDiv(dy+1, dy).AddInt(base.X)
}

func (a *Search) exploreFromBelow(h int, state *State) {
	g, y, b := a.g, state.Y, state.Base
	dy := y - b.Y

	if g.BottomLeftOfBlockedTile(state.XL.Floor(), y) {
		// Blocked above: only the interval's corners can see further up.
		if state.XL.IsWhole() {
			xL := state.XL.Num()
			if xL < b.X && !g.BottomRightOfBlockedTile(xL, y) {
				left := project(state.XL, b, dy)
				if bound := a.leftUpExtent(xL, y); left.LessInt(bound) {
					left = Whole(bound)
				}
				a.upwards(h, &grid.Point{X: xL, Y: y}, left, state.XL, y)
			}
		}
		if state.XR.IsWhole() {
			xR := state.XR.Num()
			if b.X < xR && !g.BottomLeftOfBlockedTile(xR, y) {
				right := project(state.XR, b, dy)
				if bound := a.rightUpExtent(xR, y); !right.LessEqInt(bound) {
					right = Whole(bound)
				}
				a.upwards(h, &grid.Point{X: xR, Y: y}, state.XR, right, y)
			}
		}
	} else {
		left := project(state.XL, b, dy)
		if bound := a.leftUpExtent(state.XL.Floor()+1, y); left.LessInt(bound) {
			left = Whole(bound)
		}
		right := project(state.XR, b, dy)
		if bound := a.rightUpExtent(state.XR.Ceil()-1, y); !right.LessEqInt(bound) {
			right = Whole(bound)
		}
		if left.Less(right) {
			a.upwards(h, nil, left, right, y)
		}
	}

	if state.XL.IsWhole() {
		xL := state.XL.Num()
		if g.TopRightOfBlockedTile(xL, y) && !g.BottomRightOfBlockedTile(xL, y) {
			pivot := grid.Point{X: xL, Y: y}
			a.sameLevel(h, &pivot, a.leftAnyExtent(xL, y), xL, y)

			left := project(state.XL, b, dy)
			if bound := a.leftUpExtent(xL, y); !left.LessEqInt(bound) {
				a.upwards(h, &pivot, Whole(bound), left, y)
			}
		}
	}
	if state.XR.IsWhole() {
		xR := state.XR.Num()
		if g.TopLeftOfBlockedTile(xR, y) && !g.BottomLeftOfBlockedTile(xR, y) {
			pivot := grid.Point{X: xR, Y: y}
			a.sameLevel(h, &pivot, xR, a.rightAnyExtent(xR, y), y)

			right := project(state.XR, b, dy)
			if bound := a.rightUpExtent(xR, y); right.LessInt(bound) {
				a.upwards(h, &pivot, right, Whole(bound), y)
			}
		}
	}
}

func (a *Search) exploreFromAbove(h int, state *State) {
	g, y, b := a.g, state.Y, state.Base
	dy := b.Y - y

	if g.TopLeftOfBlockedTile(state.XL.Floor(), y) {
		// Blocked below.
		if state.XL.IsWhole() {
			xL := state.XL.Num()
			if xL < b.X && !g.TopRightOfBlockedTile(xL, y) {
				left := project(state.XL, b, dy)
				if bound := a.leftDownExtent(xL, y); left.LessInt(bound) {
					left = Whole(bound)
				}
				a.downwards(h, &grid.Point{X: xL, Y: y}, left, state.XL, y)
			}
		}
		if state.XR.IsWhole() {
			xR := state.XR.Num()
			if b.X < xR && !g.TopLeftOfBlockedTile(xR, y) {
				right := project(state.XR, b, dy)
				if bound := a.rightDownExtent(xR, y); !right.LessEqInt(bound) {
					right = Whole(bound)
				}
				a.downwards(h, &grid.Point{X: xR, Y: y}, state.XR, right, y)
			}
		}
	} else {
		left := project(state.XL, b, dy)
		if bound := a.leftDownExtent(state.XL.Floor()+1, y); left.LessInt(bound) {
			left = Whole(bound)
		}
		right := project(state.XR, b, dy)
		if bound := a.rightDownExtent(state.XR.Ceil()-1, y); !right.LessEqInt(bound) {
			right = Whole(bound)
		}
		if left.Less(right) {
			a.downwards(h, nil, left, right, y)
		}
	}

	if state.XL.IsWhole() {
		xL := state.XL.Num()
		if g.BottomRightOfBlockedTile(xL, y) && !g.TopRightOfBlockedTile(xL, y) {
			pivot := grid.Point{X: xL, Y: y}
			a.sameLevel(h, &pivot, a.leftAnyExtent(xL, y), xL, y)

			left := project(state.XL, b, dy)
			if bound := a.leftDownExtent(xL, y); !left.LessEqInt(bound) {
				a.downwards(h, &pivot, Whole(bound), left, y)
			}
		}
	}
	if state.XR.IsWhole() {
		xR := state.XR.Num()
		if g.BottomLeftOfBlockedTile(xR, y) && !g.TopLeftOfBlockedTile(xR, y) {
			pivot := grid.Point{X: xR, Y: y}
			a.sameLevel(h, &pivot, xR, a.rightAnyExtent(xR, y), y)

			right := project(state.XR, b, dy)
			if bound := a.rightDownExtent(xR, y); right.LessInt(bound) {
				a.downwards(h, &pivot, right, Whole(bound), y)
			}
		}
	}
}

// successor builds a state on row y. A nil base means the interval is
// observable from the source's own base point; from is -1 for start states.
func (a *Search) successor(from int, base *grid.Point, left, right Fraction, y int) *State {
	switch {
	case base == nil:
		return observableSuccessor(left, right, y, a.states[from])
	case from < 0:
		return startState(left, right, y, *base)
	default:
		return unobservableSuccessor(left, right, y, *base, a.states[from], from)
	}
}

func (a *Search) sameLevel(from int, base *grid.Point, left, right, y int) {
	a.addSuccessor(from, a.successor(from, base, Whole(left), Whole(right), y))
}

func (a *Search) upwards(from int, base *grid.Point, left, right Fraction, y int) {
	a.splitIntervals(y+2, y+1, from, base, left, right)
}

func (a *Search) downwards(from int, base *grid.Point, left, right Fraction, y int) {
	a.splitIntervals(y-1, y-1, from, base, left, right)
}

// splitIntervals cuts [left, right] on row newY wherever the tiles on the
// far side of it change between blocked and open, so that each piece sees a
// uniform row beyond it.
func (a *Search) splitIntervals(checkY, newY, from int, base *grid.Point, left, right Fraction) {
	leftFloor := left.Floor()
	for {
		cut := a.rightDown[checkY][leftFloor]
		if right.LessEqInt(cut) {
			break
		}
		a.addSuccessor(from, a.successor(from, base, left, Whole(cut), newY))
		leftFloor = cut
		left = Whole(cut)
	}
	a.addSuccessor(from, a.successor(from, base, left, right, newY))
}

func (a *Search) addSuccessor(from int, successor *State) {
	handle, ok := a.existing[successor.key()]
	if !ok {
		a.addToOpen(successor)
		return
	}
	if from >= 0 {
		a.relaxExisting(successor, handle)
	}
}

func (a *Search) addToOpen(successor *State) {
	successor.H = a.heuristic(successor)
	handle := a.pq.Insert(successor.F())
	a.states = append(a.states, successor)
	if handle != len(a.states)-1 {
		panic(fmt.Errorf("anya: heap handle %d out of step with %d states", handle, len(a.states)))
	}
	a.existing[successor.key()] = handle
}

// relaxExisting lowers the cost of an already generated copy of candidate.
func (a *Search) relaxExisting(candidate *State, handle int) {
	existing := a.states[handle]
	if existing.Visited || candidate.G >= existing.G {
		return
	}
	existing.G = candidate.G
	existing.Parent = candidate.Parent
	a.pq.DecreaseKey(handle, existing.F())
}

// heuristic is the length of the shortest path from the state's base point
// through its interval to the goal.
func (a *Search) heuristic(s *State) float64 {
	bx, by := s.Base.X, s.Base.Y
	ex, ey := a.ex, a.ey
	xl, xr := s.XL.Float64(), s.XR.Float64()

	if s.Y == by && s.Y == ey {
		switch {
		case !s.XL.LessEqInt(bx) && !s.XL.LessEqInt(ex):
			// Base and goal both left of the interval.
			return 2*xl - float64(bx) - float64(ex)
		case s.XR.LessInt(bx) && s.XR.LessInt(ex):
			return float64(bx) + float64(ex) - 2*xr
		default:
			return math.Abs(float64(bx - ex))
		}
	}

	dy1 := by - s.Y
	dy2 := ey - s.Y
	// Reflect the goal through the row when it is on the base's side.
	ey2 := ey
	if dy1*dy2 > 0 {
		ey2 = 2*s.Y - ey
	}

	ix := float64(bx) + float64(s.Y-by)*float64(ex-bx)/float64(ey2-by)
	ix = min(max(ix, xl), xr)
	return math.Hypot(ix-float64(bx), float64(dy1)) + math.Hypot(ix-float64(ex), float64(dy2))
}

func (a *Search) maybeSaveSnapshot() {
	if a.recorder == nil || !a.recorder.IsRecording() {
		return
	}
	a.recorder.MaybeSaveSearchSnapshot(a.snapshot)
}

func (a *Search) snapshot() search.Snapshot {
	var snap search.Snapshot
	for _, s := range a.states {
		snap.Intervals = append(snap.Intervals, search.Interval{
			Y:    s.Y,
			XL:   s.XL.Float64(),
			XR:   s.XR.Float64(),
			Base: s.Base,
		})
		if s.Parent >= 0 {
			snap.Edges = append(snap.Edges, search.Segment{From: a.states[s.Parent].Base, To: s.Base})
		}
	}
	return snap
}
