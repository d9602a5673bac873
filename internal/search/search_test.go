package search

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/memory"
)

type factory func(p Problem, cfg Config) Algorithm

var anyAngle = map[string]factory{
	"basic theta":      func(p Problem, cfg Config) Algorithm { return NewBasicThetaStar(p, cfg) },
	"lazy theta":       func(p Problem, cfg Config) Algorithm { return NewLazyThetaStar(p, cfg) },
	"recursive theta":  func(p Problem, cfg Config) Algorithm { return NewRecursiveThetaStar(p, cfg) },
	"adjustment theta": func(p Problem, cfg Config) Algorithm { return NewAdjustmentThetaStar(p, cfg) },
	"strict theta":     func(p Problem, cfg Config) Algorithm { return NewStrictThetaStar(p, cfg) },
	"recursive strict": func(p Problem, cfg Config) Algorithm { return NewRecursiveStrictThetaStar(p, cfg, -1) },
	"recursive strict depth 2": func(p Problem, cfg Config) Algorithm {
		return NewRecursiveStrictThetaStar(p, cfg, 2)
	},
	"post smoothed a*": func(p Problem, cfg Config) Algorithm { return NewAStar(p, cfg).WithPostSmoothing(false) },
	"repeated smoothing": func(p Problem, cfg Config) Algorithm {
		return NewAStar(p, cfg).WithPostSmoothing(true)
	},
	"visibility graph":  func(p Problem, cfg Config) Algorithm { return NewVisibilityGraphSearch(p, cfg) },
	"vg dijkstra":       func(p Problem, cfg Config) Algorithm { return NewVisibilityGraphSearch(p, cfg).WithoutHeuristic() },
	"vg slow dijkstra":  func(p Problem, cfg Config) Algorithm { return NewVisibilityGraphSearch(p, cfg).WithSlowDijkstra() },
	"bfs vg":            func(p Problem, cfg Config) Algorithm { return NewBFSVisibilityGraph(p, cfg) },
}

var eightConnected = map[string]factory{
	"a*":        func(p Problem, cfg Config) Algorithm { return NewAStar(p, cfg) },
	"dijkstra":  func(p Problem, cfg Config) Algorithm { return NewDijkstra(p, cfg) },
	"a* octile": func(p Problem, cfg Config) Algorithm { return NewAStarOctile(p, cfg) },
	"jps":       func(p Problem, cfg Config) Algorithm { return NewJPS(p, cfg) },
}

func emptyGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	return g
}

func gridWith(t *testing.T, w, h int, blocked ...grid.Point) *grid.Grid {
	t.Helper()
	g := emptyGrid(t, w, h)
	for _, p := range blocked {
		g.SetBlocked(p.X, p.Y, true)
	}
	return g
}

// wallGrid splits a 5x5 grid with a full column of blocked tiles at x = 2.
func wallGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g := emptyGrid(t, 5, 5)
	for y := 0; y < 5; y++ {
		g.SetBlocked(2, y, true)
	}
	return g
}

func pathLength(path []grid.Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += grid.Distance(path[i-1].X, path[i-1].Y, path[i].X, path[i].Y)
	}
	return total
}

func requireValidPath(t *testing.T, g *grid.Grid, path []grid.Point, start, goal grid.Point) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, goal, path[len(path)-1])
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		assert.True(t, g.LineOfSight(a.X, a.Y, b.X, b.Y), "segment %v-%v crosses a blocked tile", a, b)
	}
}

func run(f factory, p Problem, cfg Config) Algorithm {
	a := f(p, cfg)
	a.ComputePath()
	return a
}

func TestEmptyGrid_AnyAngleGoesStraight(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 4, Y: 3}}

	for name, f := range anyAngle {
		t.Run(name, func(t *testing.T) {
			path := run(f, p, Config{}).Path()
			assert.Equal(t, []grid.Point{p.Start, p.Goal}, path)
			assert.InDelta(t, 5.0, pathLength(path), 1e-9)
		})
	}

	t.Run("accelerated a*", func(t *testing.T) {
		path := run(func(p Problem, cfg Config) Algorithm { return NewAcceleratedAStar(p, cfg) }, p, Config{}).Path()
		assert.Equal(t, []grid.Point{p.Start, p.Goal}, path)
	})
}

func TestEmptyGrid_EightConnectedIsOctile(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 4, Y: 3}}

	for name, f := range eightConnected {
		t.Run(name, func(t *testing.T) {
			path := run(f, p, Config{}).Path()
			requireValidPath(t, g, path, p.Start, p.Goal)
			assert.InDelta(t, 3*math.Sqrt2+1, pathLength(path), 1e-9)
		})
	}
}

func TestJPS_JumpsOverOpenSpace(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 5, Y: 3}}

	jps := NewJPS(p, Config{})
	jps.ComputePath()
	assert.Equal(t, []grid.Point{{X: 0, Y: 0}, {X: 3, Y: 3}, {X: 5, Y: 3}}, jps.Path())

	astar := NewAStar(p, Config{})
	astar.ComputePath()
	assert.Less(t, jps.Expanded(), astar.Expanded())
}

func TestBFS_FewestAxisMoves(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 4, Y: 3}}

	bfs := NewBFS(p, Config{})
	bfs.ComputePath()
	path := bfs.Path()
	require.Len(t, path, 8)
	assert.Equal(t, p.Start, path[0])
	assert.Equal(t, p.Goal, path[7])
	assert.InDelta(t, 7.0, pathLength(path), 1e-9)
}

func TestWall_NoPath(t *testing.T) {
	g := wallGrid(t)
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 5, Y: 5}}

	all := map[string]factory{
		"bfs":            func(p Problem, cfg Config) Algorithm { return NewBFS(p, cfg) },
		"accelerated a*": func(p Problem, cfg Config) Algorithm { return NewAcceleratedAStar(p, cfg) },
	}
	for name, f := range anyAngle {
		all[name] = f
	}
	for name, f := range eightConnected {
		all[name] = f
	}

	for name, f := range all {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, run(f, p, Config{}).Path())
		})
	}
}

func TestStartEqualsGoal(t *testing.T) {
	g := emptyGrid(t, 4, 4)
	p := Problem{Grid: g, Start: grid.Point{X: 2, Y: 1}, Goal: grid.Point{X: 2, Y: 1}}

	for name, f := range map[string]factory{
		"a*":               eightConnected["a*"],
		"bfs":              func(p Problem, cfg Config) Algorithm { return NewBFS(p, cfg) },
		"visibility graph": anyAngle["visibility graph"],
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []grid.Point{p.Start}, run(f, p, Config{}).Path())
		})
	}
}

func TestCornerDetour(t *testing.T) {
	g := gridWith(t, 6, 6, grid.Point{X: 2, Y: 2})
	p := Problem{Grid: g, Start: grid.Point{X: 1, Y: 1}, Goal: grid.Point{X: 4, Y: 4}}
	optimal := 2 * math.Sqrt(5)

	t.Run("visibility graph is optimal", func(t *testing.T) {
		path := run(anyAngle["visibility graph"], p, Config{}).Path()
		requireValidPath(t, g, path, p.Start, p.Goal)
		require.Len(t, path, 3)
		assert.Contains(t, []grid.Point{{X: 3, Y: 2}, {X: 2, Y: 3}}, path[1])
		assert.InDelta(t, optimal, pathLength(path), 1e-9)
	})

	for name, f := range anyAngle {
		t.Run(name, func(t *testing.T) {
			path := run(f, p, Config{}).Path()
			requireValidPath(t, g, path, p.Start, p.Goal)
			assert.GreaterOrEqual(t, pathLength(path), optimal-1e-9)
		})
	}
	for name, f := range eightConnected {
		t.Run(name, func(t *testing.T) {
			path := run(f, p, Config{}).Path()
			requireValidPath(t, g, path, p.Start, p.Goal)
		})
	}
}

func TestReachableNodes(t *testing.T) {
	g := wallGrid(t)
	nodes := ReachableNodes(g, 0, 0)

	require.Len(t, nodes, 18)
	assert.Equal(t, grid.Point{X: 0, Y: 0}, nodes[0])
	for _, n := range nodes {
		assert.LessOrEqual(t, n.X, 2)
	}
}

func TestContext_AcquireRelease(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Acquire())
	assert.ErrorIs(t, ctx.Acquire(), ErrContextInUse)
	ctx.Release()
	assert.NoError(t, ctx.Acquire())
}

func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func TestContext_StaleResultPanics(t *testing.T) {
	g := emptyGrid(t, 5, 5)
	ctx := NewContext()

	first := NewAStar(Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 5, Y: 5}}, Config{Context: ctx})
	first.ComputePath()
	assert.NotPanics(t, func() { first.Path() })

	second := NewAStar(Problem{Grid: g, Start: grid.Point{X: 5, Y: 0}, Goal: grid.Point{X: 0, Y: 5}}, Config{Context: ctx})
	second.ComputePath()

	err := recoverError(func() { first.Path() })
	require.Error(t, err)
	assert.True(t, errors.Is(err, memory.ErrTicketMismatch))
	assert.NotPanics(t, func() { second.Path() })
}

func TestContext_ReuseMatchesFresh(t *testing.T) {
	g := gridWith(t, 8, 6,
		grid.Point{X: 2, Y: 1}, grid.Point{X: 2, Y: 2}, grid.Point{X: 5, Y: 3},
		grid.Point{X: 5, Y: 4}, grid.Point{X: 6, Y: 4}, grid.Point{X: 3, Y: 4})
	problems := []Problem{
		{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 8, Y: 6}},
		{Grid: g, Start: grid.Point{X: 1, Y: 5}, Goal: grid.Point{X: 7, Y: 0}},
		{Grid: g, Start: grid.Point{X: 8, Y: 6}, Goal: grid.Point{X: 0, Y: 2}},
	}
	factories := map[string]factory{
		"a*":          eightConnected["a*"],
		"jps":         eightConnected["jps"],
		"basic theta": anyAngle["basic theta"],
		"lazy theta":  anyAngle["lazy theta"],
		"strict":      anyAngle["strict theta"],
	}

	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := NewContext()
			for _, p := range problems {
				reused := run(f, p, Config{Context: ctx})
				fresh := run(f, p, Config{})
				assert.Equal(t, fresh.Path(), reused.Path())
				assert.Equal(t, fresh.Expanded(), reused.Expanded())
			}
		})
	}
}

func TestVisibilityGraph_ReuseMatchesFresh(t *testing.T) {
	g := gridWith(t, 8, 6,
		grid.Point{X: 2, Y: 1}, grid.Point{X: 2, Y: 2}, grid.Point{X: 5, Y: 3},
		grid.Point{X: 5, Y: 4}, grid.Point{X: 6, Y: 4}, grid.Point{X: 3, Y: 4})
	ctx := NewContext()

	for _, p := range []Problem{
		{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 8, Y: 6}},
		{Grid: g, Start: grid.Point{X: 2, Y: 1}, Goal: grid.Point{X: 7, Y: 4}},
		{Grid: g, Start: grid.Point{X: 1, Y: 5}, Goal: grid.Point{X: 7, Y: 0}},
	} {
		reused := NewVisibilityGraphSearch(p, Config{}).WithGraphReuse(ctx)
		reused.ComputePath()
		fresh := NewVisibilityGraphSearch(p, Config{})
		fresh.ComputePath()

		assert.InDelta(t, pathLength(fresh.Path()), pathLength(reused.Path()), 1e-9)
		assert.Equal(t, fresh.Graph().SumDegrees(), reused.Graph().SumDegrees())
	}
	assert.Equal(t, 2, ctx.Graphs().Hits())
}

type countingRecorder struct {
	snapshots int
	last      Snapshot
}

func (r *countingRecorder) IsRecording() bool { return true }

func (r *countingRecorder) MaybeSaveSearchSnapshot(snapshot func() Snapshot) {
	r.snapshots++
	r.last = snapshot()
}

func TestRecorder_DoesNotChangeResult(t *testing.T) {
	g := gridWith(t, 6, 6, grid.Point{X: 2, Y: 2}, grid.Point{X: 3, Y: 2})
	p := Problem{Grid: g, Start: grid.Point{X: 0, Y: 0}, Goal: grid.Point{X: 5, Y: 6}}

	factories := map[string]factory{
		"bfs":            func(p Problem, cfg Config) Algorithm { return NewBFS(p, cfg) },
		"accelerated a*": func(p Problem, cfg Config) Algorithm { return NewAcceleratedAStar(p, cfg) },
	}
	for name, f := range anyAngle {
		factories[name] = f
	}
	for name, f := range eightConnected {
		factories[name] = f
	}

	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			rec := &countingRecorder{}
			recorded := run(f, p, Config{Recorder: rec})
			plain := run(f, p, Config{})

			assert.Equal(t, plain.Path(), recorded.Path())
			assert.Positive(t, rec.snapshots)
			assert.NotEmpty(t, rec.last.Edges)
		})
	}
}
