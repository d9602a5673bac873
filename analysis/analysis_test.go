package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/anyangle/grid"
)

func pt(x, y int) grid.Point { return grid.Point{X: x, Y: y} }

func TestRemoveCollinear(t *testing.T) {
	tests := []struct {
		name string
		in   []grid.Point
		want []grid.Point
	}{
		{"empty", nil, nil},
		{"two points", []grid.Point{pt(0, 0), pt(3, 3)}, []grid.Point{pt(0, 0), pt(3, 3)}},
		{"straight run", []grid.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(4, 4)}, []grid.Point{pt(0, 0), pt(4, 4)}},
		{"one bend", []grid.Point{pt(0, 0), pt(1, 0), pt(2, 0), pt(2, 1), pt(2, 3)}, []grid.Point{pt(0, 0), pt(2, 0), pt(2, 3)}},
		{"duplicate waypoint", []grid.Point{pt(0, 0), pt(1, 2), pt(1, 2), pt(3, 2)}, []grid.Point{pt(0, 0), pt(1, 2), pt(3, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveCollinear(tt.in))
		})
	}
}

func TestPathLength(t *testing.T) {
	assert.Zero(t, PathLength(nil))
	assert.Zero(t, PathLength([]grid.Point{pt(2, 2)}))
	assert.InDelta(t, 5.0, PathLength([]grid.Point{pt(0, 0), pt(4, 3)}), 1e-12)
	assert.InDelta(t, 1+math.Sqrt2, PathLength([]grid.Point{pt(0, 0), pt(1, 0), pt(2, 1)}), 1e-12)
}

func TestIsOptimal(t *testing.T) {
	assert.True(t, IsOptimal(5, 5))
	assert.True(t, IsOptimal(5.00005, 5))
	assert.False(t, IsOptimal(5.001, 5))
	assert.True(t, IsOptimal(4.9, 5))
}

func cornerGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(6, 6)
	require.NoError(t, err)
	g.SetBlocked(2, 2, true)
	return g
}

func TestIsPathTaut(t *testing.T) {
	g := cornerGrid(t)

	taut, err := IsPathTaut(g, []grid.Point{pt(1, 1), pt(3, 2), pt(4, 4)})
	require.NoError(t, err)
	assert.True(t, taut, "wraps the corner of the block")

	taut, err = IsPathTaut(g, []grid.Point{pt(0, 0), pt(4, 0), pt(4, 4)})
	require.NoError(t, err)
	assert.False(t, taut, "bends in open space")

	_, err = IsPathTaut(g, []grid.Point{pt(1, 1), pt(1, 1), pt(4, 4)})
	assert.ErrorIs(t, err, grid.ErrDegenerateTautQuery)
}

func TestOptimalPathLength(t *testing.T) {
	g := cornerGrid(t)

	length, ok := OptimalPathLength(g, pt(1, 1), pt(4, 4))
	require.True(t, ok)
	assert.InDelta(t, 2*math.Sqrt(5), length, 1e-9)

	length, ok = OptimalPathLength(g, pt(0, 0), pt(5, 0))
	require.True(t, ok)
	assert.InDelta(t, 5.0, length, 1e-9)

	walled, err := grid.New(5, 5)
	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		walled.SetBlocked(2, y, true)
	}
	_, ok = OptimalPathLength(walled, pt(0, 0), pt(5, 5))
	assert.False(t, ok)
}

func TestAnalyse(t *testing.T) {
	g := cornerGrid(t)
	a := NewAnalyser()

	r, err := a.Analyse(g, pt(1, 1), pt(4, 4))
	require.NoError(t, err)

	straight := 3 * math.Sqrt2
	diagonal := 6 * math.Sqrt2
	assert.Equal(t, pt(1, 1), r.Start)
	assert.InDelta(t, 2*math.Sqrt(5), r.ShortestPathLength, 1e-9)
	assert.InDelta(t, straight, r.StraightLineDistance, 1e-9)
	assert.InDelta(t, 2*math.Sqrt(5)/straight, r.Directness, 1e-9)
	assert.InDelta(t, straight/diagonal, r.DistanceCoverage, 1e-9)
	assert.InDelta(t, 2*math.Sqrt(5)/diagonal, r.MinMapCoverage, 1e-9)
	assert.Equal(t, 3, r.ShortestPathHeadingChanges)
	assert.Equal(t, 3, r.MinHeadingChanges)
	assert.InDelta(t, 1.0/36, r.PercentageBlocked, 1e-12)

	// A second problem on the same map reuses the graph and still agrees
	// with a fresh optimal search.
	r, err = a.Analyse(g, pt(0, 5), pt(5, 0))
	require.NoError(t, err)
	want, ok := OptimalPathLength(g, pt(0, 5), pt(5, 0))
	require.True(t, ok)
	assert.InDelta(t, want, r.ShortestPathLength, 1e-9)
}

func TestAnalyse_Unreachable(t *testing.T) {
	g, err := grid.New(5, 5)
	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		g.SetBlocked(2, y, true)
	}
	_, err = NewAnalyser().Analyse(g, pt(0, 0), pt(5, 5))
	assert.ErrorIs(t, err, ErrUnreachable)
}
