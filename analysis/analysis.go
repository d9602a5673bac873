package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/search"
)

// ErrUnreachable is returned by Analyse when no path joins start and goal.
var ErrUnreachable = errors.New("analysis: goal is unreachable")

// Report describes one start and goal pair on a map.
type Report struct {
	Start grid.Point `json:"start"`
	Goal  grid.Point `json:"goal"`

	ShortestPathLength   float64 `json:"shortestPathLength"`
	StraightLineDistance float64 `json:"straightLineDistance"`
	// Directness is the shortest path length over the straight-line distance.
	Directness float64 `json:"directness"`
	// DistanceCoverage and MinMapCoverage are the straight-line distance and
	// the shortest path length as fractions of the map diagonal.
	DistanceCoverage float64 `json:"distanceCoverage"`
	MinMapCoverage   float64 `json:"minMapCoverage"`

	// ShortestPathHeadingChanges counts the waypoints of the shortest path;
	// MinHeadingChanges counts those of the path with the fewest turns.
	ShortestPathHeadingChanges int `json:"shortestPathHeadingChanges"`
	MinHeadingChanges          int `json:"minHeadingChanges"`

	PercentageBlocked float64 `json:"percentageBlocked"`
}

// Analyser computes reports, keeping the visibility graph between calls so
// that a batch of problems on one map only builds it once. An Analyser runs
// one analysis at a time.
type Analyser struct {
	ctx *search.Context
}

func NewAnalyser() *Analyser {
	return &Analyser{ctx: search.NewContext()}
}

// Analyse reports on the problem from start to goal on g.
func (a *Analyser) Analyse(g *grid.Grid, start, goal grid.Point) (Report, error) {
	if err := a.ctx.Acquire(); err != nil {
		return Report{}, err
	}
	defer a.ctx.Release()

	p := search.Problem{Grid: g, Start: start, Goal: goal}

	shortest := search.NewVisibilityGraphSearch(p, search.Config{}).WithGraphReuse(a.ctx)
	shortest.ComputePath()
	path := shortest.Path()
	if path == nil {
		return Report{}, fmt.Errorf("%v: %w", grid.ProblemName(start, goal), ErrUnreachable)
	}

	fewestTurns := search.NewBFSVisibilityGraph(p, search.Config{}).WithGraphReuse(a.ctx)
	fewestTurns.ComputePath()

	diagonal := math.Hypot(float64(g.Width()), float64(g.Height()))
	r := Report{
		Start:                      start,
		Goal:                       goal,
		ShortestPathLength:         PathLength(path),
		StraightLineDistance:       grid.Distance(start.X, start.Y, goal.X, goal.Y),
		ShortestPathHeadingChanges: len(path),
		MinHeadingChanges:          len(fewestTurns.Path()),
		PercentageBlocked:          g.PercentageBlocked(),
	}
	r.Directness = r.ShortestPathLength / r.StraightLineDistance
	r.DistanceCoverage = r.StraightLineDistance / diagonal
	r.MinMapCoverage = r.ShortestPathLength / diagonal
	return r, nil
}
