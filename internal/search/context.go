// Package search holds the grid and visibility-graph searches.
//
// Searches are values built from a Problem and a Config, then run once with
// ComputePath. Best-first searches over grid vertices keep their scratch
// state in a Context: a ticketed arena plus a reusable heap, so that repeated
// searches on the same grid size do not pay for clearing memory. A Context
// runs one search at a time.
package search

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/memory"
	"github.com/pdrpinto/anyangle/internal/pqueue"
	"github.com/pdrpinto/anyangle/internal/visgraph"
)

var (
	// ErrContextInUse is returned by Context.Acquire while another search
	// holds the context.
	ErrContextInUse = errors.New("search: context is already running a search")

	// ErrImpossibleDirection is raised by jump point search when the blocked
	// tiles around a jump point contradict the direction it was reached from.
	ErrImpossibleDirection = errors.New("search: impossible jump direction")
)

// Algorithm is a single search run.
type Algorithm interface {
	// ComputePath runs the search to completion.
	ComputePath()
	// Path returns the waypoints from start to goal, or nil when the goal
	// was not reached.
	Path() []grid.Point
	// Expanded is the number of nodes taken off the frontier and expanded.
	Expanded() int
}

// Problem is a grid with a start and a goal vertex.
type Problem struct {
	Grid  *grid.Grid
	Start grid.Point
	Goal  grid.Point
}

// Config carries the collaborators a search may use. The zero value runs on
// a private context without recording.
type Config struct {
	Context  *Context
	Recorder Recorder
}

func (c Config) context() *Context {
	if c.Context == nil {
		return NewContext()
	}
	return c.Context
}

// Context bundles the reusable scratch state for searches.
type Context struct {
	arena  *memory.Arena
	heap   *pqueue.ReusableHeap
	graphs visgraph.Cache
	busy   atomic.Bool
}

// NewContext returns an empty context. Storage is sized lazily by the first
// search that uses it.
func NewContext() *Context {
	return &Context{
		arena: memory.New(),
		heap:  pqueue.NewReusableHeap(),
	}
}

// Acquire marks the context busy. Callers release it with Release once the
// search and any reads of its result are done.
func (c *Context) Acquire() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrContextInUse
	}
	return nil
}

func (c *Context) Release() { c.busy.Store(false) }

// Graphs is the visibility graph cache used by graph-reusing searches.
func (c *Context) Graphs() *visgraph.Cache { return &c.graphs }

// Recorder observes a running search. Searches call MaybeSaveSearchSnapshot
// at points of their choosing; the recorder decides whether to invoke the
// snapshot function. Recording never changes a search's result.
type Recorder interface {
	IsRecording() bool
	MaybeSaveSearchSnapshot(snapshot func() Snapshot)
}

// Snapshot is the visible state of a search at one moment.
type Snapshot struct {
	Vertices  []grid.Point `json:"vertices"`
	Edges     []Segment    `json:"edges"`
	Intervals []Interval   `json:"intervals,omitempty"`
}

// Interval is an Anya search node: a stretch of row Y seen from Base.
type Interval struct {
	Y    int        `json:"y"`
	XL   float64    `json:"xl"`
	XR   float64    `json:"xr"`
	Base grid.Point `json:"base"`
}

// Segment is a line between two vertices, usually a parent link.
type Segment struct {
	From grid.Point `json:"from"`
	To   grid.Point `json:"to"`
}

func recording(r Recorder) bool {
	return r != nil && r.IsRecording()
}

// invariant wraps a fatal consistency error for the panic boundary in the
// public API.
func invariant(err error, format string, args ...any) {
	panic(fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}
