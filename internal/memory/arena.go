// Package memory provides the generation-tagged scratch arrays that searches
// reuse between runs on the same grid size.
package memory

import (
	"errors"
	"fmt"
	"math"
)

// ErrTicketMismatch is returned when a caller holds a ticket from an
// earlier generation of the arena.
var ErrTicketMismatch = errors.New("memory: ticket does not match current generation")

// Ticket identifies one generation of an Arena.
type Ticket int32

// Arena stores distance, parent, visited and pending per vertex. Every entry
// is stamped with the generation that last wrote it; reads of entries from
// older generations return the configured defaults, so starting a new
// search costs O(1) instead of clearing the arrays.
//
// An Arena serves one search at a time and is not safe for concurrent use.
type Arena struct {
	distance []float64
	parent   []int
	visited  []bool
	pending  []bool
	check    []Ticket

	current Ticket

	defaultDistance float64
	defaultParent   int
	defaultVisited  bool
}

// New returns an empty arena. Call Initialise before use.
func New() *Arena {
	return &Arena{defaultDistance: math.Inf(1), defaultParent: -1}
}

// Initialise starts a new generation over size entries. Storage is
// reallocated (and the ticket reset to 1) only when size changes.
func (a *Arena) Initialise(size int, defaultDistance float64, defaultParent int, defaultVisited bool) Ticket {
	a.defaultDistance = defaultDistance
	a.defaultParent = defaultParent
	a.defaultVisited = defaultVisited

	switch {
	case len(a.check) != size:
		a.distance = make([]float64, size)
		a.parent = make([]int, size)
		a.visited = make([]bool, size)
		a.pending = make([]bool, size)
		a.check = make([]Ticket, size)
		a.current = 1
	case a.current == math.MaxInt32:
		clear(a.check)
		a.current = 1
	default:
		a.current++
	}
	return a.current
}

// Ticket is the current generation.
func (a *Arena) Ticket() Ticket { return a.current }

// Size is the number of entries.
func (a *Arena) Size() int { return len(a.check) }

// CheckTicket fails when t is not the current generation.
func (a *Arena) CheckTicket(t Ticket) error {
	if t != a.current {
		return fmt.Errorf("%w: held %d, current %d", ErrTicketMismatch, t, a.current)
	}
	return nil
}

func (a *Arena) fresh(i int) bool { return a.check[i] == a.current }

// stamp brings entry i into the current generation with default values.
func (a *Arena) stamp(i int) {
	if a.fresh(i) {
		return
	}
	a.distance[i] = a.defaultDistance
	a.parent[i] = a.defaultParent
	a.visited[i] = a.defaultVisited
	a.pending[i] = false
	a.check[i] = a.current
}

func (a *Arena) Distance(i int) float64 {
	if !a.fresh(i) {
		return a.defaultDistance
	}
	return a.distance[i]
}

func (a *Arena) Parent(i int) int {
	if !a.fresh(i) {
		return a.defaultParent
	}
	return a.parent[i]
}

func (a *Arena) Visited(i int) bool {
	if !a.fresh(i) {
		return a.defaultVisited
	}
	return a.visited[i]
}

// Pending reports whether entry i carries a provisional distance that must
// be recomputed before it is expanded.
func (a *Arena) Pending(i int) bool {
	return a.fresh(i) && a.pending[i]
}

func (a *Arena) SetDistance(i int, v float64) { a.stamp(i); a.distance[i] = v }
func (a *Arena) SetParent(i int, v int)       { a.stamp(i); a.parent[i] = v }
func (a *Arena) SetVisited(i int, v bool)     { a.stamp(i); a.visited[i] = v }
func (a *Arena) SetPending(i int, v bool)     { a.stamp(i); a.pending[i] = v }
