package anya

import (
	"fmt"
	"math"

	"github.com/pdrpinto/anyangle/grid"
)

// State is a search node: the open interval [XL, XR] on row Y, all of which
// is seen from Base. Parent is the handle of the state whose base point
// precedes Base on the path, or -1 for a start state.
type State struct {
	XL, XR Fraction
	Y      int
	Base   grid.Point

	G, H    float64
	Parent  int
	Visited bool
}

// F is the state's priority.
func (s *State) F() float64 { return s.G + s.H }

// key identifies states that describe the same interval seen from the same
// point. Fractions are reduced, so struct equality is value equality.
type key struct {
	xl, xr Fraction
	y      int
	base   grid.Point
}

func (s *State) key() key {
	return key{xl: s.XL, xr: s.XR, y: s.Y, base: s.Base}
}

func (s *State) String() string {
	return fmt.Sprintf("(%v %v) - %d", s.XL, s.XR, s.Y)
}

func startState(xl, xr Fraction, y int, start grid.Point) *State {
	return &State{XL: xl, XR: xr, Y: y, Base: start, Parent: -1}
}

// observableSuccessor is seen from the same base point as source, so it
// inherits source's cost and parent.
func observableSuccessor(xl, xr Fraction, y int, source *State) *State {
	return &State{XL: xl, XR: xr, Y: y, Base: source.Base, G: source.G, Parent: source.Parent}
}

// unobservableSuccessor turns at base, a corner of source's interval.
func unobservableSuccessor(xl, xr Fraction, y int, base grid.Point, source *State, sourceHandle int) *State {
	return &State{
		XL:     xl,
		XR:     xr,
		Y:      y,
		Base:   base,
		G:      source.G + distance(source.Base, base),
		Parent: sourceHandle,
	}
}

func distance(a, b grid.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
