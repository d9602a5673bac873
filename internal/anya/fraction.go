package anya

import (
	"errors"
	"fmt"
)

// ErrZeroDenominator is raised when a Fraction is built with denominator 0.
var ErrZeroDenominator = errors.New("anya: zero denominator")

// Fraction is an exact rational in lowest terms with a positive
// denominator. The zero value is 0/0 and must not be used; build fractions
// with NewFraction or Whole.
type Fraction struct {
	n int
	d int
}

// NewFraction reduces n/d. It panics with ErrZeroDenominator when d is 0.
func NewFraction(n, d int) Fraction {
	if d == 0 {
		panic(fmt.Errorf("fraction %d/%d: %w", n, d, ErrZeroDenominator))
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(n, d)
	return Fraction{n: n / g, d: d / g}
}

// Whole is the integer n as a fraction.
func Whole(n int) Fraction { return Fraction{n: n, d: 1} }

// gcd is always non-negative; gcd(0, 0) is 0.
func gcd(x, y int) int {
	for x != 0 {
		x, y = y%x, x
	}
	if y < 0 {
		return -y
	}
	return y
}

func (f Fraction) Num() int { return f.n }
func (f Fraction) Den() int { return f.d }

func (f Fraction) IsWhole() bool { return f.d == 1 }

func (f Fraction) Add(o Fraction) Fraction { return NewFraction(f.n*o.d+o.n*f.d, f.d*o.d) }
func (f Fraction) Sub(o Fraction) Fraction { return NewFraction(f.n*o.d-o.n*f.d, f.d*o.d) }
func (f Fraction) Mul(o Fraction) Fraction { return NewFraction(f.n*o.n, f.d*o.d) }
func (f Fraction) Div(o Fraction) Fraction { return NewFraction(f.n*o.d, f.d*o.n) }

func (f Fraction) AddInt(v int) Fraction { return NewFraction(f.n+v*f.d, f.d) }
func (f Fraction) SubInt(v int) Fraction { return NewFraction(f.n-v*f.d, f.d) }

// MulDiv returns f * multiply / divide.
func (f Fraction) MulDiv(multiply, divide int) Fraction {
	return NewFraction(f.n*multiply, f.d*divide)
}

// Cmp returns -1, 0 or +1 as f is less than, equal to or greater than o.
func (f Fraction) Cmp(o Fraction) int {
	diff := f.n*o.d - o.n*f.d
	switch {
	case diff < 0:
		return -1
	case diff > 0:
		return 1
	}
	return 0
}

func (f Fraction) Less(o Fraction) bool   { return f.Cmp(o) < 0 }
func (f Fraction) LessEq(o Fraction) bool { return f.Cmp(o) <= 0 }
func (f Fraction) LessInt(x int) bool     { return f.n < f.d*x }
func (f Fraction) LessEqInt(x int) bool   { return f.n <= f.d*x }

// Floor is the largest integer not above f.
func (f Fraction) Floor() int {
	if f.d == 1 {
		return f.n
	}
	if f.n > 0 {
		return f.n / f.d
	}
	return (f.n+1)/f.d - 1
}

// Ceil is the smallest integer not below f.
func (f Fraction) Ceil() int {
	if f.d == 1 {
		return f.n
	}
	if f.n > 0 {
		return (f.n-1)/f.d + 1
	}
	return f.n / f.d
}

func (f Fraction) Float64() float64 { return float64(f.n) / float64(f.d) }

func (f Fraction) String() string { return fmt.Sprintf("%d/%d", f.n, f.d) }
