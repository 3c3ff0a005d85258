// Package num provides the floating-point numerics layer for the shape
// kernel: epsilon-tolerant predicates, dense vectors of runtime-chosen
// dimension, and the small amount of linear algebra (LU solves,
// Gram–Schmidt) the polytope code needs.
//
// All predicates are total. They never panic and never return errors;
// numeric inconsistencies that would corrupt a cell complex are detected
// and surfaced by the shape package instead.
package num

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Eps is the kernel-wide absolute tolerance. Sign, equality and ordering
// are tolerant within Eps.
const Eps = 1e-6

// ApproxEq reports whether a and b are equal within Eps, scaled by the
// larger magnitude: |a-b| <= Eps * max(1, |a|, |b|).
func ApproxEq(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, Eps, Eps)
}

// ApproxZero reports whether |x| <= Eps.
func ApproxZero(x float64) bool {
	return math.Abs(x) <= Eps
}

// Sign returns -1, 0 or +1. Values within Eps of zero report 0.
func Sign(x float64) int {
	switch {
	case x > Eps:
		return 1
	case x < -Eps:
		return -1
	default:
		return 0
	}
}

// ApproxLE reports a <= b within Eps.
func ApproxLE(a, b float64) bool {
	return a <= b+Eps
}

// ApproxGE reports a >= b within Eps.
func ApproxGE(a, b float64) bool {
	return a >= b-Eps
}
