package cga

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/num"
)

// Side is the result of a which-side classification.
type Side int

const (
	Inside Side = iota - 1
	On
	Outside
)

func (s Side) String() string {
	switch s {
	case Inside:
		return "inside"
	case On:
		return "on"
	default:
		return "outside"
	}
}

// ManifoldKind discriminates the Manifold sum type.
type ManifoldKind int

const (
	// WholeSpace is the ambient space itself.
	WholeSpace ManifoldKind = iota
	// FlatPlane is a hyperplane.
	FlatPlane
	// RoundSphere is an (N-1)-sphere.
	RoundSphere
)

// Manifold is either the whole space, a hyperplane, or an (N-1)-sphere.
// In the conformal model planes and spheres are both grade-1 vectors, so
// one predicate covers both.
type Manifold struct {
	Kind   ManifoldKind
	ndim   int
	Plane  Hyperplane
	Center num.Vector
	Radius float64
}

// Space returns the whole-space manifold of the given dimension.
func Space(ndim int) Manifold {
	return Manifold{Kind: WholeSpace, ndim: ndim}
}

// PlaneManifold wraps a hyperplane as a manifold.
func PlaneManifold(h Hyperplane) Manifold {
	return Manifold{Kind: FlatPlane, ndim: len(h.Normal), Plane: h}
}

// SphereManifold returns the sphere with the given center and radius. The
// interior of the sphere is its inside.
func SphereManifold(center num.Vector, radius float64) Manifold {
	return Manifold{Kind: RoundSphere, ndim: len(center), Center: center, Radius: radius}
}

// Ndim returns the ambient dimension.
func (m Manifold) Ndim() int { return m.ndim }

// Blade returns the IPNS conformal vector of the manifold. For the whole
// space it returns the zero multivector (the predicate special-cases it).
func (m Manifold) Blade() Multivector {
	switch m.Kind {
	case FlatPlane:
		return m.Plane.Blade()
	case RoundSphere:
		// s = ½r²·e∞ - up(c), oriented so the conformal inner product
		// with a point embedding is negative inside, matching planes.
		return Infinity(m.ndim).Scale(m.Radius * m.Radius / 2).Sub(Point(m.Center))
	default:
		return Zero(m.ndim)
	}
}

// SignedDistance returns a quantity whose epsilon-tolerant sign classifies
// p: negative inside, zero on, positive outside. For a plane this is the
// literal signed distance; for a sphere it is derived from the conformal
// inner product up(p)·s = ½(|p-c|² - r²).
func (m Manifold) SignedDistance(p num.Vector) float64 {
	switch m.Kind {
	case FlatPlane:
		return m.Plane.SignedDistance(p)
	case RoundSphere:
		d := p.Sub(m.Center)
		return (d.Dot(d) - m.Radius*m.Radius) / 2
	default:
		return -1 // every point is inside the whole space
	}
}

// Side classifies p against the manifold: |distance| <= Eps reports On.
func (m Manifold) Side(p num.Vector) Side {
	return Side(num.Sign(m.SignedDistance(p)))
}

// ClosestPoint returns the point of m nearest to p. For the whole space
// that is p itself. For a sphere with p at the center the closest point
// is not unique; the representative in the +e₁ direction is chosen so the
// result stays deterministic.
func (m Manifold) ClosestPoint(p num.Vector) num.Vector {
	switch m.Kind {
	case FlatPlane:
		return p.Sub(m.Plane.Normal.Scale(m.Plane.SignedDistance(p)))
	case RoundSphere:
		d := p.Sub(m.Center)
		n, ok := d.Normalize()
		if !ok {
			n = num.Unit(m.ndim, 1)
		}
		return m.Center.Add(n.Scale(m.Radius))
	default:
		return p
	}
}

// WhichSide reports on which side of the cut manifold c the point of m
// closest to p lies. It is the predicate behind region classification:
// m is the manifold a piece face lives in, c is the cut, and p probes a
// location on the face.
//
// In conformal form this is sign-checked from
// dual(dual(dual(M) ∧ dual(C) ∧ P) ∧ dual(M)) against the pseudoscalar;
// with a diagonal metric that sign equals the sign of the conformal inner
// product of c's IPNS vector with the closest-point embedding, which is
// how it is computed here. Ties within Eps report On.
func WhichSide(m, c Manifold, p num.Vector) Side {
	q := m.ClosestPoint(p)
	return c.Side(q)
}

func (m Manifold) String() string {
	switch m.Kind {
	case FlatPlane:
		return m.Plane.String()
	case RoundSphere:
		return fmt.Sprintf("sphere{c=%v, r=%g}", m.Center, m.Radius)
	default:
		return fmt.Sprintf("space{%d}", m.ndim)
	}
}
