package cga

import (
	"errors"
	"math"

	"github.com/chazu/hypercut/pkg/num"
)

// ErrNoRotor is returned when no unique minimal rotor exists, such as
// between a vector and its exact opposite.
var ErrNoRotor = errors.New("cga: no unique rotor between opposite vectors")

// Rotor is an even-graded multivector of unit norm over the Euclidean
// generators, representing an orientation-preserving orthogonal
// transform. It acts on vectors by the sandwich product R v R̃. Two
// rotors that differ only by an overall sign are the same transform
// (double cover).
type Rotor struct {
	mv Multivector
}

// IdentityRotor returns the identity transform.
func IdentityRotor(ndim int) Rotor {
	return Rotor{mv: Scalar(ndim, 1)}
}

// RotorFromVectors returns the rotor rotating unit vector a to unit
// vector b through their common plane: R = (1 + b·a)/|1 + b·a|.
func RotorFromVectors(a, b num.Vector) (Rotor, error) {
	ma, mb := FromVector(a), FromVector(b)
	r := Scalar(len(a), 1).Add(mb.Gp(ma))
	n := r.Norm()
	if num.ApproxZero(n) {
		return Rotor{}, ErrNoRotor
	}
	return Rotor{mv: r.Scale(1 / n)}, nil
}

// RotorFromPlaneAngle returns the rotor for a rotation by angle (radians)
// in the oriented plane u ∧ v: R = cos(θ/2) - sin(θ/2)·B̂.
func RotorFromPlaneAngle(u, v num.Vector, angle float64) (Rotor, error) {
	b := FromVector(u).Op(FromVector(v))
	n := b.Norm()
	if num.ApproxZero(n) {
		return Rotor{}, ErrNoRotor
	}
	b = b.Scale(1 / n)
	r := Scalar(len(u), math.Cos(angle/2)).Sub(b.Scale(math.Sin(angle / 2)))
	return Rotor{mv: r}, nil
}

// RotorFromMirrors returns the rotor that is the composition of an even
// sequence of reflections in the given unit mirror normals, applied left
// to right: the versor product m_k … m₁.
func RotorFromMirrors(mirrors []num.Vector) (Rotor, error) {
	if len(mirrors)%2 != 0 {
		return Rotor{}, errors.New("cga: odd number of mirrors is not a rotation")
	}
	if len(mirrors) == 0 {
		return Rotor{}, errors.New("cga: empty mirror sequence")
	}
	v := Scalar(len(mirrors[0]), 1)
	for _, m := range mirrors {
		v = FromVector(m).Gp(v)
	}
	n := v.Norm()
	if num.ApproxZero(n) {
		return Rotor{}, ErrNoRotor
	}
	return Rotor{mv: v.Scale(1 / n)}, nil
}

// Mul returns the composition r∘s (apply s first, then r).
func (r Rotor) Mul(s Rotor) Rotor {
	out := r.mv.Gp(s.mv)
	// Renormalize to keep unit norm under accumulated roundoff.
	return Rotor{mv: out.Scale(1 / out.Norm())}
}

// Reverse returns the inverse rotation.
func (r Rotor) Reverse() Rotor {
	return Rotor{mv: r.mv.Reverse()}
}

// Apply returns the image of v under the rotation: R v R̃.
func (r Rotor) Apply(v num.Vector) num.Vector {
	return r.mv.Gp(FromVector(v)).Gp(r.mv.Reverse()).VectorPart()
}

// Conjugate returns the rotor transported by the orthogonal transform
// with versor v (odd or even): v R v⁻¹. It is how a twist rotor follows
// its axis around an orbit.
func (r Rotor) Conjugate(versor Multivector) Rotor {
	n2 := versor.ScalarProduct(versor.Reverse())
	if num.ApproxZero(n2) {
		return r
	}
	inv := versor.Reverse().Scale(1 / n2)
	out := versor.Gp(r.mv).Gp(inv)
	return Rotor{mv: out.Scale(1 / out.Norm())}
}

// Matrix returns the rotation as a dense matrix, by applying the rotor to
// each basis vector.
func (r Rotor) Matrix() num.Matrix {
	n := r.mv.ndim
	out := num.Identity(n)
	for j := 0; j < n; j++ {
		col := r.Apply(num.Unit(n, j+1))
		for i := 0; i < n; i++ {
			out.Set(i, j, col[i])
		}
	}
	return out
}

// Fixes reports whether the rotation leaves v unchanged within Eps.
func (r Rotor) Fixes(v num.Vector) bool {
	return r.Apply(v).ApproxEq(v)
}

// Order returns the smallest k in [1, limit] with r^k equal to the
// identity transform, or 0 when no such k exists.
func (r Rotor) Order(limit int) int {
	id := IdentityRotor(r.mv.ndim)
	acc := r
	for k := 1; k <= limit; k++ {
		if acc.ApproxEq(id) {
			return k
		}
		acc = acc.Mul(r)
	}
	return 0
}

// ApproxEq reports equality of the underlying transforms: the rotors are
// coefficient-wise equal up to an overall sign.
func (r Rotor) ApproxEq(s Rotor) bool {
	return r.mv.ApproxEq(s.mv) || r.mv.ApproxEq(s.mv.Scale(-1))
}

// Multivector exposes the underlying even multivector.
func (r Rotor) Multivector() Multivector { return r.mv }
