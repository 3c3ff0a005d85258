package cga

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/hypercut/pkg/num"
)

func TestRotorFromVectors(t *testing.T) {
	a := num.Vector{1, 0, 0}
	b, _ := num.Vector{1, 1, 0}.Normalize()
	r, err := RotorFromVectors(a, b)
	require.NoError(t, err)
	require.True(t, r.Apply(a).ApproxEq(b))
	// Fixed axis: the orthogonal complement of the rotation plane.
	require.True(t, r.Fixes(num.Vector{0, 0, 1}))

	_, err = RotorFromVectors(a, a.Neg())
	require.ErrorIs(t, err, ErrNoRotor)
}

func TestRotorFromPlaneAngle(t *testing.T) {
	// Quarter turn in the xy-plane takes x to y.
	r, err := RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{0, 1, 0}, math.Pi/2)
	require.NoError(t, err)
	require.True(t, r.Apply(num.Vector{1, 0, 0}).ApproxEq(num.Vector{0, 1, 0}))
	require.True(t, r.Apply(num.Vector{0, 1, 0}).ApproxEq(num.Vector{-1, 0, 0}))
	require.True(t, r.Fixes(num.Vector{0, 0, 1}))
	require.Equal(t, 4, r.Order(8))

	// Degenerate spanning pair.
	_, err = RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{2, 0, 0}, 1)
	require.ErrorIs(t, err, ErrNoRotor)
}

func TestRotorComposition(t *testing.T) {
	r, _ := RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{0, 1, 0}, math.Pi/3)
	s := r.Mul(r).Mul(r) // half turn
	require.True(t, s.Apply(num.Vector{1, 0, 0}).ApproxEq(num.Vector{-1, 0, 0}))
	// Inverse undoes.
	require.True(t, r.Mul(r.Reverse()).ApproxEq(IdentityRotor(3)))
}

func TestRotorDoubleCover(t *testing.T) {
	r, _ := RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{0, 1, 0}, math.Pi/2)
	neg := Rotor{mv: r.mv.Scale(-1)}
	require.True(t, r.ApproxEq(neg))
}

func TestRotorFromMirrors(t *testing.T) {
	// Two mirror reflections compose to a rotation by twice the mirror
	// angle: x-mirror then the 45° mirror give a quarter turn.
	m1 := num.Vector{1, 0, 0}
	m2, _ := num.Vector{1, 1, 0}.Normalize()
	r, err := RotorFromMirrors([]num.Vector{m1, m2})
	require.NoError(t, err)
	require.Equal(t, 4, r.Order(8))

	_, err = RotorFromMirrors([]num.Vector{m1})
	require.Error(t, err)
}

func TestRotorMatrix(t *testing.T) {
	r, _ := RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{0, 1, 0}, math.Pi/2)
	m := r.Matrix()
	require.True(t, m.Apply(num.Vector{1, 0, 0}).ApproxEq(num.Vector{0, 1, 0}))
	require.InDelta(t, 1.0, m.Det(), 1e-9)
}

func TestRotorConjugate(t *testing.T) {
	// Transport a rotation about z by the reflection swapping x and z:
	// the result rotates about x.
	rz, _ := RotorFromPlaneAngle(num.Vector{1, 0, 0}, num.Vector{0, 1, 0}, math.Pi/2)
	mirror, _ := num.Vector{1, 0, -1}.Normalize()
	rx := rz.Conjugate(FromVector(mirror))
	require.True(t, rx.Fixes(num.Vector{1, 0, 0}))
	require.Equal(t, 4, rx.Order(8))
}

func TestRotor4D(t *testing.T) {
	r, err := RotorFromPlaneAngle(num.Vector{0, 1, 0, 0}, num.Vector{0, 0, 1, 0}, math.Pi/2)
	require.NoError(t, err)
	require.True(t, r.Fixes(num.Vector{1, 0, 0, 0}))
	require.True(t, r.Fixes(num.Vector{0, 0, 0, 1}))
	require.Equal(t, 4, r.Order(8))
}
