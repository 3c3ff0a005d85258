package coxeter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/hypercut/pkg/num"
)

func TestNewValidation(t *testing.T) {
	_, err := New()
	require.ErrorIs(t, err, ErrInvalidSchlafli)
	_, err = New(1, 3)
	require.ErrorIs(t, err, ErrInvalidSchlafli)
}

func TestInfiniteGroups(t *testing.T) {
	// {7,3} is hyperbolic, {7,3,3} likewise, {4,4} affine: all rejected
	// up front, without any BFS.
	for _, word := range [][]int{{7, 3}, {7, 3, 3}, {4, 4}, {3, 6}} {
		_, err := New(word...)
		require.ErrorIs(t, err, ErrInfiniteGroup, "word %v", word)
	}
}

func TestGroupOrders(t *testing.T) {
	cases := []struct {
		word  []int
		order int
	}{
		{[]int{4}, 8},      // square dihedral
		{[]int{7}, 14},     // heptagonal dihedral
		{[]int{3, 3}, 24},  // tetrahedral
		{[]int{4, 3}, 48},  // cubic
		{[]int{5, 3}, 120}, // icosahedral
	}
	for _, c := range cases {
		g, err := New(c.word...)
		require.NoError(t, err)
		order, err := g.Order()
		require.NoError(t, err)
		require.Equal(t, c.order, order, "word %v", c.word)

		chiral, err := g.Chiral()
		require.NoError(t, err)
		require.Len(t, chiral, c.order/2, "chiral subgroup of %v", c.word)
	}
}

func TestWythoff(t *testing.T) {
	g, err := New(4, 3)
	require.NoError(t, err)

	// The face pole of the cube: fixed by the first two mirrors.
	v, err := g.WythoffUnit("oox")
	require.NoError(t, err)
	require.True(t, v.ApproxEq(num.Vector{0, 0, 1}))

	// Pattern validation.
	_, err = g.Wythoff("ox")
	require.ErrorIs(t, err, ErrInvalidWythoff)
	_, err = g.Wythoff("oxy")
	require.ErrorIs(t, err, ErrInvalidWythoff)
	_, err = g.WythoffUnit("ooo")
	require.ErrorIs(t, err, ErrInvalidWythoff)

	// The x-mirror distances of a wythoff point are exactly one.
	w, err := g.Wythoff("xox")
	require.NoError(t, err)
	mirrors := g.Mirrors()
	require.InDelta(t, 1.0, w.Dot(mirrors[0]), 1e-9)
	require.InDelta(t, 0.0, w.Dot(mirrors[1]), 1e-9)
	require.InDelta(t, 1.0, w.Dot(mirrors[2]), 1e-9)
}

func TestOrbitDeterministicOrder(t *testing.T) {
	g, err := New(4, 3)
	require.NoError(t, err)
	seed, err := g.WythoffUnit("oox")
	require.NoError(t, err)

	want := []num.Vector{
		{0, 0, 1}, {0, 1, 0}, {1, 0, 0},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
	}
	for run := 0; run < 3; run++ {
		orbit, err := g.Orbit(seed)
		require.NoError(t, err)
		require.Len(t, orbit, len(want))
		for i, p := range orbit {
			require.True(t, p.Image(0).ApproxEq(want[i]),
				"run %d: orbit[%d] = %v, want %v", run, i, p.Image(0), want[i])
		}
	}
}

func TestOrbitSize(t *testing.T) {
	g, err := New(5, 3)
	require.NoError(t, err)

	// |orbit| = |G| / |stabilizer|: 12 dodecahedral faces, 20 vertices,
	// 30 edges.
	face, err := g.WythoffUnit("oox")
	require.NoError(t, err)
	orbit, err := g.Orbit(face)
	require.NoError(t, err)
	require.Len(t, orbit, 12)

	vertex, err := g.WythoffUnit("xoo")
	require.NoError(t, err)
	orbit, err = g.Orbit(vertex)
	require.NoError(t, err)
	require.Len(t, orbit, 20)

	edge, err := g.WythoffUnit("oxo")
	require.NoError(t, err)
	orbit, err = g.Orbit(edge)
	require.NoError(t, err)
	require.Len(t, orbit, 30)
}

func TestOrbitTransportsTuples(t *testing.T) {
	g, err := New(4, 3)
	require.NoError(t, err)
	a, _ := g.WythoffUnit("oox")
	b, _ := g.WythoffUnit("xoo")

	orbit, err := g.Orbit(a, b)
	require.NoError(t, err)
	// Both seeds travel under the same element, so every pair keeps the
	// seeds' mutual angle.
	wantDot := a.Dot(b)
	for _, p := range orbit {
		require.InDelta(t, wantDot, p.Image(0).Dot(p.Image(1)), 1e-9)
		require.True(t, p.Element.Apply(a).ApproxEq(p.Image(0)))
		require.True(t, p.Element.Apply(b).ApproxEq(p.Image(1)))
	}
	// Tuple orbit is governed by the joint stabilizer: here only the
	// mirror fixing both seeds survives, giving 48/2 elements.
	require.Equal(t, 24, len(orbit))
}

func TestThru(t *testing.T) {
	g, err := New(4, 3)
	require.NoError(t, err)

	// A single reflection is its own inverse.
	r, err := g.Thru(1)
	require.NoError(t, err)
	v := num.Vector{0.3, 0.5, 0.7}
	require.True(t, r.Mul(r).Apply(v).ApproxEq(v))
	require.False(t, r.Even())

	// thru(1,2) is a rotation of order 4 (the mirrors meet at π/4).
	rot, err := g.Thru(1, 2)
	require.NoError(t, err)
	require.True(t, rot.Even())
	acc := rot
	for i := 0; i < 3; i++ {
		acc = acc.Mul(rot)
	}
	require.True(t, acc.Apply(v).ApproxEq(v))

	_, err = g.Thru(0)
	require.ErrorIs(t, err, ErrMirrorIndex)
	_, err = g.Thru(4)
	require.ErrorIs(t, err, ErrMirrorIndex)
}

func TestSeedDimensionMismatch(t *testing.T) {
	g, err := New(4, 3)
	require.NoError(t, err)
	_, err = g.Orbit(num.Vector{1, 0})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
