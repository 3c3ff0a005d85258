package cga

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/hypercut/pkg/num"
)

func TestHyperplaneBasics(t *testing.T) {
	h, err := NewHyperplane(num.Vector{0, 0, 2}, 4)
	require.NoError(t, err)
	require.True(t, h.Normal.ApproxEq(num.Vector{0, 0, 1}))
	require.InDelta(t, 2.0, h.Offset, 1e-12)

	_, err = NewHyperplane(num.Vector{0, 0, 0}, 1)
	require.ErrorIs(t, err, ErrDegenerateHyperplane)

	require.Equal(t, Inside, h.Side(num.Vector{0, 0, 1}))
	require.Equal(t, On, h.Side(num.Vector{5, -3, 2}))
	require.Equal(t, Outside, h.Side(num.Vector{0, 0, 3}))
}

func TestHyperplaneCanonical(t *testing.T) {
	h := Hyperplane{Normal: num.Vector{0, -1, 0}, Offset: -2}
	c := h.Canonical()
	require.True(t, c.Normal.ApproxEq(num.Vector{0, 1, 0}))
	require.InDelta(t, 2.0, c.Offset, 1e-12)
	// Same flat either way.
	require.True(t, h.Coincident(c))
	require.False(t, h.ApproxEq(c))
}

func TestPolePlane(t *testing.T) {
	h, err := PolePlane(num.Vector{0, 3, 0})
	require.NoError(t, err)
	require.True(t, h.Normal.ApproxEq(num.Vector{0, 1, 0}))
	require.InDelta(t, 3.0, h.Offset, 1e-12)
}

func TestManifoldSides(t *testing.T) {
	plane := PlaneManifold(Hyperplane{Normal: num.Vector{1, 0, 0}, Offset: 1})
	require.Equal(t, Inside, plane.Side(num.Vector{0, 5, 5}))
	require.Equal(t, On, plane.Side(num.Vector{1, -2, 0}))
	require.Equal(t, Outside, plane.Side(num.Vector{2, 0, 0}))

	sphere := SphereManifold(num.Vector{0, 0, 0}, 2)
	require.Equal(t, Inside, sphere.Side(num.Vector{1, 0, 0}))
	require.Equal(t, On, sphere.Side(num.Vector{0, 2, 0}))
	require.Equal(t, Outside, sphere.Side(num.Vector{3, 0, 0}))

	space := Space(3)
	require.Equal(t, Inside, space.Side(num.Vector{100, 100, 100}))
}

func TestClosestPoint(t *testing.T) {
	plane := PlaneManifold(Hyperplane{Normal: num.Vector{0, 0, 1}, Offset: 0})
	require.True(t, plane.ClosestPoint(num.Vector{2, 3, 7}).ApproxEq(num.Vector{2, 3, 0}))

	sphere := SphereManifold(num.Vector{0, 0, 0}, 2)
	require.True(t, sphere.ClosestPoint(num.Vector{0, 0.5, 0}).ApproxEq(num.Vector{0, 2, 0}))
	// Center probe picks the deterministic +e₁ representative.
	require.True(t, sphere.ClosestPoint(num.Vector{0, 0, 0}).ApproxEq(num.Vector{2, 0, 0}))
}

func TestWhichSide(t *testing.T) {
	cut := PlaneManifold(Hyperplane{Normal: num.Vector{1, 0, 0}, Offset: 1})

	// Whole space: plain point classification.
	require.Equal(t, Inside, WhichSide(Space(3), cut, num.Vector{0, 0, 0}))
	require.Equal(t, Outside, WhichSide(Space(3), cut, num.Vector{2, 0, 0}))
	require.Equal(t, On, WhichSide(Space(3), cut, num.Vector{1, 9, 9}))

	// The z=0 plane as the self-manifold: classification follows the
	// projection of the probe onto it.
	m := PlaneManifold(Hyperplane{Normal: num.Vector{0, 0, 1}, Offset: 0})
	require.Equal(t, Outside, WhichSide(m, cut, num.Vector{2, 0, 10}))
	require.Equal(t, Inside, WhichSide(m, cut, num.Vector{0.5, -1, -4}))

	// A sphere self-manifold: the nearest sphere point decides.
	s := SphereManifold(num.Vector{0, 0, 0}, 2)
	require.Equal(t, Outside, WhichSide(s, cut, num.Vector{0.1, 0, 0}))
	require.Equal(t, Inside, WhichSide(s, cut, num.Vector{-0.1, 0, 0}))
}

func TestSphereBlade(t *testing.T) {
	s := SphereManifold(num.Vector{1, 0, 0}, 2)
	// The conformal inner product with a point embedding reproduces the
	// sign of the sphere classification.
	for _, tc := range []struct {
		p    num.Vector
		side Side
	}{
		{num.Vector{1, 1, 0}, Inside},
		{num.Vector{3, 0, 0}, On},
		{num.Vector{5, 0, 0}, Outside},
	} {
		d := Point(tc.p).ScalarProduct(s.Blade())
		require.Equal(t, tc.side, Side(num.Sign(d)), "probe %v", tc.p)
	}
}
