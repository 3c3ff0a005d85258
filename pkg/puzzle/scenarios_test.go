package puzzle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/coxeter"
	"github.com/chazu/hypercut/pkg/num"
)

// TestHypercube334 builds the 3x3x3x3: carve the eight coordinate
// hyperplanes of {4,3,3}, slice them at ±1/3, and attach one order-4
// twist per axis.
func TestHypercube334(t *testing.T) {
	sym, err := coxeter.New(4, 3, 3)
	require.NoError(t, err)
	face, err := sym.WythoffUnit("ooox")
	require.NoError(t, err)
	orbit, err := sym.Orbit(face)
	require.NoError(t, err)
	require.Len(t, orbit, 8)

	b, err := NewBuilder("hypercube3", 4)
	require.NoError(t, err)
	dirs := make([]num.Vector, len(orbit))
	for i, p := range orbit {
		dirs[i] = p.Image(0)
	}
	require.NoError(t, b.CarvePoles(dirs...))
	for _, d := range dirs {
		require.NoError(t, b.Slice(cga.Hyperplane{Normal: d, Offset: 1.0 / 3}))
	}
	axes, err := b.AddAxes(dirs, []float64{1.0 / 3, -1.0 / 3}, AxisOptions{})
	require.NoError(t, err)
	for _, ax := range axes {
		u, v := perpPair(t, ax.Direction)
		rot, err := cga.RotorFromPlaneAngle(u, v, math.Pi/2)
		require.NoError(t, err)
		_, err = b.AddTwist(ax.Name, rot, TwistOptions{})
		require.NoError(t, err)
	}

	pz, err := b.Finish()
	require.NoError(t, err)

	require.Len(t, pz.Pieces, 81)
	require.Len(t, pz.Stickers, 216)
	require.Len(t, pz.Twists, 8)

	// Corner pieces carry four stickers in 4D.
	hist := map[int]int{}
	for _, p := range pz.Pieces {
		hist[len(p.Stickers)]++
	}
	require.Equal(t, 16, hist[4])

	// Every twist is a bijective permutation of order 4: Finish already
	// verified bijectivity; the order is a rotor property.
	for _, tw := range pz.Twists {
		require.Equal(t, 4, tw.Rotor.Order(8), "twist %s", tw.Name)
	}
}

// perpPair returns two orthonormal vectors perpendicular to dir.
func perpPair(t *testing.T, dir num.Vector) (num.Vector, num.Vector) {
	t.Helper()
	seeds := []num.Vector{dir}
	for i := 0; i < len(dir); i++ {
		seeds = append(seeds, num.Unit(len(dir), i+1))
	}
	basis := num.GramSchmidt(seeds)
	require.GreaterOrEqual(t, len(basis), 3)
	return basis[1], basis[2]
}

// TestMegaminx builds the dodecahedral puzzle: carve the 12 face poles
// of {5,3} at distance 1, slice each at 1/φ, twists of order 5.
func TestMegaminx(t *testing.T) {
	if testing.Short() {
		t.Skip("megaminx build is slow")
	}
	sym, err := coxeter.New(5, 3)
	require.NoError(t, err)
	face, err := sym.WythoffUnit("oox")
	require.NoError(t, err)
	orbit, err := sym.Orbit(face)
	require.NoError(t, err)
	require.Len(t, orbit, 12)

	b, err := NewBuilder("megaminx", 3)
	require.NoError(t, err)
	dirs := make([]num.Vector, len(orbit))
	for i, p := range orbit {
		dirs[i] = p.Image(0)
	}
	require.NoError(t, b.CarvePoles(dirs...))
	phi := (1 + math.Sqrt(5)) / 2
	for _, d := range dirs {
		require.NoError(t, b.Slice(cga.Hyperplane{Normal: d, Offset: 1 / phi}))
	}

	axes, err := b.AddAxes(dirs, []float64{1 / phi}, AxisOptions{})
	require.NoError(t, err)
	require.Len(t, axes, 12)
	for _, ax := range axes {
		u, v := perpPair(t, ax.Direction)
		rot, err := cga.RotorFromPlaneAngle(u, v, 2*math.Pi/5)
		require.NoError(t, err)
		_, err = b.AddTwist(ax.Name, rot, TwistOptions{})
		require.NoError(t, err)
	}

	pz, err := b.Finish()
	require.NoError(t, err)

	// 62 visible pieces plus the hidden core.
	require.Len(t, pz.Pieces, 63)
	// 12 centers, 30 edges, 20 corners by sticker count.
	hist := map[int]int{}
	for _, p := range pz.Pieces {
		hist[len(p.Stickers)]++
	}
	require.Equal(t, map[int]int{0: 1, 1: 12, 2: 30, 3: 20}, hist)
	require.Len(t, pz.Stickers, 12+60+60)

	for _, tw := range pz.Twists {
		require.Equal(t, 5, tw.Rotor.Order(10), "twist %s", tw.Name)
	}
}
