package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePiece implements Membership from literal layer and facet sets.
type fakePiece struct {
	layers map[string]int // axis -> innermost layer the piece reaches
	facets map[int]bool
}

func (f fakePiece) InLayer(axis string, i int) bool {
	l, ok := f.layers[axis]
	return ok && l <= i
}

func (f fakePiece) OnFacet(id int) bool { return f.facets[id] }

func TestPrimitives(t *testing.T) {
	p := fakePiece{
		layers: map[string]int{"R": 1, "U": 2},
		facets: map[int]bool{0: true},
	}
	require.True(t, All().Eval(p))
	require.False(t, None().Eval(p))
	require.True(t, Layer("R", 1).Eval(p))
	require.True(t, Layer("R", 2).Eval(p))
	require.False(t, Layer("U", 1).Eval(p))
	require.False(t, Layer("F", 1).Eval(p))
	require.True(t, Facet(0).Eval(p))
	require.False(t, Facet(3).Eval(p))
}

func TestCombinators(t *testing.T) {
	p := fakePiece{
		layers: map[string]int{"R": 1, "U": 1},
		facets: map[int]bool{2: true},
	}
	r1 := Layer("R", 1)
	u1 := Layer("U", 1)
	f1 := Layer("F", 1)

	require.True(t, And(r1, u1).Eval(p))
	require.False(t, And(r1, f1).Eval(p))
	require.True(t, Or(f1, u1).Eval(p))
	require.False(t, Or(f1, None()).Eval(p))
	require.True(t, Not(f1).Eval(p))
	require.True(t, Diff(r1, f1).Eval(p))
	require.False(t, Diff(r1, u1).Eval(p))
	// De Morgan spot check.
	require.Equal(t,
		Not(And(r1, u1)).Eval(p),
		Or(Not(r1), Not(u1)).Eval(p))
}

func TestString(t *testing.T) {
	e := Diff(And(Layer("R", 1), Not(Facet(2))), Or(All(), None()))
	require.Equal(t, "((R(1) & ~facet(2)) - (all | none))", e.String())
}
