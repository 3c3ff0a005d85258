package num

import (
	"math"
	"testing"
)

func TestSign(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1e-7, 0},
		{-1e-7, 0},
		{1e-5, 1},
		{-1e-5, -1},
		{3.5, 1},
		{-2, -1},
	}
	for _, c := range cases {
		if got := Sign(c.in); got != c.want {
			t.Errorf("Sign(%g) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestApproxEq(t *testing.T) {
	if !ApproxEq(1, 1+1e-8) {
		t.Error("1 and 1+1e-8 should be approximately equal")
	}
	if ApproxEq(1, 1.001) {
		t.Error("1 and 1.001 should not be approximately equal")
	}
	// Relative scaling: large magnitudes widen the tolerance.
	if !ApproxEq(1e6, 1e6+0.1) {
		t.Error("1e6 and 1e6+0.1 should be approximately equal under relative tolerance")
	}
}

func TestVectorOps(t *testing.T) {
	v := Vector{1, 2, 3}
	w := Vector{4, 5, 6}
	if got := v.Add(w); !got.ApproxEq(Vector{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := v.Sub(w); !got.ApproxEq(Vector{-3, -3, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := v.Dot(w); !ApproxEq(got, 32) {
		t.Errorf("Dot = %g", got)
	}
	if got := v.Cross(w); !got.ApproxEq(Vector{-3, 6, -3}) {
		t.Errorf("Cross = %v", got)
	}
	u, ok := Vector{3, 0, 4}.Normalize()
	if !ok || !u.ApproxEq(Vector{0.6, 0, 0.8}) {
		t.Errorf("Normalize = %v, %v", u, ok)
	}
	if _, ok := (Vector{0, 0, 0}).Normalize(); ok {
		t.Error("Normalize of zero vector should report ok=false")
	}
}

func TestUnit(t *testing.T) {
	if got := Unit(3, 2); !got.ApproxEq(Vector{0, 1, 0}) {
		t.Errorf("Unit(3,2) = %v", got)
	}
	if got := Unit(3, -3); !got.ApproxEq(Vector{0, 0, -1}) {
		t.Errorf("Unit(3,-3) = %v", got)
	}
}

func TestReflect(t *testing.T) {
	m := Vector{1, 0, 0}
	if got := (Vector{2, 3, 4}).Reflect(m); !got.ApproxEq(Vector{-2, 3, 4}) {
		t.Errorf("Reflect = %v", got)
	}
	// Reflection is an involution.
	v := Vector{0.3, -0.8, 0.52}
	mir, _ := Vector{1, 2, -1}.Normalize()
	if got := v.Reflect(mir).Reflect(mir); !got.ApproxEq(v) {
		t.Errorf("double reflect = %v, want %v", got, v)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Vector{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if got := Centroid(pts); !got.ApproxEq(Vector{1, 1}) {
		t.Errorf("Centroid = %v", got)
	}
	if Centroid(nil) != nil {
		t.Error("Centroid of no points should be nil")
	}
}

func TestGramSchmidt(t *testing.T) {
	basis := GramSchmidt([]Vector{
		{1, 1, 0},
		{1, 0, 0},
		{2, 1, 0}, // dependent on the first two
	})
	if len(basis) != 2 {
		t.Fatalf("rank = %d, want 2", len(basis))
	}
	if !ApproxEq(basis[0].Dot(basis[1]), 0) {
		t.Error("basis not orthogonal")
	}
	for _, b := range basis {
		if !ApproxEq(b.Norm(), 1) {
			t.Errorf("basis vector %v not unit", b)
		}
	}
}

func TestAffineRank(t *testing.T) {
	cases := []struct {
		pts  []Vector
		want int
	}{
		{nil, -1},
		{[]Vector{{1, 2, 3}}, 0},
		{[]Vector{{0, 0, 0}, {1, 0, 0}}, 1},
		{[]Vector{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, 1},
		{[]Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, 2},
		{[]Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 3},
	}
	for i, c := range cases {
		if got := AffineRank(c.pts); got != c.want {
			t.Errorf("case %d: AffineRank = %d, want %d", i, got, c.want)
		}
	}
}

func TestMatrixInverse(t *testing.T) {
	a := NewMatrix(3, []float64{
		2, 0, 0,
		0, 0, 1,
		0, -1, 0,
	})
	inv, ok := a.Inverse()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	if got := a.Mul(inv); !got.ApproxEq(Identity(3)) {
		t.Errorf("a * a^-1 != I: %v", got)
	}
	singular := NewMatrix(2, []float64{1, 2, 2, 4})
	if _, ok := singular.Inverse(); ok {
		t.Error("singular matrix should not invert")
	}
}

func TestMatrixSolve(t *testing.T) {
	a := NewMatrix(3, []float64{
		1, 0, 0,
		0, 1, 0,
		1, 1, 1,
	})
	x, ok := a.Solve(Vector{2, 3, 9})
	if !ok {
		t.Fatal("solve failed")
	}
	if !x.ApproxEq(Vector{2, 3, 4}) {
		t.Errorf("Solve = %v", x)
	}
}

func TestReflectionMatrix(t *testing.T) {
	m, _ := Vector{1, 1, 0}.Normalize()
	r := Reflection(m)
	// Det of a reflection is -1.
	if !ApproxEq(r.Det(), -1) {
		t.Errorf("Det = %g, want -1", r.Det())
	}
	// Matches the vector-level reflection.
	v := Vector{0.2, 0.7, -0.4}
	if got := r.Apply(v); !got.ApproxEq(v.Reflect(m)) {
		t.Errorf("Reflection.Apply = %v, want %v", got, v.Reflect(m))
	}
}

func TestRotationBetween(t *testing.T) {
	a := Vector{1, 0, 0}
	b, _ := Vector{1, 1, 0}.Normalize()
	r, ok := RotationBetween(a, b)
	if !ok {
		t.Fatal("rotation should exist")
	}
	if got := r.Apply(a); !got.ApproxEq(b) {
		t.Errorf("rotation sends a to %v, want %v", got, b)
	}
	if !ApproxEq(r.Det(), 1) {
		t.Errorf("Det = %g, want 1", r.Det())
	}
	// Fixes the orthogonal complement of span(a, b).
	z := Vector{0, 0, 1}
	if got := r.Apply(z); !got.ApproxEq(z) {
		t.Errorf("rotation moves %v to %v", z, got)
	}
	if _, ok := RotationBetween(a, a.Neg()); ok {
		t.Error("opposite vectors have no unique minimal rotation")
	}
	if r, ok := RotationBetween(a, a); !ok || !r.ApproxEq(Identity(3)) {
		t.Error("identical vectors should give the identity")
	}
}

func TestRotationBetweenHigherDim(t *testing.T) {
	a := Vector{1, 0, 0, 0}
	b := Vector{0, 0, 0, 1}
	r, ok := RotationBetween(a, b)
	if !ok {
		t.Fatal("rotation should exist")
	}
	if got := r.Apply(a); !got.ApproxEq(b) {
		t.Errorf("rotation sends a to %v", got)
	}
	if got := math.Abs(r.Det() - 1); got > Eps {
		t.Errorf("det deviates by %g", got)
	}
}
