package symbolic

import (
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/hypercut/pkg/num"
)

// Gram returns the exact Gram matrix of the mirror normals for a Schläfli
// word {p₁, …, p_{n-1}}: G[i][j] = mᵢ·mⱼ = -cos(π/p) where p is the word
// entry for adjacent mirrors and 2 (a right angle) otherwise.
func Gram(word []int) [][]Expr {
	n := len(word) + 1
	g := make([][]Expr, n)
	for i := range g {
		g[i] = make([]Expr, n)
		for j := range g[i] {
			switch {
			case i == j:
				g[i][j] = FromInt(1)
			case j == i+1:
				g[i][j] = CosPi(1, word[i]).Neg()
			case i == j+1:
				g[i][j] = CosPi(1, word[j]).Neg()
			default:
				g[i][j] = FromInt(0) // cos(π/2)
			}
		}
	}
	return g
}

// Mirrors lowers the exact Gram matrix to floating point and
// Cholesky-factorizes it, G = L·Lᵀ. The rows of L are unit mirror normals
// realizing the prescribed pairwise angles. ok is false when the Gram
// matrix is not positive definite, which is exactly the case of a
// non-finite (affine or hyperbolic) Coxeter group.
func Mirrors(word []int) ([]num.Vector, bool) {
	g := Gram(word)
	n := len(g)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, g[i][j].Float())
		}
	}
	var ch mat.Cholesky
	if !ch.Factorize(sym) {
		return nil, false
	}
	// Affine groups sit exactly on the positive-definite boundary;
	// roundoff can let the factorization through with a near-zero pivot.
	if ch.Det() <= num.Eps {
		return nil, false
	}
	l := mat.NewTriDense(n, mat.Lower, nil)
	ch.LTo(l)
	mirrors := make([]num.Vector, n)
	for i := 0; i < n; i++ {
		m := num.NewVector(n)
		for j := 0; j <= i; j++ {
			m[j] = l.At(i, j)
		}
		mirrors[i] = m
	}
	return mirrors, true
}
