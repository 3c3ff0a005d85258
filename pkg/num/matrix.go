package num

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense square matrix of kernel dimension N, backed by
// gonum's mat.Dense. It represents linear transforms (reflections,
// rotations) acting on Vector by left multiplication.
type Matrix struct {
	d *mat.Dense
}

// Identity returns the n-by-n identity matrix.
func Identity(n int) Matrix {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return Matrix{d: d}
}

// NewMatrix returns an n-by-n matrix from row-major data. data may be nil
// for a zero matrix.
func NewMatrix(n int, data []float64) Matrix {
	return Matrix{d: mat.NewDense(n, n, data)}
}

// Reflection returns the Householder reflection through the mirror
// hyperplane with unit normal m: I - 2 m mᵀ.
func Reflection(m Vector) Matrix {
	n := len(m)
	out := Identity(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.d.Set(i, j, out.d.At(i, j)-2*m[i]*m[j])
		}
	}
	return out
}

// Dim returns the dimension of the (square) matrix.
func (a Matrix) Dim() int {
	r, _ := a.d.Dims()
	return r
}

// At returns the (i, j) element.
func (a Matrix) At(i, j int) float64 { return a.d.At(i, j) }

// Set assigns the (i, j) element.
func (a Matrix) Set(i, j int, v float64) { a.d.Set(i, j, v) }

// Mul returns the matrix product a * b.
func (a Matrix) Mul(b Matrix) Matrix {
	n := a.Dim()
	out := mat.NewDense(n, n, nil)
	out.Mul(a.d, b.d)
	return Matrix{d: out}
}

// Apply returns a * v.
func (a Matrix) Apply(v Vector) Vector {
	n := a.Dim()
	if len(v) != n {
		panic("num: dimension mismatch")
	}
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += a.d.At(i, j) * v[j]
		}
		out[i] = sum
	}
	return out
}

// Transpose returns aᵀ.
func (a Matrix) Transpose() Matrix {
	n := a.Dim()
	out := mat.NewDense(n, n, nil)
	out.Copy(a.d.T())
	return Matrix{d: out}
}

// Inverse returns a⁻¹ via LU with partial pivoting. ok is false when a is
// singular within working precision.
func (a Matrix) Inverse() (Matrix, bool) {
	n := a.Dim()
	var lu mat.LU
	lu.Factorize(a.d)
	if ApproxZero(lu.Det()) {
		return Matrix{}, false
	}
	out := mat.NewDense(n, n, nil)
	if err := lu.SolveTo(out, false, identityDense(n)); err != nil {
		return Matrix{}, false
	}
	return Matrix{d: out}, true
}

// Det returns the determinant of a.
func (a Matrix) Det() float64 {
	var lu mat.LU
	lu.Factorize(a.d)
	return lu.Det()
}

// ApproxEq reports element-wise epsilon equality.
func (a Matrix) ApproxEq(b Matrix) bool {
	n := a.Dim()
	if b.Dim() != n {
		return false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !ApproxEq(a.d.At(i, j), b.d.At(i, j)) {
				return false
			}
		}
	}
	return true
}

// Solve solves a x = b for a single right-hand side via LU with partial
// pivoting. ok is false when a is singular within working precision.
func (a Matrix) Solve(b Vector) (Vector, bool) {
	n := a.Dim()
	if len(b) != n {
		panic("num: dimension mismatch")
	}
	var lu mat.LU
	lu.Factorize(a.d)
	if ApproxZero(lu.Det()) {
		return nil, false
	}
	dst := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(dst, false, mat.NewVecDense(n, b)); err != nil {
		return nil, false
	}
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		out[i] = dst.AtVec(i)
	}
	return out, true
}

func identityDense(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}

// GramSchmidt orthonormalizes the given vectors with the modified
// Gram–Schmidt process, dropping vectors whose residual is within Eps of
// zero. The returned basis spans the same subspace; its length is the rank.
func GramSchmidt(vs []Vector) []Vector {
	var basis []Vector
	for _, v := range vs {
		u := v.Clone()
		for _, b := range basis {
			u = u.Sub(b.Scale(u.Dot(b)))
		}
		if n := u.Norm(); n > Eps {
			basis = append(basis, u.Scale(1/n))
		}
	}
	return basis
}

// AffineRank returns the dimension of the affine hull of the given points:
// -1 for no points, 0 for a single point, and so on.
func AffineRank(pts []Vector) int {
	if len(pts) == 0 {
		return -1
	}
	diffs := make([]Vector, 0, len(pts)-1)
	for _, p := range pts[1:] {
		diffs = append(diffs, p.Sub(pts[0]))
	}
	return len(GramSchmidt(diffs))
}

// RotationBetween returns the matrix of the minimal rotation taking unit
// vector a to unit vector b. When a and b are opposite within Eps there is
// no unique minimal rotation and ok is false.
func RotationBetween(a, b Vector) (Matrix, bool) {
	n := len(a)
	c := a.Dot(b)
	if ApproxEq(c, -1) {
		return Matrix{}, false
	}
	if ApproxEq(c, 1) {
		return Identity(n), true
	}
	// Rotation in the plane spanned by a and b, identity on the
	// orthogonal complement (Rodrigues generalized to N dimensions).
	u := a.Clone()
	w := b.Sub(a.Scale(c))
	w, _ = w.Normalize()
	s := math.Sqrt(1 - c*c)
	out := Identity(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := out.At(i, j)
			r += (c-1)*(u[i]*u[j]+w[i]*w[j]) + s*(w[i]*u[j]-u[i]*w[j])
			out.Set(i, j, r)
		}
	}
	return out, true
}
