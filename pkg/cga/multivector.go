// Package cga implements the projective/conformal primitives of the shape
// kernel: sparse multivectors over the conformal basis of N-dimensional
// Euclidean space, oriented blades, rotors, hyperplanes, and the
// which-side predicate used for region classification.
//
// The conformal algebra of R^N has N+2 generators: e₁…e_N and the two
// null-cone generators e₊ (square +1) and e₋ (square -1). Planes and
// spheres are both grade-1 vectors in this algebra, which lets one
// predicate serve every manifold kind.
package cga

import (
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"github.com/chazu/hypercut/pkg/num"
)

// Multivector is a sparse multivector: a map from basis-blade bit masks to
// coefficients. Bit i (0-based) of a mask is the generator eᵢ₊₁ for
// i < ndim, e₊ for i == ndim, and e₋ for i == ndim+1.
//
// Multivectors are immutable; all operations return new values.
type Multivector struct {
	ndim  int
	terms map[uint32]float64
}

// Zero returns the zero multivector for the given Euclidean dimension.
func Zero(ndim int) Multivector {
	return Multivector{ndim: ndim, terms: map[uint32]float64{}}
}

// Scalar returns the scalar s as a multivector.
func Scalar(ndim int, s float64) Multivector {
	m := Zero(ndim)
	m.add(0, s)
	return m
}

// FromVector embeds a Euclidean vector as a grade-1 multivector.
func FromVector(v num.Vector) Multivector {
	m := Zero(len(v))
	for i, c := range v {
		m.add(1<<uint(i), c)
	}
	return m
}

// Point returns the conformal (null) embedding of the Euclidean point p:
// e₀ + p + ½|p|²e∞.
func Point(p num.Vector) Multivector {
	m := FromVector(p)
	m = m.Add(Origin(len(p)))
	m = m.Add(Infinity(len(p)).Scale(p.Dot(p) / 2))
	return m
}

// Origin returns e₀ = (e₋ - e₊)/2 for the given dimension.
func Origin(ndim int) Multivector {
	m := Zero(ndim)
	m.add(1<<uint(ndim+1), 0.5)
	m.add(1<<uint(ndim), -0.5)
	return m
}

// Infinity returns e∞ = e₋ + e₊ for the given dimension.
func Infinity(ndim int) Multivector {
	m := Zero(ndim)
	m.add(1<<uint(ndim+1), 1)
	m.add(1<<uint(ndim), 1)
	return m
}

// Pseudoscalar returns the full conformal pseudoscalar e₁…e_N e₊ e₋.
func Pseudoscalar(ndim int) Multivector {
	m := Zero(ndim)
	m.add(uint32(1<<uint(ndim+2))-1, 1)
	return m
}

// EuclideanPseudoscalar returns e₁…e_N.
func EuclideanPseudoscalar(ndim int) Multivector {
	m := Zero(ndim)
	m.add(uint32(1<<uint(ndim))-1, 1)
	return m
}

// Ndim returns the Euclidean dimension the multivector lives over.
func (m Multivector) Ndim() int { return m.ndim }

// metric returns the square of generator i: -1 for e₋, +1 otherwise.
func (m Multivector) metric(i int) float64 {
	if i == m.ndim+1 {
		return -1
	}
	return 1
}

func (m *Multivector) add(mask uint32, c float64) {
	if c == 0 {
		return
	}
	if m.terms == nil {
		m.terms = map[uint32]float64{}
	}
	m.terms[mask] += c
	if num.ApproxZero(m.terms[mask]) {
		delete(m.terms, mask)
	}
}

// reorderSign counts the transpositions needed to merge the generators of
// masks a and b into canonical order; the result is +1 or -1.
func reorderSign(a, b uint32) float64 {
	a >>= 1
	count := 0
	for a != 0 {
		count += bits.OnesCount32(a & b)
		a >>= 1
	}
	if count&1 == 0 {
		return 1
	}
	return -1
}

// Add returns m + o.
func (m Multivector) Add(o Multivector) Multivector {
	out := Zero(m.ndim)
	for k, c := range m.terms {
		out.add(k, c)
	}
	for k, c := range o.terms {
		out.add(k, c)
	}
	return out
}

// Sub returns m - o.
func (m Multivector) Sub(o Multivector) Multivector {
	return m.Add(o.Scale(-1))
}

// Scale returns s·m.
func (m Multivector) Scale(s float64) Multivector {
	out := Zero(m.ndim)
	for k, c := range m.terms {
		out.add(k, s*c)
	}
	return out
}

// Gp returns the geometric product m·o.
func (m Multivector) Gp(o Multivector) Multivector {
	out := Zero(m.ndim)
	for ka, ca := range m.terms {
		for kb, cb := range o.terms {
			sign := reorderSign(ka, kb)
			common := ka & kb
			for common != 0 {
				i := bits.TrailingZeros32(common)
				sign *= m.metric(i)
				common &= common - 1
			}
			out.add(ka^kb, sign*ca*cb)
		}
	}
	return out
}

// Op returns the outer (wedge) product m ∧ o: the grade-raising part of
// the geometric product.
func (m Multivector) Op(o Multivector) Multivector {
	out := Zero(m.ndim)
	for ka, ca := range m.terms {
		for kb, cb := range o.terms {
			if ka&kb != 0 {
				continue
			}
			out.add(ka^kb, reorderSign(ka, kb)*ca*cb)
		}
	}
	return out
}

// Lc returns the left contraction m ⨼ o: terms of the geometric product
// whose grade is grade(o) - grade(m).
func (m Multivector) Lc(o Multivector) Multivector {
	out := Zero(m.ndim)
	for ka, ca := range m.terms {
		ga := bits.OnesCount32(ka)
		for kb, cb := range o.terms {
			gb := bits.OnesCount32(kb)
			if ka&^kb != 0 || gb-ga != bits.OnesCount32(ka^kb) {
				continue
			}
			sign := reorderSign(ka, kb)
			common := ka & kb
			for common != 0 {
				i := bits.TrailingZeros32(common)
				sign *= m.metric(i)
				common &= common - 1
			}
			out.add(ka^kb, sign*ca*cb)
		}
	}
	return out
}

// Rc returns the right contraction m ⨽ o.
func (m Multivector) Rc(o Multivector) Multivector {
	out := Zero(m.ndim)
	for ka, ca := range m.terms {
		for kb, cb := range o.terms {
			if kb&^ka != 0 {
				continue
			}
			sign := reorderSign(ka, kb)
			common := ka & kb
			for common != 0 {
				i := bits.TrailingZeros32(common)
				sign *= m.metric(i)
				common &= common - 1
			}
			out.add(ka^kb, sign*ca*cb)
		}
	}
	return out
}

// ScalarProduct returns the scalar part of m·o.
func (m Multivector) ScalarProduct(o Multivector) float64 {
	var sum float64
	for ka, ca := range m.terms {
		cb, ok := o.terms[ka]
		if !ok {
			continue
		}
		sign := reorderSign(ka, ka)
		common := ka
		for common != 0 {
			i := bits.TrailingZeros32(common)
			sign *= m.metric(i)
			common &= common - 1
		}
		sum += sign * ca * cb
	}
	return sum
}

// Reverse returns the reverse of m: each grade-k part is scaled by
// (-1)^(k(k-1)/2).
func (m Multivector) Reverse() Multivector {
	out := Zero(m.ndim)
	for k, c := range m.terms {
		g := bits.OnesCount32(k)
		if (g*(g-1)/2)&1 == 1 {
			c = -c
		}
		out.add(k, c)
	}
	return out
}

// Grade returns the grade-g part of m.
func (m Multivector) Grade(g int) Multivector {
	out := Zero(m.ndim)
	for k, c := range m.terms {
		if bits.OnesCount32(k) == g {
			out.add(k, c)
		}
	}
	return out
}

// MaxGrade returns the highest grade with a non-zero term, or -1 for the
// zero multivector.
func (m Multivector) MaxGrade() int {
	g := -1
	for k := range m.terms {
		if n := bits.OnesCount32(k); n > g {
			g = n
		}
	}
	return g
}

// ScalarPart returns the grade-0 coefficient.
func (m Multivector) ScalarPart() float64 { return m.terms[0] }

// Norm returns √|⟨m·reverse(m)⟩₀|.
func (m Multivector) Norm() float64 {
	return math.Sqrt(math.Abs(m.ScalarProduct(m.Reverse())))
}

// Dual returns m ⨼ I⁻¹ against the full conformal pseudoscalar I.
func (m Multivector) Dual() Multivector {
	i := Pseudoscalar(m.ndim)
	// I⁻¹ = reverse(I) / (I·reverse(I)); the conformal metric contributes
	// the e₋ sign.
	inv := i.Reverse().Scale(1 / i.ScalarProduct(i.Reverse()))
	return m.Lc(inv)
}

// Undual inverts Dual.
func (m Multivector) Undual() Multivector {
	return m.Lc(Pseudoscalar(m.ndim))
}

// VectorPart extracts the Euclidean grade-1 components.
func (m Multivector) VectorPart() num.Vector {
	v := num.NewVector(m.ndim)
	for i := 0; i < m.ndim; i++ {
		v[i] = m.terms[1<<uint(i)]
	}
	return v
}

// IsZero reports whether every coefficient is within Eps of zero.
func (m Multivector) IsZero() bool {
	for _, c := range m.terms {
		if !num.ApproxZero(c) {
			return false
		}
	}
	return true
}

// ApproxEq reports coefficient-wise epsilon equality.
func (m Multivector) ApproxEq(o Multivector) bool {
	return m.Sub(o).IsZero()
}

// String renders the multivector with deterministic term order, for
// diagnostics and tests.
func (m Multivector) String() string {
	if len(m.terms) == 0 {
		return "0"
	}
	masks := make([]uint32, 0, len(m.terms))
	for k := range m.terms {
		masks = append(masks, k)
	}
	sort.Slice(masks, func(i, j int) bool {
		gi, gj := bits.OnesCount32(masks[i]), bits.OnesCount32(masks[j])
		if gi != gj {
			return gi < gj
		}
		return masks[i] < masks[j]
	})
	var b strings.Builder
	for n, k := range masks {
		if n > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(formatCoef(m.terms[k]))
		b.WriteString(m.basisName(k))
	}
	return b.String()
}

func (m Multivector) basisName(mask uint32) string {
	if mask == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < m.ndim+2; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		switch {
		case i < m.ndim:
			b.WriteString("e")
			b.WriteByte(byte('1' + i))
		case i == m.ndim:
			b.WriteString("e+")
		default:
			b.WriteString("e-")
		}
	}
	return b.String()
}

func formatCoef(c float64) string {
	return strconv.FormatFloat(c, 'g', 6, 64)
}
