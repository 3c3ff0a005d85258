// Package symbolic implements the small exact scalar ring used when
// constructing Coxeter mirror bases: finite sums of rational coefficients
// times products of square roots and cosines of rational multiples of π.
//
// Entries of a Coxeter Gram matrix are -cos(π/p) for small integer p.
// For p ≤ 6 and the p = 5 family these reduce to radicals (√2, √3, √5);
// larger p keeps an exact cos(aπ/b) basis factor. Products stay in the
// ring via product-to-sum, so Gram matrices are exact until they are
// lowered to floating point for factorization.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// key identifies one basis factor √Rad · cos(Num·π/Den). A pure rational
// term has Rad == 1 and Num == 0, Den == 1. Rad is always squarefree and
// the angle is always normalized to [0, π] in lowest terms.
type key struct {
	Rad int
	Num int
	Den int
}

var one = key{Rad: 1, Num: 0, Den: 1}

// Expr is an element of the ring: a finite sum of rational multiples of
// basis factors. The zero value is the number zero. Expr values are
// immutable; all operations return new values.
type Expr struct {
	terms map[key]*big.Rat
}

// FromInt returns the integer n as an Expr.
func FromInt(n int64) Expr {
	return FromRat(big.NewRat(n, 1))
}

// FromRat returns the rational q as an Expr.
func FromRat(q *big.Rat) Expr {
	e := Expr{terms: map[key]*big.Rat{}}
	e.accum(one, q)
	return e.normalize()
}

// Sqrt returns √d for a positive integer d.
func Sqrt(d int) Expr {
	if d <= 0 {
		panic("symbolic: Sqrt of non-positive integer")
	}
	out, rad := sqFree(d)
	e := Expr{terms: map[key]*big.Rat{}}
	e.accum(key{Rad: rad, Num: 0, Den: 1}, big.NewRat(out, 1))
	return e.normalize()
}

// CosPi returns cos(num·π/den) exactly.
func CosPi(num, den int) Expr {
	if den == 0 {
		panic("symbolic: CosPi with zero denominator")
	}
	e := Expr{terms: map[key]*big.Rat{}}
	e.accum(key{Rad: 1, Num: num, Den: den}, big.NewRat(1, 1))
	return e.normalize()
}

// Add returns a + b.
func (a Expr) Add(b Expr) Expr {
	e := Expr{terms: map[key]*big.Rat{}}
	for k, c := range a.terms {
		e.accum(k, c)
	}
	for k, c := range b.terms {
		e.accum(k, c)
	}
	return e.normalize()
}

// Neg returns -a.
func (a Expr) Neg() Expr {
	e := Expr{terms: map[key]*big.Rat{}}
	for k, c := range a.terms {
		e.accum(k, new(big.Rat).Neg(c))
	}
	return e.normalize()
}

// Sub returns a - b.
func (a Expr) Sub(b Expr) Expr { return a.Add(b.Neg()) }

// Mul returns a * b. Radicals multiply by radicand factoring; cosine
// factors combine by the product-to-sum identity, so the result is exact.
func (a Expr) Mul(b Expr) Expr {
	e := Expr{terms: map[key]*big.Rat{}}
	for ka, ca := range a.terms {
		for kb, cb := range b.terms {
			c := new(big.Rat).Mul(ca, cb)
			outside, rad := sqFree(ka.Rad * kb.Rad)
			c.Mul(c, big.NewRat(outside, 1))
			mulCos(&e, rad, ka, kb, c)
		}
	}
	return e.normalize()
}

// mulCos accumulates √rad · cos(A) · cos(B) · c into e, where A and B are
// the angle parts of ka and kb.
func mulCos(e *Expr, rad int, ka, kb key, c *big.Rat) {
	aZero := ka.Num == 0
	bZero := kb.Num == 0
	switch {
	case aZero && bZero:
		e.accum(key{Rad: rad, Num: 0, Den: 1}, c)
	case aZero:
		e.accum(key{Rad: rad, Num: kb.Num, Den: kb.Den}, c)
	case bZero:
		e.accum(key{Rad: rad, Num: ka.Num, Den: ka.Den}, c)
	default:
		// cos A cos B = (cos(A+B) + cos(A-B)) / 2
		half := new(big.Rat).Mul(c, big.NewRat(1, 2))
		d := lcm(ka.Den, kb.Den)
		na := ka.Num * (d / ka.Den)
		nb := kb.Num * (d / kb.Den)
		e.accum(key{Rad: rad, Num: na + nb, Den: d}, half)
		e.accum(key{Rad: rad, Num: na - nb, Den: d}, new(big.Rat).Set(half))
	}
}

// Float lowers the expression to a float64.
func (a Expr) Float() float64 {
	var sum float64
	for k, c := range a.terms {
		f, _ := c.Float64()
		f *= math.Sqrt(float64(k.Rad))
		if k.Num != 0 {
			f *= math.Cos(math.Pi * float64(k.Num) / float64(k.Den))
		}
		sum += f
	}
	return sum
}

// IsZero reports whether a is exactly zero.
func (a Expr) IsZero() bool { return len(a.terms) == 0 }

// String renders the expression for diagnostics, with deterministic term
// order.
func (a Expr) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	keys := make([]key, 0, len(a.terms))
	for k := range a.terms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Rad != keys[j].Rad {
			return keys[i].Rad < keys[j].Rad
		}
		if keys[i].Den != keys[j].Den {
			return keys[i].Den < keys[j].Den
		}
		return keys[i].Num < keys[j].Num
	})
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(a.terms[k].RatString())
		if k.Rad != 1 {
			fmt.Fprintf(&b, "·√%d", k.Rad)
		}
		if k.Num != 0 {
			fmt.Fprintf(&b, "·cos(%dπ/%d)", k.Num, k.Den)
		}
	}
	return b.String()
}

// accum adds c times the (possibly unnormalized) basis factor k into the
// term map, first canonicalizing the angle and rewriting known cosines
// into radicals.
func (e *Expr) accum(k key, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	if e.terms == nil {
		e.terms = map[key]*big.Rat{}
	}
	k = canonAngle(k)
	if repl, ok := cosTable(k.Num, k.Den); ok {
		for _, t := range repl {
			cc := new(big.Rat).Mul(c, t.coef)
			outside, rad := sqFree(k.Rad * t.rad)
			cc.Mul(cc, big.NewRat(outside, 1))
			e.addTerm(key{Rad: rad, Num: 0, Den: 1}, cc)
		}
		return
	}
	e.addTerm(k, c)
}

func (e *Expr) addTerm(k key, c *big.Rat) {
	if prev, ok := e.terms[k]; ok {
		prev.Add(prev, c)
	} else {
		e.terms[k] = new(big.Rat).Set(c)
	}
}

// normalize drops zero coefficients.
func (e Expr) normalize() Expr {
	for k, c := range e.terms {
		if c.Sign() == 0 {
			delete(e.terms, k)
		}
	}
	return e
}

// canonAngle reduces the angle of k to lowest terms in [0, π] using
// periodicity, evenness, and cos(2π - θ) = cos θ, all sign-preserving.
func canonAngle(k key) key {
	num, den := k.Num, k.Den
	if den < 0 {
		num, den = -num, -den
	}
	if num < 0 {
		num = -num // cos is even
	}
	num %= 2 * den // cos has period 2π
	if num > den { // reflect (π, 2π) down to (0, π)
		num = 2*den - num
	}
	if g := gcd(num, den); g > 1 {
		num /= g
		den /= g
	}
	if num == 0 {
		den = 1
	}
	return key{Rad: k.Rad, Num: num, Den: den}
}

// radTerm is one radical summand of an expanded cosine value.
type radTerm struct {
	coef *big.Rat
	rad  int
}

// cosTable returns the exact radical expansion of cos(num·π/den) for the
// denominators that have one, assuming the angle is canonical.
func cosTable(num, den int) ([]radTerm, bool) {
	switch den {
	case 1:
		if num == 0 {
			return []radTerm{{big.NewRat(1, 1), 1}}, true
		}
		return []radTerm{{big.NewRat(-1, 1), 1}}, true // cos π
	case 2:
		return nil, true // cos(π/2) = 0: empty expansion
	case 3:
		if num == 1 {
			return []radTerm{{big.NewRat(1, 2), 1}}, true
		}
		return []radTerm{{big.NewRat(-1, 2), 1}}, true
	case 4:
		if num == 1 {
			return []radTerm{{big.NewRat(1, 2), 2}}, true
		}
		return []radTerm{{big.NewRat(-1, 2), 2}}, true
	case 5:
		switch num {
		case 1:
			return []radTerm{{big.NewRat(1, 4), 1}, {big.NewRat(1, 4), 5}}, true
		case 2:
			return []radTerm{{big.NewRat(-1, 4), 1}, {big.NewRat(1, 4), 5}}, true
		case 3:
			return []radTerm{{big.NewRat(1, 4), 1}, {big.NewRat(-1, 4), 5}}, true
		default: // 4
			return []radTerm{{big.NewRat(-1, 4), 1}, {big.NewRat(-1, 4), 5}}, true
		}
	case 6:
		if num == 1 {
			return []radTerm{{big.NewRat(1, 2), 3}}, true
		}
		return []radTerm{{big.NewRat(-1, 2), 3}}, true
	}
	return nil, false
}

// sqFree factors n = outside² · rad with rad squarefree.
func sqFree(n int) (outside int64, rad int) {
	if n == 0 {
		return 0, 1
	}
	out := int64(1)
	for p := 2; p*p <= n; p++ {
		for n%(p*p) == 0 {
			n /= p * p
			out *= int64(p)
		}
	}
	return out, n
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int { return a / gcd(a, b) * b }
