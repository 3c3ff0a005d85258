// Package coxeter builds finite reflection groups from Schläfli words and
// enumerates orbits of seed vectors under them. Mirror bases are
// constructed exactly in the symbolic ring and lowered to floating point;
// orbit enumeration is a deterministic BFS over the Cayley graph.
package coxeter

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
	"github.com/chazu/hypercut/pkg/symbolic"
)

// DefaultOrbitCap bounds BFS expansion; exceeding it reports
// ErrInfiniteGroup rather than hanging. Every group of puzzle interest has
// order well below it.
const DefaultOrbitCap = 100000

// Group is a finite Coxeter group presented by a Schläfli word
// {p₁, …, p_{N-1}}, realized as N unit mirror normals in R^N.
type Group struct {
	word    []int
	mirrors []num.Vector
	cap     int
}

// New builds the group for the given Schläfli word. The ambient dimension
// is len(word)+1. A word whose Gram matrix is not positive definite
// describes an infinite group and is rejected with ErrInfiniteGroup.
func New(word ...int) (*Group, error) {
	if len(word) == 0 {
		return nil, fmt.Errorf("%w: empty word", ErrInvalidSchlafli)
	}
	for _, p := range word {
		if p < 2 {
			return nil, fmt.Errorf("%w: entry %d < 2", ErrInvalidSchlafli, p)
		}
	}
	mirrors, ok := symbolic.Mirrors(word)
	if !ok {
		return nil, fmt.Errorf("%w: {%v}", ErrInfiniteGroup, word)
	}
	return &Group{word: append([]int(nil), word...), mirrors: mirrors, cap: DefaultOrbitCap}, nil
}

// SetCap overrides the BFS expansion cap.
func (g *Group) SetCap(cap int) { g.cap = cap }

// Ndim returns the dimension of the mirror space.
func (g *Group) Ndim() int { return len(g.mirrors) }

// Word returns the Schläfli word.
func (g *Group) Word() []int { return append([]int(nil), g.word...) }

// Mirrors returns the unit mirror normals.
func (g *Group) Mirrors() []num.Vector {
	out := make([]num.Vector, len(g.mirrors))
	for i, m := range g.mirrors {
		out[i] = m.Clone()
	}
	return out
}

// Element is a group element: a word in the mirror generators together
// with its matrix and its versor (the geometric product of the mirror
// vectors), so vectors transform by the matrix and rotors transport by
// versor conjugation.
type Element struct {
	word   []int
	matrix num.Matrix
	versor cga.Multivector
}

// Identity returns the identity element.
func (g *Group) Identity() Element {
	n := g.Ndim()
	return Element{matrix: num.Identity(n), versor: cga.Scalar(n, 1)}
}

// Reflection returns the generator reflecting in mirror i (1-based).
func (g *Group) Reflection(i int) (Element, error) {
	if i < 1 || i > len(g.mirrors) {
		return Element{}, fmt.Errorf("%w: %d", ErrMirrorIndex, i)
	}
	m := g.mirrors[i-1]
	return Element{
		word:   []int{i},
		matrix: num.Reflection(m),
		versor: cga.FromVector(m),
	}, nil
}

// Thru returns the product of mirror reflections in the given order:
// Thru(1, 2) reflects first in mirror 1, then in mirror 2.
func (g *Group) Thru(idx ...int) (Element, error) {
	e := g.Identity()
	for _, i := range idx {
		r, err := g.Reflection(i)
		if err != nil {
			return Element{}, err
		}
		e = r.Mul(e)
	}
	return e, nil
}

// Mul returns the composition e∘f (apply f first).
func (e Element) Mul(f Element) Element {
	return Element{
		word:   append(append([]int(nil), e.word...), f.word...),
		matrix: e.matrix.Mul(f.matrix),
		versor: e.versor.Gp(f.versor),
	}
}

// Apply returns the image of v.
func (e Element) Apply(v num.Vector) num.Vector { return e.matrix.Apply(v) }

// Matrix returns the element's matrix.
func (e Element) Matrix() num.Matrix { return e.matrix }

// Versor returns the element's versor.
func (e Element) Versor() cga.Multivector { return e.versor }

// Word returns the generator word that produced the element.
func (e Element) Word() []int { return append([]int(nil), e.word...) }

// Even reports whether the element is a rotation (even word length).
func (e Element) Even() bool { return len(e.word)%2 == 0 }

// TransportRotor returns the rotor conjugated by the element, moving a
// twist rotor along with its axis.
func (e Element) TransportRotor(r cga.Rotor) cga.Rotor {
	return r.Conjugate(e.versor)
}
