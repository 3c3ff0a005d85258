package coxeter

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/hypercut/pkg/num"
)

// OrbitPoint is one entry of an orbit enumeration: the group element and
// the images of every seed under it. Auxiliary rotors travel with an
// orbit through Element.TransportRotor.
type OrbitPoint struct {
	Element Element
	Images  []num.Vector
}

// Image returns the image of seed i.
func (p OrbitPoint) Image(i int) num.Vector { return p.Images[i] }

// Orbit enumerates the simultaneous orbit of the seed vectors by BFS over
// the Cayley graph, expanding generators in mirror order. Two points are
// the same orbit element when every image pair is epsilon-equal; the
// first element reached wins, so the enumeration order is a pure function
// of the group and the seeds. Expansion beyond the cap reports
// ErrInfiniteGroup.
func (g *Group) Orbit(seeds ...num.Vector) ([]OrbitPoint, error) {
	n := g.Ndim()
	for _, s := range seeds {
		if len(s) != n {
			return nil, fmt.Errorf("%w: seed has dimension %d, group has %d",
				ErrDimensionMismatch, len(s), n)
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	start := OrbitPoint{Element: g.Identity(), Images: cloneAll(seeds)}
	found := []OrbitPoint{start}
	index := newVecIndex()
	index.insert(start.Images[0], 0)

	for head := 0; head < len(found); head++ {
		cur := found[head]
		for i := 1; i <= n; i++ {
			refl, _ := g.Reflection(i)
			next := OrbitPoint{
				Element: refl.Mul(cur.Element),
				Images:  reflectAll(cur.Images, g.mirrors[i-1]),
			}
			if g.seen(index, found, next.Images) {
				continue
			}
			index.insert(next.Images[0], len(found))
			found = append(found, next)
			if len(found) > g.cap {
				return nil, fmt.Errorf("%w: orbit exceeded %d points", ErrInfiniteGroup, g.cap)
			}
		}
	}
	return found, nil
}

// seen reports whether an orbit point with these images was already
// reached. Candidates come from a coarse spatial index on the first
// image; each is verified by full epsilon comparison of the image tuple.
func (g *Group) seen(idx *vecIndex, found []OrbitPoint, images []num.Vector) bool {
	for _, cand := range idx.lookup(images[0]) {
		if tupleEq(found[cand].Images, images) {
			return true
		}
	}
	return false
}

// Elements enumerates the whole group, in the same deterministic order as
// Orbit, by tracking a regular point (the interior wythoff point, whose
// stabilizer is trivial).
func (g *Group) Elements() ([]Element, error) {
	regular, err := g.Wythoff(strings.Repeat("x", g.Ndim()))
	if err != nil {
		return nil, err
	}
	orbit, err := g.Orbit(regular)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(orbit))
	for i, p := range orbit {
		out[i] = p.Element
	}
	return out, nil
}

// Chiral returns the rotation subgroup: the elements with even words.
func (g *Group) Chiral() ([]Element, error) {
	all, err := g.Elements()
	if err != nil {
		return nil, err
	}
	var out []Element
	for _, e := range all {
		if e.Even() {
			out = append(out, e)
		}
	}
	return out, nil
}

// Order returns the order of the group.
func (g *Group) Order() (int, error) {
	all, err := g.Elements()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Wythoff solves a mirror-incidence pattern: for each 'o' the vector lies
// on that mirror, for each 'x' its distance to that mirror is one. The
// returned vector is unique for a valid pattern.
func (g *Group) Wythoff(pattern string) (num.Vector, error) {
	n := g.Ndim()
	if len(pattern) != n {
		return nil, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidWythoff, pattern, len(pattern), n)
	}
	rhs := num.NewVector(n)
	for i, c := range pattern {
		switch c {
		case 'o':
			rhs[i] = 0
		case 'x':
			rhs[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidWythoff, pattern)
		}
	}
	m := num.NewMatrix(n, nil)
	for i, mir := range g.mirrors {
		for j, c := range mir {
			m.Set(i, j, c)
		}
	}
	v, ok := m.Solve(rhs)
	if !ok {
		return nil, fmt.Errorf("%w: mirror matrix is singular", ErrInvalidWythoff)
	}
	return v, nil
}

// WythoffUnit returns the wythoff vector normalized to unit length.
func (g *Group) WythoffUnit(pattern string) (num.Vector, error) {
	v, err := g.Wythoff(pattern)
	if err != nil {
		return nil, err
	}
	u, ok := v.Normalize()
	if !ok {
		return nil, fmt.Errorf("%w: pattern fixes only the origin", ErrInvalidWythoff)
	}
	return u, nil
}

func cloneAll(vs []num.Vector) []num.Vector {
	out := make([]num.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

func reflectAll(vs []num.Vector, mirror num.Vector) []num.Vector {
	out := make([]num.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Reflect(mirror)
	}
	return out
}

func tupleEq(a, b []num.Vector) bool {
	for i := range a {
		if !a[i].ApproxEq(b[i]) {
			return false
		}
	}
	return true
}

// vecIndex is a coarse spatial hash used to keep orbit dedup linear. The
// cell size is far above Eps, so epsilon-equal vectors land in the same
// cell or an adjacent one; lookup scans the 3^N neighborhood.
type vecIndex struct {
	cells map[string][]int
}

const vecIndexCell = 1e-3

func newVecIndex() *vecIndex {
	return &vecIndex{cells: map[string][]int{}}
}

func cellOf(v num.Vector) []int {
	c := make([]int, len(v))
	for i, x := range v {
		c[i] = int(math.Floor(x / vecIndexCell))
	}
	return c
}

func cellKey(c []int) string {
	var b strings.Builder
	for _, x := range c {
		fmt.Fprintf(&b, "%d,", x)
	}
	return b.String()
}

func (ix *vecIndex) insert(v num.Vector, id int) {
	k := cellKey(cellOf(v))
	ix.cells[k] = append(ix.cells[k], id)
}

// lookup returns candidate ids in the cell of v and all adjacent cells.
func (ix *vecIndex) lookup(v num.Vector) []int {
	base := cellOf(v)
	var out []int
	offsets := make([]int, len(base))
	for i := range offsets {
		offsets[i] = -1
	}
	for {
		cell := make([]int, len(base))
		for i := range base {
			cell[i] = base[i] + offsets[i]
		}
		out = append(out, ix.cells[cellKey(cell)]...)
		// Advance the odometer over {-1, 0, 1}^N.
		i := 0
		for ; i < len(offsets); i++ {
			offsets[i]++
			if offsets[i] <= 1 {
				break
			}
			offsets[i] = -1
		}
		if i == len(offsets) {
			break
		}
	}
	return out
}
