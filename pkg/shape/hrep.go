package shape

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// planeRef is one bounding hyperplane of the H-representation, tagged
// with its carved facet id (NoFacet for primordial bounds).
type planeRef struct {
	plane   cga.Hyperplane
	facetID int
}

// rebuild reconstructs the whole lattice from the primordial bounds plus
// the given carved planes. It is the carve path for a complex that has
// not been sliced yet: vertices are recomputed by intersecting N-tuples
// of bounding hyperplanes and filtering by all the others, exactly as the
// resulting faces are the intersections of their bounding planes.
func (c *Complex) rebuild(carves []planeRef) error {
	planes := c.primordialPlanes()
	planes = append(planes, carves...)

	b := &hrepBuilder{ndim: c.ndim, planes: planes, ar: &arena{}, memo: map[string]FaceID{}}
	cell, err := b.build()
	if err != nil {
		return err
	}

	c.ar = b.ar
	c.cells = []FaceID{cell}
	c.planes = nil
	for _, p := range planes {
		c.planes = append(c.planes, p.plane)
	}
	return nil
}

func (c *Complex) primordialPlanes() []planeRef {
	out := make([]planeRef, 0, 2*c.ndim)
	for i := 1; i <= c.ndim; i++ {
		for _, dir := range []int{i, -i} {
			out = append(out, planeRef{
				plane:   cga.Hyperplane{Normal: num.Unit(c.ndim, dir), Offset: PrimordialRadius},
				facetID: NoFacet,
			})
		}
	}
	return out
}

// hrepBuilder constructs a face lattice from a hyperplane list.
type hrepBuilder struct {
	ndim   int
	planes []planeRef
	ar     *arena

	verts []FaceID // arena ids, in discovery order
	on    [][]bool // on[v][p]: vertex v lies on plane p within Eps
	memo  map[string]FaceID
}

// build enumerates vertices and assembles the lattice top-down,
// returning the single full-dimensional cell.
func (b *hrepBuilder) build() (FaceID, error) {
	if err := b.enumerateVertices(); err != nil {
		return NoFace, err
	}
	all := make([]int, len(b.verts))
	for i := range all {
		all[i] = i
	}
	return b.buildFace(b.ndim, all), nil
}

// enumerateVertices solves every N-tuple of planes and keeps the points
// inside all other half-spaces. Coordinates from the first solving tuple
// win; later epsilon-equal solutions are dropped to keep the computation
// stable.
func (b *hrepBuilder) enumerateVertices() error {
	n := b.ndim
	m := len(b.planes)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var pts []num.Vector
	for {
		if p, ok := b.solveTuple(idx); ok && b.inside(p) {
			if !containsPoint(pts, p) {
				pts = append(pts, p)
				b.verts = append(b.verts, b.ar.addVertex(p))
			}
		}
		// Advance the combination odometer.
		i := n - 1
		for i >= 0 && idx[i] == m-n+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < n; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	if len(pts) == 0 {
		return ErrEmptyShape
	}
	if num.AffineRank(pts) < n {
		return fmt.Errorf("%w: shape has no interior", ErrEmptyShape)
	}
	b.on = make([][]bool, len(pts))
	for v, p := range pts {
		b.on[v] = make([]bool, m)
		for j, pr := range b.planes {
			b.on[v][j] = num.Sign(pr.plane.SignedDistance(p)) == 0
		}
	}
	return nil
}

func (b *hrepBuilder) solveTuple(idx []int) (num.Vector, bool) {
	n := b.ndim
	a := num.NewMatrix(n, nil)
	rhs := num.NewVector(n)
	for r, pi := range idx {
		for col, x := range b.planes[pi].plane.Normal {
			a.Set(r, col, x)
		}
		rhs[r] = b.planes[pi].plane.Offset
	}
	return a.Solve(rhs)
}

func (b *hrepBuilder) inside(p num.Vector) bool {
	for _, pr := range b.planes {
		if num.Sign(pr.plane.SignedDistance(p)) > 0 {
			return false
		}
	}
	return true
}

func containsPoint(pts []num.Vector, p num.Vector) bool {
	for _, q := range pts {
		if q.ApproxEq(p) {
			return true
		}
	}
	return false
}

// buildFace materializes the face with the given vertex set (local
// indices) at the given grade, creating its boundary recursively. Faces
// are memoized by vertex set, so shared sub-faces are allocated once.
func (b *hrepBuilder) buildFace(grade int, verts []int) FaceID {
	if grade == 0 {
		return b.verts[verts[0]]
	}
	key := vertKey(verts)
	if id, ok := b.memo[key]; ok {
		return id
	}

	var candidates []boundary
	for p := range b.planes {
		sub := b.vertsOn(verts, p)
		if len(sub) == 0 || len(sub) == len(verts) {
			continue
		}
		if num.AffineRank(b.pointsOf(sub)) != grade-1 {
			continue
		}
		candidates = append(candidates, boundary{plane: p, verts: sub})
	}
	candidates = dedupeMaximal(candidates)

	children := make([]FaceID, 0, len(candidates))
	for _, cand := range candidates {
		child := b.buildFace(grade-1, cand.verts)
		if grade-1 == b.ndim-1 {
			f := b.ar.face(child)
			if !f.HasPlane {
				f.Plane = b.planes[cand.plane].plane
				f.HasPlane = true
				f.FacetID = b.planes[cand.plane].facetID
			}
		}
		children = append(children, child)
	}
	id := b.ar.addFace(grade, children)
	b.memo[key] = id
	return id
}

func (b *hrepBuilder) vertsOn(verts []int, plane int) []int {
	var out []int
	for _, v := range verts {
		if b.on[v][plane] {
			out = append(out, v)
		}
	}
	return out
}

func (b *hrepBuilder) pointsOf(verts []int) []num.Vector {
	out := make([]num.Vector, len(verts))
	for i, v := range verts {
		out[i] = b.ar.face(b.verts[v]).Point
	}
	return out
}

func vertKey(verts []int) string {
	sorted := append([]int(nil), verts...)
	sort.Ints(sorted)
	var sb strings.Builder
	for _, v := range sorted {
		fmt.Fprintf(&sb, "%d,", v)
	}
	return sb.String()
}

// boundary is one boundary-face candidate found during lattice assembly.
type boundary struct {
	plane int
	verts []int
}

// dedupeMaximal drops boundary candidates with duplicate vertex sets and
// candidates strictly contained in another: only maximal vertex sets are
// genuine boundary faces.
func dedupeMaximal(cands []boundary) []boundary {
	var out []boundary
	for i, a := range cands {
		keep := true
		for j, b := range cands {
			if i == j {
				continue
			}
			if subset(a.verts, b.verts) && (len(a.verts) < len(b.verts) || j < i) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, a)
		}
	}
	return out
}

func subset(a, b []int) bool {
	set := map[int]struct{}{}
	for _, x := range b {
		set[x] = struct{}{}
	}
	for _, x := range a {
		if _, ok := set[x]; !ok {
			return false
		}
	}
	return true
}
