package shape

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// SliceOptions controls slicing edge cases.
type SliceOptions struct {
	// CoplanarSkip leaves a cell coplanar with the cut untouched instead
	// of failing with ErrAmbiguousCut.
	CoplanarSkip bool
}

// Slice cuts every cell crossed by each hyperplane, in insertion order,
// into two closed convex cells sharing the new cut face. The cut face is
// not a sticker. The whole call is staged on a scratch complex and
// swapped in only on success.
func (c *Complex) Slice(planes ...cga.Hyperplane) error {
	return c.SliceOpts(SliceOptions{}, planes...)
}

// SliceOpts is Slice with explicit options.
func (c *Complex) SliceOpts(opts SliceOptions, planes ...cga.Hyperplane) error {
	if c.state != Open {
		return ErrBuilderClosed
	}
	scratch := c.clone()
	for _, h := range planes {
		h, err := normalized(h)
		if err != nil {
			return err
		}
		if scratch.knownPlane(h) {
			scratch.diags.warnf(WarnDuplicateFacet, "slice plane %v duplicates an existing plane", h)
			continue
		}
		if err := scratch.sliceOne(h, opts, NoFacet); err != nil {
			return err
		}
		scratch.planes = append(scratch.planes, h)
		scratch.sliced = true
	}
	c.swap(scratch)
	return nil
}

// sliceOne applies a single cut to every cell. cutFacetID tags the new
// cut faces when slicing on behalf of a carve; it is NoFacet for a plain
// slice.
func (c *Complex) sliceOne(h cga.Hyperplane, opts SliceOptions, cutFacetID int) error {
	s := newSlicer(c, h, cutFacetID)
	var cells []FaceID
	for _, cell := range c.cells {
		hasMinus, hasPlus, allOn := s.classify(cell)
		switch {
		case allOn:
			if !opts.CoplanarSkip {
				return fmt.Errorf("%w: cell %d", ErrAmbiguousCut, cell)
			}
			cells = append(cells, cell)
		case hasMinus && hasPlus:
			r := s.split(cell)
			cells = append(cells, r.minus, r.plus)
		default:
			cells = append(cells, cell)
		}
	}
	c.cells = cells
	return nil
}

// splitResult is the outcome of cutting one face: the part in the
// negative half-space, the part in the positive half-space, and the face
// shared on the cut itself. Absent parts are NoFace.
type splitResult struct {
	minus, plus, cut FaceID
}

// slicer cuts faces by a single hyperplane, memoizing per-face results so
// faces shared between cells are split exactly once.
type slicer struct {
	c          *Complex
	h          cga.Hyperplane
	cutFacetID int
	memo       map[FaceID]splitResult
	sides      map[FaceID]int
}

func newSlicer(c *Complex, h cga.Hyperplane, cutFacetID int) *slicer {
	return &slicer{
		c:          c,
		h:          h,
		cutFacetID: cutFacetID,
		memo:       map[FaceID]splitResult{},
		sides:      map[FaceID]int{},
	}
}

// side returns the epsilon-tolerant sign of the vertex distance: a vertex
// with |signed distance| <= Eps is on the plane and is shared between the
// halves.
func (s *slicer) side(v FaceID) int {
	if d, ok := s.sides[v]; ok {
		return d
	}
	d := num.Sign(s.h.SignedDistance(s.c.ar.face(v).Point))
	s.sides[v] = d
	return d
}

// classify reports which sides of the plane a face's vertices occupy.
func (s *slicer) classify(f FaceID) (hasMinus, hasPlus, allOn bool) {
	allOn = true
	for _, v := range s.c.ar.face(f).Verts {
		switch s.side(v) {
		case -1:
			hasMinus = true
			allOn = false
		case 1:
			hasPlus = true
			allOn = false
		}
	}
	return hasMinus, hasPlus, allOn
}

// split cuts face f by the plane. The caller must have established that f
// genuinely straddles; faces on one side are handled by the recursion
// itself.
func (s *slicer) split(f FaceID) splitResult {
	if r, ok := s.memo[f]; ok {
		return r
	}
	face := s.c.ar.face(f)
	var r splitResult
	switch {
	case face.Grade == 0:
		switch s.side(f) {
		case -1:
			r = splitResult{minus: f, plus: NoFace, cut: NoFace}
		case 1:
			r = splitResult{minus: NoFace, plus: f, cut: NoFace}
		default:
			r = splitResult{minus: f, plus: f, cut: f}
		}
	default:
		hasMinus, hasPlus, allOn := s.classify(f)
		switch {
		case allOn:
			r = splitResult{minus: f, plus: f, cut: f}
		case !hasPlus:
			r = splitResult{minus: f, plus: NoFace, cut: s.contact(f)}
		case !hasMinus:
			r = splitResult{minus: NoFace, plus: f, cut: s.contact(f)}
		case face.Grade == 1:
			r = s.splitEdge(f)
		default:
			r = s.splitGeneral(f)
		}
	}
	s.memo[f] = r
	return r
}

// splitEdge cuts a straddling edge, introducing (or sharing) the
// intersection vertex.
func (s *slicer) splitEdge(f FaceID) splitResult {
	face := s.c.ar.face(f)
	v1, v2 := face.Children[0], face.Children[1]
	if s.side(v1) > 0 {
		v1, v2 = v2, v1
	}
	p1 := s.c.ar.face(v1).Point
	p2 := s.c.ar.face(v2).Point
	d1 := s.h.SignedDistance(p1)
	d2 := s.h.SignedDistance(p2)
	t := d1 / (d1 - d2)
	p := p1.Add(p2.Sub(p1).Scale(t))
	nv := s.findOrAddVertex(p)
	minus := s.c.ar.addFace(1, []FaceID{v1, nv})
	plus := s.c.ar.addFace(1, []FaceID{nv, v2})
	return splitResult{minus: minus, plus: plus, cut: nv}
}

// splitGeneral cuts a straddling face of grade >= 2: children are split
// recursively, each split child contributes its cut to the one new
// (grade-1)-face on the plane, and the two halves share that new face.
func (s *slicer) splitGeneral(f FaceID) splitResult {
	face := s.c.ar.face(f)
	grade := face.Grade
	var minusCh, plusCh, cutCh []FaceID
	seenCut := map[FaceID]struct{}{}
	for _, child := range face.Children {
		cr := s.split(child)
		if cr.minus != NoFace {
			minusCh = append(minusCh, cr.minus)
		}
		if cr.plus != NoFace {
			plusCh = append(plusCh, cr.plus)
		}
		// Only contributions of the right grade form the new cut face's
		// boundary; a face touching the plane in a lower-grade contact
		// (a polygon grazing it at one vertex) is already covered by its
		// neighbors' cuts.
		if cr.cut != NoFace && s.c.ar.face(cr.cut).Grade == grade-2 {
			if _, ok := seenCut[cr.cut]; !ok {
				seenCut[cr.cut] = struct{}{}
				cutCh = append(cutCh, cr.cut)
			}
		}
	}

	cut := s.c.ar.addFace(grade-1, cutCh)
	if grade-1 == s.c.ndim-1 {
		cf := s.c.ar.face(cut)
		cf.Plane = s.h
		cf.HasPlane = true
		cf.FacetID = s.cutFacetID
	}

	minus := s.c.ar.addFace(grade, append(minusCh, cut))
	plus := s.c.ar.addFace(grade, append(plusCh, cut))
	// A split face inherits its parent's supporting plane, orientation
	// and carve tag.
	if face.HasPlane {
		for _, id := range []FaceID{minus, plus} {
			nf := s.c.ar.face(id)
			nf.Plane = face.Plane
			nf.HasPlane = true
			nf.FacetID = face.FacetID
		}
	}
	return splitResult{minus: minus, plus: plus, cut: cut}
}

// contact returns the maximal face of f lying wholly on the plane, or
// NoFace when f only approaches it. It is the cut contribution of a face
// that does not itself straddle.
func (s *slicer) contact(f FaceID) FaceID {
	face := s.c.ar.face(f)
	onAll := true
	for _, v := range face.Verts {
		if s.side(v) != 0 {
			onAll = false
			break
		}
	}
	if onAll {
		return f
	}
	best := NoFace
	bestVerts := 0
	if face.Grade == 0 {
		return NoFace
	}
	for _, child := range face.Children {
		cand := s.contact(child)
		if cand == NoFace {
			continue
		}
		if n := len(s.c.ar.face(cand).Verts); n > bestVerts {
			best, bestVerts = cand, n
		}
	}
	return best
}

// findOrAddVertex dedupes new intersection vertices by epsilon equality;
// the first coordinates encountered win.
func (s *slicer) findOrAddVertex(p num.Vector) FaceID {
	for id := range s.c.ar.faces {
		f := &s.c.ar.faces[id]
		if f.Grade == 0 && f.Point.ApproxEq(p) {
			return FaceID(id)
		}
	}
	return s.c.ar.addVertex(p)
}
