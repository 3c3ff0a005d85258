package shape

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// Carve intersects the shape with the inside half-space of each given
// hyperplane. Each surviving facet coincident with a carving hyperplane
// is tagged as carved (sticker-bearing) and assigned a stable facet id in
// carve order. Epsilon-equal carving hyperplanes collapse to a single
// facet with a DuplicateFacet warning. Carving away everything fails with
// ErrEmptyShape and leaves the complex unchanged.
func (c *Complex) Carve(planes ...cga.Hyperplane) error {
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
			scratch.diags.warnf(WarnDuplicateFacet, "carve plane %v duplicates an existing plane", h)
			continue
		}
		id := len(scratch.carved)
		scratch.carved = append(scratch.carved, Facet{ID: id, Plane: h})
		if scratch.sliced {
			if err := scratch.carveSliced(h, id); err != nil {
				return err
			}
			scratch.planes = append(scratch.planes, h)
		} else {
			// Pristine shape: recompute the whole lattice from the
			// H-representation.
			refs := make([]planeRef, len(scratch.carved))
			for i, f := range scratch.carved {
				refs[i] = planeRef{plane: f.Plane, facetID: f.ID}
			}
			if err := scratch.rebuild(refs); err != nil {
				return err
			}
		}
	}
	c.swap(scratch)
	return nil
}

// carveSliced carves a shape that already has internal cuts: every cell
// is clipped against the plane, outside parts are dropped, and faces on
// the plane become the carved facet.
func (c *Complex) carveSliced(h cga.Hyperplane, facetID int) error {
	s := newSlicer(c, h, facetID)
	var cells []FaceID
	for _, cell := range c.cells {
		hasMinus, hasPlus, allOn := s.classify(cell)
		switch {
		case allOn:
			continue // zero-volume cell on the plane carves away
		case hasMinus && hasPlus:
			r := s.split(cell)
			cells = append(cells, r.minus)
		case hasMinus:
			// Kept whole; a boundary face resting on the plane becomes
			// part of the carved facet.
			c.tagContact(cell, s, facetID)
			cells = append(cells, cell)
		default:
			continue // entirely outside
		}
	}
	if len(cells) == 0 {
		return fmt.Errorf("%w: carve by %v", ErrEmptyShape, h)
	}
	c.cells = cells
	return nil
}

func (c *Complex) tagContact(cell FaceID, s *slicer, facetID int) {
	for _, child := range c.ar.face(cell).Children {
		if contact := s.contact(child); contact == child {
			f := c.ar.face(child)
			f.Plane = s.h
			f.HasPlane = true
			f.FacetID = facetID
		}
	}
}

// normalized re-normalizes a hyperplane, rejecting a near-zero normal.
func normalized(h cga.Hyperplane) (cga.Hyperplane, error) {
	n := h.Normal.Norm()
	if num.ApproxZero(n) {
		return cga.Hyperplane{}, cga.ErrDegenerateHyperplane
	}
	if num.ApproxEq(n, 1) {
		return h, nil
	}
	return cga.Hyperplane{Normal: h.Normal.Scale(1 / n), Offset: h.Offset / n}, nil
}
