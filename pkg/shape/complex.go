// Package shape implements the polytope cell complex at the heart of the
// kernel: a graded lattice of convex faces built by half-space carving,
// cut into pieces by hyperplane slicing, with sticker extraction for the
// faces that lie on carved facets.
//
// All faces live in a single arena and are identified by index; cells
// hold child id lists and parent relations are reconstructed on demand.
// Mutating operations are staged on a scratch copy of the complex and
// swapped in only on success, so an error never leaves a half-cut shape.
package shape

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// PrimordialRadius is the half-width of the primordial hypercube standing
// in for the ambient space. Carving replaces its interior; facets of the
// primordial cube are never stickered.
const PrimordialRadius = 1e4

// State is the builder lifecycle state of a complex.
type State int

const (
	Open State = iota
	Frozen
)

// Facet is a carved, sticker-bearing bounding hyperplane of the shape,
// identified by a stable id assigned in carve order.
type Facet struct {
	ID    int
	Plane cga.Hyperplane
}

// Complex is the mutable cell complex. It starts as the primordial
// hypercube (the stand-in for the whole ambient space), is shrunk by
// Carve and subdivided by Slice, and is frozen by Freeze.
type Complex struct {
	ndim   int
	ar     *arena
	cells  []FaceID
	carved []Facet
	// planes records every hyperplane applied so far, primordial bounds
	// included, for duplicate detection.
	planes []cga.Hyperplane
	sliced bool
	state  State
	diags  *Diagnostics
}

// NewComplex returns the ambient-space complex for the given dimension.
func NewComplex(ndim int) (*Complex, error) {
	if ndim < 2 || ndim > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, ndim)
	}
	c := &Complex{ndim: ndim, diags: &Diagnostics{}}
	if err := c.rebuild(nil); err != nil {
		return nil, err
	}
	return c, nil
}

// Ndim returns the ambient dimension.
func (c *Complex) Ndim() int { return c.ndim }

// State returns the lifecycle state.
func (c *Complex) State() State { return c.state }

// Diagnostics returns the warnings accumulated so far.
func (c *Complex) Diagnostics() *Diagnostics { return c.diags }

// Freeze closes the complex against further mutation.
func (c *Complex) Freeze() { c.state = Frozen }

// Cells returns the ids of the top-grade cells, in stable piece order.
func (c *Complex) Cells() []FaceID {
	return append([]FaceID(nil), c.cells...)
}

// Face returns a read-only view of the face with the given id.
func (c *Complex) Face(id FaceID) Face { return *c.ar.face(id) }

// CellPoints returns the vertex coordinates of a cell.
func (c *Complex) CellPoints(id FaceID) []num.Vector {
	return c.ar.points(c.ar.face(id).Verts)
}

// Centroid returns the vertex centroid of a face: an interior point for
// any full-dimensional cell.
func (c *Complex) Centroid(id FaceID) num.Vector {
	return num.Centroid(c.CellPoints(id))
}

// Facets returns the carved facets in id order.
func (c *Complex) Facets() []Facet {
	return append([]Facet(nil), c.carved...)
}

// FacetByPlane returns the carved facet coincident with h, if any.
func (c *Complex) FacetByPlane(h cga.Hyperplane) (Facet, bool) {
	for _, f := range c.carved {
		if f.Plane.Coincident(h) {
			return f, true
		}
	}
	return Facet{}, false
}

// clone deep-copies the complex for staged operations. Diagnostics are
// shared: warnings recorded on the scratch copy survive a swap.
func (c *Complex) clone() *Complex {
	return &Complex{
		ndim:   c.ndim,
		ar:     c.ar.clone(),
		cells:  append([]FaceID(nil), c.cells...),
		carved: append([]Facet(nil), c.carved...),
		planes: append([]cga.Hyperplane(nil), c.planes...),
		sliced: c.sliced,
		state:  c.state,
		diags:  c.diags,
	}
}

// swap adopts the staged state of o.
func (c *Complex) swap(o *Complex) {
	c.ar = o.ar
	c.cells = o.cells
	c.carved = o.carved
	c.planes = o.planes
	c.sliced = o.sliced
}

// knownPlane reports whether h coincides with a previously applied
// hyperplane.
func (c *Complex) knownPlane(h cga.Hyperplane) bool {
	for _, p := range c.planes {
		if p.Coincident(h) {
			return true
		}
	}
	return false
}

// Validate checks the lattice invariants and returns ErrNonConvexCell or
// ErrOrientationMismatch on the first violation. It is used by tests and
// by the puzzle assembler before freezing.
func (c *Complex) Validate() error {
	for _, cell := range c.cells {
		f := c.ar.face(cell)
		centroid := num.Centroid(c.ar.points(f.Verts))
		for _, child := range f.Children {
			ch := c.ar.face(child)
			if !ch.HasPlane {
				return fmt.Errorf("%w: cell %d facet %d has no plane", ErrOrientationMismatch, cell, child)
			}
			// A facet shared by two cells is outward for one and inward
			// for the other; resolve per cell by the centroid side. A
			// centroid on the plane means a degenerate cell.
			plane, ok := c.outwardPlane(cell, child)
			if !ok {
				return fmt.Errorf("%w: cell %d facet %d", ErrOrientationMismatch, cell, child)
			}
			// Convexity: every cell vertex inside every facet plane.
			for _, v := range f.Verts {
				if num.Sign(plane.SignedDistance(c.ar.face(v).Point)) > 0 {
					return fmt.Errorf("%w: cell %d vertex %d outside facet %d", ErrNonConvexCell, cell, v, child)
				}
			}
		}
		if err := c.validateBoundary(cell); err != nil {
			return err
		}
	}
	return nil
}

// outwardPlane returns the supporting hyperplane of facet oriented
// outward for the given cell. ok is false when the cell centroid lies on
// the plane.
func (c *Complex) outwardPlane(cell, facet FaceID) (cga.Hyperplane, bool) {
	plane := c.ar.face(facet).Plane
	centroid := num.Centroid(c.ar.points(c.ar.face(cell).Verts))
	switch num.Sign(plane.SignedDistance(centroid)) {
	case -1:
		return plane, true
	case 1:
		return plane.Flip(), true
	default:
		return plane, false
	}
}

// validateBoundary checks that each (k-2)-face of a k-face occurs in
// exactly two of its (k-1)-children: the boundary is a closed cycle.
func (c *Complex) validateBoundary(id FaceID) error {
	f := c.ar.face(id)
	if f.Grade < 2 {
		return nil
	}
	count := map[FaceID]int{}
	for _, child := range f.Children {
		for _, grand := range c.ar.face(child).Children {
			count[grand]++
		}
	}
	for grand, n := range count {
		if n != 2 {
			return fmt.Errorf("%w: face %d has ridge %d with incidence %d", ErrNonConvexCell, id, grand, n)
		}
	}
	for _, child := range f.Children {
		if err := c.validateBoundary(child); err != nil {
			return err
		}
	}
	return nil
}
