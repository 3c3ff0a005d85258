package puzzle

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/coxeter"
	"github.com/chazu/hypercut/pkg/num"
	"github.com/chazu/hypercut/pkg/region"
	"github.com/chazu/hypercut/pkg/shape"
)

// Piece is one movable cell of the finished puzzle.
type Piece struct {
	ID       int
	Cell     shape.FaceID
	Centroid num.Vector
	Type     int
	Stickers []int // indices into Puzzle.Stickers
}

// Sticker is a colored boundary face of a piece.
type Sticker struct {
	ID    int
	Piece int
	Face  shape.FaceID
	Facet int
	Color int
}

// Puzzle is the immutable result of a build. It is safe to share across
// threads; all queries are pure.
type Puzzle struct {
	ID    string
	Meta  Meta
	Ndim  int
	Ndiag shape.Diagnostics

	Pieces   []Piece
	Stickers []Sticker
	Axes     []*Axis
	Twists   []*Twist
	Colors   []Color // indexed by facet id
	Types    []PieceType

	cx          *shape.Complex
	axisByName  map[string]int
	twistByName map[string]int
}

// membership adapts one piece to the region algebra.
type membership struct {
	axes     map[string]*Axis
	centroid num.Vector
	facets   map[int]bool
}

func (m membership) InLayer(axis string, i int) bool {
	a, ok := m.axes[axis]
	if !ok || i < 1 || i > a.NumLayers() {
		return false
	}
	return num.ApproxGE(m.centroid.Dot(a.Direction), a.InnerBound(i))
}

func (m membership) OnFacet(id int) bool { return m.facets[id] }

// Finish validates the build and freezes it into a Puzzle: every piece
// falls in exactly one piece type (default core), every sticker has a
// color, and every non-jumbled twist permutes the pieces bijectively
// while preserving sticker incidence. On success the builder is closed
// for good; on error it stays open so the caller can inspect
// diagnostics.
func (b *Builder) Finish(opts ...FinishOptions) (*Puzzle, error) {
	if err := b.open(); err != nil {
		return nil, err
	}
	var opt FinishOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if err := b.cx.Validate(); err != nil {
		return nil, err
	}
	cells := b.cx.Cells()
	if len(cells) == 0 {
		return nil, ErrNoPieces
	}

	pz := &Puzzle{
		ID:          b.id,
		Meta:        b.meta,
		Ndim:        b.ndim,
		Axes:        b.axes,
		Twists:      b.twists,
		Types:       b.types,
		cx:          b.cx,
		axisByName:  b.axisByName,
		twistByName: b.twistByName,
	}

	// Colors, by facet id.
	for _, f := range b.cx.Facets() {
		name, ok := b.colorNames[f.ID]
		if !ok {
			name = fmt.Sprintf("C%d", f.ID)
		}
		pz.Colors = append(pz.Colors, Color{Name: name, Hex: defaultPalette[f.ID%len(defaultPalette)]})
	}

	// Pieces and stickers.
	for i, cell := range cells {
		p := Piece{ID: i, Cell: cell, Centroid: b.cx.Centroid(cell)}
		for _, st := range b.cx.PieceStickers(cell) {
			sid := len(pz.Stickers)
			pz.Stickers = append(pz.Stickers, Sticker{
				ID:    sid,
				Piece: i,
				Face:  st.Face,
				Facet: st.FacetID,
				Color: st.FacetID,
			})
			p.Stickers = append(p.Stickers, sid)
		}
		pz.Pieces = append(pz.Pieces, p)
	}

	// Piece types: markers in order, first match wins, then orbit
	// unification, then the strictness check.
	axisMap := map[string]*Axis{}
	for _, a := range b.axes {
		axisMap[a.Name] = a
	}
	for i := range pz.Pieces {
		m := pz.membershipOf(i, axisMap)
		for _, mk := range b.markers {
			if mk.expr.Eval(m) {
				pz.Pieces[i].Type = mk.typeIdx
				break
			}
		}
	}
	pz.unifyTypes(b.unify)
	if len(b.markers) > 0 {
		for i := range pz.Pieces {
			if pz.Pieces[i].Type != 0 {
				continue
			}
			if opt.Strict {
				return nil, fmt.Errorf("%w: piece %d", ErrPieceUnclassified, i)
			}
			b.Diagnostics().Warnings = append(b.Diagnostics().Warnings,
				shape.Warning{Kind: shape.WarnUnmatchedPiece, Message: fmt.Sprintf("piece %d matches no region", i)})
		}
	}

	// Twist validation.
	for _, t := range b.twists {
		if t.Jumbled {
			continue
		}
		if err := pz.checkTwist(t); err != nil {
			return nil, err
		}
	}

	b.cx.Freeze()
	b.frozen = true
	pz.Ndiag = *b.Diagnostics()
	return pz, nil
}

func (pz *Puzzle) membershipOf(piece int, axes map[string]*Axis) membership {
	p := pz.Pieces[piece]
	facets := map[int]bool{}
	for _, sid := range p.Stickers {
		facets[pz.Stickers[sid].Facet] = true
	}
	return membership{axes: axes, centroid: p.Centroid, facets: facets}
}

// unifyTypes propagates marked types across the recorded symmetry
// orbits until nothing changes.
func (pz *Puzzle) unifyTypes(groups [][]coxeter.Element) {
	for _, elems := range groups {
		for changed := true; changed; {
			changed = false
			for i := range pz.Pieces {
				if pz.Pieces[i].Type == 0 {
					continue
				}
				for _, e := range elems {
					img := e.Apply(pz.Pieces[i].Centroid)
					if j, ok := pz.PieceAt(img); ok && pz.Pieces[j].Type == 0 {
						pz.Pieces[j].Type = pz.Pieces[i].Type
						changed = true
					}
				}
			}
		}
	}
}

// checkTwist verifies that the twist's rotation permutes pieces
// bijectively and maps stickers onto stickers.
func (pz *Puzzle) checkTwist(t *Twist) error {
	m := t.Matrix()
	hit := make([]bool, len(pz.Pieces))
	for i := range pz.Pieces {
		img := m.Apply(pz.Pieces[i].Centroid)
		j, ok := pz.PieceAt(img)
		if !ok || hit[j] {
			return fmt.Errorf("%w: twist %q at piece %d", ErrTwistDoesNotPermute, t.Name, i)
		}
		hit[j] = true
		if len(pz.Pieces[i].Stickers) != len(pz.Pieces[j].Stickers) {
			return fmt.Errorf("%w: twist %q changes sticker count of piece %d", ErrTwistDoesNotPermute, t.Name, i)
		}
		// Sticker incidence: every transformed sticker plane must
		// support a sticker of the image piece.
		for _, sid := range pz.Pieces[i].Stickers {
			plane := pz.cx.Face(pz.Stickers[sid].Face).Plane.Transform(m)
			found := false
			for _, tid := range pz.Pieces[j].Stickers {
				if pz.cx.Face(pz.Stickers[tid].Face).Plane.Coincident(plane) {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: twist %q breaks sticker incidence at piece %d", ErrTwistDoesNotPermute, t.Name, i)
			}
		}
	}
	return nil
}

// PieceAt returns the piece whose centroid epsilon-matches p.
func (pz *Puzzle) PieceAt(p num.Vector) (int, bool) {
	for i := range pz.Pieces {
		if pz.Pieces[i].Centroid.ApproxEq(p) {
			return i, true
		}
	}
	return 0, false
}

// Axis returns the axis with the given name.
func (pz *Puzzle) Axis(name string) (*Axis, bool) {
	i, ok := pz.axisByName[name]
	if !ok {
		return nil, false
	}
	return pz.Axes[i], true
}

// Twist returns the twist with the given name.
func (pz *Puzzle) Twist(name string) (*Twist, bool) {
	i, ok := pz.twistByName[name]
	if !ok {
		return nil, false
	}
	return pz.Twists[i], true
}

// ColorByName returns the facet id of the named color.
func (pz *Puzzle) ColorByName(name string) (int, bool) {
	for i, c := range pz.Colors {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// EvalRegion returns the ids of the pieces matching the region.
func (pz *Puzzle) EvalRegion(expr region.Expr) []int {
	axisMap := map[string]*Axis{}
	for _, a := range pz.Axes {
		axisMap[a.Name] = a
	}
	var out []int
	for i := range pz.Pieces {
		if expr.Eval(pz.membershipOf(i, axisMap)) {
			out = append(out, i)
		}
	}
	return out
}

// PiecesOfType returns the ids of the pieces with the named type.
func (pz *Puzzle) PiecesOfType(name string) []int {
	idx := -1
	for i, t := range pz.Types {
		if t.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	var out []int
	for i := range pz.Pieces {
		if pz.Pieces[i].Type == idx {
			out = append(out, i)
		}
	}
	return out
}

// Complex exposes the frozen cell complex for geometry consumers such as
// the mesh exporter.
func (pz *Puzzle) Complex() *shape.Complex { return pz.cx }
