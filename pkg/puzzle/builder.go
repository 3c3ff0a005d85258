// Package puzzle assembles frozen puzzle objects from the shape kernel:
// it carves and slices a cell complex, declares twist axes and rotors,
// classifies pieces with the region algebra, and freezes the result into
// an immutable Puzzle.
package puzzle

import (
	"fmt"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/coxeter"
	"github.com/chazu/hypercut/pkg/num"
	"github.com/chazu/hypercut/pkg/region"
	"github.com/chazu/hypercut/pkg/shape"
)

// defaultPalette gives every facet its display color by facet id,
// repeating after twelve facets; naming a facet changes only its name.
var defaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
	"#F5F5F5", "#34495E", "#D35400", "#7F8C8D",
}

// Color is one entry of the puzzle's color table, keyed by facet id.
type Color struct {
	Name string
	Hex  string
}

// PieceType names a class of pieces ("corner", "edge", ...). Type 0 is
// the default core type.
type PieceType struct {
	Name    string
	Display string
}

// marker binds a region expression to a piece type; markers are
// evaluated in declaration order at Finish, first match wins.
type marker struct {
	expr    region.Expr
	typeIdx int
}

// AxisOptions controls AddAxes.
type AxisOptions struct {
	// Names gives per-direction axis names, in orbit order. Missing
	// entries get generated names.
	Names []string
	// Slice also slices the shape at every finite layer boundary.
	Slice bool
}

// TwistOptions controls AddTwist.
type TwistOptions struct {
	// Name overrides the generated twist name.
	Name string
	// Jumbled marks a non-doctrinaire twist; its permutation is not
	// validated at Finish.
	Jumbled bool
	// GizmoPoleDistance is an opaque rendering hint.
	GizmoPoleDistance float64
}

// FinishOptions controls Finish.
type FinishOptions struct {
	// Strict promotes unclassified pieces from a warning to
	// ErrPieceUnclassified.
	Strict bool
}

// Meta is the host-facing metadata of a definition; the kernel treats it
// as opaque.
type Meta struct {
	Name    string
	Version string
	Tags    []string
}

// Builder accumulates one puzzle during its single-threaded build phase.
// It is created Open and permanently closed by Finish; afterwards Carve,
// CarvePoles, Slice, AddAxes, AddTwist, MarkPiece, UnifyPieceTypes and
// Finish fail with shape.ErrBuilderClosed.
type Builder struct {
	id   string
	meta Meta
	ndim int

	cx          *shape.Complex
	axes        []*Axis
	axisByName  map[string]int
	twists      []*Twist
	twistByName map[string]int
	colorNames  map[int]string // facet id -> explicit color name
	types       []PieceType
	markers     []marker
	unify       [][]coxeter.Element
	frozen      bool
}

// NewBuilder returns an open builder for a puzzle of the given ambient
// dimension.
func NewBuilder(id string, ndim int) (*Builder, error) {
	cx, err := shape.NewComplex(ndim)
	if err != nil {
		return nil, err
	}
	return &Builder{
		id:          id,
		ndim:        ndim,
		cx:          cx,
		axisByName:  map[string]int{},
		twistByName: map[string]int{},
		colorNames:  map[int]string{},
		types:       []PieceType{{Name: "core", Display: "Core"}},
	}, nil
}

// ID returns the puzzle id.
func (b *Builder) ID() string { return b.id }

// Ndim returns the ambient dimension.
func (b *Builder) Ndim() int { return b.ndim }

// SetMeta attaches host metadata.
func (b *Builder) SetMeta(m Meta) { b.meta = m }

// Diagnostics exposes the warnings accumulated so far.
func (b *Builder) Diagnostics() *shape.Diagnostics { return b.cx.Diagnostics() }

// Complex exposes the underlying cell complex, for tests and for the
// sticker-mesh exporter.
func (b *Builder) Complex() *shape.Complex { return b.cx }

func (b *Builder) open() error {
	if b.frozen {
		return shape.ErrBuilderClosed
	}
	return nil
}

// Carve intersects the shape with the given half-spaces; see
// shape.Complex.Carve.
func (b *Builder) Carve(planes ...cga.Hyperplane) error {
	if err := b.open(); err != nil {
		return err
	}
	return b.cx.Carve(planes...)
}

// CarvePoles carves one plane per pole vector, each perpendicular to its
// pole at its tip.
func (b *Builder) CarvePoles(poles ...num.Vector) error {
	planes := make([]cga.Hyperplane, len(poles))
	for i, p := range poles {
		h, err := cga.PolePlane(p)
		if err != nil {
			return err
		}
		planes[i] = h
	}
	return b.Carve(planes...)
}

// Slice cuts the pieces by the given hyperplanes; see
// shape.Complex.Slice.
func (b *Builder) Slice(planes ...cga.Hyperplane) error {
	if err := b.open(); err != nil {
		return err
	}
	return b.cx.Slice(planes...)
}

// AddAxes creates one axis per direction, all sharing the same layer
// depth stack. With opts.Slice the shape is also cut at every finite
// boundary.
func (b *Builder) AddAxes(dirs []num.Vector, depths []float64, opts AxisOptions) ([]*Axis, error) {
	if err := b.open(); err != nil {
		return nil, err
	}
	var made []*Axis
	for i, dir := range dirs {
		name := ""
		if i < len(opts.Names) {
			name = opts.Names[i]
		}
		if name == "" {
			name = fmt.Sprintf("A%d", len(b.axes)+1)
		}
		if _, dup := b.axisByName[name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateAxis, name)
		}
		for _, a := range b.axes {
			if a.Direction.ApproxEq(dir) {
				return nil, fmt.Errorf("%w: direction %v", ErrDuplicateAxis, dir)
			}
		}
		ax, err := newAxis(name, dir, depths)
		if err != nil {
			return nil, err
		}
		if opts.Slice {
			if err := b.cx.Slice(ax.CutPlanes()...); err != nil {
				return nil, err
			}
		}
		b.axisByName[name] = len(b.axes)
		b.axes = append(b.axes, ax)
		made = append(made, ax)
	}
	return made, nil
}

// Axis returns the axis with the given name.
func (b *Builder) Axis(name string) (*Axis, error) {
	i, ok := b.axisByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, name)
	}
	return b.axes[i], nil
}

// AxisByDirection returns the axis whose direction epsilon-matches v.
func (b *Builder) AxisByDirection(v num.Vector) (*Axis, error) {
	u, ok := v.Normalize()
	if !ok {
		return nil, fmt.Errorf("%w: zero direction", ErrUnknownAxis)
	}
	for _, a := range b.axes {
		if a.Direction.ApproxEq(u) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: direction %v", ErrUnknownAxis, v)
}

// AddTwist attaches a rotor to an axis. The rotor must fix the axis
// direction.
func (b *Builder) AddTwist(axisName string, r cga.Rotor, opts TwistOptions) (*Twist, error) {
	if err := b.open(); err != nil {
		return nil, err
	}
	ax, err := b.Axis(axisName)
	if err != nil {
		return nil, err
	}
	if !r.Fixes(ax.Direction) {
		return nil, fmt.Errorf("%w: axis %q", ErrNotAnAxisRotation, axisName)
	}
	name := opts.Name
	if name == "" {
		name = ax.Name
		for n := 2; ; n++ {
			if _, dup := b.twistByName[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s%d", ax.Name, n)
		}
	}
	if _, dup := b.twistByName[name]; dup {
		return nil, fmt.Errorf("puzzle: twist %q already defined", name)
	}
	t := &Twist{
		Name:              name,
		Axis:              ax.Name,
		Rotor:             r,
		Jumbled:           opts.Jumbled,
		GizmoPoleDistance: opts.GizmoPoleDistance,
	}
	b.twistByName[name] = len(b.twists)
	b.twists = append(b.twists, t)
	return t, nil
}

// NameColor gives the facet with the given id an explicit color name.
func (b *Builder) NameColor(facetID int, name string) {
	b.colorNames[facetID] = name
}

// AddPieceType declares a piece type without marking any pieces.
func (b *Builder) AddPieceType(name, display string) int {
	for i, t := range b.types {
		if t.Name == name {
			return i
		}
	}
	if display == "" {
		display = name
	}
	b.types = append(b.types, PieceType{Name: name, Display: display})
	return len(b.types) - 1
}

// MarkPiece classifies the pieces matching the region as the named
// piece type. Markers are evaluated at Finish in declaration order; the
// first matching marker wins.
func (b *Builder) MarkPiece(expr region.Expr, name, display string) error {
	if err := b.open(); err != nil {
		return err
	}
	idx := b.AddPieceType(name, display)
	b.markers = append(b.markers, marker{expr: expr, typeIdx: idx})
	return nil
}

// UnifyPieceTypes propagates every marked piece's type across its orbit
// under the given symmetry elements at Finish time.
func (b *Builder) UnifyPieceTypes(elems []coxeter.Element) error {
	if err := b.open(); err != nil {
		return err
	}
	b.unify = append(b.unify, elems)
	return nil
}
