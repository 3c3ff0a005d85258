package puzzle

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// Inf marks an unbounded outer layer depth.
var Inf = math.Inf(1)

// Axis is a twist axis: a unit direction together with an ordered stack
// of layer boundaries perpendicular to it. Boundaries are signed depths
// along the direction, strictly decreasing, with +Inf and -Inf always
// present at the ends; layer i (1-based) is the slab between boundary
// i-1 and boundary i.
type Axis struct {
	Name       string
	Direction  num.Vector
	boundaries []float64
}

// newAxis normalizes a depth list into a boundary stack. Depths may be
// given in any order and may include ±Inf; duplicates within Eps
// collapse.
func newAxis(name string, dir num.Vector, depths []float64) (*Axis, error) {
	if len(depths) == 0 {
		return nil, fmt.Errorf("%w: empty depth list", ErrInvalidDepths)
	}
	u, ok := dir.Normalize()
	if !ok {
		return nil, cga.ErrDegenerateHyperplane
	}
	bs := []float64{math.Inf(1)}
	sorted := append([]float64(nil), depths...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	for _, d := range sorted {
		if math.IsNaN(d) {
			return nil, fmt.Errorf("%w: NaN depth", ErrInvalidDepths)
		}
		last := bs[len(bs)-1]
		if d == last || (!math.IsInf(d, 0) && !math.IsInf(last, 0) && num.ApproxEq(d, last)) {
			continue
		}
		bs = append(bs, d)
	}
	if !math.IsInf(bs[len(bs)-1], -1) {
		bs = append(bs, math.Inf(-1))
	}
	if len(bs) < 3 {
		return nil, fmt.Errorf("%w: no finite boundary", ErrInvalidDepths)
	}
	return &Axis{Name: name, Direction: u, boundaries: bs}, nil
}

// NumLayers returns the number of layers in the stack.
func (a *Axis) NumLayers() int { return len(a.boundaries) - 1 }

// Boundaries returns the boundary depths, +Inf and -Inf included, in
// decreasing order.
func (a *Axis) Boundaries() []float64 {
	return append([]float64(nil), a.boundaries...)
}

// InnerBound returns the inner (lower) boundary depth of layer i.
func (a *Axis) InnerBound(i int) float64 { return a.boundaries[i] }

// LayerOf returns the 1-based layer containing the given coordinate
// along the axis direction.
func (a *Axis) LayerOf(coord float64) int {
	for i := 1; i < len(a.boundaries); i++ {
		if num.ApproxGE(coord, a.boundaries[i]) {
			return i
		}
	}
	return a.NumLayers()
}

// CutPlanes returns the hyperplanes of the finite layer boundaries,
// outermost first.
func (a *Axis) CutPlanes() []cga.Hyperplane {
	var out []cga.Hyperplane
	for _, d := range a.boundaries {
		if math.IsInf(d, 0) {
			continue
		}
		out = append(out, cga.Hyperplane{Normal: a.Direction.Clone(), Offset: d})
	}
	return out
}

// Twist is a rotor attached to an axis. The rotor fixes the axis
// direction; the group generated by an axis's twists need not be cyclic.
// GizmoPoleDistance is a rendering hint, not part of core semantics.
type Twist struct {
	Name              string
	Axis              string
	Rotor             cga.Rotor
	Jumbled           bool
	GizmoPoleDistance float64
}

// Matrix returns the twist rotation as a matrix.
func (t *Twist) Matrix() num.Matrix { return t.Rotor.Matrix() }
