package cga

import (
	"errors"
	"fmt"

	"github.com/chazu/hypercut/pkg/num"
)

// ErrDegenerateHyperplane is returned when a hyperplane is constructed
// from a normal within Eps of zero.
var ErrDegenerateHyperplane = errors.New("cga: degenerate hyperplane (zero normal)")

// Hyperplane is the oriented flat {x : Normal·x = Offset} with unit
// Normal. The half-space {x : Normal·x <= Offset} is its inside.
type Hyperplane struct {
	Normal num.Vector
	Offset float64
}

// NewHyperplane returns the hyperplane with the given normal (normalized
// internally) and signed distance from the origin. The caller's
// orientation is preserved.
func NewHyperplane(normal num.Vector, offset float64) (Hyperplane, error) {
	n, ok := normal.Normalize()
	if !ok {
		return Hyperplane{}, ErrDegenerateHyperplane
	}
	// Offset scales with the normalization so the same point set is kept.
	return Hyperplane{Normal: n, Offset: offset / normal.Norm()}, nil
}

// PolePlane returns the hyperplane through the tip of pole, perpendicular
// to it: normal pole/|pole|, offset |pole|.
func PolePlane(pole num.Vector) (Hyperplane, error) {
	n, ok := pole.Normalize()
	if !ok {
		return Hyperplane{}, ErrDegenerateHyperplane
	}
	return Hyperplane{Normal: n, Offset: pole.Norm()}, nil
}

// Canonical returns the hyperplane reoriented so that the first non-zero
// component of the normal is positive. Used for order-insensitive
// identity; carving keeps the caller's orientation.
func (h Hyperplane) Canonical() Hyperplane {
	for _, c := range h.Normal {
		if num.ApproxZero(c) {
			continue
		}
		if c < 0 {
			return h.Flip()
		}
		break
	}
	return h
}

// Flip returns the same flat with the opposite orientation.
func (h Hyperplane) Flip() Hyperplane {
	return Hyperplane{Normal: h.Normal.Neg(), Offset: -h.Offset}
}

// SignedDistance returns Normal·p - Offset: negative inside, positive
// outside.
func (h Hyperplane) SignedDistance(p num.Vector) float64 {
	return h.Normal.Dot(p) - h.Offset
}

// Side classifies p against h with the kernel epsilon rule:
// |distance| <= Eps reports On.
func (h Hyperplane) Side(p num.Vector) Side {
	switch num.Sign(h.SignedDistance(p)) {
	case -1:
		return Inside
	case 1:
		return Outside
	default:
		return On
	}
}

// ApproxEq reports that h and o are the same oriented hyperplane.
func (h Hyperplane) ApproxEq(o Hyperplane) bool {
	return h.Normal.ApproxEq(o.Normal) && num.ApproxEq(h.Offset, o.Offset)
}

// Coincident reports that h and o describe the same flat, regardless of
// orientation.
func (h Hyperplane) Coincident(o Hyperplane) bool {
	return h.ApproxEq(o) || h.ApproxEq(o.Flip())
}

// Transform returns the image of h under the orthogonal matrix a.
func (h Hyperplane) Transform(a num.Matrix) Hyperplane {
	return Hyperplane{Normal: a.Apply(h.Normal), Offset: h.Offset}
}

// Blade returns the IPNS conformal vector of the plane: n + d·e∞. Points
// x with X·blade < 0 are strictly inside the half-space.
func (h Hyperplane) Blade() Multivector {
	return FromVector(h.Normal).Add(Infinity(len(h.Normal)).Scale(h.Offset))
}

func (h Hyperplane) String() string {
	return fmt.Sprintf("plane{n=%v, d=%g}", h.Normal, h.Offset)
}
