package shape

import "errors"

var (
	// ErrEmptyShape indicates carving left no full-dimensional cell.
	ErrEmptyShape = errors.New("shape: carve leaves an empty shape")
	// ErrAmbiguousCut indicates a slice hyperplane coplanar with an
	// entire cell.
	ErrAmbiguousCut = errors.New("shape: cut is coplanar with a cell")
	// ErrBuilderClosed indicates a mutation after Freeze.
	ErrBuilderClosed = errors.New("shape: builder is closed")
	// ErrNonConvexCell indicates a cell that is not the convex hull of
	// its vertices. It is an internal invariant failure.
	ErrNonConvexCell = errors.New("shape: non-convex cell")
	// ErrOrientationMismatch indicates a facet whose outward normal
	// points into its cell. It is an internal invariant failure.
	ErrOrientationMismatch = errors.New("shape: facet orientation mismatch")
	// ErrInvalidDimension indicates a dimension outside 2..8.
	ErrInvalidDimension = errors.New("shape: dimension must be between 2 and 8")
)
