package puzzle

import "errors"

var (
	// ErrNotAnAxisRotation indicates a twist rotor that does not fix its
	// axis direction.
	ErrNotAnAxisRotation = errors.New("puzzle: rotor does not fix the axis direction")
	// ErrTwistDoesNotPermute indicates a twist whose rotation fails to
	// map pieces onto pieces bijectively.
	ErrTwistDoesNotPermute = errors.New("puzzle: twist does not permute pieces")
	// ErrPieceUnclassified indicates, in strict mode, a piece matching
	// no declared piece type.
	ErrPieceUnclassified = errors.New("puzzle: piece matches no piece type")
	// ErrUnknownAxis indicates a reference to an axis name that was
	// never added.
	ErrUnknownAxis = errors.New("puzzle: unknown axis")
	// ErrDuplicateAxis indicates two axes with the same name or the
	// same direction.
	ErrDuplicateAxis = errors.New("puzzle: duplicate axis")
	// ErrInvalidDepths indicates an empty layer depth list, a NaN depth,
	// or a list with no finite boundary.
	ErrInvalidDepths = errors.New("puzzle: invalid layer depths")
	// ErrRedefinedPuzzle indicates two puzzle definitions with the same
	// id in one catalog.
	ErrRedefinedPuzzle = errors.New("puzzle: puzzle id already defined")
	// ErrNoPieces indicates Finish on a builder whose shape was never
	// carved.
	ErrNoPieces = errors.New("puzzle: shape has no pieces")
)
