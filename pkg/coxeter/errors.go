package coxeter

import "errors"

var (
	// ErrInvalidSchlafli indicates a malformed Schläfli word: empty, or
	// an entry below 2.
	ErrInvalidSchlafli = errors.New("coxeter: invalid schläfli word")
	// ErrInfiniteGroup indicates the word describes an affine or
	// hyperbolic (non-finite) reflection group.
	ErrInfiniteGroup = errors.New("coxeter: group is not finite")
	// ErrMirrorIndex indicates a mirror index outside 1..N.
	ErrMirrorIndex = errors.New("coxeter: mirror index out of range")
	// ErrInvalidWythoff indicates a wythoff pattern of the wrong length
	// or with characters other than 'o' and 'x'.
	ErrInvalidWythoff = errors.New("coxeter: invalid wythoff pattern")
	// ErrDimensionMismatch indicates a seed vector whose dimension does
	// not match the group's mirror space.
	ErrDimensionMismatch = errors.New("coxeter: seed dimension mismatch")
)
