package shape

import (
	"errors"
	"fmt"
)

// WarningKind classifies the non-fatal conditions a build can hit.
type WarningKind int

const (
	// WarnDuplicateFacet is recorded when a carve or slice hyperplane
	// coincides with one already present; the duplicate is collapsed and
	// the operation continues.
	WarnDuplicateFacet WarningKind = iota
	// WarnUnmatchedPiece is recorded when a piece matches no declared
	// piece-type region and falls into the default type.
	WarnUnmatchedPiece
	// WarnUnknownOption is recorded for unrecognized twist options.
	WarnUnknownOption
)

func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateFacet:
		return "duplicate-facet"
	case WarnUnmatchedPiece:
		return "unmatched-piece"
	default:
		return "unknown-option"
	}
}

// Warning is one diagnostic entry.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Diagnostics accumulates warnings over a build. The kernel never
// promotes warnings itself; callers decide with Promote.
type Diagnostics struct {
	Warnings []Warning
}

func (d *Diagnostics) warnf(kind WarningKind, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any warning of the given kind was recorded.
func (d *Diagnostics) Has(kind WarningKind) bool {
	for _, w := range d.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// Promote converts the recorded warnings of the given kinds into a single
// error, or nil when none were recorded. With no kinds given, every
// warning promotes.
func (d *Diagnostics) Promote(kinds ...WarningKind) error {
	match := func(k WarningKind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
	var msgs []error
	for _, w := range d.Warnings {
		if match(w.Kind) {
			msgs = append(msgs, errors.New(w.String()))
		}
	}
	return errors.Join(msgs...)
}
