// Package region implements the boolean algebra used to name piece sets:
// expressions over the primitive regions "on or inside layer i of an
// axis" and "touching a carved facet", combined with and/or/not/minus.
// An expression is a small tagged-union tree folded over one piece at a
// time.
package region

import (
	"fmt"
	"strings"
)

// Kind discriminates the expression node types.
type Kind int

const (
	KindAll Kind = iota
	KindNone
	KindLayer
	KindFacet
	KindNot
	KindAnd
	KindOr
	KindDiff
)

// Expr is one region expression node. Expr values are immutable.
type Expr struct {
	kind  Kind
	axis  string
	layer int
	facet int
	args  []Expr
}

// All matches every piece.
func All() Expr { return Expr{kind: KindAll} }

// None matches no piece.
func None() Expr { return Expr{kind: KindNone} }

// Layer matches the pieces on or inside layer i (1-based) of the named
// axis.
func Layer(axis string, i int) Expr {
	return Expr{kind: KindLayer, axis: axis, layer: i}
}

// Facet matches the pieces with a sticker on the given carved facet.
func Facet(id int) Expr { return Expr{kind: KindFacet, facet: id} }

// Not matches the complement of e.
func Not(e Expr) Expr { return Expr{kind: KindNot, args: []Expr{e}} }

// And matches the intersection of the given regions.
func And(es ...Expr) Expr { return Expr{kind: KindAnd, args: es} }

// Or matches the union of the given regions.
func Or(es ...Expr) Expr { return Expr{kind: KindOr, args: es} }

// Diff matches a minus b.
func Diff(a, b Expr) Expr { return Expr{kind: KindDiff, args: []Expr{a, b}} }

// Kind returns the node kind.
func (e Expr) Kind() Kind { return e.kind }

// Membership supplies the primitive predicates for one piece.
type Membership interface {
	// InLayer reports whether the piece is on or inside layer i of the
	// named axis.
	InLayer(axis string, i int) bool
	// OnFacet reports whether the piece has a sticker on the facet.
	OnFacet(id int) bool
}

// Eval folds the expression over one piece.
func (e Expr) Eval(m Membership) bool {
	switch e.kind {
	case KindAll:
		return true
	case KindNone:
		return false
	case KindLayer:
		return m.InLayer(e.axis, e.layer)
	case KindFacet:
		return m.OnFacet(e.facet)
	case KindNot:
		return !e.args[0].Eval(m)
	case KindAnd:
		for _, a := range e.args {
			if !a.Eval(m) {
				return false
			}
		}
		return true
	case KindOr:
		for _, a := range e.args {
			if a.Eval(m) {
				return true
			}
		}
		return false
	case KindDiff:
		return e.args[0].Eval(m) && !e.args[1].Eval(m)
	}
	return false
}

func (e Expr) String() string {
	switch e.kind {
	case KindAll:
		return "all"
	case KindNone:
		return "none"
	case KindLayer:
		return fmt.Sprintf("%s(%d)", e.axis, e.layer)
	case KindFacet:
		return fmt.Sprintf("facet(%d)", e.facet)
	case KindNot:
		return "~" + e.args[0].String()
	case KindAnd:
		return "(" + joinExprs(e.args, " & ") + ")"
	case KindOr:
		return "(" + joinExprs(e.args, " | ") + ")"
	case KindDiff:
		return "(" + e.args[0].String() + " - " + e.args[1].String() + ")"
	}
	return "?"
}

func joinExprs(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
