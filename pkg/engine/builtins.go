package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/coxeter"
	"github.com/chazu/hypercut/pkg/num"
	"github.com/chazu/hypercut/pkg/puzzle"
	"github.com/chazu/hypercut/pkg/region"
	"github.com/chazu/hypercut/pkg/shape"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms puzzle-definition Lisp source before
// passing it to zygomys. It performs three transformations:
//
//  0. Comment conversion: ; (or ;;) line comments -> // line comments,
//     the comment syntax zygomys accepts.
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: add-axes -> add_axes
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// All three transformations respect string literal boundaries, and the
// keyword and kebab-case rewrites leave comment text alone.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpBuilder wraps a puzzle.Builder so the script can thread the build
// context explicitly instead of relying on ambient globals.
type sexpBuilder struct {
	b *puzzle.Builder
}

func (s *sexpBuilder) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(puzzle %q ndim=%d)", s.b.ID(), s.b.Ndim())
}
func (s *sexpBuilder) Type() *zygo.RegisteredType { return nil }

// sexpSymmetry wraps a Coxeter group.
type sexpSymmetry struct {
	g *coxeter.Group
}

func (s *sexpSymmetry) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cd %v)", s.g.Word())
}
func (s *sexpSymmetry) Type() *zygo.RegisteredType { return nil }

// sexpVec wraps a vector of any kernel dimension.
type sexpVec struct {
	v num.Vector
}

func (s *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec %v)", s.v)
}
func (s *sexpVec) Type() *zygo.RegisteredType { return nil }

// sexpPlane wraps a hyperplane.
type sexpPlane struct {
	h cga.Hyperplane
}

func (s *sexpPlane) SexpString(ps *zygo.PrintState) string {
	return s.h.String()
}
func (s *sexpPlane) Type() *zygo.RegisteredType { return nil }

// sexpRotor wraps a rotor.
type sexpRotor struct {
	r cga.Rotor
}

func (s *sexpRotor) SexpString(ps *zygo.PrintState) string {
	return "(rotor)"
}
func (s *sexpRotor) Type() *zygo.RegisteredType { return nil }

// sexpRegion wraps a region expression.
type sexpRegion struct {
	e region.Expr
}

func (s *sexpRegion) SexpString(ps *zygo.PrintState) string {
	return s.e.String()
}
func (s *sexpRegion) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during
// preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat). The
// keywords :inf and :neg-inf (or the strings "inf" and "-inf") denote
// the unbounded outer layer depths.
func toFloat64(s zygo.Sexp) (float64, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		switch strings.TrimPrefix(str.S, kwPrefix) {
		case "inf":
			return math.Inf(1), nil
		case "neg-inf", "-inf":
			return math.Inf(-1), nil
		}
	}
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_x) and plain strings ("x").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toBuilder extracts the builder handle.
func toBuilder(s zygo.Sexp) (*puzzle.Builder, error) {
	if b, ok := s.(*sexpBuilder); ok {
		return b.b, nil
	}
	return nil, fmt.Errorf("expected puzzle builder, got %T (%s)", s, s.SexpString(nil))
}

// toSymmetry extracts a symmetry handle.
func toSymmetry(s zygo.Sexp) (*coxeter.Group, error) {
	if g, ok := s.(*sexpSymmetry); ok {
		return g.g, nil
	}
	return nil, fmt.Errorf("expected symmetry, got %T (%s)", s, s.SexpString(nil))
}

// toVector extracts a vector from a sexpVec or a list/array of numbers.
func toVector(s zygo.Sexp) (num.Vector, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.v.Clone(), nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected vector, got %T (%s)", s, s.SexpString(nil))
	}
	out := make(num.Vector, len(items))
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return nil, fmt.Errorf("vector component %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toRotor extracts a rotor handle.
func toRotor(s zygo.Sexp) (cga.Rotor, error) {
	if r, ok := s.(*sexpRotor); ok {
		return r.r, nil
	}
	return cga.Rotor{}, fmt.Errorf("expected rotor, got %T (%s)", s, s.SexpString(nil))
}

// toRegion extracts a region expression.
func toRegion(s zygo.Sexp) (region.Expr, error) {
	if r, ok := s.(*sexpRegion); ok {
		return r.e, nil
	}
	return region.Expr{}, fmt.Errorf("expected region, got %T (%s)", s, s.SexpString(nil))
}

// toPlanes flattens planes, pole vectors, and nested lists of either
// into a hyperplane slice.
func toPlanes(args []zygo.Sexp) ([]cga.Hyperplane, error) {
	var out []cga.Hyperplane
	for _, a := range args {
		switch v := a.(type) {
		case *sexpPlane:
			out = append(out, v.h)
		case *sexpVec:
			h, err := cga.PolePlane(v.v)
			if err != nil {
				return nil, err
			}
			out = append(out, h)
		default:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, fmt.Errorf("expected plane, pole vector, or list, got %T", a)
			}
			nested, err := toPlanes(items)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go
// slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// schlafliByName maps the common Coxeter diagram names to Schläfli
// words.
var schlafliByName = map[string][]int{
	"a2": {3}, "a3": {3, 3}, "a4": {3, 3, 3},
	"bc2": {4}, "bc3": {4, 3}, "bc4": {4, 3, 3},
	"h2": {5}, "h3": {5, 3}, "h4": {5, 3, 3},
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the puzzle DSL builtins into a zygomys
// environment. Finished puzzles land in the catalog.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, catalog *Catalog) {
	// -----------------------------------------------------------------------
	// (puzzle :id "cube3" :name "3x3x3" :version "1.0" :ndim 3)
	// -----------------------------------------------------------------------
	env.AddFunction("puzzle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		idS, ok := pa.kw["id"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("puzzle: :id is required")
		}
		id, err := toString(idS)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("puzzle: id: %w", err)
		}
		ndimS, ok := pa.kw["ndim"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("puzzle: :ndim is required")
		}
		ndim, err := toInt(ndimS)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("puzzle: ndim: %w", err)
		}
		b, err := puzzle.NewBuilder(id, ndim)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("puzzle: %w", err)
		}
		meta := puzzle.Meta{}
		if v, ok := pa.kw["name"]; ok {
			if meta.Name, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("puzzle: name: %w", err)
			}
		}
		if v, ok := pa.kw["version"]; ok {
			if meta.Version, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("puzzle: version: %w", err)
			}
		}
		if v, ok := pa.kw["tags"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("puzzle: tags: %w", err)
			}
			for _, it := range items {
				tag, err := toString(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("puzzle: tag: %w", err)
				}
				meta.Tags = append(meta.Tags, tag)
			}
		}
		b.SetMeta(meta)
		return &sexpBuilder{b: b}, nil
	})

	// -----------------------------------------------------------------------
	// (cd 4 3) or (cd "bc3")
	// -----------------------------------------------------------------------
	env.AddFunction("cd", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("cd requires a schläfli word or diagram name")
		}
		var word []int
		if s, err := toString(args[0]); err == nil && len(args) == 1 {
			w, ok := schlafliByName[strings.ToLower(s)]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cd: unknown diagram %q", s)
			}
			word = w
		} else {
			for i, a := range args {
				p, err := toInt(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("cd: entry %d: %w", i, err)
				}
				word = append(word, p)
			}
		}
		g, err := coxeter.New(word...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cd: %w", err)
		}
		return &sexpSymmetry{g: g}, nil
	})

	// -----------------------------------------------------------------------
	// (vec 0 0 1)
	// -----------------------------------------------------------------------
	env.AddFunction("vec", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("vec requires at least one component")
		}
		v := make(num.Vector, len(args))
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec{v: v}, nil
	})

	// -----------------------------------------------------------------------
	// (plane :normal (vec 0 0 1) :offset 1)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		nS, ok := pa.kw["normal"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("plane: :normal is required")
		}
		n, err := toVector(nS)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: normal: %w", err)
		}
		offset := 0.0
		if v, ok := pa.kw["offset"]; ok {
			if offset, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("plane: offset: %w", err)
			}
		}
		h, err := cga.NewHyperplane(n, offset)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		return &sexpPlane{h: h}, nil
	})

	// -----------------------------------------------------------------------
	// (pole (vec 0 0 1)) — plane through the pole tip, perpendicular to it
	// -----------------------------------------------------------------------
	env.AddFunction("pole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("pole requires exactly one vector")
		}
		v, err := toVector(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pole: %w", err)
		}
		h, err := cga.PolePlane(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pole: %w", err)
		}
		return &sexpPlane{h: h}, nil
	})

	// -----------------------------------------------------------------------
	// (orbit sym (vec ...)) -> array of image vectors
	// -----------------------------------------------------------------------
	env.AddFunction("orbit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("orbit requires a symmetry and a seed vector")
		}
		g, err := toSymmetry(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orbit: %w", err)
		}
		seeds := make([]num.Vector, 0, len(args)-1)
		for i, a := range args[1:] {
			v, err := toVector(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("orbit: seed %d: %w", i, err)
			}
			seeds = append(seeds, v)
		}
		points, err := g.Orbit(seeds...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("orbit: %w", err)
		}
		out := &zygo.SexpArray{Env: env}
		for _, p := range points {
			out.Val = append(out.Val, &sexpVec{v: p.Image(0)})
		}
		return out, nil
	})

	// -----------------------------------------------------------------------
	// (wythoff sym "oox") / (wythoff-unit sym "oox")
	// -----------------------------------------------------------------------
	env.AddFunction("wythoff", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		g, pattern, err := symmetryPattern(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wythoff: %w", err)
		}
		v, err := g.Wythoff(pattern)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wythoff: %w", err)
		}
		return &sexpVec{v: v}, nil
	})
	env.AddFunction("wythoff_unit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		g, pattern, err := symmetryPattern(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wythoff-unit: %w", err)
		}
		v, err := g.WythoffUnit(pattern)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wythoff-unit: %w", err)
		}
		return &sexpVec{v: v}, nil
	})

	// -----------------------------------------------------------------------
	// (rot :from (vec ...) :to (vec ...)) or
	// (rot :plane [(vec ...) (vec ...)] :angle 1.5708)
	// -----------------------------------------------------------------------
	env.AddFunction("rot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if fromS, ok := pa.kw["from"]; ok {
			from, err := toVector(fromS)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rot: from: %w", err)
			}
			toS, ok := pa.kw["to"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("rot: :from requires :to")
			}
			to, err := toVector(toS)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rot: to: %w", err)
			}
			fu, _ := from.Normalize()
			tu, _ := to.Normalize()
			r, err := cga.RotorFromVectors(fu, tu)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rot: %w", err)
			}
			return &sexpRotor{r: r}, nil
		}
		planeS, ok := pa.kw["plane"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rot requires :from/:to or :plane/:angle")
		}
		items, err := sexpListToSlice(planeS)
		if err != nil || len(items) != 2 {
			return zygo.SexpNull, fmt.Errorf("rot: :plane needs two spanning vectors")
		}
		u, err := toVector(items[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rot: plane u: %w", err)
		}
		v, err := toVector(items[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rot: plane v: %w", err)
		}
		angleS, ok := pa.kw["angle"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rot: :plane requires :angle")
		}
		angle, err := toFloat64(angleS)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rot: angle: %w", err)
		}
		r, err := cga.RotorFromPlaneAngle(u, v, angle)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rot: %w", err)
		}
		return &sexpRotor{r: r}, nil
	})

	// -----------------------------------------------------------------------
	// (thru sym 1 2) — rotor from an even mirror word
	// -----------------------------------------------------------------------
	env.AddFunction("thru", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("thru requires a symmetry and mirror indices")
		}
		g, err := toSymmetry(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("thru: %w", err)
		}
		if (len(args)-1)%2 != 0 {
			return zygo.SexpNull, fmt.Errorf("thru: odd mirror word is a reflection, not a rotation")
		}
		mirrors := g.Mirrors()
		seq := make([]num.Vector, 0, len(args)-1)
		for i, a := range args[1:] {
			idx, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("thru: index %d: %w", i, err)
			}
			if idx < 1 || idx > len(mirrors) {
				return zygo.SexpNull, fmt.Errorf("thru: %w: %d", coxeter.ErrMirrorIndex, idx)
			}
			seq = append(seq, mirrors[idx-1])
		}
		r, err := cga.RotorFromMirrors(seq)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("thru: %w", err)
		}
		return &sexpRotor{r: r}, nil
	})

	// -----------------------------------------------------------------------
	// (carve b planes-or-poles...)
	// -----------------------------------------------------------------------
	env.AddFunction("carve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("carve requires a builder and at least one plane")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("carve: %w", err)
		}
		planes, err := toPlanes(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("carve: %w", err)
		}
		if err := b.Carve(planes...); err != nil {
			return zygo.SexpNull, fmt.Errorf("carve: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (slice b planes...)
	// -----------------------------------------------------------------------
	env.AddFunction("slice", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("slice requires a builder and at least one plane")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice: %w", err)
		}
		planes, err := toPlanes(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice: %w", err)
		}
		if err := b.Slice(planes...); err != nil {
			return zygo.SexpNull, fmt.Errorf("slice: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (add-axes b dirs depths :names ["R" "L" ...] :slice true)
	// -----------------------------------------------------------------------
	env.AddFunction("add_axes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 3 {
			return zygo.SexpNull, fmt.Errorf("add-axes requires a builder, directions, and depths")
		}
		b, err := toBuilder(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-axes: %w", err)
		}
		dirItems, err := sexpListToSlice(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-axes: directions: %w", err)
		}
		var dirs []num.Vector
		for i, it := range dirItems {
			v, err := toVector(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-axes: direction %d: %w", i, err)
			}
			dirs = append(dirs, v)
		}
		depthItems, err := sexpListToSlice(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-axes: depths: %w", err)
		}
		var depths []float64
		for i, it := range depthItems {
			d, err := toFloat64(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-axes: depth %d: %w", i, err)
			}
			depths = append(depths, d)
		}
		var opts puzzle.AxisOptions
		if v, ok := pa.kw["names"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-axes: names: %w", err)
			}
			for _, it := range items {
				n, err := toString(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("add-axes: name: %w", err)
				}
				opts.Names = append(opts.Names, n)
			}
		}
		if v, ok := pa.kw["slice"]; ok {
			if opts.Slice, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("add-axes: slice: %w", err)
			}
		}
		axes, err := b.AddAxes(dirs, depths, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-axes: %w", err)
		}
		out := &zygo.SexpArray{Env: env}
		for _, a := range axes {
			out.Val = append(out.Val, &zygo.SexpStr{S: a.Name})
		}
		return out, nil
	})

	// -----------------------------------------------------------------------
	// (add-twists b "R" rotor :name "R" :jumbled #f :gizmo-pole-distance 1)
	// -----------------------------------------------------------------------
	env.AddFunction("add_twists", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 3 {
			return zygo.SexpNull, fmt.Errorf("add-twists requires a builder, an axis name, and a rotor")
		}
		b, err := toBuilder(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-twists: %w", err)
		}
		axisName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-twists: axis: %w", err)
		}
		r, err := toRotor(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-twists: rotor: %w", err)
		}
		var opts puzzle.TwistOptions
		for key, v := range pa.kw {
			switch key {
			case "name":
				if opts.Name, err = toString(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("add-twists: name: %w", err)
				}
			case "jumbled":
				if opts.Jumbled, err = toBool(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("add-twists: jumbled: %w", err)
				}
			case "gizmo-pole-distance":
				if opts.GizmoPoleDistance, err = toFloat64(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("add-twists: gizmo-pole-distance: %w", err)
				}
			default:
				b.Diagnostics().Warnings = append(b.Diagnostics().Warnings,
					warnUnknownOption("add-twists", key))
			}
		}
		t, err := b.AddTwist(axisName, r, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-twists: %w", err)
		}
		return &zygo.SexpStr{S: t.Name}, nil
	})

	// -----------------------------------------------------------------------
	// Region constructors
	// -----------------------------------------------------------------------
	env.AddFunction("region_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpRegion{e: region.All()}, nil
	})
	env.AddFunction("region_none", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpRegion{e: region.None()}, nil
	})
	env.AddFunction("layer_region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("layer-region requires an axis name and a layer")
		}
		axis, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer-region: axis: %w", err)
		}
		layer, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer-region: layer: %w", err)
		}
		return &sexpRegion{e: region.Layer(axis, layer)}, nil
	})
	env.AddFunction("facet_region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("facet-region requires a facet id")
		}
		id, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("facet-region: %w", err)
		}
		return &sexpRegion{e: region.Facet(id)}, nil
	})
	env.AddFunction("region_and", regionFold("region-and", region.And))
	env.AddFunction("region_or", regionFold("region-or", region.Or))
	env.AddFunction("region_not", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("region-not requires one region")
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region-not: %w", err)
		}
		return &sexpRegion{e: region.Not(r)}, nil
	})
	env.AddFunction("region_diff", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("region-diff requires two regions")
		}
		a, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region-diff: %w", err)
		}
		bb, err := toRegion(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region-diff: %w", err)
		}
		return &sexpRegion{e: region.Diff(a, bb)}, nil
	})

	// -----------------------------------------------------------------------
	// (mark-piece b region "corner" ["Corner"])
	// -----------------------------------------------------------------------
	env.AddFunction("mark_piece", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("mark-piece requires a builder, a region, and a name")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mark-piece: %w", err)
		}
		r, err := toRegion(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mark-piece: %w", err)
		}
		typeName, err := toString(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mark-piece: name: %w", err)
		}
		display := ""
		if len(args) > 3 {
			if display, err = toString(args[3]); err != nil {
				return zygo.SexpNull, fmt.Errorf("mark-piece: display: %w", err)
			}
		}
		if err := b.MarkPiece(r, typeName, display); err != nil {
			return zygo.SexpNull, fmt.Errorf("mark-piece: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (add-piece-type b "wing" ["Wing"])
	// -----------------------------------------------------------------------
	env.AddFunction("add_piece_type", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("add-piece-type requires a builder and a name")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-piece-type: %w", err)
		}
		typeName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-piece-type: name: %w", err)
		}
		display := ""
		if len(args) > 2 {
			if display, err = toString(args[2]); err != nil {
				return zygo.SexpNull, fmt.Errorf("add-piece-type: display: %w", err)
			}
		}
		b.AddPieceType(typeName, display)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (unify-piece-types b sym)
	// -----------------------------------------------------------------------
	env.AddFunction("unify_piece_types", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("unify-piece-types requires a builder and a symmetry")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unify-piece-types: %w", err)
		}
		g, err := toSymmetry(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unify-piece-types: %w", err)
		}
		elems, err := g.Elements()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("unify-piece-types: %w", err)
		}
		if err := b.UnifyPieceTypes(elems); err != nil {
			return zygo.SexpNull, fmt.Errorf("unify-piece-types: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (axis-of b (vec 0 0 1)) — axis name lookup by direction
	// -----------------------------------------------------------------------
	env.AddFunction("axis_of", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("axis-of requires a builder and a direction")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis-of: %w", err)
		}
		v, err := toVector(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis-of: %w", err)
		}
		ax, err := b.AxisByDirection(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("axis-of: %w", err)
		}
		return &zygo.SexpStr{S: ax.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (name-color b 0 "U")
	// -----------------------------------------------------------------------
	env.AddFunction("name_color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("name-color requires a builder, a facet id, and a name")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name-color: %w", err)
		}
		id, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name-color: facet: %w", err)
		}
		colorName, err := toString(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("name-color: name: %w", err)
		}
		b.NameColor(id, colorName)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (finish b) — validate, freeze, and register in the catalog
	// -----------------------------------------------------------------------
	env.AddFunction("finish", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("finish requires a builder")
		}
		b, err := toBuilder(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("finish: %w", err)
		}
		pa := parseArgs(args[1:])
		var opts puzzle.FinishOptions
		if v, ok := pa.kw["strict"]; ok {
			if opts.Strict, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("finish: strict: %w", err)
			}
		}
		pz, err := b.Finish(opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("finish: %w", err)
		}
		if err := catalog.Add(pz); err != nil {
			return zygo.SexpNull, fmt.Errorf("finish: %w", err)
		}
		return &zygo.SexpStr{S: pz.ID}, nil
	})
}

// regionFold builds a variadic region combinator builtin.
func regionFold(name string, combine func(...region.Expr) region.Expr) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one region", name)
		}
		var parts []region.Expr
		for i, a := range args {
			r, err := toRegion(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: arg %d: %w", name, i, err)
			}
			parts = append(parts, r)
		}
		return &sexpRegion{e: combine(parts...)}, nil
	}
}

// symmetryPattern parses the (sym "pattern") argument shape shared by
// the wythoff builtins.
func symmetryPattern(args []zygo.Sexp) (*coxeter.Group, string, error) {
	if len(args) != 2 {
		return nil, "", fmt.Errorf("requires a symmetry and a pattern string")
	}
	g, err := toSymmetry(args[0])
	if err != nil {
		return nil, "", err
	}
	pattern, err := toKeywordString(args[1])
	if err != nil {
		return nil, "", err
	}
	return g, pattern, nil
}

func warnUnknownOption(where, key string) shape.Warning {
	return shape.Warning{
		Kind:    shape.WarnUnknownOption,
		Message: fmt.Sprintf("%s: unknown option :%s", where, key),
	}
}
