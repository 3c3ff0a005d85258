package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("")
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, c)
	require.Empty(t, c.IDs())
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, c)
	require.Empty(t, c.IDs())
}

func TestEvaluatePlainLisp(t *testing.T) {
	eng := NewEngine()

	// Valid Lisp that defines no puzzle leaves the catalog empty.
	c, evalErrs, err := eng.Evaluate("(+ 1 2)")
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, c)
	require.Empty(t, c.IDs())
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("(carve")
	require.NoError(t, err)
	require.Nil(t, c)
	require.NotEmpty(t, evalErrs)
}

func TestEvaluateRuntimeError(t *testing.T) {
	eng := NewEngine()

	// cd of a hyperbolic word fails inside the builtin; the error
	// surfaces as a non-fatal eval error.
	_, evalErrs, err := eng.Evaluate(`(cd 7 3)`)
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)
	found := false
	for _, e := range evalErrs {
		if strings.Contains(e.Message, "not finite") {
			found = true
		}
	}
	require.True(t, found, "expected InfiniteGroup message, got %v", evalErrs)
}

func TestPuzzleRequiresIDAndNdim(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate(`(puzzle :ndim 3)`)
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)

	_, evalErrs, err = eng.Evaluate(`(puzzle :id "p")`)
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)

	_, evalErrs, err = eng.Evaluate(`(puzzle :id "p" :ndim 9)`)
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)
}

const miniCube = `
(def b (puzzle :id "mini" :name "2x2x2" :ndim 3))
(def sym (cd "bc3"))
(carve b (orbit sym (wythoff-unit sym "oox")))
(slice b
  (plane :normal (vec 1 0 0) :offset 0)
  (plane :normal (vec 0 1 0) :offset 0)
  (plane :normal (vec 0 0 1) :offset 0))
(finish b)
`

func TestEvaluateMiniCube(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate(miniCube)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, c)

	pz, ok := c.Get("mini")
	require.True(t, ok)
	require.Equal(t, "2x2x2", pz.Meta.Name)
	require.Len(t, pz.Pieces, 8)
	require.Len(t, pz.Stickers, 24)
}

func TestRedefinedPuzzle(t *testing.T) {
	eng := NewEngine()

	source := miniCube + miniCube
	_, evalErrs, err := eng.Evaluate(source)
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)
	found := false
	for _, e := range evalErrs {
		if strings.Contains(e.Message, "already defined") {
			found = true
		}
	}
	require.True(t, found, "expected redefinition error, got %v", evalErrs)
}

func TestPreprocessKeywords(t *testing.T) {
	got := preprocessSource(`(puzzle :id "x" :ndim 3)`)
	require.Contains(t, got, `"__kw_id"`)
	require.Contains(t, got, `"__kw_ndim"`)
	// Strings are untouched.
	require.Contains(t, got, `"x"`)
}

func TestPreprocessKebabCase(t *testing.T) {
	got := preprocessSource(`(add-axes b dirs depths)`)
	require.Contains(t, got, "add_axes")
	// A genuine subtraction is preserved.
	got = preprocessSource(`(- 5 3)`)
	require.Contains(t, got, "(- 5 3)")
}

func TestPreprocessComments(t *testing.T) {
	got := preprocessSource("; a comment\n(+ 1 2)")
	require.True(t, strings.HasPrefix(got, "//"))
	// Strings keep their semicolons.
	got = preprocessSource(`(def s "a;b")`)
	require.Contains(t, got, `"a;b"`)
}
