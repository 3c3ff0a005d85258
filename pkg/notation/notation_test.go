package notation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	cases := []struct {
		in   string
		want Token
	}{
		{"R", Token{Axis: "R", Times: 1}},
		{"R'", Token{Axis: "R", Times: 1, Inverse: true}},
		{"R2", Token{Axis: "R", Times: 2}},
		{"R2'", Token{Axis: "R", Times: 2, Inverse: true}},
		{"2R", Token{LayerFrom: 2, LayerTo: 2, Axis: "R", Times: 1}},
		{"{1-3}Fw2'", Token{LayerFrom: 1, LayerTo: 3, Axis: "F", Wide: true, Times: 2, Inverse: true}},
		{"Rw", Token{Axis: "R", Wide: true, Times: 1}},
		{"UF3", Token{Axis: "UF", Times: 3}},
		{"R+", Token{Axis: "R", Times: 1, Jumble: "+"}},
		{"R--", Token{Axis: "R", Times: 1, Jumble: "--"}},
		{"3BR'++", Token{LayerFrom: 3, LayerTo: 3, Axis: "BR", Times: 1, Inverse: true, Jumble: "++"}},
	}
	for _, c := range cases {
		got, err := ParseToken(c.in)
		require.NoError(t, err, "token %q", c.in)
		require.Equal(t, c.want, got, "token %q", c.in)
	}
}

func TestParseTokenErrors(t *testing.T) {
	for _, in := range []string{
		"", "2", "{1-3}", "{3-1}R", "{1-}R", "{1", "r", "R!", "Rx", "R+-",
	} {
		_, err := ParseToken(in)
		require.ErrorIs(t, err, ErrBadToken, "token %q", in)
	}
}

func TestRoundTrip(t *testing.T) {
	seqs := []string{
		"R U R' U'",
		"{1-3}Fw2' 2R D2 B++",
		"R+ L- U2 {2-4}BRw3'",
	}
	for _, s := range seqs {
		toks, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, s, Format(toks), "sequence %q", s)

		// parse(format(seq)) = seq
		again, err := Parse(Format(toks))
		require.NoError(t, err)
		require.Equal(t, toks, again)
	}
}

func TestParseWhitespace(t *testing.T) {
	toks, err := Parse("  R\t U \n F' ")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	require.Equal(t, "R U F'", Format(toks))
}
