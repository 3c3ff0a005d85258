package logfile

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleFile(t *testing.T) *File {
	t.Helper()
	f := New()
	s := f.AddSolve("cube3", "1.0")
	s.SetScramble(Scramble{
		Time:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Seed:   "1851442446",
		Twists: "R U F' D2",
	})
	s.AddMark("scramble", time.Date(2026, 8, 1, 10, 0, 1, 0, time.UTC))
	s.AddMark("start-solve", time.Date(2026, 8, 1, 10, 0, 5, 0, time.UTC))
	s.AddTwists("R U R'")
	s.AddClick(time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC), "1", "R", true)
	s.AddMark("end-solve", time.Date(2026, 8, 1, 10, 2, 0, 0, time.UTC))
	return f
}

func TestRoundTrip(t *testing.T) {
	f := sampleFile(t)
	text := f.Serialize()
	require.True(t, strings.HasPrefix(text, "hypercut-log v1\n"))

	parsed, err := Parse(text)
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(f, parsed),
		"round trip changed the file:\n%s\nvs\n%s", text, parsed.Serialize())
}

func TestSolveView(t *testing.T) {
	f := sampleFile(t)
	parsed, err := Parse(f.Serialize())
	require.NoError(t, err)

	solves := parsed.Solves()
	require.Len(t, solves, 1)
	s := solves[0]
	require.Equal(t, "cube3", s.PuzzleID())
	require.Equal(t, "1.0", s.PuzzleVersion())

	sc, ok := s.Scramble()
	require.True(t, ok)
	require.Equal(t, "1851442446", sc.Seed)
	require.Equal(t, "R U F' D2", sc.Twists)
	require.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), sc.Time)

	events := s.Events()
	require.Len(t, events, 5)
	require.Equal(t, "scramble", events[0].Kind)
	require.Equal(t, "twists", events[2].Kind)
	require.Equal(t, "R U R'", events[2].Twists)
	require.Equal(t, "click", events[3].Kind)
	require.Equal(t, "R", events[3].Target)
	require.Equal(t, "1", events[3].Layers)
	require.True(t, events[3].Reverse)
	require.Equal(t, "end-solve", events[4].Kind)
}

func TestUnknownKeysPreserved(t *testing.T) {
	text := "hypercut-log v1\n" +
		"solve {\n" +
		"  puzzle {\n" +
		"    id \"cube3\"\n" +
		"    version \"1.0\"\n" +
		"    flavor \"mirror-blocks\"\n" +
		"  }\n" +
		"  experimental #true\n" +
		"  widget 42 {\n" +
		"    nested \"keep me\"\n" +
		"  }\n" +
		"}\n"
	f, err := Parse(text)
	require.NoError(t, err)
	require.Equal(t, text, f.Serialize())

	// Parse/serialize is idempotent on the structure too.
	again, err := Parse(f.Serialize())
	require.NoError(t, err)
	require.True(t, reflect.DeepEqual(f, again))
}

func TestStringEscapes(t *testing.T) {
	f := New()
	f.Root.Add("note", Str("line1\nline2\t\"quoted\" back\\slash"))
	parsed, err := Parse(f.Serialize())
	require.NoError(t, err)
	e, ok := parsed.Root.Get("note")
	require.True(t, ok)
	require.Equal(t, "line1\nline2\t\"quoted\" back\\slash", e.Values[0].Str)
}

func TestBadInput(t *testing.T) {
	_, err := Parse("not-a-log v1\n")
	require.ErrorIs(t, err, ErrBadMagic)
	_, err = Parse("hypercut-log vx\n")
	require.ErrorIs(t, err, ErrBadMagic)
	_, err = Parse("hypercut-log v1\nsolve {\n")
	require.ErrorIs(t, err, ErrSyntax)
	_, err = Parse("hypercut-log v1\n}\n")
	require.ErrorIs(t, err, ErrSyntax)
	_, err = Parse("hypercut-log v1\nkey \"unterminated\n")
	require.ErrorIs(t, err, ErrSyntax)
}
