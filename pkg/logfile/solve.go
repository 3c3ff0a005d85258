package logfile

import "time"

// SolveView is a typed window over one "solve" block. Unknown sibling
// entries stay untouched in the underlying block.
type SolveView struct {
	B *Block
}

// Solves returns a view for each top-level solve block.
func (f *File) Solves() []SolveView {
	var out []SolveView
	for _, e := range f.Root.GetAll("solve") {
		if b := e.Block(); b != nil {
			out = append(out, SolveView{B: b})
		}
	}
	return out
}

// AddSolve appends a new solve block with its puzzle stanza.
func (f *File) AddSolve(puzzleID, puzzleVersion string) SolveView {
	b := f.Root.AddBlock("solve")
	pb := b.AddBlock("puzzle")
	pb.Add("id", Str(puzzleID))
	pb.Add("version", Str(puzzleVersion))
	return SolveView{B: b}
}

// PuzzleID returns the id from the solve's puzzle stanza.
func (s SolveView) PuzzleID() string {
	if e, ok := s.B.Get("puzzle"); ok {
		if pb := e.Block(); pb != nil {
			if id, ok := pb.Get("id"); ok && len(id.Values) > 0 {
				return id.Values[0].Text()
			}
		}
	}
	return ""
}

// PuzzleVersion returns the version from the solve's puzzle stanza.
func (s SolveView) PuzzleVersion() string {
	if e, ok := s.B.Get("puzzle"); ok {
		if pb := e.Block(); pb != nil {
			if v, ok := pb.Get("version"); ok && len(v.Values) > 0 {
				return v.Values[0].Text()
			}
		}
	}
	return ""
}

// Scramble describes the optional "scramble full { ... }" stanza. Seed
// is opaque text: it round-trips byte-exactly and is never replayed by
// the kernel.
type Scramble struct {
	Time   time.Time
	Seed   string
	Twists string
}

// Scramble returns the solve's scramble stanza, if present.
func (s SolveView) Scramble() (Scramble, bool) {
	e, ok := s.B.Get("scramble")
	if !ok {
		return Scramble{}, false
	}
	b := e.Block()
	if b == nil {
		return Scramble{}, false
	}
	var out Scramble
	if t, ok := b.Get("time"); ok && len(t.Values) > 0 {
		out.Time, _ = t.Values[0].Time()
	}
	if sd, ok := b.Get("seed"); ok && len(sd.Values) > 0 {
		out.Seed = sd.Values[0].Text()
	}
	if tw, ok := b.Get("twists"); ok && len(tw.Values) > 0 {
		out.Twists = tw.Values[0].Text()
	}
	return out, true
}

// SetScramble writes a "scramble full" stanza.
func (s SolveView) SetScramble(sc Scramble) {
	b := s.B.AddBlock("scramble", Atom("full"))
	b.Add("time", Timestamp(sc.Time))
	if sc.Seed != "" {
		b.Add("seed", Atom(sc.Seed))
	}
	b.Add("twists", Str(sc.Twists))
}

// Event is one timestamped entry of a solve's log block.
type Event struct {
	Kind    string // scramble, start-solve, twists, click, end-solve, end-session
	Time    time.Time
	Twists  string // for "twists" events
	Layers  string // for "click" events
	Target  string
	Reverse bool
}

// Events returns the solve's log events in order, whatever their kind.
// A block entry fills Time, Layers, Target and Reverse from its keys; any
// other entry puts its first value in Twists.
func (s SolveView) Events() []Event {
	e, ok := s.B.Get("log")
	if !ok {
		return nil
	}
	b := e.Block()
	if b == nil {
		return nil
	}
	var out []Event
	for _, entry := range b.Entries {
		ev := Event{Kind: entry.Key}
		if eb := entry.Block(); eb != nil {
			if t, ok := eb.Get("time"); ok && len(t.Values) > 0 {
				ev.Time, _ = t.Values[0].Time()
			}
			if l, ok := eb.Get("layers"); ok && len(l.Values) > 0 {
				ev.Layers = l.Values[0].Text()
			}
			if tg, ok := eb.Get("target"); ok && len(tg.Values) > 0 {
				ev.Target = tg.Values[0].Text()
			}
			if r, ok := eb.Get("reverse"); ok && len(r.Values) > 0 && r.Values[0].Kind == KindBool {
				ev.Reverse = r.Values[0].Bool
			}
		} else if len(entry.Values) > 0 {
			ev.Twists = entry.Values[0].Text()
		}
		out = append(out, ev)
	}
	return out
}

// LogBlock returns the solve's log block, creating it if absent.
func (s SolveView) LogBlock() *Block {
	if e, ok := s.B.Get("log"); ok {
		if b := e.Block(); b != nil {
			return b
		}
	}
	return s.B.AddBlock("log")
}

// AddTwists appends a twists event.
func (s SolveView) AddTwists(seq string) {
	s.LogBlock().Add("twists", Str(seq))
}

// AddClick appends a click event.
func (s SolveView) AddClick(t time.Time, layers, target string, reverse bool) {
	b := s.LogBlock().AddBlock("click")
	b.Add("time", Timestamp(t))
	b.Add("layers", Atom(layers))
	b.Add("target", Str(target))
	if reverse {
		b.Add("reverse", Bool(true))
	}
}

// AddMark appends a bare timestamped event such as start-solve.
func (s SolveView) AddMark(kind string, t time.Time) {
	b := s.LogBlock().AddBlock(kind)
	b.Add("time", Timestamp(t))
}
