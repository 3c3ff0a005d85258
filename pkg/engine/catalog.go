package engine

import (
	"fmt"
	"sort"

	"github.com/chazu/hypercut/pkg/puzzle"
)

// Spec is a Go-level puzzle definition: metadata plus a build callback
// that receives a fresh builder. It is the same shape the Lisp surface
// drives, without the interpreter in between.
type Spec struct {
	ID      string
	Name    string
	Version string
	Tags    []string
	Ndim    int
	Build   func(*puzzle.Builder) error
}

// Catalog holds finished puzzles keyed by id. Ids are globally unique
// within a catalog; redefinition fails with puzzle.ErrRedefinedPuzzle.
type Catalog struct {
	byID  map[string]*puzzle.Puzzle
	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: map[string]*puzzle.Puzzle{}}
}

// Add registers a finished puzzle.
func (c *Catalog) Add(pz *puzzle.Puzzle) error {
	if _, dup := c.byID[pz.ID]; dup {
		return fmt.Errorf("%w: %q", puzzle.ErrRedefinedPuzzle, pz.ID)
	}
	c.byID[pz.ID] = pz
	c.order = append(c.order, pz.ID)
	return nil
}

// Define builds a puzzle from a Go-level spec and registers it.
func (c *Catalog) Define(s Spec) (*puzzle.Puzzle, error) {
	if _, dup := c.byID[s.ID]; dup {
		return nil, fmt.Errorf("%w: %q", puzzle.ErrRedefinedPuzzle, s.ID)
	}
	b, err := puzzle.NewBuilder(s.ID, s.Ndim)
	if err != nil {
		return nil, err
	}
	b.SetMeta(puzzle.Meta{Name: s.Name, Version: s.Version, Tags: s.Tags})
	if err := s.Build(b); err != nil {
		return nil, err
	}
	pz, err := b.Finish()
	if err != nil {
		return nil, err
	}
	if err := c.Add(pz); err != nil {
		return nil, err
	}
	return pz, nil
}

// Get returns the puzzle with the given id.
func (c *Catalog) Get(id string) (*puzzle.Puzzle, bool) {
	pz, ok := c.byID[id]
	return pz, ok
}

// IDs returns the registered ids in definition order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Puzzles returns the registered puzzles in definition order.
func (c *Catalog) Puzzles() []*puzzle.Puzzle {
	out := make([]*puzzle.Puzzle, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

// SortedIDs returns the registered ids in lexical order.
func (c *Catalog) SortedIDs() []string {
	out := c.IDs()
	sort.Strings(out)
	return out
}
