package main

import (
	"log"
	"os"

	"github.com/chazu/hypercut/pkg/engine"
	"github.com/chazu/hypercut/pkg/export"
	"github.com/chazu/hypercut/pkg/puzzle"
)

// App is the host facade: it owns an engine and exposes evaluation
// results in a frontend-friendly shape.
type App struct {
	engine *engine.Engine
}

// PuzzleSummary is the JSON-serializable digest of one finished puzzle.
type PuzzleSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Ndim     int    `json:"ndim"`
	Pieces   int    `json:"pieces"`
	Stickers int    `json:"stickers"`
	Axes     int    `json:"axes"`
	Twists   int    `json:"twists"`
	Colors   int    `json:"colors"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to hosts.
type EvalResult struct {
	Puzzles  []PuzzleSummary `json:"puzzles"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []string        `json:"warnings"`

	catalog *engine.Catalog
}

// NewApp creates a new App with a fresh engine.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// Evaluate takes puzzle-definition Lisp source and returns puzzle
// summaries plus errors and warnings. This is the primary host binding.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Puzzles:  []PuzzleSummary{},
		Errors:   []EvalErrorData{},
		Warnings: []string{},
	}

	catalog, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if catalog == nil {
		return result
	}
	result.catalog = catalog
	for _, pz := range catalog.Puzzles() {
		result.Puzzles = append(result.Puzzles, summarize(pz))
		for _, w := range pz.Ndiag.Warnings {
			result.Warnings = append(result.Warnings, pz.ID+": "+w.String())
		}
	}
	return result
}

// EvaluateFile reads and evaluates a definition file.
func (a *App) EvaluateFile(path string) (EvalResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return EvalResult{}, err
	}
	return a.Evaluate(string(source)), nil
}

// ExportSTL writes the sticker surface of a finished 3-D puzzle to path.
func (a *App) ExportSTL(res EvalResult, id, path string) error {
	if res.catalog == nil {
		return os.ErrNotExist
	}
	pz, ok := res.catalog.Get(id)
	if !ok {
		return os.ErrNotExist
	}
	tris, err := export.Triangles(pz)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteSTL(f, tris)
}

func summarize(pz *puzzle.Puzzle) PuzzleSummary {
	return PuzzleSummary{
		ID:       pz.ID,
		Name:     pz.Meta.Name,
		Ndim:     pz.Ndim,
		Pieces:   len(pz.Pieces),
		Stickers: len(pz.Stickers),
		Axes:     len(pz.Axes),
		Twists:   len(pz.Twists),
		Colors:   len(pz.Colors),
	}
}
