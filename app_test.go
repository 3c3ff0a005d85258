package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestE2ECubeExample exercises the full pipeline: Lisp source → engine →
// shape kernel → frozen puzzle. This is the same path a frontend
// Evaluate binding takes.
func TestE2ECubeExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/cube3.lisp")
	if err != nil {
		t.Fatalf("failed to read cube3.lisp: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	if len(result.Puzzles) != 1 {
		t.Fatalf("expected 1 puzzle, got %d", len(result.Puzzles))
	}
	pz := result.Puzzles[0]
	if pz.ID != "cube3" {
		t.Errorf("id = %q, want cube3", pz.ID)
	}
	if pz.Pieces != 27 {
		t.Errorf("pieces = %d, want 27", pz.Pieces)
	}
	if pz.Stickers != 54 {
		t.Errorf("stickers = %d, want 54", pz.Stickers)
	}
	if pz.Axes != 6 || pz.Twists != 6 {
		t.Errorf("axes/twists = %d/%d, want 6/6", pz.Axes, pz.Twists)
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(cd 7 3 3)`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an infinite group")
	}
}

func TestExportSTL(t *testing.T) {
	app := NewApp()
	source, err := os.ReadFile("examples/cube3.lisp")
	if err != nil {
		t.Fatalf("failed to read cube3.lisp: %v", err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}

	out := filepath.Join(t.TempDir(), "cube3.stl")
	if err := app.ExportSTL(result, "cube3", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// 54 square stickers → 108 triangles → 84 + 108·50 bytes.
	want := int64(84 + 108*50)
	if info.Size() != want {
		t.Errorf("stl size = %d, want %d", info.Size(), want)
	}
}
