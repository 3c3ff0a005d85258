// Package engine provides the Lisp evaluation surface for puzzle
// definitions. It wraps zygomys in a sandboxed environment and produces
// a catalog of frozen puzzles from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hypercut/pkg/shape"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation,
// carried over from the kernel's per-build diagnostics.
type EvalWarning struct {
	Puzzle  string
	Message string
}

// EvalResult bundles the full output of an evaluation for use by hosts.
type EvalResult struct {
	Catalog  *Catalog
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for puzzle-definition evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces a catalog of puzzles.
// Each call creates a fresh zygomys sandbox for deterministic
// evaluation.
//
// Return semantics:
//   - On success: returns catalog + nil errors + nil error
//   - On parse/eval failure: returns nil catalog + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Catalog, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{catalog: c, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// EvaluateFull runs Evaluate and flattens the per-build kernel
// diagnostics into warnings.
func (e *Engine) EvaluateFull(source string) EvalResult {
	c, errs, err := e.Evaluate(source)
	res := EvalResult{Catalog: c, Errors: errs}
	if err != nil {
		res.Errors = append(res.Errors, EvalError{Message: err.Error()})
		return res
	}
	if c != nil {
		for _, pz := range c.Puzzles() {
			for _, w := range pz.Ndiag.Warnings {
				res.Warnings = append(res.Warnings, EvalWarning{Puzzle: pz.ID, Message: w.String()})
			}
		}
	}
	return res
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Catalog, []EvalError, error) {
	// Empty source is a valid program that produces an empty catalog.
	if strings.TrimSpace(source) == "" {
		return NewCatalog(), nil, nil
	}

	// Create a fresh sandboxed zygomys environment. Sandbox mode
	// prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	catalog := NewCatalog()
	registerBuiltins(env, catalog)

	// Load and compile the preprocessed source into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return catalog, nil, nil
}

// Diagnostics collects the kernel warnings of every finished puzzle in a
// catalog.
func Diagnostics(c *Catalog) []shape.Warning {
	var out []shape.Warning
	for _, pz := range c.Puzzles() {
		out = append(out, pz.Ndiag.Warnings...)
	}
	return out
}

// linePattern matches zygomys error messages that include
// "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values. It attempts to extract line number information from the error
// message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
