// Package harness runs conformance checks against the remap compiler and
// engine.
//
// Two kinds of checks exist:
//
//   - Function examples: every function.Example a builtin documents is
//     compiled, evaluated against an empty event, and compared with its
//     documented result (RunExamples).
//   - Scenarios: YAML files declaring a program, an optional schema and
//     event, and the expected result, runtime error or compile error
//     (LoadScenarios, Run).
//
// Scenario evaluation goes through engine.Process with a fixed record id,
// so the same code path serves the CLI and the tests. Snapshots of results
// are canonical JSON and can be compared against golden files with goldie.
package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/engine"
	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/value"
)

// Harness runs scenarios and examples against one function registry.
type Harness struct {
	registry *function.Registry
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger used by the harness and the engines it
// creates. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a Harness for reg.
func New(reg *function.Registry, opts ...Option) *Harness {
	h := &Harness{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes scenario with a default Harness for reg.
func Run(scenario *Scenario, reg *function.Registry) (*Result, error) {
	return New(reg).Run(scenario)
}

// Run executes one scenario. Unmet expectations are reported in the
// Result; the error is only for scenarios that cannot be run at all.
//
// Execution flow:
// 1. Declare schema kinds in a fresh compiler state
// 2. Compile the program, checking compile_error if expected
// 3. Check type_def if expected
// 4. Process the input event, checking result or error
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name)
	want := scenario.Expect

	state := expr.NewState()
	for path, name := range scenario.Schema {
		kind, err := value.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("schema[%s]: %w", path, err)
		}
		state.DeclarePath(path, kind)
	}
	event, err := convertInput(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}

	h.logger.Debug("running scenario", "scenario", scenario.Name)

	prog, err := compiler.CompileFile(scenario.Name, scenario.Program, h.registry, state)
	if err != nil {
		result.Error = err.Error()
		switch {
		case want.CompileError == "":
			result.AddError("unexpected compile error: %v", err)
		case !matchesCompileError(err, want.CompileError):
			result.AddError("expected compile error %s, got: %v", want.CompileError, err)
		}
		return result, nil
	}
	result.TypeDef = prog.TypeDef.String()

	if want.CompileError != "" {
		result.AddError("expected compile error %s, program compiled", want.CompileError)
		return result, nil
	}

	if td := want.TypeDef; td != nil {
		kind, err := value.ParseKind(td.Kind)
		if err != nil {
			return nil, fmt.Errorf("expect.type_def.kind: %w", err)
		}
		wantDef := expr.TypeDef{Fallible: td.Fallible, Kind: kind}
		if prog.TypeDef != wantDef {
			result.AddError("type_def: expected %s, got %s", wantDef, prog.TypeDef)
		}
	}

	eng := engine.New(prog,
		engine.WithLogger(h.logger),
		engine.WithIDGenerator(engine.NewFixedGenerator(scenario.Name)),
	)
	out, err := eng.Process(event)
	if err != nil {
		// Report the cause, not the engine's record wrapper.
		cause := err
		var re *engine.RuntimeError
		if errors.As(err, &re) && re.Err != nil {
			cause = re.Err
		}
		result.Error = cause.Error()
		switch {
		case want.Error == "":
			result.AddError("unexpected runtime error: %v", cause)
		case !strings.Contains(cause.Error(), want.Error):
			result.AddError("expected runtime error containing %q, got: %v", want.Error, cause)
		}
		return result, nil
	}
	result.Output = value.Format(out.Value)

	switch {
	case want.Error != "":
		result.AddError("expected runtime error containing %q, got result %s", want.Error, result.Output)
	case result.Output != want.Result:
		result.AddError("result: expected %s, got %s", want.Result, result.Output)
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}

func matchesCompileError(err error, want string) bool {
	if want == CompileErrorSyntax {
		var syntaxErr *compiler.SyntaxError
		return errors.As(err, &syntaxErr)
	}
	return function.IsCompileError(err, want)
}

// RunExamples evaluates every documented example of every registered
// function, in registry order.
func (h *Harness) RunExamples() []ExampleResult {
	var results []ExampleResult
	for _, fn := range h.registry.Functions() {
		for _, ex := range fn.Examples() {
			r := ExampleResult{
				Function: fn.Identifier(),
				Title:    ex.Title,
				Source:   ex.Source,
				Want:     ex.Result,
			}
			r.Got = h.evalExample(ex.Source)
			r.Pass = r.Got == r.Want
			if !r.Pass {
				h.logger.Warn("example mismatch",
					"function", r.Function,
					"title", r.Title,
					"want", r.Want,
					"got", r.Got,
				)
			}
			results = append(results, r)
		}
	}
	return results
}

// RunExamples evaluates the examples of reg with a default Harness.
func RunExamples(reg *function.Registry) []ExampleResult {
	return New(reg).RunExamples()
}

// evalExample returns the formatted result, or the error text.
func (h *Harness) evalExample(src string) string {
	prog, err := compiler.Compile(src, h.registry, nil)
	if err != nil {
		return err.Error()
	}
	v, err := prog.Resolve(expr.NewContext(nil))
	if err != nil {
		return err.Error()
	}
	return value.Format(v)
}
