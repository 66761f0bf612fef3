package function

import (
	"errors"
	"fmt"
	"sort"

	"cuelang.org/go/cue/token"

	"github.com/roach88/remap/internal/expr"
)

// Registry maps identifiers to builtins. It is filled once when a program
// is built and only read afterwards.
type Registry struct {
	fns map[string]Function
}

// NewRegistry creates a Registry holding fns.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{fns: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds fn. Identifiers must be unique.
func (r *Registry) Register(fn Function) error {
	name := fn.Identifier()
	if _, exists := r.fns[name]; exists {
		return &CompileError{
			Code:     ErrDuplicateFunction,
			Function: name,
			Message:  "function already registered",
		}
	}
	r.fns[name] = fn
	return nil
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Functions returns every registered builtin sorted by identifier.
func (r *Registry) Functions() []Function {
	out := make([]Function, 0, len(r.fns))
	for _, fn := range r.fns {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identifier() < out[j].Identifier()
	})
	return out
}

// Compile resolves name, binds args and compiles the call. pos is the
// position of the call and is attached to errors that have none.
func (r *Registry) Compile(state *expr.State, name string, pos token.Pos, args []Argument) (expr.Expression, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, &CompileError{
			Code:    ErrUndefinedFunction,
			Message: fmt.Sprintf("call to undefined function %q", name),
			Pos:     pos,
		}
	}

	list, err := Bind(fn, state, pos, args)
	if err != nil {
		return nil, err
	}

	node, err := fn.Compile(state, list)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			if ce.Function == "" {
				ce.Function = name
			}
			if !ce.Pos.IsValid() {
				ce.Pos = pos
			}
			return nil, ce
		}
		return nil, &CompileError{
			Code:     ErrInternal,
			Function: name,
			Message:  err.Error(),
			Pos:      pos,
		}
	}
	return node, nil
}
