package function

import (
	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/value"
)

// Parameter declares one argument a builtin accepts.
type Parameter struct {
	// Keyword is the name used for keyword arguments, e.g. "unit".
	Keyword string
	// Kind is the set of kinds the argument may statically have.
	Kind value.Kind
	// Required parameters must be supplied at every call site.
	Required bool
}

// Example is a documented call. Source is a complete remap program and
// Result is the value.Format rendering of its result against an empty
// event. Examples double as executable tests.
type Example struct {
	Title  string
	Source string
	Result string
}

// Function is a builtin the compiler can call.
type Function interface {
	// Identifier is the name used at call sites. It must be unique within
	// a Registry.
	Identifier() string

	Summary() string
	Usage() string
	Parameters() []Parameter
	Examples() []Example

	// Compile validates the bound arguments and returns the runtime node.
	// It must not evaluate any argument.
	Compile(state *expr.State, args *ArgumentList) (expr.Expression, error)
}
