package stdlib

import "github.com/roach88/remap/internal/function"

// All returns every builtin in the standard library.
func All() []function.Function {
	return []function.Function{
		ToUnixTimestamp{},
	}
}

// NewRegistry returns a registry holding All.
func NewRegistry() *function.Registry {
	reg, err := function.NewRegistry(All()...)
	if err != nil {
		// Identifiers are fixed at build time.
		panic(err)
	}
	return reg
}
