package expr

import (
	"strings"

	"github.com/roach88/remap/internal/value"
)

// Expression is a node of a compiled program.
//
// Implementations are immutable after construction. Resolve must not retain
// ctx, and TypeDef must return the same result for the same state every
// time it is called.
type Expression interface {
	// Resolve evaluates the node against the event held by ctx.
	Resolve(ctx *Context) (value.Value, error)

	// TypeDef describes the node's result without evaluating it.
	TypeDef(state *State) TypeDef
}

// Context is the runtime state of one evaluation. It is created per event
// and must not be shared between concurrent evaluations.
type Context struct {
	target value.Object
}

// NewContext creates a Context over target. A nil target is treated as an
// empty event.
func NewContext(target value.Object) *Context {
	if target == nil {
		target = value.Object{}
	}
	return &Context{target: target}
}

// Target returns the event being processed.
func (c *Context) Target() value.Object {
	return c.target
}

// State is the compiler's static knowledge about the event shape.
// Expressions only read it.
type State struct {
	paths map[string]value.Kind
}

// NewState creates an empty State: every path has kind any.
func NewState() *State {
	return &State{paths: make(map[string]value.Kind)}
}

// DeclarePath records that the event field at path (".a.b" or "a.b") always
// holds a value of kind.
func (s *State) DeclarePath(path string, kind value.Kind) {
	s.paths[normalizePath(path)] = kind
}

// PathKind returns the declared kind of path, if any. A nil State knows
// nothing.
func (s *State) PathKind(path string) (value.Kind, bool) {
	if s == nil {
		return 0, false
	}
	k, ok := s.paths[normalizePath(path)]
	return k, ok
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, ".") {
		path = "." + path
	}
	return path
}
