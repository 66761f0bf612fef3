package compiler

import (
	"cuelang.org/go/cue/token"

	"github.com/roach88/remap/internal/value"
)

// Node is a node of the syntax tree.
type Node interface {
	Pos() token.Pos
	node()
}

// Call is a function call, e.g. to_unix_timestamp(.ts, unit: "seconds").
type Call struct {
	Name    string
	NamePos token.Pos
	Args    []Arg
}

// Arg is one call argument. Keyword is empty for positional arguments.
type Arg struct {
	Keyword string
	Value   Node
	ArgPos  token.Pos
}

// Literal is a constant.
type Literal struct {
	Value    value.Value
	ValuePos token.Pos
}

// Path is a reference into the event. No segments means the whole event.
type Path struct {
	Segments []string
	PathPos  token.Pos
}

func (n *Call) Pos() token.Pos    { return n.NamePos }
func (n *Literal) Pos() token.Pos { return n.ValuePos }
func (n *Path) Pos() token.Pos    { return n.PathPos }

func (*Call) node()    {}
func (*Literal) node() {}
func (*Path) node()    {}
