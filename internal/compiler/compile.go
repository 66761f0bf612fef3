package compiler

import (
	"fmt"

	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/value"
)

// Compile parses src and compiles it against reg. state holds what is
// statically known about the event; nil means nothing is known.
//
// Compilation never evaluates the program.
func Compile(src string, reg *function.Registry, state *expr.State) (*Program, error) {
	return CompileFile("", src, reg, state)
}

// CompileFile is Compile with a file name attached to error positions.
func CompileFile(filename, src string, reg *function.Registry, state *expr.State) (*Program, error) {
	if state == nil {
		state = expr.NewState()
	}

	tree, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}

	root, err := build(tree, reg, state)
	if err != nil {
		return nil, err
	}

	return &Program{
		Source:  src,
		Root:    root,
		TypeDef: root.TypeDef(state),
	}, nil
}

// build converts the syntax tree leaf first: arguments are compiled
// before the call that owns them.
func build(n Node, reg *function.Registry, state *expr.State) (expr.Expression, error) {
	switch n := n.(type) {
	case *Literal:
		return expr.NewLiteral(n.Value), nil
	case *Path:
		return expr.NewPath(n.Segments...), nil
	case *Call:
		args := make([]function.Argument, 0, len(n.Args))
		for _, a := range n.Args {
			e, err := build(a.Value, reg, state)
			if err != nil {
				return nil, err
			}
			args = append(args, function.Argument{Keyword: a.Keyword, Expr: e, Pos: a.ArgPos})
		}
		return reg.Compile(state, n.Name, n.NamePos, args)
	default:
		return nil, fmt.Errorf("unsupported syntax node %T", n)
	}
}

// Program is a compiled remap program. It is immutable and may be
// resolved concurrently, one Context per evaluation.
type Program struct {
	Source  string
	Root    expr.Expression
	TypeDef expr.TypeDef
}

// Resolve evaluates the program against the event held by ctx.
func (p *Program) Resolve(ctx *expr.Context) (value.Value, error) {
	return p.Root.Resolve(ctx)
}
