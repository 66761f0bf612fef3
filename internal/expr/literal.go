package expr

import "github.com/roach88/remap/internal/value"

// Literal is a constant value written in the program source.
type Literal struct {
	Value value.Value
}

// NewLiteral creates a Literal node for v.
func NewLiteral(v value.Value) *Literal {
	if v == nil {
		v = value.Null{}
	}
	return &Literal{Value: v}
}

// Resolve returns the constant. It never fails.
func (l *Literal) Resolve(*Context) (value.Value, error) {
	return l.Value, nil
}

// TypeDef is infallible with exactly the literal's kind.
func (l *Literal) TypeDef(*State) TypeDef {
	return TypeDef{Kind: value.KindOf(l.Value)}
}
