package expr

import "github.com/roach88/remap/internal/value"

// TypeDef is the static type of an expression: the kinds of value it can
// produce, and whether evaluating it can fail.
type TypeDef struct {
	Fallible bool
	Kind     value.Kind
}

// Infallible returns a copy of td that cannot fail.
func (td TypeDef) Infallible() TypeDef {
	td.Fallible = false
	return td
}

// AsFallible returns a copy of td that can fail.
func (td TypeDef) AsFallible() TypeDef {
	td.Fallible = true
	return td
}

// FallibleUnless returns a copy of td that is fallible unless its kind is
// exactly kind. An already fallible td stays fallible.
func (td TypeDef) FallibleUnless(kind value.Kind) TypeDef {
	if !td.Kind.IsExact(kind) {
		td.Fallible = true
	}
	return td
}

// WithConstraint returns a copy of td whose kind is replaced by kind.
func (td TypeDef) WithConstraint(kind value.Kind) TypeDef {
	td.Kind = kind
	return td
}

// String renders td as "integer" or "integer, fallible".
func (td TypeDef) String() string {
	if td.Fallible {
		return td.Kind.String() + ", fallible"
	}
	return td.Kind.String()
}
