package function

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/value"
)

// Argument is one call-site argument as written in the source. Keyword is
// empty for positional arguments.
type Argument struct {
	Keyword string
	Expr    expr.Expression
	Pos     token.Pos
}

// ArgumentList holds the arguments of one call, keyed by parameter keyword.
// It is built by Bind and consumed by Function.Compile.
type ArgumentList struct {
	function string
	pos      token.Pos
	args     map[string]Argument
}

// Bind matches call-site arguments to fn's parameters.
//
// Positional arguments fill parameters in declaration order, skipping none.
// Keyword arguments match by keyword. Each argument's static kind, computed
// under state, must intersect the parameter's kind.
func Bind(fn Function, state *expr.State, pos token.Pos, args []Argument) (*ArgumentList, error) {
	name := fn.Identifier()
	params := fn.Parameters()
	list := &ArgumentList{function: name, pos: pos, args: make(map[string]Argument, len(args))}

	next := 0
	for _, arg := range args {
		var param Parameter
		if arg.Keyword == "" {
			if next >= len(params) {
				return nil, &CompileError{
					Code:     ErrTooManyArguments,
					Function: name,
					Message:  fmt.Sprintf("too many arguments: takes at most %d", len(params)),
					Pos:      arg.Pos,
				}
			}
			param = params[next]
			next++
		} else {
			i := slices.IndexFunc(params, func(p Parameter) bool { return p.Keyword == arg.Keyword })
			if i < 0 {
				return nil, &CompileError{
					Code:     ErrUnknownArgument,
					Function: name,
					Keyword:  arg.Keyword,
					Message:  fmt.Sprintf("unknown argument %q", arg.Keyword),
					Pos:      arg.Pos,
				}
			}
			param = params[i]
		}

		if _, dup := list.args[param.Keyword]; dup {
			return nil, &CompileError{
				Code:     ErrDuplicateArgument,
				Function: name,
				Keyword:  param.Keyword,
				Message:  fmt.Sprintf("argument %q given more than once", param.Keyword),
				Pos:      arg.Pos,
			}
		}

		got := arg.Expr.TypeDef(state).Kind
		if !got.Intersects(param.Kind) {
			return nil, &CompileError{
				Code:     ErrArgumentKind,
				Function: name,
				Keyword:  param.Keyword,
				Message:  fmt.Sprintf("argument %q expects %s, got %s", param.Keyword, param.Kind, got),
				Pos:      arg.Pos,
			}
		}

		arg.Keyword = param.Keyword
		list.args[param.Keyword] = arg
	}

	for _, p := range params {
		if !p.Required {
			continue
		}
		if _, ok := list.args[p.Keyword]; !ok {
			return nil, list.missing(p.Keyword)
		}
	}
	return list, nil
}

// Required returns the argument bound to keyword.
func (l *ArgumentList) Required(keyword string) (expr.Expression, error) {
	arg, ok := l.args[keyword]
	if !ok {
		return nil, l.missing(keyword)
	}
	return arg.Expr, nil
}

// Optional returns the argument bound to keyword, or nil.
func (l *ArgumentList) Optional(keyword string) expr.Expression {
	arg, ok := l.args[keyword]
	if !ok {
		return nil
	}
	return arg.Expr
}

// OptionalLiteral returns the constant value of the argument bound to
// keyword, or nil if there is none. The argument must be a literal.
func (l *ArgumentList) OptionalLiteral(keyword string) (value.Value, error) {
	arg, ok := l.args[keyword]
	if !ok {
		return nil, nil
	}
	lit, ok := arg.Expr.(*expr.Literal)
	if !ok {
		return nil, &CompileError{
			Code:     ErrExpectedLiteral,
			Function: l.function,
			Keyword:  keyword,
			Message:  fmt.Sprintf("argument %q must be a literal", keyword),
			Pos:      arg.Pos,
		}
	}
	return lit.Value, nil
}

// OptionalEnum returns the string literal bound to keyword, checked
// against variants. ok is false when the argument is absent.
func (l *ArgumentList) OptionalEnum(keyword string, variants []string) (variant string, ok bool, err error) {
	v, err := l.OptionalLiteral(keyword)
	if err != nil || v == nil {
		return "", false, err
	}
	s, isString := v.(value.Bytes)
	if !isString {
		return "", false, &CompileError{
			Code:     ErrExpectedLiteral,
			Function: l.function,
			Keyword:  keyword,
			Message:  fmt.Sprintf("argument %q must be a string literal, got %s", keyword, value.KindOf(v)),
			Pos:      l.args[keyword].Pos,
		}
	}
	if !slices.Contains(variants, string(s)) {
		return "", false, &CompileError{
			Code:     ErrInvalidEnumVariant,
			Function: l.function,
			Keyword:  keyword,
			Message: fmt.Sprintf("invalid enum variant %q for argument %q, expected one of: %s",
				string(s), keyword, strings.Join(variants, ", ")),
			Pos: l.args[keyword].Pos,
		}
	}
	return string(s), true, nil
}

// Len returns the number of bound arguments.
func (l *ArgumentList) Len() int {
	return len(l.args)
}

func (l *ArgumentList) missing(keyword string) *CompileError {
	return &CompileError{
		Code:     ErrMissingArgument,
		Function: l.function,
		Keyword:  keyword,
		Message:  fmt.Sprintf("missing required argument %q", keyword),
		Pos:      l.pos,
	}
}
