package function

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Compile error codes (E200-E299)
const (
	ErrInternal = "E200" // builtin compile step failed unexpectedly

	// Argument binding (E201-E207)
	ErrMissingArgument    = "E201" // required parameter has no argument
	ErrUnknownArgument    = "E202" // keyword matches no parameter
	ErrTooManyArguments   = "E203" // more positional arguments than parameters
	ErrArgumentKind       = "E204" // static kind cannot satisfy the parameter
	ErrExpectedLiteral    = "E205" // parameter requires a literal
	ErrInvalidEnumVariant = "E206" // literal outside the enum set
	ErrDuplicateArgument  = "E207" // parameter bound twice

	// Registry (E208-E209)
	ErrDuplicateFunction = "E208"
	ErrUndefinedFunction = "E209"
)

// CompileError reports a call that cannot be compiled.
type CompileError struct {
	Code     string
	Function string
	Keyword  string
	Message  string
	Pos      token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Function != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, e.Function, e.Message)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line(), e.Pos.Column(), msg)
	}
	return msg
}

// IsCompileError reports whether err is, or wraps, a *CompileError with the
// given code. An empty code matches any compile error.
func IsCompileError(err error, code string) bool {
	var ce *CompileError
	if !errors.As(err, &ce) {
		return false
	}
	return code == "" || ce.Code == code
}
