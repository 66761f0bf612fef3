// Package function defines the contract between the remap compiler and the
// builtins it can call.
//
// A builtin is described by a Function: its identifier, its documentation,
// its ordered parameter declarations, and a Compile operation. The compiler
// never evaluates anything while compiling a call. It binds the call-site
// arguments to the declared parameters (Bind), hands the resulting
// ArgumentList to Compile, and receives an expr.Expression back.
//
// COMPILE ERRORS:
//
// All binding and argument-extraction failures are *CompileError values
// with a stable code:
//
//	E200  internal error in a builtin's compile step
//	E201  missing required argument
//	E202  unknown argument keyword
//	E203  too many positional arguments
//	E204  argument kind does not match the parameter
//	E205  argument must be a literal
//	E206  literal is not one of the allowed enum variants
//	E207  argument given more than once
//	E208  duplicate function identifier in a registry
//	E209  call to an undefined function
package function
