// Package compiler turns remap program source into an executable Program.
//
// Compilation has two phases:
//
//	Parse    source text -> syntax tree (Call, Literal, Path nodes)
//	Compile  syntax tree -> expr.Expression tree, through a function.Registry
//
// The reader uses the CUE scanner (cuelang.org/go/cue/scanner) for
// tokens and positions, so comments, string escapes and number syntax
// follow CUE's lexical rules. The accepted grammar is small:
//
//	expr    = call | literal | path
//	call    = ident "(" [ arg { "," arg } [ "," ] ] ")"
//	arg     = [ ident ":" ] expr
//	literal = int | float | string | "t" string | "true" | "false" | "null"
//	path    = "." | "." ident { "." ident }
//
// A program is exactly one expression. Anything else is a *SyntaxError.
// Errors raised while binding and compiling calls are *function.CompileError
// values carrying the position of the offending call or argument.
package compiler
