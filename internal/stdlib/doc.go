// Package stdlib holds the builtins shipped with remap.
//
// Each builtin is a function.Function (the descriptor the compiler talks
// to) paired with an unexported expr.Expression (the runtime node its
// Compile returns). Runtime nodes are immutable; they own their argument
// sub-expressions and copy any literal configuration such as a unit.
//
// Use NewRegistry to get a registry with every builtin installed.
package stdlib
