// Package testutil provides helpers shared by package tests: timestamp and
// event construction, and program compilation that fails the test on
// error.
package testutil

import (
	"testing"
	"time"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/value"
)

// Timestamp parses an RFC 3339 timestamp.
func Timestamp(t testing.TB, s string) value.Timestamp {
	t.Helper()
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.Fatalf("testutil.Timestamp(%q): %v", s, err)
	}
	return value.NewTimestamp(ts)
}

// Event decodes a JSON object into an event.
func Event(t testing.TB, data string) value.Object {
	t.Helper()
	obj, err := value.UnmarshalObject([]byte(data))
	if err != nil {
		t.Fatalf("testutil.Event: %v", err)
	}
	return obj
}

// Compile compiles src against reg, declaring each schema path first.
func Compile(t testing.TB, reg *function.Registry, src string, schema map[string]value.Kind) *compiler.Program {
	t.Helper()
	state := expr.NewState()
	for path, kind := range schema {
		state.DeclarePath(path, kind)
	}
	prog, err := compiler.Compile(src, reg, state)
	if err != nil {
		t.Fatalf("testutil.Compile(%q): %v", src, err)
	}
	return prog
}
