package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/remap/internal/value"
)

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{`42`, value.Integer(42)},
		{`-7`, value.Integer(-7)},
		{`0x10`, value.Integer(16)},
		{`1.5`, value.Float(1.5)},
		{`-2.5`, value.Float(-2.5)},
		{`"hello\n"`, value.Bytes("hello\n")},
		{`'single'`, value.Bytes("single")},
		{`true`, value.Boolean(true)},
		{`false`, value.Boolean(false)},
		{`null`, value.Null{}},
		{`t'2021-01-01T00:00:00Z'`, value.NewTimestamp(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))},
		{`t'2021-01-01T01:00:00.5+01:00'`, value.NewTimestamp(time.Date(2021, 1, 1, 0, 0, 0, 500_000_000, time.UTC))},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := Parse("", tt.src)
			require.NoError(t, err)
			lit, ok := n.(*Literal)
			require.True(t, ok, "got %T", n)
			assert.True(t, value.Equal(tt.want, lit.Value), "got %s", value.Format(lit.Value))
		})
	}
}

func TestParsePaths(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{`.`, nil},
		{`.ts`, []string{"ts"}},
		{`.request.timestamp`, []string{"request", "timestamp"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := Parse("", tt.src)
			require.NoError(t, err)
			path, ok := n.(*Path)
			require.True(t, ok, "got %T", n)
			assert.Equal(t, tt.want, path.Segments)
		})
	}
}

func TestParseCall(t *testing.T) {
	src := `to_unix_timestamp(t'2010-01-01T00:00:00Z', unit: "milliseconds")`
	n, err := Parse("", src)
	require.NoError(t, err)

	call, ok := n.(*Call)
	require.True(t, ok)
	assert.Equal(t, "to_unix_timestamp", call.Name)
	assert.Equal(t, 1, call.NamePos.Line())
	assert.Equal(t, 1, call.NamePos.Column())
	require.Len(t, call.Args, 2)

	assert.Empty(t, call.Args[0].Keyword)
	assert.IsType(t, &Literal{}, call.Args[0].Value)

	assert.Equal(t, "unit", call.Args[1].Keyword)
	assert.Equal(t, 44, call.Args[1].ArgPos.Column())
	assert.Equal(t, &Literal{Value: value.Bytes("milliseconds"), ValuePos: call.Args[1].Value.Pos()}, call.Args[1].Value)
}

func TestParseNestedAndMultiline(t *testing.T) {
	src := `// epoch seconds of the request
outer(
	inner(.ts),
	mode: "x",
)
`
	n, err := Parse("prog.remap", src)
	require.NoError(t, err)

	call := n.(*Call)
	assert.Equal(t, "outer", call.Name)
	assert.Equal(t, 2, call.NamePos.Line())
	require.Len(t, call.Args, 2)

	inner, ok := call.Args[0].Value.(*Call)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, &Path{Segments: []string{"ts"}, PathPos: inner.Args[0].Value.Pos()}, inner.Args[0].Value)
	assert.Equal(t, "mode", call.Args[1].Keyword)
}

func TestParseEmptyCall(t *testing.T) {
	n, err := Parse("", `now()`)
	require.NoError(t, err)
	assert.Empty(t, n.(*Call).Args)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", ``, "empty program"},
		{"comment only", "// nothing\n", "empty program"},
		{"bare identifier", `foo`, `unexpected identifier "foo": only function calls are supported`},
		{"unclosed call", `foo(1`, "expected ), found end of input"},
		{"missing comma", `foo(1 2)`, "expected ,, found INT 2"},
		{"trailing tokens", `1 2`, "unexpected INT 2 after expression"},
		{"bad timestamp", `t'yesterday'`, `invalid timestamp "yesterday": expected RFC 3339`},
		{"double-quoted timestamp", `t"2021-01-01T00:00:00Z"`, "timestamp literal must be single-quoted"},
		{"spaced timestamp", `t '2021-01-01T00:00:00Z'`, `unexpected identifier "t": only function calls are supported`},
		{"interpolation", `"a\(b)"`, "string interpolation is not supported"},
		{"dangling period", `.a.`, "expected field name, found end of input"},
		{"operator", `1 + 2`, `unexpected "+" after expression`},
		{"minus string", `-"a"`, "expected number after -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("", tt.src)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Contains(t, err.Error(), "syntax error: "+tt.msg)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("prog.remap", "foo(\n  bar)")
	require.Error(t, err)
	assert.Equal(t,
		`prog.remap:2:3: syntax error: unexpected identifier "bar": only function calls are supported`,
		err.Error())

	_, err = Parse("", `foo`)
	assert.Equal(t,
		`1:1: syntax error: unexpected identifier "foo": only function calls are supported`,
		err.Error())
}

func TestSyntaxErrorWithoutPosition(t *testing.T) {
	err := &SyntaxError{Message: "boom"}
	assert.Equal(t, "syntax error: boom", err.Error())
}
