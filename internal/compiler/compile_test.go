package compiler_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/stdlib"
	"github.com/roach88/remap/internal/value"
)

func compile(t *testing.T, src string, state *expr.State) (*compiler.Program, error) {
	t.Helper()
	return compiler.Compile(src, stdlib.NewRegistry(), state)
}

func TestCompileExamples(t *testing.T) {
	for _, fn := range stdlib.All() {
		for _, ex := range fn.Examples() {
			t.Run(fn.Identifier()+"/"+ex.Title, func(t *testing.T) {
				prog, err := compile(t, ex.Source, nil)
				require.NoError(t, err)

				got, err := prog.Resolve(expr.NewContext(nil))
				require.NoError(t, err)
				assert.Equal(t, ex.Result, value.Format(got))
			})
		}
	}
}

func TestCompileTypeDef(t *testing.T) {
	state := expr.NewState()
	state.DeclarePath(".ts", value.KindTimestamp)

	tests := []struct {
		src  string
		want expr.TypeDef
	}{
		{`to_unix_timestamp(t'2021-01-01T00:00:00Z')`, expr.TypeDef{Kind: value.KindInteger}},
		{`to_unix_timestamp(.ts, unit: "nanoseconds")`, expr.TypeDef{Kind: value.KindInteger}},
		{`to_unix_timestamp(.other)`, expr.TypeDef{Fallible: true, Kind: value.KindInteger}},
		{`.other`, expr.TypeDef{Kind: value.KindAny}},
		{`"x"`, expr.TypeDef{Kind: value.KindBytes}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := compile(t, tt.src, state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, prog.TypeDef)
			assert.Equal(t, tt.src, prog.Source)
		})
	}
}

func TestCompileHoursRejected(t *testing.T) {
	_, err := compile(t, `to_unix_timestamp(t'2000-01-01T00:00:00Z', unit: "hours")`, nil)
	require.Error(t, err)
	assert.True(t, function.IsCompileError(err, function.ErrInvalidEnumVariant))
	assert.Equal(t,
		`1:44: [E206] to_unix_timestamp: invalid enum variant "hours" for argument "unit", expected one of: seconds, milliseconds, nanoseconds`,
		err.Error())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"undefined function", `to_unix_time(.ts)`, function.ErrUndefinedFunction},
		{"missing value", `to_unix_timestamp(unit: "seconds")`, function.ErrMissingArgument},
		{"no arguments", `to_unix_timestamp()`, function.ErrMissingArgument},
		{"unknown keyword", `to_unix_timestamp(.ts, units: "seconds")`, function.ErrUnknownArgument},
		{"too many", `to_unix_timestamp(.ts, "seconds", 1)`, function.ErrTooManyArguments},
		{"string operand", `to_unix_timestamp("2021-01-01T00:00:00Z")`, function.ErrArgumentKind},
		{"unit from event", `to_unix_timestamp(.ts, unit: .unit)`, function.ErrExpectedLiteral},
		{"integer unit", `to_unix_timestamp(.ts, unit: 1)`, function.ErrArgumentKind},
		{"duplicate", `to_unix_timestamp(.ts, value: .ts)`, function.ErrDuplicateArgument},
		{"nested error", `to_unix_timestamp(nope())`, function.ErrUndefinedFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, tt.src, nil)
			require.Error(t, err)
			assert.True(t, function.IsCompileError(err, tt.code), "got %v", err)
		})
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := compile(t, `to_unix_timestamp(`, nil)
	var syntaxErr *compiler.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestCompileFileNamesPositions(t *testing.T) {
	_, err := compiler.CompileFile("ts.remap", `nope()`, stdlib.NewRegistry(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[E209]")
}

func TestProgramResolveEvent(t *testing.T) {
	prog, err := compile(t, `to_unix_timestamp(.request.ts, unit: "milliseconds")`, nil)
	require.NoError(t, err)

	event := value.Object{
		"request": value.Object{
			"ts": value.NewTimestamp(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
	got, err := prog.Resolve(expr.NewContext(event))
	require.NoError(t, err)
	assert.Equal(t, value.Integer(1609459200000), got)

	_, err = prog.Resolve(expr.NewContext(value.Object{"request": value.Object{"ts": value.Bytes("now")}}))
	assert.EqualError(t, err, "expected timestamp, got string")
}

func TestProgramConcurrentResolve(t *testing.T) {
	prog, err := compile(t, `to_unix_timestamp(.ts)`, nil)
	require.NoError(t, err)

	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	const goroutines = 32

	var wg sync.WaitGroup
	got := make([]value.Value, goroutines)
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			event := value.Object{"ts": value.NewTimestamp(base.Add(time.Duration(i) * time.Second))}
			got[i], errs[i] = prog.Resolve(expr.NewContext(event))
		}(i)
	}
	wg.Wait()

	for i := range got {
		require.NoError(t, errs[i])
		assert.Equal(t, value.Integer(1609459200+int64(i)), got[i])
	}
}
