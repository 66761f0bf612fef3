package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/value"
)

func TestTimestamp(t *testing.T) {
	got := Timestamp(t, "2021-01-01T00:00:00.5Z")
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 5e8, time.UTC), got.Time())
}

func TestEvent(t *testing.T) {
	got := Event(t, `{"a":{"b":1},"s":"x"}`)
	want := value.Object{"a": value.Object{"b": value.Integer(1)}, "s": value.Bytes("x")}
	assert.True(t, value.Equal(want, got), "got %s", value.Format(got))
}

func TestCompile_DeclaresSchema(t *testing.T) {
	reg, err := function.NewRegistry()
	assert.NoError(t, err)

	prog := Compile(t, reg, ".ts", map[string]value.Kind{".ts": value.KindTimestamp})
	assert.Equal(t, expr.TypeDef{Kind: value.KindTimestamp}, prog.TypeDef)
}
