package stdlib

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/value"
)

// Instants whose count since the epoch fits in an int64. Counts floor, so
// the upper millisecond bound includes the rest of the last millisecond.
var (
	minNanos  = time.Unix(0, math.MinInt64).UTC()
	maxNanos  = time.Unix(0, math.MaxInt64).UTC()
	minMillis = time.UnixMilli(math.MinInt64).UTC()
	maxMillis = time.UnixMilli(math.MaxInt64).Add(time.Millisecond - 1).UTC()
)

// RangeError is returned when a timestamp cannot be represented as a
// 64-bit count of the requested unit.
type RangeError struct {
	Time time.Time
	Unit Unit
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("timestamp %s out of range for %s",
		e.Time.UTC().Format(time.RFC3339Nano), e.Unit)
}

// ToUnixTimestamp converts a timestamp to a count of seconds, milliseconds
// or nanoseconds since the Unix epoch.
type ToUnixTimestamp struct{}

func (ToUnixTimestamp) Identifier() string { return "to_unix_timestamp" }

func (ToUnixTimestamp) Summary() string {
	return "convert a given timestamp to a Unix timestamp integer"
}

func (ToUnixTimestamp) Usage() string {
	return `Coerces the provided ` + "`value`" + ` into a Unix timestamp.

By default, the number of seconds since the Unix epoch is returned, but milliseconds or
nanoseconds can be returned via the ` + "`unit`" + ` argument.`
}

func (ToUnixTimestamp) Examples() []function.Example {
	return []function.Example{
		{
			Title:  "default (seconds)",
			Source: `to_unix_timestamp(t'2000-01-01T00:00:00Z')`,
			Result: "946684800",
		},
		{
			Title:  "milliseconds",
			Source: `to_unix_timestamp(t'2010-01-01T00:00:00Z', unit: "milliseconds")`,
			Result: "1262304000000",
		},
		{
			Title:  "nanoseconds",
			Source: `to_unix_timestamp(t'2020-01-01T00:00:00Z', unit: "nanoseconds")`,
			Result: "1577836800000000000",
		},
	}
}

func (ToUnixTimestamp) Parameters() []function.Parameter {
	return []function.Parameter{
		{Keyword: "value", Kind: value.KindTimestamp, Required: true},
		{Keyword: "unit", Kind: value.KindBytes},
	}
}

func (ToUnixTimestamp) Compile(_ *expr.State, args *function.ArgumentList) (expr.Expression, error) {
	operand, err := args.Required("value")
	if err != nil {
		return nil, err
	}

	unit := Seconds
	name, ok, err := args.OptionalEnum("unit", UnitNames())
	if err != nil {
		return nil, err
	}
	if ok {
		if unit, err = ParseUnit(name); err != nil {
			return nil, &function.CompileError{
				Code:    function.ErrInternal,
				Keyword: "unit",
				Message: fmt.Sprintf("validated unit %q: %v", name, err),
			}
		}
	}

	return newToUnixTimestampFn(operand, unit), nil
}

type toUnixTimestampFn struct {
	value expr.Expression
	unit  Unit
}

func newToUnixTimestampFn(operand expr.Expression, unit Unit) *toUnixTimestampFn {
	return &toUnixTimestampFn{value: operand, unit: unit}
}

func (fn *toUnixTimestampFn) Resolve(ctx *expr.Context) (value.Value, error) {
	v, err := fn.value.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	ts, err := value.TryTimestamp(v)
	if err != nil {
		return nil, err
	}

	switch fn.unit {
	case Milliseconds:
		if ts.Before(minMillis) || ts.After(maxMillis) {
			return nil, &RangeError{Time: ts, Unit: fn.unit}
		}
		return value.Integer(ts.UnixMilli()), nil
	case Nanoseconds:
		if ts.Before(minNanos) || ts.After(maxNanos) {
			return nil, &RangeError{Time: ts, Unit: fn.unit}
		}
		return value.Integer(ts.UnixNano()), nil
	default:
		return value.Integer(ts.Unix()), nil
	}
}

func (fn *toUnixTimestampFn) TypeDef(state *expr.State) expr.TypeDef {
	return fn.value.TypeDef(state).
		FallibleUnless(value.KindTimestamp).
		WithConstraint(value.KindInteger)
}
