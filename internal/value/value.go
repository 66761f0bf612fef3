package value

import (
	"slices"
	"time"
	"unicode/utf16"
)

// Value is a sealed interface representing runtime values.
// Only Null, Boolean, Integer, Float, Bytes, Timestamp, Array and Object
// implement it.
type Value interface {
	// Kind returns the single kind of this value.
	Kind() Kind

	value() // Sealed - only these types implement it
}

// Null represents the absence of a value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

// Boolean represents true or false.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) value()     {}

// Integer represents a signed 64-bit integer.
type Integer int64

func (Integer) Kind() Kind { return KindInteger }
func (Integer) value()     {}

// Float represents a 64-bit floating point number.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (Float) value()     {}

// Bytes represents a string. The language treats strings as byte
// sequences, hence the name; diagnostics call the kind "string".
type Bytes string

func (Bytes) Kind() Kind { return KindBytes }
func (Bytes) value()     {}

// Timestamp represents an instant in time, stored in UTC.
// Use NewTimestamp to construct one so the location is normalized.
type Timestamp time.Time

func (Timestamp) Kind() Kind { return KindTimestamp }
func (Timestamp) value()     {}

// Time returns the instant as a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Time(t).UTC()
}

// NewTimestamp creates a Timestamp from t, normalized to UTC with the
// monotonic clock reading stripped.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Round(0).UTC())
}

// Array represents an ordered list of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }
func (Array) value()     {}

// Object represents a map of field names to values. Events are objects.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) Kind() Kind { return KindObject }
func (Object) value()     {}

// KindOf returns the kind of v. A nil interface is treated as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// SortedKeys returns keys in UTF-16 code unit order, the ordering used by
// canonical JSON (RFC 8785).
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units.
// Go's native string comparison orders by UTF-8 bytes, which differs for
// characters outside the Basic Multilingual Plane.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// Equal reports whether a and b are the same value. Timestamps compare as
// instants; floats compare numerically; nil is equal to Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean, Integer, Float, Bytes:
		return a == b
	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && time.Time(av).Equal(time.Time(bv))
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, ok := bv[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
