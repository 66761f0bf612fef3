package value

import (
	"fmt"
	"time"
)

// CoercionError is returned when a value does not have the kind an
// operation requires.
type CoercionError struct {
	Want Kind
	Got  Kind
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}

// TryTimestamp returns the instant held by v, or a *CoercionError if v is
// not a timestamp.
func TryTimestamp(v Value) (time.Time, error) {
	ts, ok := v.(Timestamp)
	if !ok {
		return time.Time{}, &CoercionError{Want: KindTimestamp, Got: KindOf(v)}
	}
	return ts.Time(), nil
}

// TryBytes returns the string held by v, or a *CoercionError if v is not
// a string.
func TryBytes(v Value) (string, error) {
	b, ok := v.(Bytes)
	if !ok {
		return "", &CoercionError{Want: KindBytes, Got: KindOf(v)}
	}
	return string(b), nil
}

// TryInteger returns the integer held by v, or a *CoercionError if v is
// not an integer.
func TryInteger(v Value) (int64, error) {
	n, ok := v.(Integer)
	if !ok {
		return 0, &CoercionError{Want: KindInteger, Got: KindOf(v)}
	}
	return int64(n), nil
}
