package stdlib

import (
	"errors"
	"fmt"
)

// ErrUnknownUnit is returned by ParseUnit for names outside the unit set.
var ErrUnknownUnit = errors.New("unit not recognized")

// Unit is the granularity of a Unix timestamp.
type Unit int

const (
	Seconds Unit = iota
	Milliseconds
	Nanoseconds
)

// units is the single list of variants. Both compile-time validation
// (UnitNames) and ParseUnit derive from it.
var units = []Unit{Seconds, Milliseconds, Nanoseconds}

// String returns the unit's canonical name.
func (u Unit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Milliseconds:
		return "milliseconds"
	case Nanoseconds:
		return "nanoseconds"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// UnitNames returns the canonical name of every unit in declaration order.
func UnitNames() []string {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.String()
	}
	return names
}

// ParseUnit maps a canonical name back to its Unit.
func ParseUnit(name string) (Unit, error) {
	for _, u := range units {
		if u.String() == name {
			return u, nil
		}
	}
	return Seconds, ErrUnknownUnit
}
