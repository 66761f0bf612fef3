package value

import (
	"fmt"
	"strings"
)

// Kind is a set of value kinds.
//
// A single runtime value always has exactly one kind. Static type
// information uses the set form: an expression whose Kind is
// KindInteger|KindBytes may produce either an integer or a string.
type Kind uint16

const (
	KindBytes Kind = 1 << iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindObject
	KindArray
	KindNull

	// KindAny is the set of every kind.
	KindAny = KindBytes | KindInteger | KindFloat | KindBoolean |
		KindTimestamp | KindObject | KindArray | KindNull
)

// kindNames lists single kinds in display order.
var kindNames = []struct {
	kind Kind
	name string
}{
	{KindBytes, "string"},
	{KindInteger, "integer"},
	{KindFloat, "float"},
	{KindBoolean, "boolean"},
	{KindTimestamp, "timestamp"},
	{KindObject, "object"},
	{KindArray, "array"},
	{KindNull, "null"},
}

// Contains reports whether every kind in other is also in k.
func (k Kind) Contains(other Kind) bool {
	return k&other == other
}

// Intersects reports whether k and other share at least one kind.
func (k Kind) Intersects(other Kind) bool {
	return k&other != 0
}

// IsExact reports whether k is exactly the set other.
func (k Kind) IsExact(other Kind) bool {
	return k == other
}

// Union returns the set of kinds in k or other.
func (k Kind) Union(other Kind) Kind {
	return k | other
}

// String renders the set for diagnostics, e.g. "timestamp" or
// "string or integer".
func (k Kind) String() string {
	switch k {
	case 0:
		return "never"
	case KindAny:
		return "any"
	}
	var names []string
	for _, kn := range kindNames {
		if k.Contains(kn.kind) {
			names = append(names, kn.name)
		}
	}
	return strings.Join(names, " or ")
}

// ParseKind maps a kind name, as used in schemas and CLI flags, to a Kind.
// "bytes" is accepted as an alias of "string".
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "any":
		return KindAny, nil
	case "bytes":
		return KindBytes, nil
	}
	for _, kn := range kindNames {
		if kn.name == normalized {
			return kn.kind, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}
