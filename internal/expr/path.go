package expr

import (
	"strings"

	"github.com/roach88/remap/internal/value"
)

// Path reads a field of the event, e.g. ".request.timestamp".
// An empty Segments list refers to the whole event.
type Path struct {
	Segments []string
}

// NewPath creates a Path node from field names.
func NewPath(segments ...string) *Path {
	return &Path{Segments: segments}
}

// String renders the path in source form.
func (p *Path) String() string {
	if len(p.Segments) == 0 {
		return "."
	}
	return "." + strings.Join(p.Segments, ".")
}

// Resolve walks the event. Missing fields, and fields below a non-object
// value, resolve to null rather than failing.
func (p *Path) Resolve(ctx *Context) (value.Value, error) {
	var cur value.Value = ctx.Target()
	for _, seg := range p.Segments {
		obj, ok := cur.(value.Object)
		if !ok {
			return value.Null{}, nil
		}
		cur, ok = obj[seg]
		if !ok {
			return value.Null{}, nil
		}
	}
	return cur, nil
}

// TypeDef is infallible. The kind is the one declared in state for this
// path, otherwise any (the root path is always an object).
func (p *Path) TypeDef(state *State) TypeDef {
	if len(p.Segments) == 0 {
		return TypeDef{Kind: value.KindObject}
	}
	if k, ok := state.PathKind(p.String()); ok {
		return TypeDef{Kind: k}
	}
	return TypeDef{Kind: value.KindAny}
}
