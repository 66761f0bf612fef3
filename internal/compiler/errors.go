package compiler

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// SyntaxError reports source text the reader cannot accept.
type SyntaxError struct {
	Pos     token.Pos
	Message string
}

func (e *SyntaxError) Error() string {
	if !e.Pos.IsValid() {
		return "syntax error: " + e.Message
	}
	if name := e.Pos.Filename(); name != "" {
		return fmt.Sprintf("%s:%d:%d: syntax error: %s",
			name, e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Pos.Line(), e.Pos.Column(), e.Message)
}
