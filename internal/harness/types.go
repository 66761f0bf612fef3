package harness

import (
	"fmt"
	"time"
)

// Result is the outcome of one scenario.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// TypeDef is the compiled program's type, empty if it did not compile.
	TypeDef string `json:"type_def,omitempty"`

	// Output is the value.Format rendering of the result, if any.
	Output string `json:"output,omitempty"`

	// Error is the compile or runtime error text, if any.
	Error string `json:"error,omitempty"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for the named scenario.
func NewResult(name string) *Result {
	return &Result{Name: name, Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// ExampleResult is the outcome of one documented function example.
type ExampleResult struct {
	Function string `json:"function"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Want     string `json:"want"`
	Got      string `json:"got"`
	Pass     bool   `json:"pass"`
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC 3339", s)
	}
	return t, nil
}
