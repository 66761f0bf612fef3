package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/remap/internal/value"
)

// Snapshot renders what a scenario observably produced as canonical JSON:
// the program, its type, and its output or error. Pass/fail is not part of
// the snapshot, so a golden file pins behavior rather than expectations.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snap := map[string]any{
		"name":    scenario.Name,
		"program": scenario.Program,
	}
	if result.TypeDef != "" {
		snap["type_def"] = result.TypeDef
	}
	if result.Output != "" {
		snap["output"] = result.Output
	}
	if result.Error != "" {
		snap["error"] = result.Error
	}
	return value.MarshalCanonical(snap)
}

// ExamplesSnapshot renders example results as a canonical JSON array of
// {function, title, source, result} objects.
func ExamplesSnapshot(results []ExampleResult) ([]byte, error) {
	list := make([]any, len(results))
	for i, r := range results {
		list[i] = map[string]any{
			"function": r.Function,
			"title":    r.Title,
			"source":   r.Source,
			"result":   r.Got,
		}
	}
	return value.MarshalCanonical(list)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass. Test failure (via
// goldie) occurs if the snapshot does not match the golden file.
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := h.Run(scenario)
	if err != nil {
		return nil, err
	}
	data, err := Snapshot(scenario, result)
	if err != nil {
		return nil, err
	}
	newGoldie(t).Assert(t, scenario.Name, data)
	return result, nil
}

// AssertExamplesGolden runs every example and compares the snapshot with
// testdata/golden/{name}.golden, relative to the calling test's package.
func (h *Harness) AssertExamplesGolden(t *testing.T, name string) []ExampleResult {
	t.Helper()

	results := h.RunExamples()
	data, err := ExamplesSnapshot(results)
	if err != nil {
		t.Fatalf("snapshot examples: %v", err)
	}
	newGoldie(t).Assert(t, name, data)
	return results
}
