package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/remap/internal/harness"
	"github.com/roach88/remap/internal/stdlib"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // defaults to <scenarios-dir>/golden
	Examples  bool   // also check documented function examples
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Output string   `json:"output,omitempty"`
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run the YAML scenarios in a directory against the builtin functions.

Each scenario compiles a program, optionally checks its type, and
evaluates it against an input event. When a golden file named after the
scenario exists in the golden directory, the result snapshot must match
it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenarios, etc.)

Examples:
  remap test ./scenarios
  remap test ./scenarios --filter "nano*"
  remap test ./scenarios --update
  remap test ./scenarios --examples --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden file directory (default <scenarios-dir>/golden)")
	cmd.Flags().BoolVar(&opts.Examples, "examples", false, "also check documented function examples")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarios, err := harness.LoadScenarios(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}

	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "golden")
	}

	h := harness.New(stdlib.NewRegistry(), harness.WithLogger(opts.newLogger(cmd.ErrOrStderr())))
	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(scenarios))}
	for _, s := range scenarios {
		sr := runScenario(h, s, goldenDir, opts.Update)
		if text {
			printScenarioResult(w, sr, opts.Update)
		}
		result.add(sr)
	}

	if opts.Examples {
		for _, ex := range h.RunExamples() {
			sr := ScenarioResult{
				Name:   fmt.Sprintf("%s: %s", ex.Function, ex.Title),
				Pass:   ex.Pass,
				Output: ex.Got,
			}
			if !ex.Pass {
				sr.Errors = []string{fmt.Sprintf("expected %s, got %s", ex.Want, ex.Got)}
			}
			if text {
				printScenarioResult(w, sr, false)
			}
			result.add(sr)
		}
	}

	if !text {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// runScenario executes a single scenario and returns the result.
func runScenario(h *harness.Harness, s *harness.Scenario, goldenDir string, update bool) ScenarioResult {
	result, err := h.Run(s)
	if err != nil {
		return ScenarioResult{
			Name:   s.Name,
			Errors: []string{fmt.Sprintf("execution error: %v", err)},
		}
	}
	sr := ScenarioResult{
		Name:   s.Name,
		Pass:   result.Pass,
		Output: result.Output,
		Error:  result.Error,
		Errors: result.Errors,
	}

	snapshot, err := harness.Snapshot(s, result)
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("snapshot failed: %v", err))
		return sr
	}

	goldenPath := goldenFilePath(goldenDir, s.Name)
	if update {
		if err := updateGoldenFile(goldenPath, snapshot); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
		}
		return sr
	}

	// No golden file - use expectation-based validation only
	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		return sr
	}

	match, err := compareWithGolden(goldenPath, snapshot)
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	case !match:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "snapshot does not match golden file (run with --update to regenerate)")
	}
	return sr
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(goldenDir, name string) string {
	return filepath.Join(goldenDir, name+".golden")
}

// updateGoldenFile writes the current snapshot as the golden file.
func updateGoldenFile(goldenPath string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(goldenPath, snapshot, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden compares the snapshot against the golden file.
func compareWithGolden(goldenPath string, snapshot []byte) (bool, error) {
	goldenData, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(goldenData, snapshot), nil
}

func printScenarioResult(w io.Writer, sr ScenarioResult, updated bool) {
	if sr.Pass && updated {
		fmt.Fprintf(w, "%s %s (golden updated)\n", mark(true), sr.Name)
		return
	}
	fmt.Fprintf(w, "%s %s\n", mark(sr.Pass), sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if err := json.NewEncoder(cmd.OutOrStdout()).Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText prints the summary line.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
