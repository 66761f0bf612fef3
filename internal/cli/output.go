package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Process exit codes of the remap binary.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // program rejected, record failed, scenario mismatch
	ExitCommandError = 2 // bad flags, unreadable input or config
)

// ExitError carries the exit code main passes to os.Exit.
type ExitError struct {
	Code    int
	Message string
	Err     error // may be nil
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError reports a command failure that has no underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code: 0 for nil, the ExitError
// code when there is one, 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results and errors as text or as one
// CLIResponse JSON object per call. The run command points Writer at
// stderr since stdout carries records.
type OutputFormatter struct {
	Format    string // "text" or "json"
	Writer    io.Writer
	ErrWriter io.Writer // verbose lines; Writer when nil
	Verbose   bool
}

// CLIResponse is the envelope printed under --format json.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError pairs a code with its message. Compile errors keep their
// E2xx code; everything else uses the CLI codes in loader.go.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success prints data, a CheckResult, function list or test summary.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error prints "Error [code]: message" in text mode.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "%s [%s]: %s\n", color.RedString("Error"), code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// VerboseLog prints a diagnostic line under --verbose.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns where verbose lines go.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// mark renders a pass or fail marker, green or red on a terminal.
func mark(pass bool) string {
	if pass {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}
