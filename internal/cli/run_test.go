package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/remap/internal/engine"
)

type runOutput struct {
	stdout string
	stderr string
	err    error
}

func executeRun(t *testing.T, stdin string, ids []string, args ...string) runOutput {
	t.Helper()

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		IDGenerator: engine.NewFixedGenerator(ids...),
	}
	cmd := newRunCommand(opts)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())

	err := cmd.Execute()
	return runOutput{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Program(t *testing.T) {
	in := `{"ts":"2021-01-01T00:00:00Z"}
{"ts":"2021-01-01T00:00:00.5Z"}
`
	out := executeRun(t, in, []string{"r1", "r2"},
		"-p", `to_unix_timestamp(.ts, unit: "milliseconds")`,
		"--timestamp-field", "ts",
	)
	require.NoError(t, out.err)
	assert.Equal(t,
		`{"id":"r1","seq":1,"value":1609459200000}`+"\n"+
			`{"id":"r2","seq":2,"value":1609459200500}`+"\n",
		out.stdout)
}

func TestRun_InputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "events.ndjson", `{"ts":"2000-01-01T00:00:00Z"}`+"\n")

	out := executeRun(t, "", []string{"r1"},
		"-p", "to_unix_timestamp(.ts)",
		"--timestamp-field", "ts",
		"--input", input,
	)
	require.NoError(t, out.err)
	assert.Equal(t, `{"id":"r1","seq":1,"value":946684800}`+"\n", out.stdout)
}

func TestRun_MissingProgram(t *testing.T) {
	out := executeRun(t, "", nil)
	require.Error(t, out.err)
	assert.Equal(t, ExitCommandError, GetExitCode(out.err))
	assert.Contains(t, out.err.Error(), "a program is required")
}

func TestRun_MissingInputFile(t *testing.T) {
	out := executeRun(t, "", nil,
		"-p", "to_unix_timestamp(.ts)",
		"--input", filepath.Join(t.TempDir(), "nope.ndjson"),
	)
	require.Error(t, out.err)
	assert.Equal(t, ExitCommandError, GetExitCode(out.err))
}

func TestRun_ProgramRejected(t *testing.T) {
	out := executeRun(t, "", nil, "-p", `to_unix_timestamp(.ts, unit: "hours")`)
	require.Error(t, out.err)
	assert.Equal(t, ExitFailure, GetExitCode(out.err))
	assert.Contains(t, out.stderr, "[E206]")
	assert.Empty(t, out.stdout)
}

func TestRun_SyntaxError(t *testing.T) {
	out := executeRun(t, "", nil, "-p", `to_unix_timestamp(`)
	require.Error(t, out.err)
	assert.Equal(t, ExitFailure, GetExitCode(out.err))
	assert.Contains(t, out.stderr, "["+ErrCodeSyntax+"]")
}

func TestRun_InvalidSchema(t *testing.T) {
	out := executeRun(t, "", nil, "-p", "to_unix_timestamp(.ts)", "--schema", "ts")
	require.Error(t, out.err)
	assert.Equal(t, ExitCommandError, GetExitCode(out.err))

	out = executeRun(t, "", nil, "-p", "to_unix_timestamp(.ts)", "--schema", ".ts=date")
	require.Error(t, out.err)
	assert.Equal(t, ExitCommandError, GetExitCode(out.err))
}

func TestRun_SchemaImpliesTimestampField(t *testing.T) {
	in := `{"ts":"2021-01-01T00:00:00Z"}
{"other":1}
{"ts":"2000-01-01T00:00:00Z"}
`
	out := executeRun(t, in, []string{"r1", "r2", "r3"},
		"-p", "to_unix_timestamp(.ts)",
		"--schema", ".ts=timestamp",
		"--drop-on-error",
	)
	require.NoError(t, out.err)
	assert.Equal(t,
		`{"id":"r1","seq":1,"value":1609459200}`+"\n"+
			`{"id":"r2","seq":2,"value":946684800}`+"\n",
		out.stdout)
	assert.Contains(t, out.stderr, "record dropped")
	assert.Contains(t, out.stderr, `field \".ts\": declared timestamp, got null`)
}

func TestRun_SchemaRejectsRecord(t *testing.T) {
	out := executeRun(t, `{"ts":1609459200}`+"\n", []string{"r1"},
		"-p", "to_unix_timestamp(.ts)",
		"--schema", ".ts=timestamp",
	)
	require.Error(t, out.err)
	assert.Equal(t, ExitFailure, GetExitCode(out.err))
	assert.True(t, engine.IsInvalidRecordError(out.err))
	assert.False(t, engine.IsRecordError(out.err), "the program never ran")
	assert.Empty(t, out.stdout)
}

func TestRun_ConfigErrorsJSON(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing program", nil, ErrCodeInvalidFlag},
		{"negative max-dropped", []string{"-p", ".", "--max-dropped=-1"}, ErrCodeInvalidFlag},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "missing.cue")}, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &RunOptions{RootOptions: &RootOptions{Format: "json"}}
			cmd := newRunCommand(opts)
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			cmd.SetIn(strings.NewReader(""))
			cmd.SetOut(stdout)
			cmd.SetErr(stderr)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(stderr.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_RecordFailureStops(t *testing.T) {
	in := `{"ts":"2021-01-01T00:00:00Z"}
{"ts":"not a timestamp"}
{"ts":"2021-01-01T00:00:00Z"}
`
	out := executeRun(t, in, []string{"r1", "r2", "r3"}, "-p", "to_unix_timestamp(.ts)", "--timestamp-field", "ts")
	require.Error(t, out.err)
	assert.Equal(t, ExitFailure, GetExitCode(out.err))
	assert.True(t, engine.IsInvalidRecordError(out.err))
	assert.Equal(t, `{"id":"r1","seq":1,"value":1609459200}`+"\n", out.stdout)
	assert.Contains(t, out.stderr, "["+ErrCodeRecord+"]")
}

func TestRun_DropOnError(t *testing.T) {
	in := `{"ts":"2021-01-01T00:00:00Z"}
{"ts":"plain string"}
{"ts":"2021-01-01T00:00:01Z"}
`
	out := executeRun(t, in, []string{"r1", "r2", "r3"},
		"-p", "to_unix_timestamp(.ts)",
		"--drop-on-error",
	)
	// Without --timestamp-field every ts stays a string.
	require.NoError(t, out.err)
	assert.Empty(t, out.stdout)
	assert.Contains(t, out.stderr, "record dropped")
}

func TestRun_MaxDropped(t *testing.T) {
	in := "{}\n{}\n{}\n"
	out := executeRun(t, in, []string{"r1", "r2", "r3"},
		"-p", "to_unix_timestamp(.ts)",
		"--drop-on-error",
		"--max-dropped", "1",
	)
	require.Error(t, out.err)
	assert.True(t, engine.IsQuotaError(out.err))
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "job.cue", `
program: "to_unix_timestamp(.ts, unit: \"nanoseconds\")"
timestamp_fields: ["ts"]
schema: ".ts": "timestamp"
`)

	out := executeRun(t, `{"ts":"2021-01-01T00:00:00Z"}`+"\n", []string{"r1"}, "--config", cfg)
	require.NoError(t, out.err)
	assert.Equal(t, `{"id":"r1","seq":1,"value":1609459200000000000}`+"\n", out.stdout)
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "job.cue", `
program: "to_unix_timestamp(.ts, unit: \"nanoseconds\")"
timestamp_fields: ["ts"]
`)

	out := executeRun(t, `{"ts":"2021-01-01T00:00:00Z"}`+"\n", []string{"r1"},
		"--config", cfg,
		"-p", "to_unix_timestamp(.ts)",
	)
	require.NoError(t, out.err)
	assert.Equal(t, `{"id":"r1","seq":1,"value":1609459200}`+"\n", out.stdout)
}

func TestRun_BadConfig(t *testing.T) {
	out := executeRun(t, "", nil, "--config", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, out.err)
	assert.Equal(t, ExitCommandError, GetExitCode(out.err))
	assert.Contains(t, out.err.Error(), ErrCodeNotFound)
}

func TestRun_Cancelled(t *testing.T) {
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		IDGenerator: engine.NewFixedGenerator("r1"),
	}
	cmd := newRunCommand(opts)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(`{"ts":"2021-01-01T00:00:00Z"}` + "\n"))
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-p", "to_unix_timestamp(.ts)"})
	cmd.SetContext(ctx)

	require.NoError(t, cmd.Execute())
	assert.Empty(t, stdout.String())
}

func TestErrorCode(t *testing.T) {
	out := executeRun(t, "", nil, "-p", "nope()")
	require.Error(t, out.err)
	assert.Equal(t, "E209", errorCode(out.err))
	assert.Equal(t, ErrCodeGeneric, errorCode(assert.AnError))
}
