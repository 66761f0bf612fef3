package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCheck_TypeDef(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"undeclared path", []string{"check", "to_unix_timestamp(.ts)"}, "✓ integer, fallible\n"},
		{"declared path", []string{"check", "to_unix_timestamp(.ts)", "--schema", ".ts=timestamp"}, "✓ integer\n"},
		{"literal", []string{"check", "to_unix_timestamp(t'2000-01-01T00:00:00Z', unit: \"nanoseconds\")"}, "✓ integer\n"},
		{"path only", []string{"check", ".ts", "--schema", "ts=timestamp"}, "✓ timestamp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeRoot(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCheck_JSON(t *testing.T) {
	out, err := executeRoot(t, "--format", "json", "check", "to_unix_timestamp(.ts)")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, CheckResult{Program: "to_unix_timestamp(.ts)", Kind: "integer", Fallible: true}, resp.Data)
}

func TestCheck_Rejected(t *testing.T) {
	out, err := executeRoot(t, "check", `to_unix_timestamp(.ts, unit: "hours")`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `[E206]: 1:24: [E206] to_unix_timestamp: invalid enum variant "hours"`)

	out, err = executeRoot(t, "--format", "json", "check", `to_unix_timestamp(t'2000-01-01T00:00:00Z', 5)`)
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E204", resp.Error.Code)
}

func TestCheck_BadSchemaFlag(t *testing.T) {
	_, err := executeRoot(t, "check", ".ts", "--schema", "=timestamp")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
