package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "remap", cmd.Use)
	assert.Contains(t, cmd.Long, "newline-delimited JSON")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "check", "functions", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	programFlag := runCmd.Flags().Lookup("program")
	require.NotNil(t, programFlag)
	assert.Equal(t, "p", programFlag.Shorthand)

	maxFlag := runCmd.Flags().Lookup("max-dropped")
	require.NotNil(t, maxFlag)
	assert.Equal(t, "0", maxFlag.DefValue)

	for _, name := range []string{"config", "input", "drop-on-error", "timestamp-field", "schema"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	require.NotNil(t, testCmd.Flags().Lookup("filter"))
	require.NotNil(t, testCmd.Flags().Lookup("golden-dir"))
	require.NotNil(t, testCmd.Flags().Lookup("examples"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "functions"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	quiet := (&RootOptions{}).newLogger(&buf)
	quiet.Info("hidden")
	quiet.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	verbose := (&RootOptions{Verbose: true}).newLogger(&buf)
	verbose.Debug("detail")
	assert.Contains(t, buf.String(), "detail")
}
