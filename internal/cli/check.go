package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/stdlib"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Schema []string
}

// CheckResult is the type of a compiled program.
type CheckResult struct {
	Program  string `json:"program"`
	Kind     string `json:"kind"`
	Fallible bool   `json:"fallible"`
}

func (r CheckResult) String() string {
	if r.Fallible {
		return fmt.Sprintf("%s %s, fallible", mark(true), r.Kind)
	}
	return fmt.Sprintf("%s %s", mark(true), r.Kind)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <program>",
		Short: "Type check a program without running it",
		Long: `Compile a program and print its result kind and whether it can fail.

Paths have kind any unless declared with --schema.

Example:
  remap check 'to_unix_timestamp(.ts)'
  remap check 'to_unix_timestamp(.ts)' --schema .ts=timestamp`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Schema, "schema", nil, "declare a path kind, e.g. .ts=timestamp (repeatable)")

	return cmd
}

func runCheck(opts *CheckOptions, program string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	schema, err := parseSchemaFlags(opts.Schema)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidFlag, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flag", err)
	}
	state, _, err := buildState(schema)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidFlag, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid schema", err)
	}
	formatter.VerboseLog("declared %d schema path(s)", len(schema))

	prog, err := compiler.Compile(program, stdlib.NewRegistry(), state)
	if err != nil {
		if outErr := formatter.Error(errorCode(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "program rejected", err)
	}

	return formatter.Success(CheckResult{
		Program:  program,
		Kind:     prog.TypeDef.Kind.String(),
		Fallible: prog.TypeDef.Fallible,
	})
}
