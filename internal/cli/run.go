package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/engine"
	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/stdlib"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Program         string
	Config          string
	Input           string
	DropOnError     bool
	MaxDropped      int
	TimestampFields []string
	Schema          []string

	// IDGenerator allows overriding the record id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a program over newline-delimited JSON events",
		Long: `Compile a program and evaluate it against every event read from stdin
(or --input), writing one canonical JSON line per event:

  {"id":"<uuid v7>","seq":1,"value":1609459200}

The program comes from --program or from the program field of a CUE
config file (--config). Flags given explicitly override the config.

Exit codes:
  0 - All records processed
  1 - Program rejected, or a record failed (without --drop-on-error)
  2 - Command error (bad flags, unreadable files)

Example:
  remap run -p 'to_unix_timestamp(.ts)' --timestamp-field ts < events.ndjson
  remap run --config job.cue --input events.ndjson --drop-on-error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Program, "program", "p", "", "program source")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to a CUE config file")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "read events from file instead of stdin")
	cmd.Flags().BoolVar(&opts.DropOnError, "drop-on-error", false, "skip failing records instead of stopping")
	cmd.Flags().IntVar(&opts.MaxDropped, "max-dropped", 0, "stop after this many dropped records (0 = no limit)")
	cmd.Flags().StringSliceVar(&opts.TimestampFields, "timestamp-field", nil, "field holding an RFC 3339 timestamp (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Schema, "schema", nil, "declare a path kind, e.g. .ts=timestamp (repeatable)")

	return cmd
}

func runProgram(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.ErrOrStderr(), // stdout carries records
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	cfg, err := resolveRunConfig(opts, cmd)
	if err != nil {
		code := ErrCodeInvalidFlag
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, err.Error(), nil)
		return err
	}

	state, kinds, err := buildState(cfg.Schema)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidFlag, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid schema", err)
	}

	prog, err := compiler.Compile(cfg.Program, stdlib.NewRegistry(), state)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "program rejected", err)
	}
	logger.Debug("program compiled", "type_def", prog.TypeDef.String())

	in := cmd.InOrStdin()
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		in = f
	}

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithDropOnError(cfg.DropOnError),
		engine.WithMaxDropped(cfg.MaxDropped),
		engine.WithTimestampFields(cfg.TimestampFields...),
		engine.WithSchema(kinds),
	}
	if opts.IDGenerator != nil {
		engineOpts = append(engineOpts, engine.WithIDGenerator(opts.IDGenerator))
	}
	eng := engine.New(prog, engineOpts...)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	stopSignals := cancelOnSignal(ctx, cancel, logger)
	defer stopSignals()

	stats, err := eng.Run(ctx, in, cmd.OutOrStdout())
	formatter.VerboseLog("records=%d emitted=%d dropped=%d", stats.Records, stats.Emitted, stats.Dropped)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "run failed", err)
	}
	return nil
}

// resolveRunConfig merges the config file, if any, with explicit flags.
func resolveRunConfig(opts *RunOptions, cmd *cobra.Command) (*Config, error) {
	cfg := &Config{}
	if opts.Config != "" {
		loaded, err := LoadConfig(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("program") {
		cfg.Program = opts.Program
	}
	if flags.Changed("drop-on-error") {
		cfg.DropOnError = opts.DropOnError
	}
	if flags.Changed("max-dropped") {
		cfg.MaxDropped = opts.MaxDropped
	}
	if flags.Changed("timestamp-field") {
		cfg.TimestampFields = opts.TimestampFields
	}
	if len(opts.Schema) > 0 {
		schema, err := parseSchemaFlags(opts.Schema)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid flag", err)
		}
		if cfg.Schema == nil {
			cfg.Schema = make(map[string]string)
		}
		for p, k := range schema {
			cfg.Schema[p] = k
		}
	}

	if cfg.Program == "" {
		return nil, NewExitError(ExitCommandError, "a program is required: use --program or --config")
	}
	if cfg.MaxDropped < 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("--max-dropped must not be negative, got %d", cfg.MaxDropped))
	}
	return cfg, nil
}

// cancelOnSignal cancels ctx on SIGINT or SIGTERM. The returned func stops
// listening.
func cancelOnSignal(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return func() { signal.Stop(sigChan) }
}

// errorCode picks the code reported for err: the compile error code, the
// runtime record code, or a generic one.
func errorCode(err error) string {
	var ce *function.CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var se *compiler.SyntaxError
	if errors.As(err, &se) {
		return ErrCodeSyntax
	}
	if engine.IsRecordError(err) || engine.IsInvalidRecordError(err) || engine.IsQuotaError(err) {
		return ErrCodeRecord
	}
	return ErrCodeGeneric
}
