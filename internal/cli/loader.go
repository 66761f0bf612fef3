package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/token"

	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/value"
)

// Config is a run configuration read from a CUE file:
//
//	program: "to_unix_timestamp(.ts, unit: \"milliseconds\")"
//	drop_on_error: true
//	max_dropped: 10
//	timestamp_fields: ["ts"]
//	schema: {".ts": "timestamp"}
type Config struct {
	Program         string
	DropOnError     bool
	MaxDropped      int
	TimestampFields []string
	Schema          map[string]string
}

var configFields = map[string]bool{
	"program":          true,
	"drop_on_error":    true,
	"max_dropped":      true,
	"timestamp_fields": true,
	"schema":           true,
}

// LoadError represents an error that occurred while loading a config file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands. Compile errors
// keep their own E2xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInvalidFlag = "E002" // Malformed flag value
	ErrCodeLoadFailed  = "E004" // File could not be read
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeConfig      = "E008" // Config field missing or of the wrong type
	ErrCodeSyntax      = "E100" // Program syntax error
	ErrCodeRecord      = "E300" // Record failed at runtime
)

// LoadConfig reads and validates a CUE config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, convertCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, convertCUEError(err)
	}
	return decodeConfig(v)
}

func decodeConfig(v cue.Value) (*Config, error) {
	cfg := &Config{}

	iter, err := v.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: "config must be a struct", Pos: v.Pos()}
	}
	for iter.Next() {
		if name := fieldName(iter.Label()); !configFields[name] {
			return nil, &LoadError{
				Code:    ErrCodeConfig,
				Message: fmt.Sprintf("unknown field %q", name),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	programVal := v.LookupPath(cue.ParsePath("program"))
	if !programVal.Exists() {
		return nil, &LoadError{Code: ErrCodeConfig, Message: "program is required", Pos: v.Pos()}
	}
	if cfg.Program, err = programVal.String(); err != nil {
		return nil, fieldError(programVal, "program", "string")
	}

	if dropVal := v.LookupPath(cue.ParsePath("drop_on_error")); dropVal.Exists() {
		if cfg.DropOnError, err = dropVal.Bool(); err != nil {
			return nil, fieldError(dropVal, "drop_on_error", "bool")
		}
	}

	if maxVal := v.LookupPath(cue.ParsePath("max_dropped")); maxVal.Exists() {
		n, err := maxVal.Int64()
		if err != nil || n < 0 {
			return nil, fieldError(maxVal, "max_dropped", "non-negative int")
		}
		cfg.MaxDropped = int(n)
	}

	if tsVal := v.LookupPath(cue.ParsePath("timestamp_fields")); tsVal.Exists() {
		list, err := tsVal.List()
		if err != nil {
			return nil, fieldError(tsVal, "timestamp_fields", "list of strings")
		}
		for list.Next() {
			s, err := list.Value().String()
			if err != nil {
				return nil, fieldError(list.Value(), "timestamp_fields", "list of strings")
			}
			cfg.TimestampFields = append(cfg.TimestampFields, s)
		}
	}

	if schemaVal := v.LookupPath(cue.ParsePath("schema")); schemaVal.Exists() {
		fields, err := schemaVal.Fields()
		if err != nil {
			return nil, fieldError(schemaVal, "schema", "struct")
		}
		cfg.Schema = make(map[string]string)
		for fields.Next() {
			kind, err := fields.Value().String()
			if err != nil {
				return nil, fieldError(fields.Value(), "schema", "struct of kind names")
			}
			cfg.Schema[fieldName(fields.Label())] = kind
		}
	}

	return cfg, nil
}

// fieldName unquotes labels such as ".ts" that are not identifiers.
func fieldName(label string) string {
	if strings.HasPrefix(label, `"`) {
		if s, err := literal.Unquote(label); err == nil {
			return s
		}
	}
	return label
}

func fieldError(v cue.Value, field, want string) *LoadError {
	return &LoadError{
		Code:    ErrCodeConfig,
		Message: fmt.Sprintf("%s must be a %s", field, want),
		Pos:     v.Pos(),
	}
}

// convertCUEError keeps the first error and its position.
func convertCUEError(err error) *LoadError {
	loadErr := &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return loadErr
	}
	loadErr.Message = errs[0].Error()
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

// parseSchemaFlags parses repeated --schema path=kind flags.
func parseSchemaFlags(flags []string) (map[string]string, error) {
	schema := make(map[string]string, len(flags))
	for _, f := range flags {
		path, kind, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("invalid --schema %q: expected path=kind", f)
		}
		schema[strings.TrimSpace(path)] = strings.TrimSpace(kind)
	}
	return schema, nil
}

// buildState declares every schema entry in a fresh compiler state. The
// parsed kinds are returned too, so the engine can hold records to them.
func buildState(schema map[string]string) (*expr.State, map[string]value.Kind, error) {
	state := expr.NewState()
	kinds := make(map[string]value.Kind, len(schema))
	paths := make([]string, 0, len(schema))
	for p := range schema {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		kind, err := value.ParseKind(schema[p])
		if err != nil {
			return nil, nil, fmt.Errorf("schema %s: %w", p, err)
		}
		state.DeclarePath(p, kind)
		kinds[p] = kind
	}
	return state, kinds, nil
}
