package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/remap/internal/value"
)

// Scenario is one conformance case: a program, an optional event and
// schema, and what compiling and running the program must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the remap source under test.
	Program string `yaml:"program"`

	// Schema declares static kinds of event paths, e.g. ".ts: timestamp".
	Schema map[string]string `yaml:"schema,omitempty"`

	// Input is the event. Strings written as t'...' become timestamps.
	Input map[string]any `yaml:"input,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Expectation lists the observable outcomes of a scenario. Exactly one of
// Result, Error and CompileError is set.
type Expectation struct {
	// Result is the value.Format rendering of the program's result.
	Result string `yaml:"result,omitempty"`

	// Error is a substring of the runtime error.
	Error string `yaml:"error,omitempty"`

	// CompileError is the code of the expected compile error (e.g. "E206"),
	// or "syntax" for a syntax error.
	CompileError string `yaml:"compile_error,omitempty"`

	// TypeDef, if set, is checked against the compiled program.
	TypeDef *TypeDefExpectation `yaml:"type_def,omitempty"`
}

// TypeDefExpectation is the expected static type of a program.
type TypeDefExpectation struct {
	Kind     string `yaml:"kind"`
	Fallible bool   `yaml:"fallible"`
}

// CompileErrorSyntax is the CompileError value matching syntax errors.
const CompileErrorSyntax = "syntax"

var compileErrorCode = regexp.MustCompile(`^E2\d\d$`)

// timestampLiteral matches t'...' strings in scenario input.
var timestampLiteral = regexp.MustCompile(`^t'(.*)'$`)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file
// name. filter, if not empty, is a glob matched against scenario names.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	var out []*Scenario
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", name, s.Name, prev)
		}
		seen[s.Name] = name

		if filter != "" {
			ok, err := filepath.Match(filter, s.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(s.Program) == "" {
		return fmt.Errorf("program is required")
	}

	for path, kind := range s.Schema {
		if _, err := value.ParseKind(kind); err != nil {
			return fmt.Errorf("schema[%s]: %w", path, err)
		}
	}

	set := 0
	for _, v := range []string{s.Expect.Result, s.Expect.Error, s.Expect.CompileError} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("expect: exactly one of result, error, compile_error is required")
	}

	if c := s.Expect.CompileError; c != "" && c != CompileErrorSyntax && !compileErrorCode.MatchString(c) {
		return fmt.Errorf("expect.compile_error: %q is not a compile error code", c)
	}

	if td := s.Expect.TypeDef; td != nil {
		if s.Expect.CompileError != "" {
			return fmt.Errorf("expect.type_def: not allowed with compile_error")
		}
		if _, err := value.ParseKind(td.Kind); err != nil {
			return fmt.Errorf("expect.type_def.kind: %w", err)
		}
	}

	if _, err := convertInput(s.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

// convertInput turns decoded YAML into an event.
func convertInput(in map[string]any) (value.Object, error) {
	obj := make(value.Object, len(in))
	for k, v := range in {
		cv, err := convertYAML(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		obj[k] = cv
	}
	return obj, nil
}

func convertYAML(v any) (value.Value, error) {
	switch val := v.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Boolean(val), nil
	case int:
		return value.Integer(val), nil
	case int64:
		return value.Integer(val), nil
	case uint64:
		return nil, fmt.Errorf("integer %d overflows int64", val)
	case float64:
		return value.Float(val), nil
	case string:
		if m := timestampLiteral.FindStringSubmatch(val); m != nil {
			t, err := parseTimestamp(m[1])
			if err != nil {
				return nil, err
			}
			return value.NewTimestamp(t), nil
		}
		return value.Bytes(val), nil
	case []any:
		arr := make(value.Array, len(val))
		for i, elem := range val {
			cv, err := convertYAML(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		return convertInput(val)
	case time.Time:
		// unquoted YAML timestamps
		return value.NewTimestamp(val), nil
	default:
		return nil, fmt.Errorf("unsupported YAML value %T", v)
	}
}
