package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/remap/internal/function"
	"github.com/roach88/remap/internal/stdlib"
)

// FunctionDoc documents one builtin.
type FunctionDoc struct {
	Name       string         `json:"name"`
	Summary    string         `json:"summary"`
	Usage      string         `json:"usage,omitempty"`
	Parameters []ParameterDoc `json:"parameters,omitempty"`
	Examples   []ExampleDoc   `json:"examples,omitempty"`
}

// ParameterDoc documents one parameter.
type ParameterDoc struct {
	Keyword  string `json:"keyword"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

// ExampleDoc is one documented example.
type ExampleDoc struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Result string `json:"result"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "functions [name]",
		Short: "List builtin functions or document one",
		Long: `Without arguments, list every builtin with its summary.
With a name, print the builtin's usage, parameters and examples.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			reg := stdlib.NewRegistry()

			if len(args) == 0 {
				var docs []FunctionDoc
				for _, fn := range reg.Functions() {
					docs = append(docs, FunctionDoc{Name: fn.Identifier(), Summary: fn.Summary()})
				}
				if rootOpts.Format == "json" {
					return formatter.Success(docs)
				}
				var sb strings.Builder
				for _, d := range docs {
					fmt.Fprintf(&sb, "%-20s %s\n", d.Name, d.Summary)
				}
				return formatter.Success(strings.TrimSuffix(sb.String(), "\n"))
			}

			fn, ok := reg.Lookup(args[0])
			if !ok {
				msg := fmt.Sprintf("unknown function %q", args[0])
				_ = formatter.Error(function.ErrUndefinedFunction, msg, nil)
				return NewExitError(ExitCommandError, msg)
			}
			doc := describeFunction(fn)
			if rootOpts.Format == "json" {
				return formatter.Success(doc)
			}
			return formatter.Success(renderFunctionDoc(doc))
		},
	}
	return cmd
}

func describeFunction(fn function.Function) FunctionDoc {
	doc := FunctionDoc{
		Name:    fn.Identifier(),
		Summary: fn.Summary(),
		Usage:   fn.Usage(),
	}
	for _, p := range fn.Parameters() {
		doc.Parameters = append(doc.Parameters, ParameterDoc{
			Keyword:  p.Keyword,
			Kind:     p.Kind.String(),
			Required: p.Required,
		})
	}
	for _, ex := range fn.Examples() {
		doc.Examples = append(doc.Examples, ExampleDoc{Title: ex.Title, Source: ex.Source, Result: ex.Result})
	}
	return doc
}

func renderFunctionDoc(doc FunctionDoc) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - %s\n\n%s\n\nParameters:\n", doc.Name, doc.Summary, doc.Usage)
	for _, p := range doc.Parameters {
		req := "optional"
		if p.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "  %-10s %s (%s)\n", p.Keyword, p.Kind, req)
	}
	if len(doc.Examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, ex := range doc.Examples {
			fmt.Fprintf(&sb, "  # %s\n  %s\n  => %s\n", ex.Title, ex.Source, ex.Result)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
