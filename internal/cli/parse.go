package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/parser"
)

// ParseResult describes a parsed filter.
type ParseResult struct {
	Input        string   `json:"input"`
	Canonical    string   `json:"canonical"`
	Qualifiers   []string `json:"qualifiers"`
	CanBeApplied bool     `json:"can_be_applied"`
}

// parseErrorDetails locates a parse error in the input.
type parseErrorDetails struct {
	Input     string `json:"input"`
	Pos       int    `json:"pos"`
	End       int    `json:"end"`
	Fragment  string `json:"fragment"`
	Underline string `json:"underline"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <filter>",
		Short: "Parse a filter and print its canonical form",
		Long: `Parse a filter expression without evaluating it.

Prints the canonical serialization, the qualifier names the filter uses and
whether it is a single qualifier that apply accepts. An invalid filter is
reported with the offending span underlined.

Exit codes:
  0 - Filter is valid
  1 - Filter is invalid

Examples:
  issuefilter parse 'label:bug state:open'
  issuefilter parse 'created:>=2024-01-01 || -label:wontfix' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
}

func runParse(opts *RootOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	expr, err := parser.Parse(input)
	if err != nil {
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			return f.Fail(ExitFailure, err, nil)
		}
		if !f.IsJSON() {
			fmt.Fprintf(f.Writer, "Error [%s]: %s\n", pe.Code, pe.Message)
			for _, line := range strings.Split(pe.Underline(), "\n") {
				fmt.Fprintf(f.Writer, "  %s\n", line)
			}
			return reportedExit(ExitFailure, pe.Error(), pe)
		}
		return f.Fail(ExitFailure, pe, parseErrorDetails{
			Input:     pe.Input,
			Pos:       pe.Pos,
			End:       pe.End,
			Fragment:  pe.Fragment(),
			Underline: pe.Underline(),
		})
	}

	result := ParseResult{
		Input:        input,
		Canonical:    expr.String(),
		Qualifiers:   filter.NamesIn(expr),
		CanBeApplied: filter.CanBeApplied(expr),
	}
	if result.Qualifiers == nil {
		result.Qualifiers = []string{}
	}

	var text strings.Builder
	text.WriteString(result.Canonical)
	if opts.Verbose {
		fmt.Fprintf(&text, "\nqualifiers: %s", strings.Join(result.Qualifiers, ", "))
		fmt.Fprintf(&text, "\ncan be applied: %t", result.CanBeApplied)
	}
	return f.Success(result, text.String())
}
