package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/filter"
)

// NewCompleteCommand creates the complete command.
func NewCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete [word]",
		Short: "Suggest qualifier keywords",
		Long: `List the completion keywords containing word (at most ten). Without a
word every keyword is listed.

Examples:
  issuefilter complete mile
  issuefilter complete --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var suggestions []string
			if len(args) == 0 {
				suggestions = filter.CompletionKeywords()
			} else {
				suggestions = filter.Complete(args[0])
			}
			if suggestions == nil {
				suggestions = []string{}
			}
			return f.Success(suggestions, strings.Join(suggestions, "\n"))
		},
	}
}
