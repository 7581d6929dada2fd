package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/catalog"
	"github.com/roach88/issuefilter/internal/engine"
	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/parser"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Write bool // save the mutated catalog back to --catalog
}

// ApplyOutput is the outcome of a successful apply.
type ApplyOutput struct {
	Qualifier string       `json:"qualifier"`
	Issue     IssueSummary `json:"issue"`
	Seq       int64        `json:"seq"`
	Saved     bool         `json:"saved"`
}

// applyErrorDetails accompanies a rejected apply.
type applyErrorDetails struct {
	Issue      string   `json:"issue"`
	Qualifier  string   `json:"qualifier"`
	Candidates []string `json:"candidates,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <owner/name#id> <qualifier>",
		Short: "Change an issue so that it satisfies one qualifier",
		Long: `Apply a single qualifier to an issue: add a label, set the milestone or
assignee, or open/close the issue. Label, milestone and assignee content
must match exactly one candidate of the issue's repository.

Every attempt, accepted or rejected, is recorded in the apply log of --db.
With --write the changed catalog is saved back to the --catalog YAML file.

Exit codes:
  0 - Qualifier applied
  1 - Qualifier rejected (AMBIGUOUS, NOT_FOUND, UNSUPPORTED, INVALID_CONTENT)
      or filter invalid
  2 - Command error (unknown issue, missing catalog, etc.)

Examples:
  issuefilter apply --catalog issues.yaml acme/widgets#2 label:type.bug
  issuefilter apply --catalog issues.yaml acme/widgets#2 state:closed --write`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Write, "write", false, "save the changed catalog back to --catalog (YAML only)")

	return cmd
}

func runApply(opts *ApplyOptions, ref, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	repoID, issueID, err := model.ParseRef(ref)
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	expr, err := parser.Parse(input)
	if err != nil {
		return f.Fail(ExitFailure, err, nil)
	}
	if opts.Write {
		switch filepath.Ext(opts.Catalog) {
		case ".yaml", ".yml":
		default:
			return f.Fail(ExitCommandError, NewExitError(ExitCommandError, "--write needs a .yaml or .yml catalog"), nil)
		}
	}

	c, err := opts.loadCatalog(cmd)
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	st, err := opts.openStore()
	if err != nil {
		return f.Fail(ExitCommandError, err, nil)
	}
	defer st.Close()

	logger := opts.logger(cmd)
	e := engine.New(c, engine.WithStore(st), engine.WithClock(opts.clock()), engine.WithLogger(logger))
	stop := startEngine(commandContext(cmd), e, logger)
	res, err := e.Apply(commandContext(cmd), repoID, issueID, expr)
	stop()

	if err != nil {
		var ae *filter.ApplyError
		if errors.As(err, &ae) {
			return f.Fail(ExitFailure, err, applyErrorDetails{
				Issue:      ref,
				Qualifier:  ae.Qualifier,
				Candidates: ae.Candidates,
			})
		}
		return f.Fail(ExitCommandError, err, nil)
	}

	out := ApplyOutput{
		Qualifier: expr.String(),
		Issue:     summarize(c, res.Issue),
		Seq:       res.Record.Seq,
	}
	if opts.Write {
		if err := catalog.SaveYAML(opts.Catalog, c); err != nil {
			msg := fmt.Sprintf("write catalog %s: %v", opts.Catalog, err)
			if outErr := f.Error(ErrCodeWriteFailed, msg, nil); outErr != nil {
				return outErr
			}
			return reportedExit(ExitCommandError, "write catalog", err)
		}
		out.Saved = true
		f.VerboseLog("catalog saved to %s", opts.Catalog)
	}

	text := fmt.Sprintf("Applied %s to %s\n%s", out.Qualifier, ref, formatIssues([]IssueSummary{out.Issue}))
	return f.Success(out, text)
}
