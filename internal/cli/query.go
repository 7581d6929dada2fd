package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/issuefilter/internal/engine"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/parser"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Workers int // 0 means GOMAXPROCS
}

// IssueSummary is the listing form of an issue.
type IssueSummary struct {
	Ref         string   `json:"ref"`
	Title       string   `json:"title"`
	Open        bool     `json:"open"`
	PullRequest bool     `json:"pull_request"`
	Author      string   `json:"author,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Milestone   string   `json:"milestone,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// QueryResult is the outcome of a query.
type QueryResult struct {
	Filter string         `json:"filter"`
	Issues []IssueSummary `json:"issues"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <filter>",
		Short: "List the issues a filter matches",
		Long: `Evaluate a filter against every issue of the catalog.

Without a repo: qualifier only the catalog's default repository is searched.
An empty filter lists every issue of the default repository.

Exit codes:
  0 - Query ran (possibly matching nothing)
  1 - Filter is invalid
  2 - Command error (missing catalog, etc.)

Examples:
  issuefilter query --catalog issues.yaml 'label:bug state:open'
  issuefilter query --catalog issues.yaml 'updated:<24' --now 2024-03-15T12:00:00Z
  issuefilter query --catalog ./catalog 'repo:acme/docs' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "evaluation goroutines (0 = GOMAXPROCS)")

	return cmd
}

func runQuery(opts *QueryOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	result, err := selectIssues(opts, input, cmd)
	if err != nil {
		return f.Fail(GetExitCode(err), err, nil)
	}
	f.VerboseLog("%d issue(s) matched %q", len(result.Issues), result.Filter)

	return f.Success(result, formatIssues(result.Issues))
}

// selectIssues parses input and selects the matching issues of --catalog.
// Errors are *ExitError: ExitFailure for an invalid filter, ExitCommandError
// otherwise.
func selectIssues(opts *QueryOptions, input string, cmd *cobra.Command) (QueryResult, error) {
	expr, err := parser.Parse(input)
	if err != nil {
		return QueryResult{}, WrapExitError(ExitFailure, "invalid filter", err)
	}

	c, err := opts.loadCatalog(cmd)
	if err != nil {
		return QueryResult{}, err
	}
	engOpts := []engine.Option{engine.WithClock(opts.clock()), engine.WithLogger(opts.logger(cmd))}
	if opts.Workers > 0 {
		engOpts = append(engOpts, engine.WithWorkers(opts.Workers))
	}
	e := engine.New(c, engOpts...)

	issues, err := e.Select(commandContext(cmd), expr)
	if err != nil {
		return QueryResult{}, WrapExitError(ExitCommandError, "selection failed", err)
	}

	result := QueryResult{Filter: expr.String(), Issues: make([]IssueSummary, 0, len(issues))}
	for _, issue := range issues {
		result.Issues = append(result.Issues, summarize(c, issue))
	}
	return result, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func summarize(c *model.Catalog, issue *model.Issue) IssueSummary {
	s := IssueSummary{
		Ref:         issue.Ref(),
		Title:       issue.Title,
		Open:        issue.Open,
		PullRequest: issue.PullRequest,
		Author:      issue.Creator,
		Assignee:    issue.Assignee,
		Labels:      issue.Labels,
	}
	if m, ok := c.Scoped(issue.RepoID).MilestoneOf(issue); ok {
		s.Milestone = m.Title
	}
	return s
}

// formatIssues renders one line per issue:
//
//	acme/widgets#1  open    issue  Crash on startup  [type.bug]
func formatIssues(issues []IssueSummary) string {
	if len(issues) == 0 {
		return "No issues matched."
	}
	var b strings.Builder
	for i, s := range issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		state := "closed"
		if s.Open {
			state = "open"
		}
		kind := "issue"
		if s.PullRequest {
			kind = "pr"
		}
		fmt.Fprintf(&b, "%-20s %-6s %-5s %s", s.Ref, state, kind, s.Title)
		if len(s.Labels) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(s.Labels, ", "))
		}
	}
	return b.String()
}
