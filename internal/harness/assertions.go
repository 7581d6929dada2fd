package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/issuefilter/internal/model"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %q", event.Seq, event.Type, event.Input)
			if event.Issue != "" {
				fmt.Fprintf(&buf, " on %s", event.Issue)
			}
			switch {
			case event.Error != "":
				fmt.Fprintf(&buf, " -> %s", event.Error)
			case event.Outcome != "":
				fmt.Fprintf(&buf, " -> %s", event.Outcome)
			case event.Type == EventQuery:
				fmt.Fprintf(&buf, " -> %v", event.Matches)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func (h *Harness) evaluateAssertion(ctx context.Context, a Assertion, trace []TraceEvent) error {
	if a.Type == AssertApplyCount {
		return h.assertApplyCount(ctx, a, trace)
	}

	repoID, id, err := model.ParseRef(a.Issue)
	if err != nil {
		return err
	}
	issue, ok := h.catalog.Issue(repoID, id)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("issue %s in catalog", a.Issue),
			Actual:   "issue not found",
		}
	}

	switch a.Type {
	case AssertIssueLabels:
		return assertIssueLabels(issue, a, trace)
	case AssertIssueOpen:
		return assertIssueOpen(issue, a, trace)
	case AssertIssueMilestone:
		return h.assertIssueMilestone(issue, a, trace)
	case AssertIssueAssignee:
		return assertIssueAssignee(issue, a, trace)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertIssueLabels checks the issue's label names, in order.
func assertIssueLabels(issue *model.Issue, a Assertion, trace []TraceEvent) error {
	if slices.Equal(issue.Labels, a.Labels) || (len(issue.Labels) == 0 && len(a.Labels) == 0) {
		return nil
	}
	return &AssertionError{
		Type:     AssertIssueLabels,
		Expected: fmt.Sprintf("%s labels %v", a.Issue, a.Labels),
		Actual:   fmt.Sprintf("labels %v", issue.Labels),
		Trace:    trace,
	}
}

func assertIssueOpen(issue *model.Issue, a Assertion, trace []TraceEvent) error {
	if issue.Open == *a.Open {
		return nil
	}
	return &AssertionError{
		Type:     AssertIssueOpen,
		Expected: fmt.Sprintf("%s open=%t", a.Issue, *a.Open),
		Actual:   fmt.Sprintf("open=%t", issue.Open),
		Trace:    trace,
	}
}

func (h *Harness) assertIssueMilestone(issue *model.Issue, a Assertion, trace []TraceEvent) error {
	var title string
	if m, ok := h.catalog.Scoped(issue.RepoID).MilestoneOf(issue); ok {
		title = m.Title
	}
	if title == *a.Value {
		return nil
	}
	return &AssertionError{
		Type:     AssertIssueMilestone,
		Expected: fmt.Sprintf("%s milestone %q", a.Issue, *a.Value),
		Actual:   fmt.Sprintf("milestone %q", title),
		Trace:    trace,
	}
}

func assertIssueAssignee(issue *model.Issue, a Assertion, trace []TraceEvent) error {
	if issue.Assignee == *a.Value {
		return nil
	}
	return &AssertionError{
		Type:     AssertIssueAssignee,
		Expected: fmt.Sprintf("%s assignee %q", a.Issue, *a.Value),
		Actual:   fmt.Sprintf("assignee %q", issue.Assignee),
		Trace:    trace,
	}
}

// assertApplyCount counts apply log records, optionally restricted to one
// issue and one outcome.
func (h *Harness) assertApplyCount(ctx context.Context, a Assertion, trace []TraceEvent) error {
	var (
		repoID string
		id     int
	)
	if a.Issue != "" {
		var err error
		if repoID, id, err = model.ParseRef(a.Issue); err != nil {
			return err
		}
	}
	records, err := h.store.ApplyLog(ctx, repoID, id)
	if err != nil {
		return fmt.Errorf("read apply log: %w", err)
	}

	count := 0
	for _, rec := range records {
		if a.Outcome == "" || rec.Outcome == a.Outcome {
			count++
		}
	}
	if count == a.Count {
		return nil
	}

	what := "apply records"
	if a.Outcome != "" {
		what = a.Outcome + " " + what
	}
	return &AssertionError{
		Type:     AssertApplyCount,
		Expected: fmt.Sprintf("%d %s", a.Count, what),
		Actual:   fmt.Sprintf("%d %s", count, what),
		Trace:    trace,
	}
}
