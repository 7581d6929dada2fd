package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestAssertions_Pass(t *testing.T) {
	result, err := Run(newScenario(t,
		[]FlowStep{
			{Apply: str("label:priority"), Issue: "acme/widgets#2"},
			{Apply: str("milestone:v1.1"), Issue: "acme/widgets#2"},
			{Apply: str("assignee:ali"), Issue: "acme/widgets#2"},
			{Apply: str("state:closed"), Issue: "acme/widgets#2"},
			{Apply: str("label:nope"), Issue: "acme/widgets#1"},
		},
		Assertion{Type: AssertIssueLabels, Issue: "acme/widgets#2", Labels: []string{"type.feature", "priority.high"}},
		Assertion{Type: AssertIssueMilestone, Issue: "acme/widgets#2", Value: str("v1.1")},
		Assertion{Type: AssertIssueAssignee, Issue: "acme/widgets#2", Value: str("alice")},
		Assertion{Type: AssertIssueOpen, Issue: "acme/widgets#2", Open: boolPtr(false)},
		Assertion{Type: AssertIssueLabels, Issue: "acme/docs#1", Labels: []string{"typo"}},
		Assertion{Type: AssertIssueAssignee, Issue: "acme/widgets#3", Value: str("")},
		Assertion{Type: AssertApplyCount, Count: 5},
		Assertion{Type: AssertApplyCount, Outcome: "APPLIED", Count: 4},
		Assertion{Type: AssertApplyCount, Outcome: "NOT_FOUND", Count: 1},
		Assertion{Type: AssertApplyCount, Issue: "acme/widgets#1", Count: 1},
		Assertion{Type: AssertApplyCount, Issue: "acme/widgets#3", Count: 0},
	))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestAssertions_Fail(t *testing.T) {
	result, err := Run(newScenario(t,
		[]FlowStep{{Apply: str("state:closed"), Issue: "acme/widgets#1"}},
		Assertion{Type: AssertIssueLabels, Issue: "acme/widgets#1", Labels: []string{"docs"}},
		Assertion{Type: AssertIssueOpen, Issue: "acme/widgets#1", Open: boolPtr(true)},
		Assertion{Type: AssertIssueMilestone, Issue: "acme/widgets#1", Value: str("v1.1")},
		Assertion{Type: AssertIssueAssignee, Issue: "acme/widgets#1", Value: str("bob")},
		Assertion{Type: AssertApplyCount, Outcome: "AMBIGUOUS", Count: 1},
		Assertion{Type: AssertIssueOpen, Issue: "acme/widgets#42", Open: boolPtr(true)},
	))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], "assertions[0]: Assertion failed: issue_labels")
	assert.Contains(t, result.Errors[0], "Actual: labels [type.bug]")
	assert.Contains(t, result.Errors[1], "Actual: open=false")
	assert.Contains(t, result.Errors[2], `Actual: milestone "v1.0"`)
	assert.Contains(t, result.Errors[3], `Actual: assignee "alice"`)
	assert.Contains(t, result.Errors[4], "Expected: 1 AMBIGUOUS apply records")
	assert.Contains(t, result.Errors[4], "Actual: 0 AMBIGUOUS apply records")
	assert.Contains(t, result.Errors[5], "issue not found")
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertIssueOpen,
		Expected: "acme/widgets#1 open=true",
		Actual:   "open=false",
		Trace: []TraceEvent{
			{Seq: 1, Type: EventQuery, Input: "crash", Matches: []string{"acme/widgets#1"}},
			{Seq: 2, Type: EventApply, Input: "state:closed", Issue: "acme/widgets#1", Outcome: "APPLIED"},
			{Seq: 3, Type: EventParse, Input: "(", Error: "UNEXPECTED_END"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: issue_open\n")
	assert.Contains(t, msg, "  Expected: acme/widgets#1 open=true\n")
	assert.Contains(t, msg, "  Actual: open=false\n")
	assert.Contains(t, msg, "Full trace:\n")
	assert.Contains(t, msg, `  [1] query "crash" -> [acme/widgets#1]`)
	assert.Contains(t, msg, `  [2] apply "state:closed" on acme/widgets#1 -> APPLIED`)
	assert.Contains(t, msg, `  [3] parse "(" -> UNEXPECTED_END`)
}

func TestAssertionError_WithoutTrace(t *testing.T) {
	err := &AssertionError{Type: AssertApplyCount, Expected: "1 apply records", Actual: "0 apply records"}
	assert.NotContains(t, err.Error(), "Full trace")
}
