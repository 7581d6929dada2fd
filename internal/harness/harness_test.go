package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScenario(t *testing.T, flow []FlowStep, assertions ...Assertion) *Scenario {
	t.Helper()
	return &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Catalog:     trackerCatalog(t),
		Flow:        flow,
		Assertions:  assertions,
	}
}

func str(s string) *string { return &s }

func TestRun_MinimalScenario(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{{Query: str("crash")}}))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{
		Seq:       1,
		Type:      EventQuery,
		Input:     "crash",
		Canonical: "crash",
		Matches:   []string{"acme/widgets#1"},
	}, result.Trace[0])
}

func TestRun_EmptyQuerySelectsDefaultRepository(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{{Query: str("")}}))
	require.NoError(t, err)

	assert.Equal(t, []string{"acme/widgets#1", "acme/widgets#2", "acme/widgets#3"}, result.Trace[0].Matches)
	assert.Equal(t, "", result.Trace[0].Canonical)
}

func TestRun_ParseStep(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{
		{Parse: str("crash label:bug || !state:open"), Expect: &ExpectClause{Canonical: "((crash AND label:bug) OR NOT state:open)"}},
		{Parse: str("(crash"), Expect: &ExpectClause{Error: "UNBALANCED_PAREN"}},
	}))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "((crash AND label:bug) OR NOT state:open)", result.Trace[0].Canonical)
	assert.Empty(t, result.Trace[1].Canonical)
	assert.Equal(t, "UNBALANCED_PAREN", result.Trace[1].Error)
}

func TestRun_ApplyMutatesForLaterQueries(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{
		{Query: str("assignee:bob"), Expect: &ExpectClause{Matches: []string{}}},
		{Apply: str("assignee:bob"), Issue: "acme/widgets#3", Expect: &ExpectClause{Outcome: "APPLIED"}},
		{Query: str("assignee:bob"), Expect: &ExpectClause{Matches: []string{"acme/widgets#3"}}},
	}))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "acme/widgets#3", result.Trace[1].Issue)
	assert.Equal(t, "APPLIED", result.Trace[1].Outcome)
}

func TestRun_ApplyRejections(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{
		{Apply: str("label:type."), Issue: "acme/widgets#3"},
		{Apply: str("milestone:v9"), Issue: "acme/widgets#3"},
		{Apply: str("title:x"), Issue: "acme/widgets#3"},
		{Apply: str("label:bug"), Issue: "acme/nope#1"},
		{Apply: str("state:(open"), Issue: "acme/widgets#1"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "AMBIGUOUS", result.Trace[0].Outcome)
	assert.Equal(t, "NOT_FOUND", result.Trace[1].Outcome)
	assert.Equal(t, "UNSUPPORTED", result.Trace[2].Outcome)
	assert.Equal(t, "ISSUE_NOT_FOUND", result.Trace[3].Error)
	assert.Empty(t, result.Trace[3].Outcome)
	assert.Equal(t, "acme/widgets#1", result.Trace[4].Issue)
	assert.NotEmpty(t, result.Trace[4].Error)
	assert.True(t, result.Pass, "no expectations were set")
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	result, err := Run(newScenario(t, []FlowStep{
		{Query: str("crash"), Expect: &ExpectClause{Matches: []string{"acme/widgets#2"}}},
		{Apply: str("milestone:v1"), Issue: "acme/widgets#2", Expect: &ExpectClause{Outcome: "APPLIED"}},
		{Parse: str("crash"), Expect: &ExpectClause{Canonical: "keyword:crash"}},
		{Parse: str("crash"), Expect: &ExpectClause{Error: "UNEXPECTED_TOKEN"}},
	}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "flow[0]: expected matches [acme/widgets#2], got [acme/widgets#1]")
	assert.Contains(t, result.Errors[1], `flow[1]: expected outcome APPLIED, got "AMBIGUOUS"`)
	assert.Contains(t, result.Errors[2], `flow[2]: expected canonical "keyword:crash", got "crash"`)
	assert.Contains(t, result.Errors[3], `flow[3]: expected error UNEXPECTED_TOKEN, got ""`)
}

func TestRun_TimeRelativeQualifiersUseScenarioNow(t *testing.T) {
	scenario := newScenario(t, []FlowStep{{Query: str("updated:<24")}})

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/widgets#2"}, result.Trace[0].Matches)

	// A week later nothing was updated in the last day.
	scenario.Now = "2024-03-22T12:00:00Z"
	result, err = Run(scenario)
	require.NoError(t, err)
	assert.Empty(t, result.Trace[0].Matches)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "label_triage.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_FreshCatalogPerRun(t *testing.T) {
	scenario := newScenario(t,
		[]FlowStep{{Apply: str("state:closed"), Issue: "acme/widgets#1"}},
		Assertion{Type: AssertApplyCount, Count: 1},
	)

	for range 2 {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "errors: %v", result.Errors)
		assert.Equal(t, "APPLIED", result.Trace[0].Outcome)
	}
}

func TestRun_MissingCatalog(t *testing.T) {
	scenario := newScenario(t, []FlowStep{{Query: str("crash")}})
	scenario.Catalog = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_, err := Run(newScenario(t, []FlowStep{{Apply: str("state:closed"), Issue: "acme/widgets#1"}}), WithLogger(logger))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "apply performed")
	assert.Contains(t, buf.String(), "scenario completed")
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}

func TestResult_AddTrace(t *testing.T) {
	result := NewResult()

	first := result.AddTrace(TraceEvent{Type: EventParse, Input: "a", Seq: 99})
	second := result.AddTrace(TraceEvent{Type: EventQuery, Input: "b"})

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Len(t, result.Trace, 2)
}

func TestRun_Scenarios(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
