package filter

import (
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/testutil"
)

func fixtureIssue(t *testing.T, c *model.Catalog, id int) *model.Issue {
	t.Helper()
	issue, ok := c.Issue(testutil.FixtureRepoID, id)
	require.True(t, ok, "fixture issue %d", id)
	return issue
}

// matching returns the ids of the default repository's issues satisfying expr.
func matching(c *model.Catalog, expr Expression) []int {
	clock := FixedClock(testutil.ReferenceTime)
	var ids []int
	for _, issue := range c.Issues() {
		if issue.RepoID != c.DefaultRepo() {
			continue
		}
		if Process(c, expr, issue, WithClock(clock)) {
			ids = append(ids, issue.ID)
		}
	}
	return ids
}

func TestQualifierEvaluation(t *testing.T) {
	jan1 := civil.Date{Year: 2024, Month: 1, Day: 1}
	feb15 := civil.Date{Year: 2024, Month: 2, Day: 15}
	janToFeb, err := NewDateRange(&jan1, &feb15, true, true)
	require.NoError(t, err)
	twoToSix, err := NewNumberRange(ptr(2), ptr(6), true, true)
	require.NoError(t, err)

	tests := []struct {
		name     string
		expr     Expression
		expected []int
	}{
		{"id", NewNumber(NameID, 3), []int{3}},
		{"id with text content", NewText(NameID, "3"), nil},
		{"keyword in title or body", NewText(NameKeyword, "THEME"), []int{2}},
		{"title", NewText(NameTitle, "crash"), []int{1}},
		{"body", NewText(NameBody, "spelling"), []int{3}},
		{"desc", NewText(NameDesc, "heap"), []int{4}},
		{"milestone", NewText(NameMilestone, "v1."), []int{1, 2}},
		{"milestone exact", NewText(NameMilestone, "V1.1"), []int{2}},
		{"label by name", NewText(NameLabel, "bug"), []int{1}},
		{"label by later grouped label", NewText(NameLabel, "high"), []int{1}},
		{"label by group and name", NewText(NameLabel, "type.bug"), []int{1}},
		{"label group mismatch", NewText(NameLabel, "priority.bug"), nil},
		{"label non-exclusive group", NewText(NameLabel, "ui"), []int{2}},
		{"label ungrouped", NewText(NameLabel, "doc"), []int{3}},
		{"label with space", NewText(NameLabel, "in progress"), []int{5}},
		{"author", NewText(NameAuthor, "BOB"), []int{3, 4}},
		{"assignee by login", NewText(NameAssignee, "car"), []int{4}},
		{"assignee by real name", NewText(NameAssignee, "liddell"), []int{1}},
		{"involves", NewText(NameInvolves, "carol"), []int{2, 4, 5}},
		{"user", NewText(NameUser, "alice"), []int{1}},
		{"type issue", NewText(NameType, "issue"), []int{1, 4, 5}},
		{"type pr", NewText(NameType, "PR"), []int{2, 3}},
		{"type pullrequest", NewText(NameType, "pullrequest"), []int{2, 3}},
		{"type unknown", NewText(NameType, "epic"), nil},
		{"state open", NewText(NameState, "open"), []int{1, 2, 5}},
		{"status closed", NewText(NameStatus, "Closed"), []int{3, 4}},
		{"state neither", NewText(NameState, "pending"), nil},
		{"has label", NewText(NameHas, "labels"), []int{1, 2, 3, 5}},
		{"has milestone", NewText(NameHas, "milestone"), []int{1, 2}},
		{"has assignee", NewText(NameHas, "assignees"), []int{1, 4}},
		{"has unknown", NewText(NameHas, "comments"), nil},
		{"no label", NewText(NameNo, "label"), []int{4}},
		{"no unknown", NewText(NameNo, "comments"), []int{1, 2, 3, 4, 5}},
		{"no without text", NewNumber(NameNo, 1), nil},
		{"is open", NewText(NameIs, "open"), []int{1, 2, 5}},
		{"is pr", NewText(NameIs, "pr"), []int{2, 3}},
		{"is merged", NewText(NameIs, "merged"), []int{3}},
		{"is unmerged", NewText(NameIs, "unmerged"), []int{2}},
		{"is unknown", NewText(NameIs, "draft"), nil},
		{"created date", NewDate(NameCreated, civil.Date{Year: 2024, Month: 1, Day: 10}), []int{1}},
		{"created range", NewDateRangeQualifier(NameCreated, janToFeb), []int{1, 2}},
		{"created text", NewText(NameCreated, "2024-01-10"), nil},
		{"updated bare number", NewNumber(NameUpdated, 6), []int{2, 3}},
		{"updated range", NewNumberRangeQualifier(NameUpdated, twoToSix), []int{2, 3}},
		{"updated text", NewText(NameUpdated, "6"), nil},
		{"unknown qualifier", NewText("color", "red"), nil},
		{"empty", Empty, []int{1, 2, 3, 4, 5}},
		{
			"conjunction",
			Conjunction{Left: NewText(NameState, "open"), Right: NewText(NameType, "issue")},
			[]int{1, 5},
		},
		{
			"disjunction",
			Disjunction{Left: NewNumber(NameID, 1), Right: NewNumber(NameID, 4)},
			[]int{1, 4},
		},
		{"negation", Negation{Expr: NewText(NameHas, "label")}, []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.FixtureCatalog()
			assert.Equal(t, tt.expected, matching(c, tt.expr))
		})
	}
}

func TestLabelUngroupedLabelShortCircuits(t *testing.T) {
	repo := &model.Repository{
		ID:     "acme/x",
		Labels: []model.Label{{Name: "wontfix"}, {Name: "type.bug"}},
		Issues: []*model.Issue{
			{ID: 1, RepoID: "acme/x", Labels: []string{"wontfix", "type.bug"}},
			{ID: 2, RepoID: "acme/x", Labels: []string{"type.bug", "wontfix"}},
		},
	}
	c := model.NewCatalog(repo)
	q := NewText(NameLabel, "bug")

	first, _ := c.Issue("acme/x", 1)
	second, _ := c.Issue("acme/x", 2)

	// The ungrouped "wontfix" label decides the result before type.bug is seen.
	assert.False(t, Process(c, q, first))
	assert.True(t, Process(c, q, second))
}

func TestUpdatedUsesInjectedClock(t *testing.T) {
	c := testutil.FixtureCatalog()
	clock := FixedClock(testutil.ReferenceTime)
	q := NewNumberRangeQualifier(NameUpdated, LessThan(3))

	updated2h := fixtureIssue(t, c, 2)
	updated5h := fixtureIssue(t, c, 3)

	assert.True(t, Process(c, q, updated2h, WithClock(clock)))
	assert.False(t, Process(c, q, updated5h, WithClock(clock)))

	// Moving the clock forward two hours pushes issue 2 out of the window.
	clock.Set(testutil.ReferenceTime.Add(2 * time.Hour))
	assert.False(t, Process(c, q, updated2h, WithClock(clock)))
}

func TestClockResetReadsWallClock(t *testing.T) {
	clock := FixedClock(testutil.ReferenceTime)
	assert.Equal(t, testutil.ReferenceTime, clock.Now())

	clock.Reset()
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Minute)

	var unset *Clock
	assert.WithinDuration(t, time.Now(), unset.Now(), time.Minute)
}

func TestRepoIsExactAndCaseSensitive(t *testing.T) {
	issue := &model.Issue{ID: 1, RepoID: "baz/qux"}
	c := model.NewCatalog(&model.Repository{ID: "baz/qux", Issues: []*model.Issue{issue}})

	assert.False(t, Process(c, NewText(NameRepo, "foo/bar"), issue))
	assert.True(t, Process(c, NewText(NameRepo, "baz/qux"), issue))
	assert.False(t, Process(c, NewText(NameRepo, "BAZ/QUX"), issue))
	assert.False(t, Process(c, NewText(NameRepo, "baz"), issue))
}

func TestHasAndNoAreComplementary(t *testing.T) {
	c := testutil.FixtureCatalog()
	env := Env{Model: c}

	for _, content := range []string{"label", "labels", "milestone", "milestones", "assignee", "assignees"} {
		for _, issue := range c.Issues() {
			has := Evaluate(NewText(NameHas, content), env, issue)
			no := Evaluate(NewText(NameNo, content), env, issue)
			assert.NotEqual(t, has, no, "has:%s / no:%s on issue %s#%d", content, content, issue.RepoID, issue.ID)
		}
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	c := testutil.FixtureCatalog()
	clock := FixedClock(testutil.ReferenceTime)
	expr := Disjunction{
		Left:  Conjunction{Left: NewText(NameLabel, "bug"), Right: NewText(NameState, "open")},
		Right: NewNumberRangeQualifier(NameUpdated, LessThan(3)),
	}

	want := matching(c, expr)
	require.Equal(t, []int{1, 2}, want)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, matching(c, expr))
			assert.True(t, Process(c, expr, fixtureIssue(t, c, 1), WithClock(clock)))
		}()
	}
	wg.Wait()
}
