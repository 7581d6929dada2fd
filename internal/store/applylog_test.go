package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/issuefilter/internal/testutil"
)

func TestAppendApply(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.AppendApply(ctx, ApplyRecord{
		RepoID: "acme/widgets", IssueID: 4, Qualifier: "label:docs", Outcome: OutcomeApplied,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, rfc3339(testutil.ReferenceTime), first.AppliedAt)

	second, err := s.AppendApply(ctx, ApplyRecord{
		RepoID: "acme/widgets", IssueID: 4, Qualifier: "label:type.",
		Outcome: "AMBIGUOUS", Reason: "2 labels match",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, rfc3339(testutil.ReferenceTime.Add(time.Second)), second.AppliedAt)

	_, err = s.AppendApply(ctx, ApplyRecord{
		RepoID: "acme/docs", IssueID: 1, Qualifier: "state:closed", Outcome: OutcomeApplied,
	})
	require.NoError(t, err)

	records, err := s.ApplyLog(ctx, "acme/widgets", 4)
	require.NoError(t, err)
	assert.Equal(t, []ApplyRecord{first, second}, records)

	all, err := s.ApplyLog(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.ApplyLog(ctx, "acme/widgets", 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppendApply_KeepsCallerID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec, err := s.AppendApply(ctx, ApplyRecord{ID: "fixed", RepoID: "r", IssueID: 1, Qualifier: "state:open", Outcome: OutcomeApplied})
	require.NoError(t, err)
	assert.Equal(t, "fixed", rec.ID)

	_, err = s.AppendApply(ctx, ApplyRecord{ID: "fixed", RepoID: "r", IssueID: 1, Qualifier: "state:open", Outcome: OutcomeApplied})
	assert.Error(t, err, "ids are unique")
}
