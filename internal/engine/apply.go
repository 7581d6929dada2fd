package engine

import (
	"context"
	"errors"

	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/store"
)

// ApplyResult is the outcome of a successful apply.
type ApplyResult struct {
	// Issue is a snapshot of the issue after the apply.
	Issue *model.Issue

	// Record is the apply log entry. It is zero when the engine has no store.
	Record store.ApplyRecord
}

// Apply mutates issue issueID of repoID so that it satisfies expr, which
// must be a single qualifier. The request runs on the Run loop; Apply
// blocks until it is done or ctx ends.
//
// Errors: *filter.ApplyError when the qualifier is rejected (the issue is
// unchanged), *EngineError for an unknown issue or a stopped engine.
func (e *Engine) Apply(ctx context.Context, repoID string, issueID int, expr filter.Expression) (ApplyResult, error) {
	if expr == nil {
		expr = filter.Empty
	}
	req := &applyRequest{
		seq:     e.seq.Add(1),
		repoID:  repoID,
		issueID: issueID,
		expr:    expr,
		reply:   make(chan applyReply, 1),
	}
	if !e.queue.Enqueue(req) {
		return ApplyResult{}, &EngineError{Code: ErrCodeStopped, Message: "engine stopped"}
	}

	select {
	case <-ctx.Done():
		return ApplyResult{}, ctx.Err()
	case r := <-req.reply:
		return r.result, r.err
	}
}

// process performs one request.
// CRITICAL: Called only from Run() goroutine - single-writer guarantee.
func (e *Engine) process(ctx context.Context, req *applyRequest) (ApplyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	issue, ok := e.catalog.Issue(req.repoID, req.issueID)
	if !ok {
		return ApplyResult{}, &EngineError{
			Code:    ErrCodeIssueNotFound,
			Message: "issue not in catalog",
			RepoID:  req.repoID,
			IssueID: req.issueID,
		}
	}

	applyErr := filter.Apply(req.expr, issue, e.catalog.Scoped(issue.RepoID))

	rec := store.ApplyRecord{
		RepoID:    issue.RepoID,
		IssueID:   issue.ID,
		Qualifier: req.expr.String(),
		Outcome:   store.OutcomeApplied,
	}
	var ae *filter.ApplyError
	if errors.As(applyErr, &ae) {
		rec.Outcome, rec.Reason = string(ae.Code), ae.Error()
	}

	if e.store != nil {
		stored, err := e.store.AppendApply(ctx, rec)
		if err != nil {
			// Log and continue: the issue has already been mutated.
			e.logger.Error("apply log write failed",
				"seq", req.seq, "repo", rec.RepoID, "issue", rec.IssueID, "error", err)
		} else {
			rec = stored
		}
	}

	if applyErr != nil {
		e.logger.Info("apply rejected",
			"seq", req.seq, "repo", rec.RepoID, "issue", rec.IssueID,
			"qualifier", rec.Qualifier, "outcome", rec.Outcome)
		return ApplyResult{}, applyErr
	}

	e.logger.Info("apply performed",
		"seq", req.seq, "repo", rec.RepoID, "issue", rec.IssueID, "qualifier", rec.Qualifier)
	if e.store == nil {
		rec = store.ApplyRecord{}
	}
	return ApplyResult{Issue: issue.Clone(), Record: rec}, nil
}
