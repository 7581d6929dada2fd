package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
)

// Select returns snapshots of the issues expr accepts, in catalog order
// (repository id, then issue id). Only issues of the default repository
// and of opened repositories are considered.
//
// Repositories named by repo: are opened first and stay open; an unknown
// one is logged and simply matches nothing.
func (e *Engine) Select(ctx context.Context, expr filter.Expression) ([]*model.Issue, error) {
	if expr == nil {
		expr = filter.Empty
	}
	filter.ProcessMetaQualifierEffects(expr, func(q filter.Qualifier) {
		if q.Name != filter.NameRepo {
			return
		}
		repoID, ok := q.Text()
		if !ok {
			return
		}
		if err := e.OpenRepository(repoID); err != nil {
			e.logger.Warn("cannot open repository from filter", "repo", repoID, "error", err)
		}
	})

	e.mu.RLock()
	defer e.mu.RUnlock()

	issues := e.visibleIssues()
	matched := make([]bool, len(issues))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	chunk := max(1, (len(issues)+e.workers-1)/e.workers)
	for start := 0; start < len(issues); start += chunk {
		end := min(start+chunk, len(issues))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				matched[i] = filter.Process(e.catalog, expr, issues[i], filter.WithClock(e.clock))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result []*model.Issue
	for i, ok := range matched {
		if ok {
			result = append(result, issues[i].Clone())
		}
	}
	e.logger.Debug("selection evaluated",
		"filter", expr.String(),
		"issues", len(issues),
		"matched", len(result),
		"workers", e.workers)
	return result, nil
}

// visibleIssues returns the issues of the default repository and of every
// opened repository, in catalog order.
func (e *Engine) visibleIssues() []*model.Issue {
	defaultRepo := e.catalog.DefaultRepo()
	all := e.catalog.Issues()
	visible := make([]*model.Issue, 0, len(all))
	for _, issue := range all {
		if issue.RepoID == defaultRepo || e.IsOpen(issue.RepoID) {
			visible = append(visible, issue)
		}
	}
	return visible
}
