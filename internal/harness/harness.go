package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/issuefilter/internal/catalog"
	"github.com/roach88/issuefilter/internal/engine"
	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/parser"
	"github.com/roach88/issuefilter/internal/store"
)

// Harness executes one scenario against a fresh catalog, an in-memory
// store and a running engine.
type Harness struct {
	catalog *model.Catalog
	store   *store.Store
	engine  *engine.Engine
	logger  *slog.Logger
}

// Option configures a harness run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes engine logs to l. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes the scenario and returns its result. The returned error is
// reserved for infrastructure failures (unreadable catalog, store errors);
// failed expectations are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	now, err := scenario.NowTime()
	if err != nil {
		return nil, err
	}

	c, err := catalog.Load(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// Store timestamps are pinned so repeated runs write identical logs.
	st, err := store.Open(":memory:", store.WithNow(func() time.Time { return now }))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		catalog: c,
		store:   st,
		logger:  cfg.logger,
		engine: engine.New(c,
			engine.WithStore(st),
			engine.WithClock(filter.FixedClock(now)),
			engine.WithLogger(cfg.logger),
		),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.engine.Run(ctx) }()
	defer func() {
		h.engine.Stop()
		cancel()
		<-done
	}()

	result := NewResult()
	for i, step := range scenario.Flow {
		ev, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		ev = result.AddTrace(ev)
		checkExpect(result, i, step.Expect, ev)
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluateAssertion(ctx, a, result.Trace); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"steps", len(scenario.Flow),
		"pass", result.Pass)
	return result, nil
}

// execute runs one step. Filter and apply rejections are recorded in the
// event; only unexpected failures are returned.
func (h *Harness) execute(ctx context.Context, step FlowStep) (TraceEvent, error) {
	ev := TraceEvent{Type: step.Kind(), Input: step.Input()}

	expr, err := parser.Parse(ev.Input)
	if err != nil {
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			return ev, err
		}
		ev.Error = string(pe.Code)
		if step.Apply != nil {
			ev.Issue = step.Issue
		}
		return ev, nil
	}
	ev.Canonical = expr.String()

	switch ev.Type {
	case EventParse:
		return ev, nil

	case EventQuery:
		issues, err := h.engine.Select(ctx, expr)
		if err != nil {
			return ev, err
		}
		for _, issue := range issues {
			ev.Matches = append(ev.Matches, issue.Ref())
		}
		return ev, nil

	default:
		ev.Issue = step.Issue
		repoID, id, err := model.ParseRef(step.Issue)
		if err != nil {
			return ev, err
		}
		_, err = h.engine.Apply(ctx, repoID, id, expr)
		var (
			ae *filter.ApplyError
			ee *engine.EngineError
		)
		switch {
		case err == nil:
			ev.Outcome = store.OutcomeApplied
		case errors.As(err, &ae):
			ev.Outcome = string(ae.Code)
		case errors.As(err, &ee):
			ev.Error = string(ee.Code)
		default:
			return ev, err
		}
		return ev, nil
	}
}

func checkExpect(result *Result, index int, expect *ExpectClause, ev TraceEvent) {
	if expect == nil {
		return
	}
	if expect.Canonical != "" && expect.Canonical != ev.Canonical {
		result.AddError(fmt.Sprintf("flow[%d]: expected canonical %q, got %q", index, expect.Canonical, ev.Canonical))
	}
	if expect.Matches != nil && !slices.Equal(expect.Matches, ev.Matches) && (len(expect.Matches) > 0 || len(ev.Matches) > 0) {
		result.AddError(fmt.Sprintf("flow[%d]: expected matches %v, got %v", index, expect.Matches, ev.Matches))
	}
	if expect.Outcome != "" && expect.Outcome != ev.Outcome {
		result.AddError(fmt.Sprintf("flow[%d]: expected outcome %s, got %q", index, expect.Outcome, ev.Outcome))
	}
	if expect.Error != "" && expect.Error != ev.Error {
		result.AddError(fmt.Sprintf("flow[%d]: expected error %s, got %q", index, expect.Error, ev.Error))
	}
}
