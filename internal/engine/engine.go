package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/roach88/issuefilter/internal/filter"
	"github.com/roach88/issuefilter/internal/model"
	"github.com/roach88/issuefilter/internal/store"
)

// Engine selects and mutates the issues of a catalog.
//
// Thread-safety model:
//   - Select(), OpenRepository(), Apply(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//
// INVARIANTS:
//   - Issues are mutated only inside Run, under the write lock
//   - Select results are snapshots; later applies do not change them
type Engine struct {
	catalog *model.Catalog
	store   *store.Store // nil disables the apply log
	clock   *filter.Clock
	workers int
	logger  *slog.Logger

	// mu orders Select (read) against applies (write).
	mu     sync.RWMutex
	queue  *requestQueue
	seq    atomic.Int64
	opened sync.Map // repo id -> struct{}
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithStore records every apply attempt in s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock sets the clock read by time-relative qualifiers.
//
// Default: nil, the wall clock.
func WithClock(c *filter.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithWorkers bounds the number of goroutines Select evaluates with.
//
// Default: runtime.GOMAXPROCS(0). Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = max(n, 1)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine over c.
func New(c *model.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: c,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
		queue:   newRequestQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine works on.
func (e *Engine) Catalog() *model.Catalog {
	return e.catalog
}

// OpenRepository makes the issues of repoID visible to Select. It fails for
// a repository the catalog does not hold.
func (e *Engine) OpenRepository(repoID string) error {
	if _, ok := e.catalog.Repository(repoID); !ok {
		return &EngineError{Code: ErrCodeRepoNotFound, Message: "repository not in catalog", RepoID: repoID}
	}
	if _, loaded := e.opened.LoadOrStore(repoID, struct{}{}); !loaded {
		e.logger.Info("repository opened", "repo", repoID)
	}
	return nil
}

// IsOpen reports whether repoID was opened, explicitly or by a repo:
// qualifier of an earlier selection. The default repository is always
// visible but is not opened.
func (e *Engine) IsOpen(repoID string) bool {
	_, ok := e.opened.Load(repoID)
	return ok
}

// Run starts the single-writer apply loop.
// Blocks until ctx is cancelled or Stop() is called.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// Requests still queued when Run returns are answered with a STOPPED error.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("apply loop starting")
	defer e.rejectPending()

	for {
		if req, ok := e.queue.TryDequeue(); ok {
			result, err := e.process(ctx, req)
			req.reply <- applyReply{result: result, err: err}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("apply loop stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case _, open := <-e.queue.Wait():
			// The signal channel closes with the queue; keep draining
			// until nothing is left.
			if !open && e.queue.Len() == 0 {
				e.logger.Info("apply loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts down the apply loop. Requests already queued are
// still performed; later Apply calls fail with STOPPED.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) rejectPending() {
	for _, req := range e.queue.Drain() {
		req.reply <- applyReply{err: &EngineError{Code: ErrCodeStopped, Message: "engine stopped"}}
	}
}
