// Package engine runs filters against a repository catalog.
//
// ARCHITECTURE:
//
// Parallel Selection:
// Select evaluates one expression tree against every issue of the catalog.
// Evaluation is a pure read, so issues are split into chunks and evaluated
// by a bounded errgroup (WithWorkers). Results keep catalog order.
//
// Single-Writer Apply Loop:
// Apply never mutates an issue directly. Requests are enqueued to a FIFO
// queue and Run, called from exactly one goroutine, performs them one at a
// time. This ensures:
// - At most one in-flight apply per issue (in fact, per catalog)
// - No apply overlaps a Select (Run takes the write lock, Select the read lock)
// - A total order of attempts in the apply log
//
// Apply Processing Flow:
// 1. Apply enqueues a request and waits for its reply (or ctx)
// 2. Run dequeues requests one at a time
// 3. The qualifier is applied against the issue's own repository
// 4. The attempt, successful or not, is appended to the store's apply log
//
// CRITICAL PATTERNS:
//
// Explicit Clock
// Time-relative qualifiers read the *filter.Clock given by WithClock. The
// engine holds no global time state.
//
// Repository Switching
// Select only sees the default repository and opened repositories. Before
// selecting, every repo: meta-qualifier of the tree is opened with
// OpenRepository, and opened repositories stay visible. in: qualifiers have
// no effect on the engine.
package engine
