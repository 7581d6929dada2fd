package engine

import (
	"sync"

	"github.com/roach88/issuefilter/internal/filter"
)

// applyRequest is one queued apply, with the channel its reply is sent on.
type applyRequest struct {
	seq     int64
	repoID  string
	issueID int
	expr    filter.Expression
	reply   chan applyReply // buffered, size 1
}

type applyReply struct {
	result ApplyResult
	err    error
}

// requestQueue is a thread-safe FIFO queue of apply requests.
//
// Thread-safety is provided for callers enqueuing from any goroutine while
// the Engine's Run loop dequeues.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop (prevents goroutine hangs on context cancellation).
type requestQueue struct {
	mu       sync.Mutex
	requests []*applyRequest
	closed   bool
	signal   chan struct{} // Signals request availability (buffered, size 1)
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		requests: make([]*applyRequest, 0, 16),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the back of the queue.
// Returns false if the queue is closed.
func (q *requestQueue) Enqueue(r *applyRequest) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.requests = append(q.requests, r)

	// Non-blocking: a buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front request without blocking.
func (q *requestQueue) TryDequeue() (*applyRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.requests) == 0 {
		return nil, false
	}

	r := q.requests[0]
	// Nil out the slot so the backing array does not retain the request.
	q.requests[0] = nil
	if len(q.requests) == 1 {
		q.requests = q.requests[:0]
	} else {
		q.requests = q.requests[1:]
	}

	return r, true
}

// Wait returns a channel that signals when requests may be available.
// It is closed when the queue is closed.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Close stops accepting requests and wakes any waiter. Requests already
// queued remain until drained.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

// Drain removes and returns every queued request.
func (q *requestQueue) Drain() []*applyRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.requests
	q.requests = nil
	return drained
}
