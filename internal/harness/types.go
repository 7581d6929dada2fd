package harness

// Trace event types.
const (
	EventParse = "parse"
	EventQuery = "query"
	EventApply = "apply"
)

// TraceEvent records one executed flow step.
type TraceEvent struct {
	Seq       int64    `json:"seq"`
	Type      string   `json:"type"` // parse, query or apply
	Input     string   `json:"input"`
	Canonical string   `json:"canonical,omitempty"`
	Issue     string   `json:"issue,omitempty"`   // apply target, "owner/name#id"
	Matches   []string `json:"matches,omitempty"` // query results, "owner/name#id"
	Outcome   string   `json:"outcome,omitempty"` // apply: APPLIED or the rejection code
	Error     string   `json:"error,omitempty"`   // parse error code, or an engine error code
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends ev, numbering it after the events already recorded.
func (r *Result) AddTrace(ev TraceEvent) TraceEvent {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
	return ev
}
