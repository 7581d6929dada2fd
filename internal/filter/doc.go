// Package filter implements the issue filter language's expression tree: the
// qualifier evaluation engine, meta-qualifier orchestration and the apply
// engine that mutates an issue to satisfy a single qualifier.
//
// ARCHITECTURE:
//
//	[query text] → parser.Parse → [Expression] → Process  → bool
//	                                           → Apply    → mutated issue
//
// SEALED INTERFACE:
//
// Expression is sealed with a marker method. Only Qualifier, Conjunction,
// Disjunction and Negation implement it, so Evaluate, Filter and Find use
// exhaustive type switches:
//
//	switch e := expr.(type) {
//	case Qualifier:
//	case Conjunction:
//	case Disjunction:
//	case Negation:
//	}
//
// Trees are immutable values. Filter builds a new tree; nothing mutates one.
//
// STRIPPING HAZARD:
//
// Filter replaces every leaf that fails the predicate with Empty, which is
// satisfied by every issue. It does not remove the node. Under a Negation
// the stripped leaf becomes NOT(true) == false, so "NOT in:title" excludes
// everything instead of being ignored. Process relies on exactly this
// behaviour when it strips "in" qualifiers; do not rebalance the tree.
//
// FAIL-CLOSED EVALUATION:
//
// Evaluation never returns an error. Unknown qualifier names, content of the
// wrong kind and unresolved model lookups all evaluate to false.
//
// CONCURRENCY:
//
// Evaluate and Process are pure reads of the tree, issue and model and may
// be called from many goroutines at once. Apply mutates its issue and takes
// no locks; callers serialize applies per issue (see engine).
package filter
