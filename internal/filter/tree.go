package filter

// Filter returns a structural copy of expr in which every leaf failing pred
// is replaced by Empty. Composite nodes are rebuilt around their filtered
// children; nothing is removed or rebalanced.
func Filter(expr Expression, pred func(Qualifier) bool) Expression {
	switch e := expr.(type) {
	case Qualifier:
		if pred(e) {
			return e
		}
		return Empty
	case Conjunction:
		return Conjunction{Left: Filter(e.Left, pred), Right: Filter(e.Right, pred)}
	case Disjunction:
		return Disjunction{Left: Filter(e.Left, pred), Right: Filter(e.Right, pred)}
	case Negation:
		return Negation{Expr: Filter(e.Expr, pred)}
	default:
		return Empty
	}
}

// Find returns every leaf of expr satisfying pred, in pre-order.
func Find(expr Expression, pred func(Qualifier) bool) []Qualifier {
	var found []Qualifier
	Walk(expr, func(q Qualifier) {
		if pred(q) {
			found = append(found, q)
		}
	})
	return found
}

// Walk calls fn on every leaf of expr, in pre-order.
func Walk(expr Expression, fn func(Qualifier)) {
	switch e := expr.(type) {
	case Qualifier:
		fn(e)
	case Conjunction:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case Disjunction:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case Negation:
		Walk(e.Expr, fn)
	}
}

// NamesIn returns the qualifier names used in expr, in pre-order, with
// repeats.
func NamesIn(expr Expression) []string {
	var names []string
	Walk(expr, func(q Qualifier) {
		names = append(names, q.Name)
	})
	return names
}

// CanBeApplied reports whether expr is a single non-empty qualifier, the only
// shape Apply accepts.
func CanBeApplied(expr Expression) bool {
	q, ok := expr.(Qualifier)
	return ok && !q.IsEmpty()
}
