package filter

import "github.com/roach88/issuefilter/internal/model"

// MetaQualifierInfo is a snapshot of the meta-qualifiers found in a tree.
type MetaQualifierInfo struct {
	qualifiers []Qualifier
	in         string
	hasIn      bool
}

// NewMetaQualifierInfo captures qualifiers. The first "in" qualifier with
// text content sets the keyword scope.
func NewMetaQualifierInfo(qualifiers []Qualifier) MetaQualifierInfo {
	info := MetaQualifierInfo{qualifiers: append([]Qualifier(nil), qualifiers...)}
	for _, q := range qualifiers {
		if q.Name != NameIn {
			continue
		}
		if text, ok := q.Text(); ok {
			info.in, info.hasIn = Fold(text), true
			break
		}
	}
	return info
}

// In returns the folded scope of keyword queries ("title", "body" or
// "desc"), if an "in" qualifier was present.
func (m MetaQualifierInfo) In() (string, bool) {
	return m.in, m.hasIn
}

// Repos returns the content of every "repo" qualifier.
func (m MetaQualifierInfo) Repos() []string {
	var repos []string
	for _, q := range m.qualifiers {
		if q.Name != NameRepo {
			continue
		}
		if text, ok := q.Text(); ok {
			repos = append(repos, text)
		}
	}
	return repos
}

// Qualifiers returns the captured meta-qualifiers.
func (m MetaQualifierInfo) Qualifiers() []Qualifier {
	return append([]Qualifier(nil), m.qualifiers...)
}

// Process tests expr against issue, taking meta-qualifiers into account.
// Callers should always use Process rather than Evaluate.
//
// Processing steps:
//  1. Strip "in" qualifiers (replace them with Empty, see Filter).
//  2. Collect the meta-qualifiers ("in", "repo") of the original tree.
//  3. Without a "repo" qualifier, conjoin repo:<model.DefaultRepo()>.
//  4. Evaluate with the collected meta-qualifiers as scope.
func Process(m model.Model, expr Expression, issue *model.Issue, opts ...Option) bool {
	stripped := Filter(expr, shouldNotBeStripped)
	metas := Find(expr, isMetaQualifier)

	hasRepo := false
	for _, q := range metas {
		if q.Name == NameRepo {
			hasRepo = true
			break
		}
	}
	if !hasRepo {
		stripped = Conjunction{Left: NewText(NameRepo, m.DefaultRepo()), Right: stripped}
	}

	env := Env{Model: m, Info: NewMetaQualifierInfo(metas)}
	for _, opt := range opts {
		opt(&env)
	}
	return Evaluate(stripped, env, issue)
}

// ProcessMetaQualifierEffects calls fn once per meta-qualifier of the
// original tree, in pre-order. It does not affect evaluation.
func ProcessMetaQualifierEffects(expr Expression, fn func(Qualifier)) {
	for _, q := range Find(expr, isMetaQualifier) {
		fn(q)
	}
}

func shouldNotBeStripped(q Qualifier) bool {
	return q.Name != NameIn
}

func isMetaQualifier(q Qualifier) bool {
	return IsMetaQualifier(q.Name)
}
