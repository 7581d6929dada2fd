package filter

import (
	"cloud.google.com/go/civil"

	"github.com/roach88/issuefilter/internal/model"
)

// Env carries what evaluation reads besides the tree and the issue.
type Env struct {
	Model model.Model
	Info  MetaQualifierInfo
	Clock *Clock // nil reads the wall clock
}

// Option configures the Env built by Process.
type Option func(*Env)

// WithClock evaluates time-relative qualifiers against c.
func WithClock(c *Clock) Option {
	return func(e *Env) {
		e.Clock = c
	}
}

// Evaluate tests expr against issue. Meta-qualifiers are evaluated as plain
// leaves; use Process to get scoping behaviour.
func Evaluate(expr Expression, env Env, issue *model.Issue) bool {
	switch e := expr.(type) {
	case Qualifier:
		return e.satisfiedBy(env, issue)
	case Conjunction:
		return Evaluate(e.Left, env, issue) && Evaluate(e.Right, env, issue)
	case Disjunction:
		return Evaluate(e.Left, env, issue) || Evaluate(e.Right, env, issue)
	case Negation:
		return !Evaluate(e.Expr, env, issue)
	default:
		return false
	}
}

func (q Qualifier) satisfiedBy(env Env, issue *model.Issue) bool {
	if q.IsEmpty() {
		return true
	}

	switch q.Name {
	case NameID:
		return q.idSatisfies(issue)
	case NameKeyword:
		return q.keywordSatisfies(issue, env.Info)
	case NameTitle:
		return q.titleSatisfies(issue)
	case NameBody, NameDesc:
		return q.bodySatisfies(issue)
	case NameMilestone:
		return q.milestoneSatisfies(env.Model, issue)
	case NameLabel:
		return q.labelsSatisfy(env.Model, issue)
	case NameAuthor:
		return q.authorSatisfies(issue)
	case NameAssignee:
		return q.assigneeSatisfies(env.Model, issue)
	case NameInvolves, NameUser:
		return q.authorSatisfies(issue) || q.assigneeSatisfies(env.Model, issue)
	case NameType:
		return q.typeSatisfies(issue)
	case NameState, NameStatus:
		return q.stateSatisfies(issue)
	case NameHas:
		return q.hasSatisfies(issue)
	case NameNo:
		return q.noSatisfies(issue)
	case NameIs:
		return q.isSatisfies(issue)
	case NameCreated:
		return q.createdSatisfies(issue)
	case NameUpdated:
		return q.updatedSatisfies(issue, env.Clock)
	case NameRepo:
		return q.repoSatisfies(issue)
	default:
		return false
	}
}

func (q Qualifier) idSatisfies(issue *model.Issue) bool {
	n, ok := q.Number()
	return ok && issue.ID == n
}

func (q Qualifier) keywordSatisfies(issue *model.Issue, info MetaQualifierInfo) bool {
	in, ok := info.In()
	if !ok {
		return q.titleSatisfies(issue) || q.bodySatisfies(issue)
	}
	switch in {
	case NameTitle:
		return q.titleSatisfies(issue)
	case NameBody, NameDesc:
		return q.bodySatisfies(issue)
	default:
		return false
	}
}

func (q Qualifier) titleSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	return ok && ContainsFold(issue.Title, text)
}

func (q Qualifier) bodySatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	return ok && ContainsFold(issue.Description, text)
}

func (q Qualifier) milestoneSatisfies(m model.Model, issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	milestone, ok := m.MilestoneOf(issue)
	if !ok {
		return false
	}
	return ContainsFold(milestone.Title, text)
}

// labelsSatisfy matches "group.name" or "name" content against the issue's
// labels. An ungrouped label decides the result as soon as it is reached;
// labels after it are not examined. Saved filters depend on this.
func (q Qualifier) labelsSatisfy(m model.Model, issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}

	group, name, _, _ := model.ParseLabelName(Fold(text))

	for _, label := range m.LabelsOf(issue) {
		if labelGroup, ok := label.Group(); ok {
			if ContainsFold(labelGroup, group) && ContainsFold(label.ShortName(), name) {
				return true
			}
		} else {
			return ContainsFold(label.ShortName(), name)
		}
	}
	return false
}

func (q Qualifier) authorSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	return ok && ContainsFold(issue.Creator, text)
}

func (q Qualifier) assigneeSatisfies(m model.Model, issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	assignee, ok := m.AssigneeOf(issue)
	if !ok {
		return false
	}
	return ContainsFold(assignee.Login, text) || ContainsFold(assignee.RealName, text)
}

func (q Qualifier) typeSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	switch Fold(text) {
	case "issue":
		return !issue.PullRequest
	case "pr", "pullrequest":
		return issue.PullRequest
	default:
		return false
	}
}

func (q Qualifier) stateSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	switch {
	case ContainsFold(text, "open"):
		return issue.Open
	case ContainsFold(text, "closed"):
		return !issue.Open
	default:
		return false
	}
}

func (q Qualifier) hasSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	switch text {
	case "label", "labels":
		return len(issue.Labels) > 0
	case "milestone", "milestones":
		return issue.HasMilestone()
	case "assignee", "assignees":
		return issue.HasAssignee()
	default:
		return false
	}
}

// noSatisfies negates has, but only for text content: without content it is
// false, not true.
func (q Qualifier) noSatisfies(issue *model.Issue) bool {
	_, ok := q.Text()
	return ok && !q.hasSatisfies(issue)
}

func (q Qualifier) isSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	if !ok {
		return false
	}
	switch text {
	case "open", "closed":
		return q.stateSatisfies(issue)
	case "pr", "issue":
		return q.typeSatisfies(issue)
	case "merged":
		return issue.PullRequest && !issue.Open
	case "unmerged":
		return issue.PullRequest && issue.Open
	default:
		return false
	}
}

func (q Qualifier) createdSatisfies(issue *model.Issue) bool {
	created := civil.DateOf(issue.CreatedAt)
	if d, ok := q.Date(); ok {
		return created == d
	}
	if r, ok := q.DateRange(); ok {
		return r.Encloses(created)
	}
	return false
}

// updatedSatisfies compares whole hours since the last update. A bare number
// N means "fewer than N hours ago".
func (q Qualifier) updatedSatisfies(issue *model.Issue, clock *Clock) bool {
	hours := int(clock.Now().Sub(issue.UpdatedAt).Hours())

	if r, ok := q.NumberRange(); ok {
		return r.Encloses(hours)
	}
	if n, ok := q.Number(); ok {
		return LessThan(n).Encloses(hours)
	}
	return false
}

func (q Qualifier) repoSatisfies(issue *model.Issue) bool {
	text, ok := q.Text()
	return ok && issue.RepoID == text
}
