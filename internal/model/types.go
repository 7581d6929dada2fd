package model

import (
	"slices"
	"time"
)

// Issue is an issue or pull request in a repository.
type Issue struct {
	ID          int       `json:"id" yaml:"id"`
	RepoID      string    `json:"repo_id" yaml:"repo_id"` // "owner/name"
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Creator     string    `json:"creator" yaml:"creator"`                       // login of the author
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee,omitempty"` // login, "" when unassigned
	Milestone   *int      `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Labels      []string  `json:"labels,omitempty" yaml:"labels,omitempty"` // actual label names, in order
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Open        bool      `json:"open" yaml:"open"`
	PullRequest bool      `json:"pull_request" yaml:"pull_request"`
}

// HasAssignee reports whether the issue is assigned to anyone.
func (i *Issue) HasAssignee() bool {
	return i.Assignee != ""
}

// HasMilestone reports whether the issue is attached to a milestone.
func (i *Issue) HasMilestone() bool {
	return i.Milestone != nil
}

// SetMilestone attaches the issue to m, replacing any previous milestone.
func (i *Issue) SetMilestone(m Milestone) {
	id := m.ID
	i.Milestone = &id
}

// SetAssignee assigns the issue to u.
func (i *Issue) SetAssignee(u User) {
	i.Assignee = u.Login
}

// AddLabel appends l to the issue's labels. Adding a label already present
// is a no-op. An exclusive label replaces the issue's other labels of the
// same group.
func (i *Issue) AddLabel(l Label) {
	if slices.Contains(i.Labels, l.Name) {
		return
	}
	if l.IsExclusive() {
		group, _ := l.Group()
		i.Labels = slices.DeleteFunc(i.Labels, func(name string) bool {
			g, _, delim, ok := ParseLabelName(name)
			return ok && delim == ExclusiveDelimiter && g == group
		})
	}
	i.Labels = append(i.Labels, l.Name)
}

// SetOpen opens or closes the issue.
func (i *Issue) SetOpen(open bool) {
	i.Open = open
}

// Clone returns a deep copy of the issue.
func (i *Issue) Clone() *Issue {
	c := *i
	if i.Milestone != nil {
		id := *i.Milestone
		c.Milestone = &id
	}
	c.Labels = slices.Clone(i.Labels)
	return &c
}

// Milestone is a repository milestone.
type Milestone struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Open  bool   `json:"open" yaml:"open"`
}

func (m Milestone) String() string {
	return m.Title
}

// User is a repository collaborator.
type User struct {
	Login    string `json:"login" yaml:"login"`
	RealName string `json:"real_name,omitempty" yaml:"real_name,omitempty"`
}

func (u User) String() string {
	return u.Login
}

// Model is the read-only view of a repository that filters are evaluated
// against. Implementations must be safe for concurrent reads.
type Model interface {
	// DefaultRepo returns the id of the repository implicitly scoped by
	// filters that carry no repo qualifier.
	DefaultRepo() string

	// LabelsOf resolves the issue's label names. Names with no matching
	// label in the repository are dropped.
	LabelsOf(issue *Issue) []Label

	// MilestoneOf resolves the issue's milestone.
	MilestoneOf(issue *Issue) (Milestone, bool)

	// AssigneeOf resolves the issue's assignee.
	AssigneeOf(issue *Issue) (User, bool)

	// Labels, Milestones and Users return the repository catalogs.
	Labels() []Label
	Milestones() []Milestone
	Users() []User
}
