package model

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Repository holds one repository's catalogs and issues.
type Repository struct {
	ID         string      `json:"id" yaml:"id"`
	Labels     []Label     `json:"labels,omitempty" yaml:"labels,omitempty"`
	Milestones []Milestone `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Users      []User      `json:"users,omitempty" yaml:"users,omitempty"`
	Issues     []*Issue    `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Issue returns the issue with the given id.
func (r *Repository) Issue(id int) (*Issue, bool) {
	for _, issue := range r.Issues {
		if issue.ID == id {
			return issue, true
		}
	}
	return nil, false
}

// Catalog is an in-memory Model over a set of repositories.
//
// Thread-safety: the repository set and the default repository are guarded
// by an RWMutex, so the catalog may be read by many evaluators while
// OpenRepository runs. Issues themselves are not guarded; see engine for the
// single-writer apply path.
type Catalog struct {
	mu          sync.RWMutex
	repos       map[string]*Repository
	defaultRepo string
}

// NewCatalog creates a catalog over repos. The first repository becomes the
// default.
func NewCatalog(repos ...*Repository) *Catalog {
	c := &Catalog{repos: make(map[string]*Repository, len(repos))}
	for _, r := range repos {
		c.repos[r.ID] = r
		if c.defaultRepo == "" {
			c.defaultRepo = r.ID
		}
	}
	return c
}

// OpenRepository makes repoID the default repository.
func (c *Catalog) OpenRepository(repoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.repos[repoID]; !ok {
		return fmt.Errorf("repository %q not found", repoID)
	}
	c.defaultRepo = repoID
	return nil
}

// Repository returns the repository with the given id.
func (c *Catalog) Repository(repoID string) (*Repository, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.repos[repoID]
	return r, ok
}

// RepoIDs returns the ids of all repositories, sorted.
func (c *Catalog) RepoIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.repos))
	for id := range c.repos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Issues returns every issue across all repositories, ordered by repository
// id then issue id.
func (c *Catalog) Issues() []*Issue {
	var issues []*Issue
	for _, id := range c.RepoIDs() {
		r, _ := c.Repository(id)
		sorted := slices.Clone(r.Issues)
		slices.SortFunc(sorted, func(a, b *Issue) int { return a.ID - b.ID })
		issues = append(issues, sorted...)
	}
	return issues
}

// Issue finds an issue by repository and id.
func (c *Catalog) Issue(repoID string, id int) (*Issue, bool) {
	r, ok := c.Repository(repoID)
	if !ok {
		return nil, false
	}
	return r.Issue(id)
}

// Scoped returns a Model whose default repository and catalogs are those of
// repoID. Used when applying a qualifier to an issue outside the default
// repository.
func (c *Catalog) Scoped(repoID string) Model {
	return &scopedModel{catalog: c, repoID: repoID}
}

// DefaultRepo implements Model.
func (c *Catalog) DefaultRepo() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultRepo
}

// LabelsOf implements Model.
func (c *Catalog) LabelsOf(issue *Issue) []Label {
	r, ok := c.Repository(issue.RepoID)
	if !ok {
		return nil
	}
	labels := make([]Label, 0, len(issue.Labels))
	for _, name := range issue.Labels {
		for _, l := range r.Labels {
			if l.Name == name {
				labels = append(labels, l)
				break
			}
		}
	}
	return labels
}

// MilestoneOf implements Model.
func (c *Catalog) MilestoneOf(issue *Issue) (Milestone, bool) {
	if issue.Milestone == nil {
		return Milestone{}, false
	}
	r, ok := c.Repository(issue.RepoID)
	if !ok {
		return Milestone{}, false
	}
	for _, m := range r.Milestones {
		if m.ID == *issue.Milestone {
			return m, true
		}
	}
	return Milestone{}, false
}

// AssigneeOf implements Model.
func (c *Catalog) AssigneeOf(issue *Issue) (User, bool) {
	if !issue.HasAssignee() {
		return User{}, false
	}
	r, ok := c.Repository(issue.RepoID)
	if !ok {
		return User{}, false
	}
	for _, u := range r.Users {
		if u.Login == issue.Assignee {
			return u, true
		}
	}
	return User{}, false
}

// Labels implements Model for the default repository.
func (c *Catalog) Labels() []Label {
	return c.Scoped(c.DefaultRepo()).Labels()
}

// Milestones implements Model for the default repository.
func (c *Catalog) Milestones() []Milestone {
	return c.Scoped(c.DefaultRepo()).Milestones()
}

// Users implements Model for the default repository.
func (c *Catalog) Users() []User {
	return c.Scoped(c.DefaultRepo()).Users()
}

// scopedModel pins a Catalog to one repository.
type scopedModel struct {
	catalog *Catalog
	repoID  string
}

func (s *scopedModel) DefaultRepo() string           { return s.repoID }
func (s *scopedModel) LabelsOf(issue *Issue) []Label { return s.catalog.LabelsOf(issue) }
func (s *scopedModel) MilestoneOf(issue *Issue) (Milestone, bool) {
	return s.catalog.MilestoneOf(issue)
}
func (s *scopedModel) AssigneeOf(issue *Issue) (User, bool) { return s.catalog.AssigneeOf(issue) }

func (s *scopedModel) Labels() []Label {
	if r, ok := s.catalog.Repository(s.repoID); ok {
		return slices.Clone(r.Labels)
	}
	return nil
}

func (s *scopedModel) Milestones() []Milestone {
	if r, ok := s.catalog.Repository(s.repoID); ok {
		return slices.Clone(r.Milestones)
	}
	return nil
}

func (s *scopedModel) Users() []User {
	if r, ok := s.catalog.Repository(s.repoID); ok {
		return slices.Clone(r.Users)
	}
	return nil
}
