package catalog

import (
	"fmt"
	"time"

	"github.com/roach88/issuefilter/internal/model"
)

// Document is the on-disk shape of a catalog. Struct tags serve both YAML
// and CUE (which decodes through json tags).
type Document struct {
	DefaultRepo  string               `yaml:"default_repo,omitempty" json:"default_repo,omitempty"`
	Repositories []RepositoryDocument `yaml:"repositories" json:"repositories"`
}

// RepositoryDocument describes one repository.
type RepositoryDocument struct {
	ID         string              `yaml:"id" json:"id"`
	Labels     []LabelDocument     `yaml:"labels,omitempty" json:"labels,omitempty"`
	Milestones []MilestoneDocument `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	Users      []UserDocument      `yaml:"users,omitempty" json:"users,omitempty"`
	Issues     []IssueDocument     `yaml:"issues,omitempty" json:"issues,omitempty"`
}

type LabelDocument struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

type MilestoneDocument struct {
	ID    int    `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Open  bool   `yaml:"open,omitempty" json:"open,omitempty"`
}

type UserDocument struct {
	Login string `yaml:"login" json:"login"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
}

// IssueDocument describes one issue. Timestamps are RFC 3339 or YYYY-MM-DD
// (midnight UTC).
type IssueDocument struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Body        string   `yaml:"body,omitempty" json:"body,omitempty"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
	Assignee    string   `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Milestone   *int     `yaml:"milestone,omitempty" json:"milestone,omitempty"`
	Labels      []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	CreatedAt   string   `yaml:"created_at" json:"created_at"`
	UpdatedAt   string   `yaml:"updated_at" json:"updated_at"`
	Open        bool     `yaml:"open,omitempty" json:"open,omitempty"`
	PullRequest bool     `yaml:"pull_request,omitempty" json:"pull_request,omitempty"`
}

// build converts a validated document into a catalog.
func (d *Document) build() *model.Catalog {
	repos := make([]*model.Repository, 0, len(d.Repositories))
	for _, rd := range d.Repositories {
		repo := &model.Repository{ID: rd.ID}
		for _, l := range rd.Labels {
			repo.Labels = append(repo.Labels, model.Label{Name: l.Name, Color: l.Color})
		}
		for _, m := range rd.Milestones {
			repo.Milestones = append(repo.Milestones, model.Milestone{ID: m.ID, Title: m.Title, Open: m.Open})
		}
		for _, u := range rd.Users {
			repo.Users = append(repo.Users, model.User{Login: u.Login, RealName: u.Name})
		}
		for _, id := range rd.Issues {
			// Timestamps were checked by validate.
			created, _ := parseTimestamp(id.CreatedAt)
			updated, _ := parseTimestamp(id.UpdatedAt)
			issue := &model.Issue{
				ID:          id.ID,
				RepoID:      rd.ID,
				Title:       id.Title,
				Description: id.Body,
				Creator:     id.Author,
				Assignee:    id.Assignee,
				Labels:      append([]string(nil), id.Labels...),
				CreatedAt:   created,
				UpdatedAt:   updated,
				Open:        id.Open,
				PullRequest: id.PullRequest,
			}
			if id.Milestone != nil {
				m := *id.Milestone
				issue.Milestone = &m
			}
			repo.Issues = append(repo.Issues, issue)
		}
		repos = append(repos, repo)
	}

	c := model.NewCatalog(repos...)
	if d.DefaultRepo != "" {
		// validate checked that the default names a repository.
		_ = c.OpenRepository(d.DefaultRepo)
	}
	return c
}

// FromCatalog captures the current state of c as a document, repositories
// in RepoIDs order.
func FromCatalog(c *model.Catalog) *Document {
	doc := &Document{DefaultRepo: c.DefaultRepo()}
	for _, id := range c.RepoIDs() {
		repo, _ := c.Repository(id)
		rd := RepositoryDocument{ID: repo.ID}
		for _, l := range repo.Labels {
			rd.Labels = append(rd.Labels, LabelDocument{Name: l.Name, Color: l.Color})
		}
		for _, m := range repo.Milestones {
			rd.Milestones = append(rd.Milestones, MilestoneDocument{ID: m.ID, Title: m.Title, Open: m.Open})
		}
		for _, u := range repo.Users {
			rd.Users = append(rd.Users, UserDocument{Login: u.Login, Name: u.RealName})
		}
		for _, issue := range repo.Issues {
			rd.Issues = append(rd.Issues, IssueDocument{
				ID:          issue.ID,
				Title:       issue.Title,
				Body:        issue.Description,
				Author:      issue.Creator,
				Assignee:    issue.Assignee,
				Milestone:   issue.Milestone,
				Labels:      issue.Labels,
				CreatedAt:   issue.CreatedAt.UTC().Format(time.RFC3339),
				UpdatedAt:   issue.UpdatedAt.UTC().Format(time.RFC3339),
				Open:        issue.Open,
				PullRequest: issue.PullRequest,
			})
		}
		doc.Repositories = append(doc.Repositories, rd)
	}
	return doc
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor YYYY-MM-DD", s)
}
