package testutil

import (
	"time"

	"github.com/roach88/issuefilter/internal/model"
)

// FixtureRepoID is the default repository of FixtureCatalog.
const FixtureRepoID = "acme/widgets"

// FixtureOtherRepoID is the second repository of FixtureCatalog.
const FixtureOtherRepoID = "acme/docs"

func intPtr(n int) *int { return &n }

// FixtureCatalog returns a fresh two-repository catalog.
//
// acme/widgets issues:
//
//	1  open issue   "Crash on startup"        labels type.bug, priority.high  milestone v1.0  assignee alice
//	2  open PR      "Add dark mode"           labels area-ui                  milestone v1.1  updated 2h ago
//	3  closed PR    "Fix typo in README"      labels docs                     no milestone    author bob
//	4  closed issue "Memory leak in parser"   no labels                       assignee carol
//	5  open issue   "Support in progress ..." labels status.in progress
//
// acme/docs has one open issue (id 1) with label "typo".
//
// Every call returns new records, so tests may mutate them freely.
func FixtureCatalog() *model.Catalog {
	widgets := &model.Repository{
		ID: FixtureRepoID,
		Labels: []model.Label{
			{Name: "type.bug", Color: "ee0701"},
			{Name: "type.feature", Color: "84b6eb"},
			{Name: "priority.high", Color: "b60205"},
			{Name: "area-ui", Color: "c5def5"},
			{Name: "docs", Color: "0075ca"},
			{Name: "status.in progress", Color: "fbca04"},
		},
		Milestones: []model.Milestone{
			{ID: 1, Title: "v1.0", Open: false},
			{ID: 2, Title: "v1.1", Open: true},
			{ID: 3, Title: "Backlog", Open: true},
		},
		Users: []model.User{
			{Login: "alice", RealName: "Alice Liddell"},
			{Login: "bob", RealName: "Bob Builder"},
			{Login: "carol", RealName: "Carol Danvers"},
		},
		Issues: []*model.Issue{
			{
				ID: 1, RepoID: FixtureRepoID,
				Title: "Crash on startup", Description: "The app panics when the config file is missing.",
				Creator: "alice", Assignee: "alice", Milestone: intPtr(1),
				Labels:    []string{"type.bug", "priority.high"},
				CreatedAt: time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC),
				UpdatedAt: HoursBefore(30),
				Open:      true,
			},
			{
				ID: 2, RepoID: FixtureRepoID,
				Title: "Add dark mode", Description: "Implements a dark theme for the settings page.",
				Creator: "carol", Milestone: intPtr(2),
				Labels:      []string{"area-ui"},
				CreatedAt:   time.Date(2024, time.February, 1, 14, 0, 0, 0, time.UTC),
				UpdatedAt:   HoursBefore(2),
				Open:        true,
				PullRequest: true,
			},
			{
				ID: 3, RepoID: FixtureRepoID,
				Title: "Fix typo in README", Description: "Spelling fix.",
				Creator:     "bob",
				Labels:      []string{"docs"},
				CreatedAt:   time.Date(2024, time.February, 20, 8, 0, 0, 0, time.UTC),
				UpdatedAt:   HoursBefore(5),
				PullRequest: true,
			},
			{
				ID: 4, RepoID: FixtureRepoID,
				Title: "Memory leak in parser", Description: "Heap grows without bound on long inputs.",
				Creator: "bob", Assignee: "carol",
				CreatedAt: time.Date(2023, time.December, 24, 23, 0, 0, 0, time.UTC),
				UpdatedAt: HoursBefore(200),
			},
			{
				ID: 5, RepoID: FixtureRepoID,
				Title: "Support in progress labels", Description: "Labels with spaces should be filterable.",
				Creator:   "carol",
				Labels:    []string{"status.in progress"},
				CreatedAt: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
				UpdatedAt: HoursBefore(48),
				Open:      true,
			},
		},
	}

	docs := &model.Repository{
		ID:     FixtureOtherRepoID,
		Labels: []model.Label{{Name: "typo"}},
		Users:  []model.User{{Login: "dave"}},
		Issues: []*model.Issue{
			{
				ID: 1, RepoID: FixtureOtherRepoID,
				Title: "Broken link", Description: "The install page links to a 404.",
				Creator:   "dave",
				Labels:    []string{"typo"},
				CreatedAt: time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
				UpdatedAt: HoursBefore(1),
				Open:      true,
			},
		},
	}

	return model.NewCatalog(widgets, docs)
}
