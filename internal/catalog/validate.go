package catalog

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks a document for internal consistency and returns every
// problem found, or nil.
//
// Checks:
//   - at least one repository; repository ids present and unique
//   - default_repo, when set, names a repository
//   - label names, milestone ids and user logins unique per repository
//   - issue ids positive and unique per repository
//   - issue labels, milestone and assignee exist in the repository
//   - issue timestamps parse
func (d *Document) Validate() error {
	var result *multierror.Error

	if len(d.Repositories) == 0 {
		result = multierror.Append(result, fmt.Errorf("no repositories"))
	}

	repoIDs := make(map[string]bool, len(d.Repositories))
	for i, rd := range d.Repositories {
		if rd.ID == "" {
			result = multierror.Append(result, fmt.Errorf("repositories[%d]: missing id", i))
			continue
		}
		if repoIDs[rd.ID] {
			result = multierror.Append(result, fmt.Errorf("repository %s: duplicate id", rd.ID))
			continue
		}
		repoIDs[rd.ID] = true
		if err := rd.validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if d.DefaultRepo != "" && !repoIDs[d.DefaultRepo] {
		result = multierror.Append(result, fmt.Errorf("default_repo %s: no such repository", d.DefaultRepo))
	}

	return result.ErrorOrNil()
}

func (rd *RepositoryDocument) validate() error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("repository %s: "+format, append([]any{rd.ID}, args...)...))
	}

	labels := make(map[string]bool, len(rd.Labels))
	for _, l := range rd.Labels {
		switch {
		case l.Name == "":
			fail("label with empty name")
		case labels[l.Name]:
			fail("label %q defined twice", l.Name)
		}
		labels[l.Name] = true
	}

	milestones := make(map[int]bool, len(rd.Milestones))
	for _, m := range rd.Milestones {
		if milestones[m.ID] {
			fail("milestone %d defined twice", m.ID)
		}
		milestones[m.ID] = true
	}

	users := make(map[string]bool, len(rd.Users))
	for _, u := range rd.Users {
		switch {
		case u.Login == "":
			fail("user with empty login")
		case users[u.Login]:
			fail("user %q defined twice", u.Login)
		}
		users[u.Login] = true
	}

	issues := make(map[int]bool, len(rd.Issues))
	for _, issue := range rd.Issues {
		switch {
		case issue.ID <= 0:
			fail("issue id %d is not positive", issue.ID)
		case issues[issue.ID]:
			fail("issue #%d defined twice", issue.ID)
		}
		issues[issue.ID] = true

		for _, name := range issue.Labels {
			if !labels[name] {
				fail("issue #%d: unknown label %q", issue.ID, name)
			}
		}
		if issue.Milestone != nil && !milestones[*issue.Milestone] {
			fail("issue #%d: unknown milestone %d", issue.ID, *issue.Milestone)
		}
		if issue.Assignee != "" && !users[issue.Assignee] {
			fail("issue #%d: unknown assignee %q", issue.ID, issue.Assignee)
		}
		if _, err := parseTimestamp(issue.CreatedAt); err != nil {
			fail("issue #%d: created_at: %v", issue.ID, err)
		}
		if _, err := parseTimestamp(issue.UpdatedAt); err != nil {
			fail("issue #%d: updated_at: %v", issue.ID, err)
		}
	}

	return result.ErrorOrNil()
}
