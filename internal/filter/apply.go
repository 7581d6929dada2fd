package filter

import (
	"github.com/roach88/issuefilter/internal/model"
)

// Apply mutates issue so that it satisfies expr. Only a single non-empty
// Qualifier can be applied; anything else is rejected as UNSUPPORTED.
//
// Apply takes no locks. Callers must not run two applies, or an apply and an
// evaluation, on the same issue concurrently.
func Apply(expr Expression, issue *model.Issue, m model.Model) error {
	q, ok := expr.(Qualifier)
	if !ok {
		return &ApplyError{
			Code:      ErrCodeUnsupported,
			Qualifier: expr.String(),
			Message:   "only a single qualifier can be applied to an issue",
		}
	}
	return q.ApplyTo(issue, m)
}

// ApplyTo mutates issue so that it satisfies q, or returns an *ApplyError.
func (q Qualifier) ApplyTo(issue *model.Issue, m model.Model) error {
	if q.IsEmpty() {
		return newApplyError(ErrCodeUnsupported, q, "empty filter cannot be applied")
	}

	switch q.Name {
	case NameTitle, NameDesc, NameBody, NameKeyword:
		return newApplyError(ErrCodeUnsupported, q, "unnecessary filter: issue text cannot be changed")
	case NameID:
		return newApplyError(ErrCodeUnsupported, q, "unnecessary filter: id is immutable")
	case NameCreated:
		return newApplyError(ErrCodeUnsupported, q, "unnecessary filter: cannot change issue creation date")
	case NameAuthor:
		return newApplyError(ErrCodeUnsupported, q, "unnecessary filter: cannot change author of issue")
	case NameHas, NameNo, NameIs:
		return newApplyError(ErrCodeAmbiguous, q, "ambiguous filter: %s", q.Name)
	case NameInvolves, NameUser:
		return newApplyError(ErrCodeAmbiguous, q, "ambiguous filter: cannot change users involved with issue")
	case NameMilestone:
		return q.applyMilestone(issue, m)
	case NameLabel:
		return q.applyLabel(issue, m)
	case NameAssignee:
		return q.applyAssignee(issue, m)
	case NameState, NameStatus:
		return q.applyState(issue)
	default:
		return newApplyError(ErrCodeUnsupported, q, "filter %q does not name a settable field", q.Name)
	}
}

func (q Qualifier) applyMilestone(issue *model.Issue, m model.Model) error {
	text, ok := q.Text()
	if !ok {
		return newApplyError(ErrCodeInvalidContent, q, "invalid milestone %s", q.contentString())
	}
	milestone, err := pickOne(q, "milestones", m.Milestones(), func(ms model.Milestone) bool {
		return ContainsFold(ms.Title, text)
	})
	if err != nil {
		return err
	}
	issue.SetMilestone(milestone)
	return nil
}

func (q Qualifier) applyLabel(issue *model.Issue, m model.Model) error {
	text, ok := q.Text()
	if !ok {
		return newApplyError(ErrCodeInvalidContent, q, "invalid label %s", q.contentString())
	}
	label, err := pickOne(q, "labels", m.Labels(), func(l model.Label) bool {
		return ContainsFold(l.Name, text)
	})
	if err != nil {
		return err
	}
	issue.AddLabel(label)
	return nil
}

func (q Qualifier) applyAssignee(issue *model.Issue, m model.Model) error {
	text, ok := q.Text()
	if !ok {
		return newApplyError(ErrCodeInvalidContent, q, "invalid assignee %s", q.contentString())
	}
	user, err := pickOne(q, "assignees", m.Users(), func(u model.User) bool {
		return ContainsFold(u.Login, text)
	})
	if err != nil {
		return err
	}
	issue.SetAssignee(user)
	return nil
}

// applyState opens or closes the issue. Content mentioning neither "open" nor
// "closed" leaves the issue unchanged and is not an error.
func (q Qualifier) applyState(issue *model.Issue) error {
	text, ok := q.Text()
	if !ok {
		return newApplyError(ErrCodeInvalidContent, q, "invalid state %s", q.contentString())
	}
	switch {
	case ContainsFold(text, "open"):
		issue.SetOpen(true)
	case ContainsFold(text, "closed"):
		issue.SetOpen(false)
	}
	return nil
}

// pickOne returns the single candidate matching match. Several matches are
// AMBIGUOUS (naming every match); none is NOT_FOUND.
func pickOne[T interface{ String() string }](q Qualifier, kind string, candidates []T, match func(T) bool) (T, error) {
	var matches []T
	for _, c := range candidates {
		if match(c) {
			matches = append(matches, c)
		}
	}

	var zero T
	switch len(matches) {
	case 0:
		return zero, newApplyError(ErrCodeNotFound, q, "no %s match %q", kind, q.text)
	case 1:
		return matches[0], nil
	default:
		err := newApplyError(ErrCodeAmbiguous, q, "ambiguous filter: can apply any of the following %s", kind)
		for _, c := range matches {
			err.Candidates = append(err.Candidates, c.String())
		}
		return zero, err
	}
}

// contentString renders non-text content for error messages.
func (q Qualifier) contentString() string {
	s := q.String()
	if len(s) <= len(q.Name) {
		return "(no content)"
	}
	return s[len(q.Name)+1:]
}
