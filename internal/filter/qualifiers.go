package filter

import (
	"slices"
	"strings"
)

// Qualifier names understood by the evaluation and apply engines.
const (
	NameID        = "id"
	NameKeyword   = "keyword"
	NameTitle     = "title"
	NameBody      = "body"
	NameDesc      = "desc"
	NameMilestone = "milestone"
	NameLabel     = "label"
	NameAuthor    = "author"
	NameAssignee  = "assignee"
	NameInvolves  = "involves"
	NameUser      = "user"
	NameType      = "type"
	NameState     = "state"
	NameStatus    = "status"
	NameHas       = "has"
	NameNo        = "no"
	NameIs        = "is"
	NameCreated   = "created"
	NameUpdated   = "updated"
	NameRepo      = "repo"
	NameIn        = "in"
)

// maxSuggestions caps Complete's result.
const maxSuggestions = 10

// qualifierValues lists, per qualifier, the fixed values it understands.
// Qualifiers absent from the map take free-form values.
var qualifierValues = map[string][]string{
	NameHas:    {"label", "labels", "milestone", "milestones", "assignee", "assignees"},
	NameNo:     {"label", "labels", "milestone", "milestones", "assignee", "assignees"},
	NameIs:     {"open", "closed", "pr", "issue", "merged", "unmerged"},
	NameType:   {"issue", "pr", "pullrequest"},
	NameState:  {"open", "closed"},
	NameStatus: {"open", "closed"},
	NameIn:     {"title", "body", "desc"},
}

// textQualifiers always carry string content; the parser never reads their
// values as numbers, dates or ranges.
var textQualifiers = map[string]bool{
	NameKeyword: true, NameTitle: true, NameBody: true, NameDesc: true,
	NameMilestone: true, NameLabel: true, NameAuthor: true, NameAssignee: true,
	NameInvolves: true, NameUser: true, NameType: true, NameState: true,
	NameStatus: true, NameHas: true, NameNo: true, NameIs: true,
	NameRepo: true, NameIn: true,
}

// IsTextQualifier reports whether the named qualifier takes string content only.
func IsTextQualifier(name string) bool {
	return textQualifiers[name]
}

// IsMetaQualifier reports whether the named qualifier scopes evaluation
// rather than testing a field.
func IsMetaQualifier(name string) bool {
	return name == NameIn || name == NameRepo
}

// QualifierNames returns every qualifier name, sorted.
func QualifierNames() []string {
	names := []string{
		NameID, NameKeyword, NameTitle, NameBody, NameDesc, NameMilestone,
		NameLabel, NameAuthor, NameAssignee, NameInvolves, NameUser, NameType,
		NameState, NameStatus, NameHas, NameNo, NameIs, NameCreated,
		NameUpdated, NameRepo, NameIn,
	}
	slices.Sort(names)
	return names
}

// CompletionKeywords returns the words offered by filter-text completion:
// every qualifier name and every fixed qualifier value, sorted and unique.
func CompletionKeywords() []string {
	keywords := QualifierNames()
	for _, values := range qualifierValues {
		keywords = append(keywords, values...)
	}
	slices.Sort(keywords)
	return slices.Compact(keywords)
}

// Complete returns up to ten completion keywords containing word.
func Complete(word string) []string {
	var matches []string
	for _, k := range CompletionKeywords() {
		if strings.Contains(k, word) {
			matches = append(matches, k)
			if len(matches) == maxSuggestions {
				break
			}
		}
	}
	return matches
}
