package model

import "strings"

// Label group delimiters. "type.bug" is in the exclusive group "type" (an
// issue carries at most one label of that group); "area-ui" is in the
// non-exclusive group "area".
const (
	ExclusiveDelimiter    = "."
	NonExclusiveDelimiter = "-"
)

// Label is a repository label. Name is the actual name, including any group
// prefix.
type Label struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Group returns the label's group, if its name has one.
func (l Label) Group() (string, bool) {
	group, _, _, ok := ParseLabelName(l.Name)
	return group, ok
}

// ShortName returns the label name without its group prefix.
func (l Label) ShortName() string {
	_, name, _, _ := ParseLabelName(l.Name)
	return name
}

// IsExclusive reports whether the label belongs to an exclusive group.
func (l Label) IsExclusive() bool {
	_, _, delim, ok := ParseLabelName(l.Name)
	return ok && delim == ExclusiveDelimiter
}

func (l Label) String() string {
	return l.Name
}

// ParseLabelName splits s at its group delimiter. The delimiter is the first
// "." or "-" preceded by at least one non-delimiter character; without one,
// ok is false and name is s unchanged.
func ParseLabelName(s string) (group, name, delimiter string, ok bool) {
	i := strings.IndexAny(s, ExclusiveDelimiter+NonExclusiveDelimiter)
	if i <= 0 {
		return "", s, "", false
	}
	return s[:i], s[i+1:], s[i : i+1], true
}
