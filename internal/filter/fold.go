package filter

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Every case-insensitive comparison in this package goes through Fold, so
// label, milestone, assignee and text qualifiers cannot drift apart.

// casers pools fold casers; a cases.Caser is stateful and must not be shared
// between goroutines.
var casers = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// Fold returns the NFC-normalized case fold of s.
func Fold(s string) string {
	c := casers.Get().(*cases.Caser)
	defer casers.Put(c)
	return c.String(norm.NFC.String(s))
}

// ContainsFold reports whether substr occurs in s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
