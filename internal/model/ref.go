package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref returns the issue's reference, "owner/name#id".
func (i *Issue) Ref() string {
	return FormatRef(i.RepoID, i.ID)
}

// FormatRef renders an issue reference.
func FormatRef(repoID string, id int) string {
	return repoID + "#" + strconv.Itoa(id)
}

// ParseRef splits "owner/name#id" into repository id and issue id.
func ParseRef(ref string) (repoID string, id int, err error) {
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", 0, fmt.Errorf("invalid issue reference %q: want owner/name#id", ref)
	}
	id, err = strconv.Atoi(ref[i+1:])
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid issue reference %q: id must be a positive integer", ref)
	}
	return ref[:i], id, nil
}
