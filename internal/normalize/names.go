package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Name uppercases, collapses whitespace runs, and trims the input, producing
// the canonical form used for identity matching. Display code keeps the raw
// spelling; only lookups use this.
func Name(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	return multiSpace.ReplaceAllString(s, " ")
}

// IdentityKey builds the normalized "NAME|DOB" lookup key for exact identity
// matching.
func IdentityKey(name, dob string) string {
	return Name(name) + "|" + DOB(dob)
}
