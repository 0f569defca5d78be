// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"regexp"
)

// ReGroups extracts and maps named capture groups from a regular expression match.
// Groups that did not participate in the match are omitted.
func ReGroups(pattern *regexp.Regexp, str string) map[string]string {
	groups := make(map[string]string)
	match := pattern.FindStringSubmatchIndex(str)
	if match == nil {
		return groups
	}

	for i, name := range pattern.SubexpNames() {
		if i == 0 || name == "" || match[2*i] < 0 {
			continue
		}
		groups[name] = str[match[2*i]:match[2*i+1]]
	}
	return groups
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// FirstNonEmpty returns the first argument that is not the empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
