package graph

import (
	"path"
	"regexp"
)

// identifierPattern matches strings that contain nothing but letters,
// digits, and underscores -- these are treated as literal names. Anything
// else (most notably a reference containing '*', '?', '#', or '[') is
// treated as a glob pattern.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Matcher decides whether a candidate task-name matches a compiled
// reference.
type Matcher interface {
	Match(candidate string) bool
}

// NewNameMatcher compiles a task-name reference into a Matcher. A purely
// alphanumeric-with-underscore reference is matched literally; anything
// else is compiled as a glob pattern via path.Match.
func NewNameMatcher(ref string) Matcher {
	if identifierPattern.MatchString(ref) {
		return literalMatcher(ref)
	}
	return globMatcher(ref)
}

type literalMatcher string

func (m literalMatcher) Match(candidate string) bool {
	return string(m) == candidate
}

type globMatcher string

func (m globMatcher) Match(candidate string) bool {
	ok, err := path.Match(string(m), candidate)
	if err != nil {
		return false
	}
	return ok
}
