// Package filtering selects which outdated packages a session will attempt.
// Ignore and allow lists from the config and command line are compiled into
// matchers; an allow list, when present, takes precedence over the ignore
// list.
package filtering

import (
	"regexp"
	"strings"
)

// Matcher tests package names against a configured pattern.
type Matcher interface {
	// Match tests if the given name matches the pattern.
	//
	// Parameters:
	//   - name: Package name to test
	//
	// Returns:
	//   - bool: true if name matches the pattern
	Match(name string) bool

	// String returns the pattern being matched.
	String() string
}

// ExactMatcher matches names that equal the pattern, ignoring case.
//
// PyPI package names are case-insensitive, so all name matching is.
//
// Fields:
//   - Pattern: The exact name to match
type ExactMatcher struct {
	Pattern string
}

// Match tests if name equals the pattern case-insensitively.
func (m *ExactMatcher) Match(name string) bool {
	return strings.EqualFold(name, m.Pattern)
}

// String returns the exact pattern.
func (m *ExactMatcher) String() string {
	return m.Pattern
}

// GlobMatcher matches names using glob patterns.
//
// Supports:
//   - * matches any sequence of characters
//   - ? matches any single character
//
// Fields:
//   - Pattern: The glob pattern
//
// Example:
//
//	matcher := &filtering.GlobMatcher{Pattern: "django-*"}
//	matcher.Match("django-rest-framework") // returns true
//	matcher.Match("flask")                 // returns false
type GlobMatcher struct {
	Pattern string
}

// Match tests if name matches the glob pattern case-insensitively.
func (m *GlobMatcher) Match(name string) bool {
	return globToRegex(m.Pattern).MatchString(name)
}

// String returns the glob pattern.
func (m *GlobMatcher) String() string {
	return m.Pattern
}

// NewMatcher compiles a pattern into the appropriate matcher.
//
// Patterns containing glob metacharacters (* or ?) become glob matchers;
// everything else is an exact case-insensitive match.
//
// Parameters:
//   - pattern: Name or glob pattern
//
// Returns:
//   - Matcher: Compiled matcher
func NewMatcher(pattern string) Matcher {
	if strings.ContainsAny(pattern, "*?") {
		return &GlobMatcher{Pattern: pattern}
	}
	return &ExactMatcher{Pattern: pattern}
}

// NewMatchers compiles a list of patterns.
//
// Parameters:
//   - patterns: Name or glob patterns
//
// Returns:
//   - []Matcher: One matcher per pattern, in order
func NewMatchers(patterns []string) []Matcher {
	matchers := make([]Matcher, 0, len(patterns))
	for _, pattern := range patterns {
		matchers = append(matchers, NewMatcher(pattern))
	}
	return matchers
}

// globToRegex converts a glob pattern to an anchored case-insensitive regexp.
func globToRegex(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

// matchesAny reports whether any matcher in the list matches the name.
func matchesAny(matchers []Matcher, name string) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}
