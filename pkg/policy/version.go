package policy

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// releaseRegex extracts the numeric release segment of a PEP 440
	// version: optional epoch, then dotted numbers.
	releaseRegex = regexp.MustCompile(`^v?(?:\d+!)?(?P<major>\d+)(?:\.(?P<minor>\d+))?(?:\.(?P<patch>\d+))?`)

	// preReleaseRegex matches a pre-release marker directly after the
	// release segment: a/b/c/rc and their long spellings, or dev releases.
	// Post releases ("1.0.post1") and local versions ("1.0+local") are not
	// pre-releases.
	preReleaseRegex = regexp.MustCompile(`(?i)^[._-]?(a|b|c|rc|alpha|beta|pre|preview|dev)[._-]?\d*`)
)

// release holds the numeric components of a version's release segment.
// Missing components default to zero, so "2.1" compares like "2.1.0".
type release struct {
	major int
	minor int
	patch int
}

// releaseParts extracts major, minor, and patch from a version string.
//
// Callers only invoke this after pep440 parsing has succeeded, so the
// leading release segment is always present; the zero value covers any
// unexpected input.
//
// Parameters:
//   - version: Version string to decompose
//
// Returns:
//   - release: Extracted numeric components
func releaseParts(version string) release {
	match := releaseRegex.FindStringSubmatch(strings.TrimSpace(version))
	if match == nil {
		return release{}
	}

	return release{
		major: atoiOrZero(match[releaseRegex.SubexpIndex("major")]),
		minor: atoiOrZero(match[releaseRegex.SubexpIndex("minor")]),
		patch: atoiOrZero(match[releaseRegex.SubexpIndex("patch")]),
	}
}

// isPreRelease reports whether a version carries a pre-release or dev
// marker after its release segment.
//
// Parameters:
//   - version: Version string to inspect
//
// Returns:
//   - bool: True for versions like "2.1.0rc1", "1.0a2", or "3.0.dev4"
func isPreRelease(version string) bool {
	trimmed := strings.TrimSpace(version)
	loc := releaseRegex.FindStringIndex(trimmed)
	if loc == nil {
		return false
	}

	rest := trimmed[loc[1]:]
	if rest == "" {
		return false
	}

	return preReleaseRegex.MatchString(rest)
}

// atoiOrZero parses a decimal string, returning zero for empty or invalid input.
func atoiOrZero(value string) int {
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
