// Package pip is the package-manager adapter for covert. It shells out to
// pip for listing outdated packages, installing pinned versions,
// uninstalling, and freezing requirements. All inputs that reach a command
// line are validated first: covert refuses to pass through anything that is
// not a well-formed package name or version.
package pip

import (
	"regexp"
	"strings"

	"github.com/covert-tool/covert/pkg/errors"
)

var (
	// packageNameRegex accepts valid Python package identifiers (PEP 508).
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

	// versionRegex accepts PEP 440 shaped version strings.
	versionRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*([a-zA-Z0-9.+!-]*)?$`)
)

// ValidateName reports whether a package name is a valid identifier.
//
// Parameters:
//   - name: Package name to validate
//
// Returns:
//   - bool: True when the name matches the PEP 508 identifier shape
func ValidateName(name string) bool {
	return packageNameRegex.MatchString(name)
}

// ValidateVersion reports whether a version string is well formed.
//
// Parameters:
//   - version: Version string to validate
//
// Returns:
//   - bool: True when the version matches the PEP 440 shape
func ValidateVersion(version string) bool {
	return versionRegex.MatchString(version)
}

// SanitizeName validates and normalizes a package name for use on a pip
// command line.
//
// Parameters:
//   - name: Package name to sanitize
//
// Returns:
//   - string: Lowercased package name
//   - error: *errors.ValidationError when the name is invalid
func SanitizeName(name string) (string, error) {
	if !ValidateName(name) {
		return "", errors.NewValidationErrorf("invalid package name: %s", name)
	}
	return strings.ToLower(name), nil
}
