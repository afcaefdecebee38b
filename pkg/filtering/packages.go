package filtering

import (
	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/pip"
)

// Selector decides which outdated packages become update candidates.
//
// Fields:
//   - Only: Allow-list patterns; when non-empty, only matching names pass
//   - Ignore: Ignore-list patterns; consulted only when Only is empty
type Selector struct {
	Only   []Matcher
	Ignore []Matcher
}

// NewSelector compiles allow and ignore patterns into a selector.
//
// Parameters:
//   - only: Allow-list name or glob patterns
//   - ignore: Ignore-list name or glob patterns
//
// Returns:
//   - *Selector: Compiled selector
func NewSelector(only, ignore []string) *Selector {
	return &Selector{
		Only:   NewMatchers(only),
		Ignore: NewMatchers(ignore),
	}
}

// Allows reports whether a package name passes the selector.
//
// Parameters:
//   - name: Package name to test
//
// Returns:
//   - bool: true when the name passes the allow list (if set) or is
//     absent from the ignore list
func (s *Selector) Allows(name string) bool {
	if len(s.Only) > 0 {
		return matchesAny(s.Only, name)
	}
	return !matchesAny(s.Ignore, name)
}

// Apply filters outdated packages down to update candidates.
//
// Editable installs are always excluded: their versions are not
// comparable. An allow list, when present, replaces the ignore list
// entirely. Input order is preserved.
//
// Parameters:
//   - packages: Outdated packages as reported by pip
//
// Returns:
//   - []pip.OutdatedPackage: Packages eligible for update, in input order
func (s *Selector) Apply(packages []pip.OutdatedPackage) []pip.OutdatedPackage {
	var selected []pip.OutdatedPackage

	for _, p := range packages {
		if p.Type != pip.TypeRegular {
			log.Debug().Str("package", p.Name).Str("type", p.Type).Msg("skipping non-regular package")
			continue
		}

		if !s.Allows(p.Name) {
			log.Debug().Str("package", p.Name).Msg("package filtered by name")
			continue
		}

		selected = append(selected, p)
	}

	return selected
}
