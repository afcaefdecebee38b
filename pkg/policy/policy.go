// Package policy implements the version policy evaluator that decides
// whether a candidate upgrade is attempted at all. Decisions are pure and
// deterministic: the same version pair and policy always yield the same
// decision, and malformed versions deny rather than fail.
package policy

import (
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	// Deny rejects the candidate upgrade.
	Deny Decision = iota

	// Allow approves the candidate upgrade for an install attempt.
	Allow
)

// String returns the decision name for logging.
func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Policy names a rule set determining which version deltas are auto-approved.
type Policy string

// Supported policies.
const (
	// PolicySafe allows updates not classified as breaking: same-major
	// bumps, with 0.x minor bumps optionally treated as breaking.
	PolicySafe Policy = "safe"

	// PolicyLatest allows any update, ignoring breaking-change analysis.
	PolicyLatest Policy = "latest"

	// PolicyMinor allows minor and patch updates within the same major.
	PolicyMinor Policy = "minor"

	// PolicyPatch allows only patch updates within the same major.minor.
	PolicyPatch Policy = "patch"
)

// ParsePolicy maps a policy name to a Policy constant.
//
// Parameters:
//   - name: Policy name, case-insensitive
//
// Returns:
//   - Policy: The matched policy
//   - error: When the name is not a known policy
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case PolicySafe:
		return PolicySafe, nil
	case PolicyLatest:
		return PolicyLatest, nil
	case PolicyMinor:
		return PolicyMinor, nil
	case PolicyPatch:
		return PolicyPatch, nil
	default:
		return "", fmt.Errorf("unknown version policy: %s", name)
	}
}

// Evaluator decides whether candidate upgrades are attempted.
//
// Fields:
//   - Policy: The active policy
//   - ZeroVerMinorBreaking: Whether 0.x minor bumps count as breaking under
//     the safe policy ("0.y.z has no stability guarantee" convention)
type Evaluator struct {
	Policy               Policy
	ZeroVerMinorBreaking bool
}

// NewEvaluator creates an evaluator for the given policy.
//
// Parameters:
//   - policy: The active policy
//   - zeroVerMinorBreaking: Safe-policy treatment of 0.x minor bumps
//
// Returns:
//   - *Evaluator: Configured evaluator
func NewEvaluator(policy Policy, zeroVerMinorBreaking bool) *Evaluator {
	return &Evaluator{Policy: policy, ZeroVerMinorBreaking: zeroVerMinorBreaking}
}

// Decide evaluates a candidate upgrade under the evaluator's policy.
//
// The decision is pure: no side effects, and identical inputs always yield
// identical output. Malformed versions never panic or allow an unintended
// install; they DENY under every policy except latest, which ignores version
// analysis entirely. A non-nil error accompanies DENY-on-malformed (and
// ALLOW-on-malformed under latest) so the orchestrator can surface a warning
// on the result without treating it as a failure.
//
// Parameters:
//   - current: Installed version string (PEP 440)
//   - latest: Candidate version string (PEP 440)
//
// Returns:
//   - Decision: Allow or Deny
//   - error: Parse warning when a version is malformed, nil otherwise
func (e *Evaluator) Decide(current, latest string) (Decision, error) {
	currentV, currentErr := pep440.Parse(current)
	latestV, latestErr := pep440.Parse(latest)

	if currentErr != nil || latestErr != nil {
		parseErr := fmt.Errorf("unparsable version pair %q -> %q", current, latest)
		// latest ignores breaking-change analysis entirely; the candidate
		// list itself guarantees the update is real.
		if e.Policy == PolicyLatest {
			return Allow, parseErr
		}
		return Deny, parseErr
	}

	// The candidate list only contains latest > current, but guard anyway:
	// an equal-or-lower candidate is never an update.
	if latestV.Compare(currentV) <= 0 {
		return Deny, nil
	}

	if e.Policy == PolicyLatest {
		return Allow, nil
	}

	// Pre-release candidates are never auto-approved outside latest.
	if isPreRelease(latest) {
		return Deny, nil
	}

	cur := releaseParts(current)
	next := releaseParts(latest)

	switch e.Policy {
	case PolicyPatch:
		if next.major == cur.major && next.minor == cur.minor {
			return Allow, nil
		}
		return Deny, nil

	case PolicyMinor:
		if next.major == cur.major {
			return Allow, nil
		}
		return Deny, nil

	case PolicySafe:
		if next.major != cur.major {
			return Deny, nil
		}
		if cur.major == 0 && e.ZeroVerMinorBreaking && next.minor != cur.minor {
			return Deny, nil
		}
		return Allow, nil

	default:
		// Unknown policy: be conservative.
		return Deny, fmt.Errorf("unknown version policy: %s", e.Policy)
	}
}
