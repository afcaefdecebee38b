package tester

import (
	"regexp"
	"strconv"
	"strings"
)

// Stats holds test counts parsed from a runner's summary line.
//
// Fields:
//   - Passed: Number of passed tests
//   - Failed: Number of failed tests (unittest errors count as failures)
//   - Skipped: Number of skipped tests
//   - Total: Total number of tests
type Stats struct {
	Passed  int
	Failed  int
	Skipped int
	Total   int
}

var (
	// pytest: "3 passed, 1 failed, 2 skipped in 1.23s"
	pytestRegex = regexp.MustCompile(`(\d+) passed(?:, (\d+) failed(?:, (\d+) skipped)?)?(?: in [\d.]+s)?`)

	// unittest: "Ran 5 tests in 0.12s"
	unittestRanRegex = regexp.MustCompile(`Ran (\d+) tests? in [\d.]+s`)

	// unittest failure tail: "FAILED (failures=2, errors=1, skipped=1)"
	unittestFailedRegex = regexp.MustCompile(`FAILED \(failures=(\d+)(?:, errors=(\d+))?(?:, skipped=(\d+))?\)`)
)

// ParseOutput extracts test counts from pytest or unittest output.
//
// Unrecognized output yields zero counts; the pass/fail decision is made
// from the exit code, never from these numbers.
//
// Parameters:
//   - output: Combined test command output
//
// Returns:
//   - Stats: Parsed counts, zero valued when nothing was recognized
func ParseOutput(output string) Stats {
	if m := pytestRegex.FindStringSubmatch(output); m != nil {
		stats := Stats{
			Passed:  atoi(m[1]),
			Failed:  atoi(m[2]),
			Skipped: atoi(m[3]),
		}
		stats.Total = stats.Passed + stats.Failed + stats.Skipped
		return stats
	}

	if m := unittestRanRegex.FindStringSubmatch(output); m != nil {
		return parseUnittest(output, atoi(m[1]))
	}

	return Stats{}
}

// parseUnittest fills counts from unittest's OK or FAILED trailer.
func parseUnittest(output string, total int) Stats {
	stats := Stats{Total: total}

	if m := unittestFailedRegex.FindStringSubmatch(output); m != nil {
		stats.Failed = atoi(m[1]) + atoi(m[2])
		stats.Skipped = atoi(m[3])
		stats.Passed = total - stats.Failed - stats.Skipped
		return stats
	}

	if strings.Contains(output, "OK") {
		stats.Passed = total
		return stats
	}

	// A FAILED trailer we could not parse: count everything as failed.
	stats.Failed = total
	return stats
}

// atoi converts a submatch to an int, treating an absent match as zero.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
