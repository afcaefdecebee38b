package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/policy"
)

// maxErrorMessage bounds the failure text captured into a result.
const maxErrorMessage = 4096

// Machine drives one candidate through policy check, install, test, and
// accept or rollback.
//
// Fields:
//   - Installer: Package install/uninstall adapter
//   - Tests: Test runner adapter; nil disables post-install validation
//   - Policy: Version policy gate
//   - DryRun: When true, allowed candidates report UPDATED with zero adapter calls
//   - TestLock: Session-wide exclusive lock around test runs; shared across
//     machines in parallel mode so test failures stay attributable to the
//     package under test
type Machine struct {
	Installer Installer
	Tests     TestRunner
	Policy    *policy.Evaluator
	DryRun    bool
	TestLock  *sync.Mutex
}

// Run takes a candidate to its terminal status.
//
// The transitions are:
//   - policy DENY: SKIPPED, no side effects
//   - install failure: FAILED_INSTALL, nothing to roll back
//   - test failure or test timeout: reinstall the previous version,
//     ROLLED_BACK on success, CRITICAL_FAILURE when the reinstall itself fails
//   - test pass (or tests disabled): UPDATED
//
// Run never returns an error: every failure mode is a terminal status with
// the cause captured in the result.
//
// Parameters:
//   - ctx: Context for cancellation
//   - c: Candidate to update
//
// Returns:
//   - UpdateResult: Terminal result for the candidate
func (m *Machine) Run(ctx context.Context, c PackageCandidate) UpdateResult {
	result := UpdateResult{Package: c, Status: StatusPending}

	decision, policyErr := m.Policy.Decide(c.CurrentVersion, c.LatestVersion)
	if decision == policy.Deny {
		if policyErr != nil {
			result.ErrorMessage = truncate(policyErr.Error())
			log.Warn().Str("package", c.Name).Err(policyErr).Msg("version not comparable, update denied")
		} else {
			result.ErrorMessage = fmt.Sprintf("update %s -> %s denied by %s policy",
				c.CurrentVersion, c.LatestVersion, m.Policy.Policy)
		}
		return m.finish(result, StatusSkipped)
	}
	if policyErr != nil {
		log.Warn().Str("package", c.Name).Err(policyErr).Msg("version not comparable, allowed by policy anyway")
	}

	if m.DryRun {
		log.Info().
			Str("package", c.Name).
			Str("from", c.CurrentVersion).
			Str("to", c.LatestVersion).
			Msg("dry run: would update")
		return m.finish(result, StatusUpdated)
	}

	log.Info().
		Str("package", c.Name).
		Str("from", c.CurrentVersion).
		Str("to", c.LatestVersion).
		Msg("updating package")

	if err := m.Installer.Install(ctx, c.Name, c.LatestVersion); err != nil {
		result.ErrorMessage = truncate(err.Error())
		return m.finish(result, StatusFailedInstall)
	}

	if m.Tests == nil {
		return m.finish(result, StatusUpdated)
	}

	outcome, testErr := m.runTests(ctx)
	result.TestOutput = outcome.Output

	if testErr == nil && outcome.Passed {
		result.TestPassed = true
		return m.finish(result, StatusUpdated)
	}

	cause := "tests failed after update"
	if testErr != nil {
		cause = truncate(testErr.Error())
	}
	result.ErrorMessage = cause

	log.Warn().Str("package", c.Name).Str("cause", cause).Msg("rolling back to previous version")

	if err := m.rollback(ctx, c); err != nil {
		result.ErrorMessage = truncate(fmt.Sprintf("%s; rollback failed: %v", cause, err))
		log.Error().Str("package", c.Name).Err(err).Msg("rollback failed, package state indeterminate")
		return m.finish(result, StatusCriticalFailure)
	}

	return m.finish(result, StatusRolledBack)
}

// runTests executes the suite under the session-wide test lock.
func (m *Machine) runTests(ctx context.Context) (TestOutcome, error) {
	if m.TestLock != nil {
		m.TestLock.Lock()
		defer m.TestLock.Unlock()
	}
	return m.Tests.Run(ctx)
}

// rollback reinstalls the candidate's previous version. The uninstall is
// best effort: pinned installs overwrite, so a failed uninstall alone does
// not doom the rollback.
func (m *Machine) rollback(ctx context.Context, c PackageCandidate) error {
	if err := m.Installer.Uninstall(ctx, c.Name); err != nil {
		log.Warn().Str("package", c.Name).Err(err).Msg("uninstall during rollback failed")
	}
	return m.Installer.Install(ctx, c.Name, c.CurrentVersion)
}

// finish stamps a result with its terminal status.
func (m *Machine) finish(result UpdateResult, status UpdateStatus) UpdateResult {
	result.Status = status
	result.Timestamp = time.Now()

	log.Info().
		Str("package", result.Package.Name).
		Stringer("status", status).
		Msg("update attempt finished")

	return result
}

// truncate bounds a failure message for result capture.
func truncate(msg string) string {
	if len(msg) > maxErrorMessage {
		return msg[:maxErrorMessage] + "... (truncated)"
	}
	return msg
}
