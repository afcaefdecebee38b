// Package session is the update orchestration core. It drives each
// candidate package through a per-package state machine (policy check,
// install, test, accept or roll back) and aggregates the outcomes into a
// single UpdateSession, sequentially or with bounded parallelism.
package session

import (
	"time"
)

// PackageCandidate is one package eligible for an update attempt.
//
// Candidates are created once per session from the outdated-package query
// and never mutated.
//
// Fields:
//   - Name: Validated package name
//   - CurrentVersion: Installed version
//   - LatestVersion: Newest version available on the index
//   - Type: Package type tag (pip.TypeRegular or pip.TypeEditable)
type PackageCandidate struct {
	Name           string
	CurrentVersion string
	LatestVersion  string
	Type           string
}

// UpdateStatus is the terminal outcome of one update attempt.
type UpdateStatus int

// Update attempt outcomes. StatusPending is the initial state of every
// candidate; all others are terminal.
const (
	StatusPending UpdateStatus = iota
	StatusSkipped
	StatusFailedInstall
	StatusUpdated
	StatusRolledBack
	StatusCriticalFailure
)

// String returns the status name used in logs and reports.
func (s UpdateStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusSkipped:
		return "SKIPPED"
	case StatusFailedInstall:
		return "FAILED_INSTALL"
	case StatusUpdated:
		return "UPDATED"
	case StatusRolledBack:
		return "ROLLED_BACK"
	case StatusCriticalFailure:
		return "CRITICAL_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// UpdateResult records the terminal outcome for one candidate.
//
// Fields:
//   - Package: The candidate this result belongs to
//   - Status: Terminal status
//   - Timestamp: When the terminal state was reached
//   - ErrorMessage: Failure cause, empty on success
//   - TestOutput: Captured test runner output, when tests ran
//   - TestPassed: True only when the post-install test run passed
type UpdateResult struct {
	Package      PackageCandidate
	Status       UpdateStatus
	Timestamp    time.Time
	ErrorMessage string
	TestOutput   string
	TestPassed   bool
}

// UpdateSession aggregates one orchestrator run.
//
// Fields:
//   - StartTime: When the run began
//   - EndTime: When the run finished
//   - BackupHandle: Opaque snapshot reference; empty when no backup was taken
//   - PreTestPassed: Outcome of the pre-flight test run
//   - DryRun: True when no adapter calls were issued for allowed candidates
//   - Results: One entry per attempted candidate, in completion order
//   - RestoreAttempted: True when a critical failure triggered a restore
//   - RestoreSucceeded: Outcome of that restore attempt
type UpdateSession struct {
	StartTime        time.Time
	EndTime          time.Time
	BackupHandle     string
	PreTestPassed    bool
	DryRun           bool
	Results          []UpdateResult
	RestoreAttempted bool
	RestoreSucceeded bool
}

// Summary derives status counts from the results.
//
// Returns:
//   - map[UpdateStatus]int: Count per terminal status, absent statuses omitted
func (s *UpdateSession) Summary() map[UpdateStatus]int {
	summary := make(map[UpdateStatus]int)
	for _, r := range s.Results {
		summary[r.Status]++
	}
	return summary
}

// Success reports whether the session left the environment healthy.
//
// Skipped and rolled-back candidates do not count against success: the
// environment is intact, those updates just did not happen. A failed
// pre-flight test is a failed session even though nothing was attempted.
//
// Returns:
//   - bool: True when the baseline was healthy and no result is
//     FAILED_INSTALL or CRITICAL_FAILURE
func (s *UpdateSession) Success() bool {
	if !s.PreTestPassed {
		return false
	}
	for _, r := range s.Results {
		if r.Status == StatusFailedInstall || r.Status == StatusCriticalFailure {
			return false
		}
	}
	return true
}

// Updated returns how many candidates finished as UPDATED.
func (s *UpdateSession) Updated() int {
	return s.Summary()[StatusUpdated]
}
