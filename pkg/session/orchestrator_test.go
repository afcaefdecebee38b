package session

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/filtering"
	"github.com/covert-tool/covert/pkg/policy"
)

func newOrchestrator(installer *mockInstaller, tests *mockTestRunner, backups *mockBackups) *Orchestrator {
	o := &Orchestrator{
		Installer: installer,
		Policy:    policy.NewEvaluator(policy.PolicySafe, true),
		Strategy:  StrategySequential,
	}
	if tests != nil {
		o.Tests = tests
	}
	if backups != nil {
		o.Backups = backups
	}
	return o
}

// TestRunAllUpdated tests a fully successful sequential session.
func TestRunAllUpdated(t *testing.T) {
	installer := &mockInstaller{}
	tests := &mockTestRunner{outcomes: []TestOutcome{{Passed: true}}}
	backups := &mockBackups{}
	o := newOrchestrator(installer, tests, backups)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
		candidate("click", "8.1.6", "8.1.7"),
	})
	require.NoError(t, err)

	assert.True(t, session.Success())
	assert.True(t, session.PreTestPassed)
	require.Len(t, session.Results, 2)
	assert.Equal(t, 2, session.Updated())
	assert.Equal(t, 1, backups.snapshots)
	assert.NotEmpty(t, session.BackupHandle)
	// Pre-flight plus one run per update.
	assert.Equal(t, 3, tests.callCount())
	assert.False(t, session.EndTime.IsZero())
}

// TestRunPreFlightFailure tests the broken-baseline abort.
//
// It verifies:
//   - pre_test_passed is false, zero results, success is false
//   - Nothing was installed or backed up
func TestRunPreFlightFailure(t *testing.T) {
	installer := &mockInstaller{}
	tests := &mockTestRunner{outcomes: []TestOutcome{{Passed: false, Output: "3 failed"}}}
	backups := &mockBackups{}
	o := newOrchestrator(installer, tests, backups)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
	})

	require.Error(t, err)
	assert.False(t, session.PreTestPassed)
	assert.Empty(t, session.Results)
	assert.False(t, session.Success())
	assert.Empty(t, installer.installs())
	assert.Zero(t, backups.snapshots)
}

// TestRunBackupFailure tests that a failed snapshot aborts before installs.
func TestRunBackupFailure(t *testing.T) {
	installer := &mockInstaller{}
	backups := &mockBackups{snapshotErr: &errors.BackupError{Err: stderrors.New("disk full")}}
	o := newOrchestrator(installer, nil, backups)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
	})

	require.Error(t, err)
	assert.Empty(t, session.Results)
	assert.Empty(t, installer.installs())
}

// TestRunFilteredCandidatesProduceNoResults tests silent filtering.
//
// Result count equals attempted count, not candidate count.
func TestRunFilteredCandidatesProduceNoResults(t *testing.T) {
	installer := &mockInstaller{}
	o := newOrchestrator(installer, nil, nil)
	o.Selector = filtering.NewSelector(nil, []string{"flask"})

	editable := PackageCandidate{Name: "mytool", CurrentVersion: "0.1.0", LatestVersion: "0.2.0", Type: "editable"}

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
		candidate("flask", "2.0.1", "2.0.2"),
		editable,
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.Equal(t, "requests", session.Results[0].Package.Name)
	assert.Equal(t, []string{"requests==2.32.0"}, installer.installs())
}

// TestRunAllowListReplacesIgnoreList tests filter precedence.
func TestRunAllowListReplacesIgnoreList(t *testing.T) {
	installer := &mockInstaller{}
	o := newOrchestrator(installer, nil, nil)
	o.Selector = filtering.NewSelector([]string{"flask"}, []string{"flask"})

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
		candidate("flask", "2.0.1", "2.0.2"),
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.Equal(t, "flask", session.Results[0].Package.Name)
}

// TestRunPolicyDenialIsRecorded tests that a DENY produces a SKIPPED result,
// unlike filtering which produces none.
func TestRunPolicyDenialIsRecorded(t *testing.T) {
	o := newOrchestrator(&mockInstaller{}, nil, nil)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.0.0", "3.0.0"),
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.Equal(t, StatusSkipped, session.Results[0].Status)
	assert.True(t, session.Success())
}

// TestRunCriticalFailureHaltsSession tests fail-fast plus restore.
//
// It verifies:
//   - The candidate after the critical failure is never attempted
//   - A restore from the session snapshot is attempted and recorded
//     without adding a result entry
func TestRunCriticalFailureHaltsSession(t *testing.T) {
	installer := &mockInstaller{failInstall: map[string]error{
		"requests==2.31.0": stderrors.New("network unreachable"),
	}}
	tests := &mockTestRunner{outcomes: []TestOutcome{
		{Passed: true},  // pre-flight
		{Passed: false}, // after requests install
	}}
	backups := &mockBackups{}
	o := newOrchestrator(installer, tests, backups)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
		candidate("click", "8.1.6", "8.1.7"),
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.Equal(t, StatusCriticalFailure, session.Results[0].Status)
	assert.False(t, session.Success())
	assert.True(t, session.RestoreAttempted)
	assert.True(t, session.RestoreSucceeded)
	assert.Equal(t, []string{session.BackupHandle}, backups.restored)
	assert.NotContains(t, installer.installs(), "click==8.1.7")
}

// TestRunRestoreFailureRecorded tests a failed full-environment restore.
func TestRunRestoreFailureRecorded(t *testing.T) {
	installer := &mockInstaller{failInstall: map[string]error{
		"requests==2.31.0": stderrors.New("network unreachable"),
	}}
	tests := &mockTestRunner{outcomes: []TestOutcome{
		{Passed: true},
		{Passed: false},
	}}
	backups := &mockBackups{restoreErr: &errors.RestoreError{Path: "x", Err: stderrors.New("gone")}}
	o := newOrchestrator(installer, tests, backups)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
	})
	require.NoError(t, err)

	assert.True(t, session.RestoreAttempted)
	assert.False(t, session.RestoreSucceeded)
}

// TestRunDryRun tests that dry-run touches nothing.
func TestRunDryRun(t *testing.T) {
	installer := &mockInstaller{}
	backups := &mockBackups{}
	o := newOrchestrator(installer, nil, backups)
	o.DryRun = true

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 1)
	assert.Equal(t, StatusUpdated, session.Results[0].Status)
	assert.True(t, session.DryRun)
	assert.Empty(t, installer.installs())
	assert.Zero(t, backups.snapshots)
}

// TestRunEmptyCandidateList tests the idempotent second run: nothing
// outdated, zero results, success.
func TestRunEmptyCandidateList(t *testing.T) {
	backups := &mockBackups{}
	o := newOrchestrator(&mockInstaller{}, nil, backups)

	session, err := o.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, session.Results)
	assert.True(t, session.Success())
	assert.Zero(t, backups.snapshots)
}

// TestRunFailedInstallContinues tests that an ordinary install failure is
// local to its candidate.
func TestRunFailedInstallContinues(t *testing.T) {
	installer := &mockInstaller{failInstall: map[string]error{
		"requests==2.32.0": stderrors.New("no matching distribution"),
	}}
	tests := &mockTestRunner{outcomes: []TestOutcome{{Passed: true}}}
	o := newOrchestrator(installer, tests, nil)

	session, err := o.Run(context.Background(), []PackageCandidate{
		candidate("requests", "2.31.0", "2.32.0"),
		candidate("click", "8.1.6", "8.1.7"),
	})
	require.NoError(t, err)

	require.Len(t, session.Results, 2)
	assert.Equal(t, StatusFailedInstall, session.Results[0].Status)
	assert.Equal(t, StatusUpdated, session.Results[1].Status)
	assert.False(t, session.Success())
	summary := session.Summary()
	assert.Equal(t, 1, summary[StatusFailedInstall])
	assert.Equal(t, 1, summary[StatusUpdated])
}
