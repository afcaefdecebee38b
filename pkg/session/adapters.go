package session

import "context"

// Installer installs and removes exact package versions. *pip.CLI is the
// production implementation.
type Installer interface {
	// Install installs an exact version of a package.
	Install(ctx context.Context, name, version string) error

	// Uninstall removes a package.
	Uninstall(ctx context.Context, name string) error
}

// TestOutcome is the result of one test suite run.
//
// Fields:
//   - Passed: True when the suite exited zero
//   - Output: Captured combined output
type TestOutcome struct {
	Passed bool
	Output string
}

// TestRunner executes the project test suite once.
//
// A returned error means the run could not complete (timeout, missing
// executable); a completed-but-failing suite is Passed=false with a nil
// error.
type TestRunner interface {
	Run(ctx context.Context) (TestOutcome, error)
}

// BackupCoordinator snapshots and restores the full requirement set. The
// handle is opaque to the session; the coordinator owns its lifecycle.
type BackupCoordinator interface {
	// Snapshot captures the current requirement set.
	//
	// Returns:
	//   - string: Opaque handle for Restore; empty when backups are disabled
	//   - error: *errors.BackupError when the snapshot fails
	Snapshot(ctx context.Context) (string, error)

	// Restore reverts the environment to a previous snapshot.
	Restore(ctx context.Context, handle string) error
}
