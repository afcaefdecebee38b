package errors

import "fmt"

// InstallError indicates that a package install command failed.
//
// This error is local to one candidate: it is recorded on that candidate's
// result and never aborts the rest of the session.
//
// Fields:
//   - Package: Name of the package being installed
//   - Version: Version that failed to install
//   - Output: Captured command output (may be truncated by the caller)
//   - Err: Underlying execution error, may be nil
type InstallError struct {
	Package string
	Version string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("failed to install %s==%s: %s", e.Package, e.Version, e.reason())
	}
	return fmt.Sprintf("failed to install %s: %s", e.Package, e.reason())
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *InstallError) Unwrap() error {
	return e.Err
}

func (e *InstallError) reason() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Output != "" {
		return e.Output
	}
	return "unknown error"
}

// TestError indicates that the test command failed, timed out, or could not run.
//
// A TestError after a successful install triggers a rollback of that
// candidate; it does not abort the session.
//
// Fields:
//   - Timeout: True when the test run exceeded its configured timeout
//   - Output: Captured test output
//   - Err: Underlying execution error, may be nil
type TestError struct {
	Timeout bool
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *TestError) Error() string {
	if e.Timeout {
		return "test run timed out"
	}
	if e.Err != nil {
		return fmt.Sprintf("test run failed: %v", e.Err)
	}
	return "test run failed"
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TestError) Unwrap() error {
	return e.Err
}

// RollbackError indicates that reinstalling a package's previous version failed.
//
// This is the single most severe per-candidate outcome: the package is left
// in an indeterminate state and the session must halt.
//
// Fields:
//   - Package: Name of the package whose rollback failed
//   - Version: Previous version that could not be reinstalled
//   - Err: Underlying error, may be nil
type RollbackError struct {
	Package string
	Version string
	Err     error
}

// Error implements the error interface.
func (e *RollbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to roll back %s to %s: %v", e.Package, e.Version, e.Err)
	}
	return fmt.Sprintf("failed to roll back %s to %s", e.Package, e.Version)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// BackupError indicates that the session-level backup snapshot failed.
//
// A BackupError before the first install aborts the session: proceeding
// without a safety net contradicts the tool's purpose.
type BackupError struct {
	Err error
}

// Error implements the error interface.
func (e *BackupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backup failed: %v", e.Err)
	}
	return "backup failed"
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BackupError) Unwrap() error {
	return e.Err
}

// RestoreError indicates that restoring from a backup snapshot failed.
//
// Fields:
//   - Path: Backup file that could not be restored
//   - Err: Underlying error, may be nil
type RestoreError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RestoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to restore from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to restore from %s", e.Path)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RestoreError) Unwrap() error {
	return e.Err
}

// ValidationError indicates invalid user input such as a malformed package
// name, version string, or configuration value.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationErrorf creates a ValidationError with a formatted message.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - *ValidationError: New validation error
func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
