// Package cmdexec runs external commands for covert with bounded timeouts.
// Commands are executed directly from an argv slice, never through a shell,
// so package names and versions cannot be used for command injection.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result holds the outcome of a command execution.
//
// Fields:
//   - Output: Combined stdout and stderr
//   - ExitCode: Process exit code; -1 when the process did not run or was killed
//   - TimedOut: True when the command exceeded its timeout
type Result struct {
	Output   []byte
	ExitCode int
	TimedOut bool
}

// RunFunc is the function signature for command execution.
//
// Parameters:
//   - ctx: Context for cancellation; a timeout is layered on top when positive
//   - name: Executable to run
//   - args: Arguments passed verbatim (no shell interpretation)
//   - dir: Working directory, empty for the current directory
//   - timeout: Maximum execution time; zero or negative disables the bound
//
// Returns:
//   - Result: Captured output, exit code, and timeout flag
//   - error: Execution error; nil when the command ran and exited zero
type RunFunc func(ctx context.Context, name string, args []string, dir string, timeout time.Duration) (Result, error)

// Run is the default command execution function.
//
// This variable holds the implementation used for command execution
// throughout the application. It can be replaced with a mock
// implementation for testing.
var Run RunFunc = run

// run executes a single command with combined output capture.
//
// A non-zero exit is returned as an error alongside the captured output so
// callers can both branch on failure and record what the command printed.
func run(ctx context.Context, name string, args []string, dir string, timeout time.Duration) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()

	res := Result{
		Output:   combined.Bytes(),
		ExitCode: exitCode(err),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if res.TimedOut {
		return res, context.DeadlineExceeded
	}

	return res, err
}

// exitCode extracts the process exit code from a Run error.
//
// Returns 0 for nil, the real exit code for *exec.ExitError, and -1 when
// the process never ran (e.g. executable not found).
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
