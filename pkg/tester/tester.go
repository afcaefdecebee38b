// Package tester runs the project test suite and decides whether the
// environment is still healthy after an update. The suite command, its
// arguments, and its timeout come from the testing section of the config.
package tester

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/cmdexec"
	"github.com/covert-tool/covert/pkg/config"
	"github.com/covert-tool/covert/pkg/errors"
)

// Result holds the outcome of one test suite run.
//
// Fields:
//   - Passed: True when the test command exited zero
//   - ExitCode: Test command exit code
//   - Output: Combined stdout and stderr
//   - Duration: Wall clock time of the run
//   - Stats: Parsed test counts when the output was recognized
type Result struct {
	Passed   bool
	ExitCode int
	Output   string
	Duration time.Duration
	Stats    Stats
}

// Runner executes the configured test suite.
//
// Fields:
//   - Config: Testing configuration (command, args, timeout, excludes)
//   - WorkDir: Working directory for the test command
type Runner struct {
	Config  config.TestingCfg
	WorkDir string
}

// New creates a test runner.
//
// Parameters:
//   - cfg: Testing configuration
//   - workDir: Working directory for the test command
//
// Returns:
//   - *Runner: Configured runner
func New(cfg config.TestingCfg, workDir string) *Runner {
	return &Runner{Config: cfg, WorkDir: workDir}
}

// Run executes the test suite once.
//
// When testing is disabled in the config the run is a no-op success. A
// timeout is treated as a failed run and reported as *errors.TestError
// with the Timeout flag set, because a hung suite says nothing good about
// the environment.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - Result: Run outcome with parsed statistics
//   - error: *errors.TestError when the command timed out or could not run
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if !r.Config.Enabled {
		log.Info().Msg("testing disabled, skipping test run")
		return Result{Passed: true, Output: "testing disabled"}, nil
	}

	args := append([]string{}, r.Config.Args...)
	for _, path := range r.Config.ExcludePaths {
		args = append(args, "--ignore="+path)
	}

	timeout := time.Duration(r.Config.TimeoutSeconds) * time.Second

	log.Info().
		Str("command", r.Config.Command).
		Strs("args", args).
		Dur("timeout", timeout).
		Msg("running test suite")

	start := time.Now()
	res, runErr := cmdexec.Run(ctx, r.Config.Command, args, r.WorkDir, timeout)
	duration := time.Since(start)

	result := Result{
		Passed:   runErr == nil,
		ExitCode: res.ExitCode,
		Output:   string(res.Output),
		Duration: duration,
		Stats:    ParseOutput(string(res.Output)),
	}

	if res.TimedOut {
		log.Error().Dur("timeout", timeout).Msg("test suite timed out")
		return result, &errors.TestError{
			Timeout: true,
			Output:  result.Output,
			Err:     runErr,
		}
	}

	if runErr != nil && res.ExitCode < 0 {
		// The command never ran (e.g. pytest not on PATH). Distinct from
		// a failing suite: the caller should stop, not roll back.
		log.Error().Str("command", r.Config.Command).Msg("test command could not be executed")
		return result, &errors.TestError{Output: result.Output, Err: runErr}
	}

	log.Info().
		Bool("passed", result.Passed).
		Int("total", result.Stats.Total).
		Int("failed", result.Stats.Failed).
		Dur("duration", duration).
		Msg("test suite finished")

	return result, nil
}

// CommandAvailable reports whether the test command can be executed.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - bool: True when running "<command> --version" succeeds at the exec level
func (r *Runner) CommandAvailable(ctx context.Context) bool {
	res, err := cmdexec.Run(ctx, r.Config.Command, []string{"--version"}, r.WorkDir, 5*time.Second)
	if err != nil && res.ExitCode < 0 {
		return false
	}
	return true
}
