package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/covert-tool/covert/pkg/backup"
	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/filtering"
	"github.com/covert-tool/covert/pkg/output"
	"github.com/covert-tool/covert/pkg/pip"
	"github.com/covert-tool/covert/pkg/policy"
	"github.com/covert-tool/covert/pkg/report"
	"github.com/covert-tool/covert/pkg/session"
	"github.com/covert-tool/covert/pkg/tester"
)

var (
	dryRunFlag   bool
	noBackupFlag bool
	noTestsFlag  bool
	ignoreFlag   []string
	onlyFlag     []string
	parallelFlag bool
	policyFlag   string
	reportFlag   string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update outdated packages with test validation and rollback",
	Long: `Update every outdated package allowed by the version policy. Each
update is validated against the test suite and rolled back if the suite
fails. A requirement snapshot is taken before the first install.`,
	RunE: runUpdate,
}

// runUpdate wires the adapters and executes one update session.
func runUpdate(cmd *cobra.Command, args []string) error {
	if !dryRunFlag {
		if err := checkEnvironment(); err != nil {
			return err
		}
	}

	pol := cfg.Updates.VersionPolicy
	if policyFlag != "" {
		pol = policyFlag
	}
	parsed, err := policy.ParsePolicy(pol)
	if err != nil {
		return errors.NewExitErrorf(errors.ExitConfigError, "%v", err)
	}

	workDir, _ := os.Getwd()
	cli := pip.New(workDir, 0)
	ctx := context.Background()

	outdated, err := cli.ListOutdated(ctx)
	if err != nil {
		return errors.NewExitErrorf(errors.ExitFailure, "%v", err)
	}

	candidates := make([]session.PackageCandidate, 0, len(outdated))
	for _, p := range outdated {
		candidates = append(candidates, session.PackageCandidate{
			Name:           p.Name,
			CurrentVersion: p.Version,
			LatestVersion:  p.LatestVersion,
			Type:           p.Type,
		})
	}

	orch := &session.Orchestrator{
		Installer:   cli,
		Policy:      policy.NewEvaluator(parsed, cfg.Updates.ZeroVerMinorIsBreaking()),
		Selector:    buildSelector(),
		Strategy:    cfg.Updates.Strategy,
		MaxParallel: cfg.Updates.MaxParallel,
		DryRun:      dryRunFlag,
	}
	if parallelFlag {
		orch.Strategy = session.StrategyParallel
	}
	if cfg.Testing.Enabled && !noTestsFlag {
		orch.Tests = &testAdapter{runner: tester.New(cfg.Testing, workDir)}
	}

	var backups *backup.Manager
	if cfg.Backup.Enabled && !noBackupFlag {
		backups = backup.NewManager(cfg.Backup, cli)
		orch.Backups = &backupAdapter{mgr: backups}
	}

	result, runErr := orch.Run(ctx, candidates)

	if err := output.WriteSessionSummary(os.Stdout, result); err != nil {
		log.Warn().Err(err).Msg("failed to write summary")
	}

	if reportFlag != "" {
		if err := report.Write(result, reportFlag); err != nil {
			log.Warn().Err(err).Str("path", reportFlag).Msg("failed to write report")
		}
	}

	if runErr != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("update session aborted: %w", runErr))
	}

	if backups != nil && result.Success() {
		if _, err := backups.Prune(result.BackupHandle); err != nil {
			log.Warn().Err(err).Msg("failed to prune old snapshots")
		}
	}

	return sessionExitError(result)
}

// sessionExitError maps a finished session onto the process exit contract.
func sessionExitError(s *session.UpdateSession) error {
	if s.Success() {
		return nil
	}

	if !s.PreTestPassed {
		return errors.NewExitErrorf(errors.ExitFailure, "baseline test suite failed, nothing attempted")
	}

	summary := s.Summary()
	if summary[session.StatusCriticalFailure] > 0 {
		msg := "critical failure: a rollback failed and the environment may be inconsistent"
		if s.RestoreAttempted && s.RestoreSucceeded {
			msg += " (restored from session snapshot)"
		}
		return errors.NewExitErrorf(errors.ExitFailure, "%s", msg)
	}

	return errors.NewExitErrorf(errors.ExitPartialFailure,
		"%d of %d updates failed", summary[session.StatusFailedInstall], len(s.Results))
}

// buildSelector merges config and flag allow/ignore lists.
func buildSelector() *filtering.Selector {
	only := append(append([]string{}, cfg.Updates.AllowOnlyPackages...), onlyFlag...)
	ignore := append(append([]string{}, cfg.Updates.IgnorePackages...), ignoreFlag...)
	return filtering.NewSelector(only, ignore)
}

// testAdapter bridges the tester runner to the session's TestRunner.
type testAdapter struct {
	runner *tester.Runner
}

func (t *testAdapter) Run(ctx context.Context) (session.TestOutcome, error) {
	res, err := t.runner.Run(ctx)
	return session.TestOutcome{Passed: res.Passed, Output: res.Output}, err
}

// backupAdapter bridges the backup manager to the session's coordinator.
type backupAdapter struct {
	mgr *backup.Manager
}

func (b *backupAdapter) Snapshot(ctx context.Context) (string, error) {
	return b.mgr.Snapshot(ctx)
}

func (b *backupAdapter) Restore(ctx context.Context, handle string) error {
	_, err := b.mgr.Restore(ctx, handle, false)
	return err
}

func init() {
	updateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Evaluate policy decisions without installing anything")
	updateCmd.Flags().BoolVar(&noBackupFlag, "no-backup", false, "Skip the session snapshot")
	updateCmd.Flags().BoolVar(&noTestsFlag, "no-tests", false, "Skip pre-flight and post-install test runs")
	updateCmd.Flags().StringSliceVar(&ignoreFlag, "ignore", nil, "Package names or globs to skip (repeatable)")
	updateCmd.Flags().StringSliceVar(&onlyFlag, "only", nil, "Update only these packages (repeatable, overrides --ignore)")
	updateCmd.Flags().BoolVar(&parallelFlag, "parallel", false, "Install updates concurrently (tests stay serialized)")
	updateCmd.Flags().StringVar(&policyFlag, "policy", "", fmt.Sprintf("Version policy: %s, %s, %s, or %s",
		policy.PolicySafe, policy.PolicyLatest, policy.PolicyMinor, policy.PolicyPatch))
	updateCmd.Flags().StringVar(&reportFlag, "report", "", "Write a session report to this path (.md or .json)")
}
