package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/errors"
	"github.com/covert-tool/covert/pkg/filtering"
	"github.com/covert-tool/covert/pkg/pip"
	"github.com/covert-tool/covert/pkg/policy"
)

// Update execution strategies.
const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
)

// Orchestrator runs the per-package state machine across a candidate set
// and aggregates the outcomes into one UpdateSession.
//
// Fields:
//   - Installer: Package install/uninstall adapter
//   - Tests: Test runner adapter; nil disables both pre-flight and
//     post-install validation
//   - Backups: Snapshot/restore adapter; nil disables the session backup
//   - Policy: Version policy gate shared by all candidates
//   - Selector: Allow/ignore name filter applied before scheduling
//   - Strategy: StrategySequential or StrategyParallel
//   - MaxParallel: Concurrent install bound in parallel mode
//   - DryRun: When true, no installs, tests, or backups happen
type Orchestrator struct {
	Installer   Installer
	Tests       TestRunner
	Backups     BackupCoordinator
	Policy      *policy.Evaluator
	Selector    *filtering.Selector
	Strategy    string
	MaxParallel int
	DryRun      bool
}

// Run executes one update session over the given candidates.
//
// Preconditions run first: the pre-flight test establishes a known-good
// baseline (a broken baseline makes every post-update test result
// meaningless), then one snapshot is taken before the first install. A
// failed precondition aborts with zero results and a non-nil error.
//
// Candidates filtered out by type or by the name selector are never
// scheduled and produce no result. A CRITICAL_FAILURE halts scheduling of
// further candidates and triggers a full restore from the session snapshot.
//
// Parameters:
//   - ctx: Context for cancellation
//   - candidates: Outdated packages in package-manager query order
//
// Returns:
//   - *UpdateSession: Always non-nil, populated as far as the run got
//   - error: Non-nil only for session precondition failures
func (o *Orchestrator) Run(ctx context.Context, candidates []PackageCandidate) (*UpdateSession, error) {
	session := &UpdateSession{
		StartTime:     time.Now(),
		DryRun:        o.DryRun,
		PreTestPassed: true,
	}
	defer func() { session.EndTime = time.Now() }()

	if o.Tests != nil {
		log.Info().Msg("running pre-flight test")
		outcome, err := o.Tests.Run(ctx)
		if err != nil || !outcome.Passed {
			session.PreTestPassed = false
			if err == nil {
				err = &errors.TestError{Output: outcome.Output}
			}
			return session, fmt.Errorf("pre-flight test failed, aborting before any update: %w", err)
		}
	}

	selected := o.filter(candidates)
	if len(selected) == 0 {
		log.Info().Msg("no packages to update")
		return session, nil
	}

	if o.Backups != nil && !o.DryRun {
		handle, err := o.Backups.Snapshot(ctx)
		if err != nil {
			return session, fmt.Errorf("backup failed, refusing to update without one: %w", err)
		}
		session.BackupHandle = handle
	}

	machine := &Machine{
		Installer: o.Installer,
		Tests:     o.Tests,
		Policy:    o.Policy,
		DryRun:    o.DryRun,
		TestLock:  &sync.Mutex{},
	}

	if o.Strategy == StrategyParallel {
		o.runParallel(ctx, session, machine, selected)
	} else {
		o.runSequential(ctx, session, machine, selected)
	}

	log.Info().
		Int("attempted", len(session.Results)).
		Int("updated", session.Updated()).
		Bool("success", session.Success()).
		Msg("session finished")

	return session, nil
}

// filter drops non-regular candidates and applies the name selector.
// Filtered candidates are not attempted and never produce a result.
func (o *Orchestrator) filter(candidates []PackageCandidate) []PackageCandidate {
	var selected []PackageCandidate
	for _, c := range candidates {
		if c.Type != "" && c.Type != pip.TypeRegular {
			log.Debug().Str("package", c.Name).Str("type", c.Type).Msg("skipping non-regular package")
			continue
		}
		if o.Selector != nil && !o.Selector.Allows(c.Name) {
			log.Debug().Str("package", c.Name).Msg("package filtered by name")
			continue
		}
		selected = append(selected, c)
	}
	return selected
}

// runSequential attempts candidates one at a time in input order.
func (o *Orchestrator) runSequential(ctx context.Context, session *UpdateSession, machine *Machine, candidates []PackageCandidate) {
	for _, c := range candidates {
		result := machine.Run(ctx, c)
		session.Results = append(session.Results, result)

		if result.Status == StatusCriticalFailure {
			o.restoreAfterCritical(ctx, session)
			return
		}
	}
}

// restoreAfterCritical attempts a full-environment restore from the session
// snapshot. Its outcome is recorded on the session, not as a result entry.
func (o *Orchestrator) restoreAfterCritical(ctx context.Context, session *UpdateSession) {
	log.Error().Msg("critical failure, halting session")

	if o.Backups == nil || session.BackupHandle == "" {
		return
	}

	session.RestoreAttempted = true
	if err := o.Backups.Restore(ctx, session.BackupHandle); err != nil {
		log.Error().Err(err).Msg("restore from session snapshot failed")
		return
	}
	session.RestoreSucceeded = true
	log.Info().Str("backup", session.BackupHandle).Msg("environment restored from session snapshot")
}
