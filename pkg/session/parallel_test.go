package session

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covert-tool/covert/pkg/policy"
)

// gaugeInstaller tracks how many installs are in flight at once.
type gaugeInstaller struct {
	mockInstaller
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (g *gaugeInstaller) Install(ctx context.Context, name, version string) error {
	current := g.inFlight.Add(1)
	for {
		observed := g.maxInFlight.Load()
		if current <= observed || g.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	g.inFlight.Add(-1)
	return g.mockInstaller.Install(ctx, name, version)
}

// overlapRunner fails the test if two runs ever overlap.
type overlapRunner struct {
	t       *testing.T
	running atomic.Bool
	calls   atomic.Int32
}

func (r *overlapRunner) Run(ctx context.Context) (TestOutcome, error) {
	if !r.running.CompareAndSwap(false, true) {
		r.t.Error("concurrent test runs detected")
	}
	time.Sleep(2 * time.Millisecond)
	r.running.Store(false)
	r.calls.Add(1)
	return TestOutcome{Passed: true}, nil
}

func parallelOrchestrator(installer Installer, tests TestRunner, maxParallel int) *Orchestrator {
	return &Orchestrator{
		Installer:   installer,
		Tests:       tests,
		Policy:      policy.NewEvaluator(policy.PolicyLatest, true),
		Strategy:    StrategyParallel,
		MaxParallel: maxParallel,
	}
}

// TestParallelBoundedInstalls tests the max_parallel install bound.
func TestParallelBoundedInstalls(t *testing.T) {
	installer := &gaugeInstaller{}
	o := parallelOrchestrator(installer, nil, 2)

	candidates := []PackageCandidate{
		candidate("a", "1.0.0", "1.1.0"),
		candidate("b", "1.0.0", "1.1.0"),
		candidate("c", "1.0.0", "1.1.0"),
		candidate("d", "1.0.0", "1.1.0"),
		candidate("e", "1.0.0", "1.1.0"),
	}

	session, err := o.Run(context.Background(), candidates)
	require.NoError(t, err)

	assert.Len(t, session.Results, 5)
	assert.True(t, session.Success())
	assert.LessOrEqual(t, installer.maxInFlight.Load(), int32(2))
}

// TestParallelTestRunsSerialized tests the session-wide test lock.
//
// Installs may overlap; test runs must not, or a failing suite could be
// blamed on the wrong package.
func TestParallelTestRunsSerialized(t *testing.T) {
	installer := &gaugeInstaller{}
	runner := &overlapRunner{t: t}
	o := parallelOrchestrator(installer, runner, 4)

	candidates := []PackageCandidate{
		candidate("a", "1.0.0", "1.1.0"),
		candidate("b", "1.0.0", "1.1.0"),
		candidate("c", "1.0.0", "1.1.0"),
		candidate("d", "1.0.0", "1.1.0"),
	}

	session, err := o.Run(context.Background(), candidates)
	require.NoError(t, err)

	assert.Len(t, session.Results, 4)
	// Pre-flight plus one per candidate.
	assert.Equal(t, int32(5), runner.calls.Load())
}

// TestParallelCriticalFailureStopsDispatch tests the halt flag.
//
// After the critical failure no new candidates may be dispatched; results
// are recorded only for attempted candidates.
func TestParallelCriticalFailureStopsDispatch(t *testing.T) {
	installer := &mockInstaller{failInstall: map[string]error{
		"a==1.0.0": stderrors.New("network unreachable"),
	}}
	tests := &mockTestRunner{outcomes: []TestOutcome{
		{Passed: true},
		{Passed: false},
	}}
	backups := &mockBackups{}

	o := parallelOrchestrator(installer, tests, 1)
	o.Backups = backups

	candidates := []PackageCandidate{
		candidate("a", "1.0.0", "1.1.0"),
		candidate("b", "1.0.0", "1.1.0"),
		candidate("c", "1.0.0", "1.1.0"),
	}

	session, err := o.Run(context.Background(), candidates)
	require.NoError(t, err)

	require.NotEmpty(t, session.Results)
	assert.Less(t, len(session.Results), 3)
	assert.Equal(t, StatusCriticalFailure, session.Results[0].Status)
	assert.True(t, session.RestoreAttempted)
	assert.True(t, session.RestoreSucceeded)
}

// TestParallelResultsOnePerAttempt tests the results invariant under
// concurrency: exactly one result per attempted candidate, none lost.
func TestParallelResultsOnePerAttempt(t *testing.T) {
	installer := &mockInstaller{}
	o := parallelOrchestrator(installer, nil, 3)

	var candidates []PackageCandidate
	names := map[string]bool{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		candidates = append(candidates, candidate(name, "1.0.0", "1.1.0"))
		names[name] = true
	}

	session, err := o.Run(context.Background(), candidates)
	require.NoError(t, err)

	require.Len(t, session.Results, len(candidates))
	seen := map[string]bool{}
	for _, r := range session.Results {
		assert.True(t, names[r.Package.Name])
		assert.False(t, seen[r.Package.Name], "duplicate result for %s", r.Package.Name)
		seen[r.Package.Name] = true
	}
}
