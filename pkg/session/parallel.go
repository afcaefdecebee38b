package session

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// runParallel attempts candidates with up to MaxParallel installs in
// flight. Test runs stay serialized through the machine's session-wide
// test lock so a failing suite is attributable to exactly one package.
//
// On the first CRITICAL_FAILURE no new candidates are dispatched; work
// already in flight runs to its own terminal state first, then the session
// restore is attempted. Killing an install mid-write would only make the
// environment worse.
func (o *Orchestrator) runParallel(ctx context.Context, session *UpdateSession, machine *Machine, candidates []PackageCandidate) {
	limit := o.MaxParallel
	if limit < 1 {
		limit = 1
	}

	sem := semaphore.NewWeighted(int64(limit))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		halted atomic.Bool
	)

	for _, c := range candidates {
		if halted.Load() {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		if halted.Load() {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(c PackageCandidate) {
			defer wg.Done()
			defer sem.Release(1)

			result := machine.Run(ctx, c)

			mu.Lock()
			session.Results = append(session.Results, result)
			mu.Unlock()

			if result.Status == StatusCriticalFailure {
				halted.Store(true)
			}
		}(c)
	}

	wg.Wait()

	if halted.Load() {
		o.restoreAfterCritical(ctx, session)
	}
}
