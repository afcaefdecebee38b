package session

import (
	"context"
	"sync"
)

// mockInstaller records install and uninstall calls and fails on demand.
type mockInstaller struct {
	mu             sync.Mutex
	installCalls   []string
	uninstallCalls []string

	// failInstall maps "name==version" specs to the error returned for them.
	failInstall map[string]error
}

func (m *mockInstaller) Install(ctx context.Context, name, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec := name + "==" + version
	m.installCalls = append(m.installCalls, spec)
	if err, ok := m.failInstall[spec]; ok {
		return err
	}
	return nil
}

func (m *mockInstaller) Uninstall(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uninstallCalls = append(m.uninstallCalls, name)
	return nil
}

func (m *mockInstaller) installs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.installCalls...)
}

// mockTestRunner returns scripted outcomes in call order. The last outcome
// repeats when calls outnumber the script.
type mockTestRunner struct {
	mu       sync.Mutex
	calls    int
	outcomes []TestOutcome
	errs     []error
}

func (m *mockTestRunner) Run(ctx context.Context) (TestOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if i >= len(m.outcomes) {
		i = len(m.outcomes) - 1
	}
	if i < 0 {
		return TestOutcome{Passed: true}, nil
	}
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return m.outcomes[i], err
}

func (m *mockTestRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockBackups records snapshot and restore calls.
type mockBackups struct {
	mu          sync.Mutex
	snapshotErr error
	restoreErr  error
	snapshots   int
	restored    []string
	handle      string
}

func (m *mockBackups) Snapshot(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots++
	if m.snapshotErr != nil {
		return "", m.snapshotErr
	}
	if m.handle == "" {
		m.handle = "backups/backup_20260101_000000.txt"
	}
	return m.handle, nil
}

func (m *mockBackups) Restore(ctx context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restored = append(m.restored, handle)
	return m.restoreErr
}
