// Package backup snapshots the installed requirement set before updates
// and restores it afterwards. Snapshots are timestamped files in the
// configured backup directory, either pip freeze text or a JSON package
// list depending on the configured format.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/config"
	"github.com/covert-tool/covert/pkg/errors"
)

// Freezer produces the current requirement set as pip freeze text.
type Freezer interface {
	Freeze(ctx context.Context) (string, error)
}

// Installer installs an exact package version.
type Installer interface {
	Install(ctx context.Context, name, version string) error
}

// Package is one pinned entry of a snapshot.
//
// Fields:
//   - Name: Package name
//   - Version: Pinned version; empty when the freeze line carried none
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Manager creates, restores, and prunes requirement snapshots.
//
// Fields:
//   - Config: Backup configuration (location, format, retention)
//   - Pip: Source of freeze output and target for reinstalls
type Manager struct {
	Config config.BackupCfg
	Pip    interface {
		Freezer
		Installer
	}

	// now is replaceable for deterministic filenames in tests.
	now func() time.Time
}

// NewManager creates a backup manager.
//
// Parameters:
//   - cfg: Backup configuration
//   - pip: Adapter used to freeze and reinstall packages
//
// Returns:
//   - *Manager: Configured manager
func NewManager(cfg config.BackupCfg, pip interface {
	Freezer
	Installer
}) *Manager {
	return &Manager{Config: cfg, Pip: pip, now: time.Now}
}

// Snapshot writes a timestamped backup of the current requirement set.
//
// When backups are disabled the call is a no-op returning an empty path.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - string: Path of the written snapshot; empty when backups are disabled
//   - error: *errors.BackupError when the snapshot cannot be written
func (m *Manager) Snapshot(ctx context.Context) (string, error) {
	if !m.Config.Enabled {
		log.Info().Msg("backups disabled, skipping snapshot")
		return "", nil
	}

	if err := os.MkdirAll(m.Config.Location, 0o755); err != nil {
		return "", &errors.BackupError{Err: fmt.Errorf("create backup directory: %w", err)}
	}

	frozen, err := m.Pip.Freeze(ctx)
	if err != nil {
		return "", &errors.BackupError{Err: fmt.Errorf("freeze requirements: %w", err)}
	}

	content := frozen
	if m.Config.Format == config.BackupFormatJSON {
		data, marshalErr := json.MarshalIndent(ParseFreeze(frozen), "", "  ")
		if marshalErr != nil {
			return "", &errors.BackupError{Err: marshalErr}
		}
		content = string(data)
	}

	name := fmt.Sprintf("backup_%s.%s", m.now().Format("20060102_150405"), m.Config.Format)
	path := filepath.Join(m.Config.Location, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &errors.BackupError{Err: fmt.Errorf("write snapshot: %w", err)}
	}

	log.Info().Str("path", path).Msg("snapshot created")
	return path, nil
}

// Restore reinstalls every pinned package recorded in a snapshot file.
//
// Individual install failures are logged and skipped so one broken package
// cannot block restoring the rest of the environment.
//
// Parameters:
//   - ctx: Context for cancellation
//   - path: Snapshot file to restore from
//   - dryRun: When true, parse and report without installing
//
// Returns:
//   - []Package: Packages restored (or, in dry-run, that would be restored)
//   - error: *errors.RestoreError when the snapshot cannot be read or parsed
func (m *Manager) Restore(ctx context.Context, path string, dryRun bool) ([]Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.RestoreError{Path: path, Err: err}
	}

	var packages []Package
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(content, &packages); err != nil {
			return nil, &errors.RestoreError{Path: path, Err: fmt.Errorf("parse snapshot: %w", err)}
		}
	} else {
		packages = ParseFreeze(string(content))
	}

	log.Info().Int("count", len(packages)).Str("path", path).Msg("restoring snapshot")

	if dryRun {
		return packages, nil
	}

	restored := make([]Package, 0, len(packages))
	for _, pkg := range packages {
		if err := m.Pip.Install(ctx, pkg.Name, pkg.Version); err != nil {
			log.Warn().Str("package", pkg.Name).Err(err).Msg("failed to restore package")
			continue
		}
		restored = append(restored, pkg)
	}

	log.Info().Int("restored", len(restored)).Msg("snapshot restore finished")
	return restored, nil
}

// ParseFreeze converts pip freeze text into pinned package entries.
//
// Comment lines and lines without a pin (editable installs, VCS URLs)
// keep their raw text as the name with an empty version.
//
// Parameters:
//   - frozen: pip freeze output
//
// Returns:
//   - []Package: Parsed entries in file order
func ParseFreeze(frozen string) []Package {
	var packages []Package
	for _, line := range strings.Split(frozen, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, version, found := strings.Cut(line, "=="); found {
			packages = append(packages, Package{Name: name, Version: version})
		} else {
			packages = append(packages, Package{Name: line})
		}
	}
	return packages
}
