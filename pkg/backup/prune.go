package backup

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/errors"
)

// Info describes one snapshot file on disk.
//
// Fields:
//   - Path: Full file path
//   - Name: Base file name
//   - Size: File size in bytes
//   - Modified: Last modification time
type Info struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
}

// snapshotPatterns matches the files Snapshot writes.
var snapshotPatterns = []string{"backup_*.txt", "backup_*.json"}

// List returns the snapshots in the backup directory, newest first.
//
// A missing backup directory yields an empty list.
//
// Returns:
//   - []Info: Snapshot metadata sorted by modification time descending
//   - error: *errors.BackupError when the directory cannot be read
func (m *Manager) List() ([]Info, error) {
	var infos []Info

	for _, pattern := range snapshotPatterns {
		matches, err := filepath.Glob(filepath.Join(m.Config.Location, pattern))
		if err != nil {
			return nil, &errors.BackupError{Err: err}
		}
		for _, path := range matches {
			stat, err := os.Stat(path)
			if err != nil {
				continue
			}
			infos = append(infos, Info{
				Path:     path,
				Name:     filepath.Base(path),
				Size:     stat.Size(),
				Modified: stat.ModTime(),
			})
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Modified.After(infos[j].Modified)
	})

	return infos, nil
}

// Latest returns the most recent snapshot.
//
// Returns:
//   - string: Path of the newest snapshot; empty when none exist
//   - error: *errors.BackupError when the directory cannot be read
func (m *Manager) Latest() (string, error) {
	infos, err := m.List()
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", nil
	}
	return infos[0].Path, nil
}

// Prune deletes snapshots older than the configured retention period.
//
// The snapshot named by keep is never deleted, regardless of age, so the
// session that just created it always keeps its escape hatch.
//
// Parameters:
//   - keep: Snapshot path to preserve; empty preserves nothing specially
//
// Returns:
//   - []string: Paths of deleted snapshots
//   - error: *errors.BackupError when the directory cannot be read
func (m *Manager) Prune(keep string) ([]string, error) {
	if !m.Config.Enabled {
		return nil, nil
	}

	infos, err := m.List()
	if err != nil {
		return nil, err
	}

	cutoff := m.now().AddDate(0, 0, -m.Config.RetentionDays)

	var deleted []string
	for _, info := range infos {
		if info.Path == keep || !info.Modified.Before(cutoff) {
			continue
		}
		if err := os.Remove(info.Path); err != nil {
			log.Warn().Str("path", info.Path).Err(err).Msg("failed to delete old snapshot")
			continue
		}
		deleted = append(deleted, info.Path)
	}

	if len(deleted) > 0 {
		log.Info().Int("count", len(deleted)).Msg("pruned old snapshots")
	}

	return deleted, nil
}
