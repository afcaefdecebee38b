package pip

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/covert-tool/covert/pkg/cmdexec"
)

// Package type tags reported by ListOutdated.
const (
	// TypeRegular marks a normally installed package.
	TypeRegular = "regular"

	// TypeEditable marks an editable (pip install -e) install. Editable
	// packages are never auto-updated: their version is not comparable.
	TypeEditable = "editable"
)

// OutdatedPackage describes one package with an available update.
//
// Fields:
//   - Name: Package name as reported by pip
//   - Version: Currently installed version
//   - LatestVersion: Newest version available on the index
//   - Type: TypeRegular or TypeEditable
type OutdatedPackage struct {
	Name          string
	Version       string
	LatestVersion string
	Type          string
}

// outdatedEntry mirrors one element of pip's JSON output.
type outdatedEntry struct {
	Name                    string `json:"name"`
	Version                 string `json:"version"`
	LatestVersion           string `json:"latest_version"`
	EditableProjectLocation string `json:"editable_project_location,omitempty"`
}

// ListOutdated queries pip for packages with available updates.
//
// A non-zero exit with a "no packages found" warning is treated as an empty
// list, matching pip's behavior on up-to-date environments.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []OutdatedPackage: Outdated packages in pip's reported order
//   - error: When the pip command fails or its output is not valid JSON
func (c *CLI) ListOutdated(ctx context.Context) ([]OutdatedPackage, error) {
	log.Info().Msg("checking for outdated packages")

	args := []string{"list", "--outdated", "--format=json", "--disable-pip-version-check"}
	res, err := cmdexec.Run(ctx, c.executable(), args, c.WorkDir, c.Timeout)
	if err != nil {
		output := string(res.Output)
		if strings.Contains(output, "No packages found") ||
			strings.Contains(output, "Could not find a version") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list outdated packages: %s", truncateOutput(res.Output))
	}

	packages, err := parseOutdated(res.Output)
	if err != nil {
		return nil, err
	}

	log.Info().Int("count", len(packages)).Msg("outdated packages found")
	return packages, nil
}

// parseOutdated decodes pip's JSON listing into OutdatedPackage values.
//
// pip may print progress noise before the JSON array; decoding starts at
// the first '[' to tolerate that.
func parseOutdated(output []byte) ([]OutdatedPackage, error) {
	start := strings.IndexByte(string(output), '[')
	if start < 0 {
		return nil, fmt.Errorf("failed to parse pip output: no JSON array found")
	}

	var entries []outdatedEntry
	if err := json.Unmarshal(output[start:], &entries); err != nil {
		return nil, fmt.Errorf("failed to parse pip output: %w", err)
	}

	packages := make([]OutdatedPackage, 0, len(entries))
	for _, entry := range entries {
		pkgType := TypeRegular
		if entry.EditableProjectLocation != "" {
			pkgType = TypeEditable
		}
		packages = append(packages, OutdatedPackage{
			Name:          entry.Name,
			Version:       entry.Version,
			LatestVersion: entry.LatestVersion,
			Type:          pkgType,
		})
	}

	return packages, nil
}
