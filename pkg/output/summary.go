package output

import (
	"fmt"
	"io"

	"github.com/covert-tool/covert/pkg/pip"
	"github.com/covert-tool/covert/pkg/session"
)

// WriteSessionSummary renders a finished session as an aligned table
// followed by a one-line tally.
//
// Parameters:
//   - w: Destination writer
//   - s: Finished session
//
// Returns:
//   - error: When writing fails
func WriteSessionSummary(w io.Writer, s *session.UpdateSession) error {
	if len(s.Results) == 0 {
		_, err := fmt.Fprintln(w, "No packages attempted.")
		return err
	}

	table := NewTable("PACKAGE", "FROM", "TO", "STATUS")
	for _, r := range s.Results {
		table.AddRow(r.Package.Name, r.Package.CurrentVersion, r.Package.LatestVersion, r.Status.String())
	}
	if err := table.Render(w); err != nil {
		return err
	}

	summary := s.Summary()
	_, err := fmt.Fprintf(w, "\n%d updated, %d skipped, %d rolled back, %d failed\n",
		summary[session.StatusUpdated],
		summary[session.StatusSkipped],
		summary[session.StatusRolledBack],
		summary[session.StatusFailedInstall]+summary[session.StatusCriticalFailure])
	return err
}

// WriteOutdated renders the outdated-package listing.
//
// Parameters:
//   - w: Destination writer
//   - packages: Outdated packages as reported by pip
//
// Returns:
//   - error: When writing fails
func WriteOutdated(w io.Writer, packages []pip.OutdatedPackage) error {
	if len(packages) == 0 {
		_, err := fmt.Fprintln(w, "All packages are up to date.")
		return err
	}

	table := NewTable("PACKAGE", "CURRENT", "LATEST", "TYPE")
	for _, p := range packages {
		table.AddRow(p.Name, p.Version, p.LatestVersion, p.Type)
	}
	return table.Render(w)
}
