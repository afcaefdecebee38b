// Package report renders a finished update session as JSON or Markdown
// for archival and CI consumption.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/covert-tool/covert/pkg/session"
)

// Report output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Write renders a session and writes it to path. The format is chosen by
// the path's extension: .md produces Markdown, everything else JSON.
//
// Parameters:
//   - s: Finished session to render
//   - path: Output file path
//
// Returns:
//   - error: When rendering or writing fails
func Write(s *session.UpdateSession, path string) error {
	var (
		content []byte
		err     error
	)

	if strings.EqualFold(filepath.Ext(path), ".md") {
		content = []byte(Markdown(s))
	} else {
		content, err = JSON(s)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// JSON renders a session as indented JSON with stable key order.
//
// Parameters:
//   - s: Finished session to render
//
// Returns:
//   - []byte: JSON document
//   - error: When marshaling fails
func JSON(s *session.UpdateSession) ([]byte, error) {
	doc := orderedmap.New()
	doc.Set("start_time", s.StartTime.Format(time.RFC3339))
	doc.Set("end_time", s.EndTime.Format(time.RFC3339))
	doc.Set("dry_run", s.DryRun)
	doc.Set("pre_test_passed", s.PreTestPassed)
	doc.Set("backup", s.BackupHandle)
	doc.Set("success", s.Success())

	summary := orderedmap.New()
	for _, status := range []session.UpdateStatus{
		session.StatusUpdated,
		session.StatusSkipped,
		session.StatusRolledBack,
		session.StatusFailedInstall,
		session.StatusCriticalFailure,
	} {
		if count := s.Summary()[status]; count > 0 {
			summary.Set(strings.ToLower(status.String()), count)
		}
	}
	doc.Set("summary", summary)

	results := make([]*orderedmap.OrderedMap, 0, len(s.Results))
	for _, r := range s.Results {
		entry := orderedmap.New()
		entry.Set("package", r.Package.Name)
		entry.Set("from", r.Package.CurrentVersion)
		entry.Set("to", r.Package.LatestVersion)
		entry.Set("status", r.Status.String())
		entry.Set("test_passed", r.TestPassed)
		if r.ErrorMessage != "" {
			entry.Set("error", r.ErrorMessage)
		}
		results = append(results, entry)
	}
	doc.Set("results", results)

	if s.RestoreAttempted {
		doc.Set("restore_succeeded", s.RestoreSucceeded)
	}

	return marshalJSON(doc)
}

// Markdown renders a session as a human-readable Markdown report.
//
// Parameters:
//   - s: Finished session to render
//
// Returns:
//   - string: Markdown document
func Markdown(s *session.UpdateSession) string {
	var sb strings.Builder

	sb.WriteString("# Update Session Report\n\n")
	fmt.Fprintf(&sb, "- Started: %s\n", s.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Finished: %s\n", s.EndTime.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Success: %t\n", s.Success())
	fmt.Fprintf(&sb, "- Pre-flight test passed: %t\n", s.PreTestPassed)
	if s.DryRun {
		sb.WriteString("- Mode: dry run\n")
	}
	if s.BackupHandle != "" {
		fmt.Fprintf(&sb, "- Backup: %s\n", s.BackupHandle)
	}
	if s.RestoreAttempted {
		fmt.Fprintf(&sb, "- Environment restore succeeded: %t\n", s.RestoreSucceeded)
	}

	if len(s.Results) == 0 {
		sb.WriteString("\nNo packages attempted.\n")
		return sb.String()
	}

	sb.WriteString("\n## Results\n\n")
	sb.WriteString("| Package | From | To | Status | Tests |\n")
	sb.WriteString("|---------|------|----|--------|-------|\n")
	for _, r := range s.Results {
		tests := "failed"
		if r.TestPassed {
			tests = "passed"
		} else if r.Status == session.StatusSkipped {
			tests = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			r.Package.Name, r.Package.CurrentVersion, r.Package.LatestVersion,
			r.Status, tests)
	}

	var failures []session.UpdateResult
	for _, r := range s.Results {
		if r.ErrorMessage != "" {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		sb.WriteString("\n## Failure details\n\n")
		for _, r := range failures {
			fmt.Fprintf(&sb, "### %s\n\n```\n%s\n```\n\n", r.Package.Name, r.ErrorMessage)
		}
	}

	return sb.String()
}

// marshalJSON encodes with two-space indentation and no HTML escaping.
func marshalJSON(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
