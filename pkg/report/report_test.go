package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covert-tool/covert/pkg/session"
)

func sampleSession() *session.UpdateSession {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &session.UpdateSession{
		StartTime:     start,
		EndTime:       start.Add(2 * time.Minute),
		BackupHandle:  "backups/backup_20260314_090000.txt",
		PreTestPassed: true,
		Results: []session.UpdateResult{
			{
				Package:    session.PackageCandidate{Name: "requests", CurrentVersion: "2.31.0", LatestVersion: "2.32.0"},
				Status:     session.StatusUpdated,
				TestPassed: true,
			},
			{
				Package:      session.PackageCandidate{Name: "flask", CurrentVersion: "2.0.1", LatestVersion: "3.0.0"},
				Status:       session.StatusSkipped,
				ErrorMessage: "update 2.0.1 -> 3.0.0 denied by safe policy",
			},
			{
				Package:      session.PackageCandidate{Name: "click", CurrentVersion: "8.1.6", LatestVersion: "8.1.7"},
				Status:       session.StatusRolledBack,
				ErrorMessage: "tests failed after update",
			},
		},
	}
}

// TestJSONReport tests the JSON rendering.
//
// It verifies:
//   - Top-level keys keep a stable order
//   - The summary counts match the results
func TestJSONReport(t *testing.T) {
	content, err := JSON(sampleSession())
	require.NoError(t, err)

	text := string(content)
	assert.Less(t, strings.Index(text, `"start_time"`), strings.Index(text, `"summary"`))
	assert.Less(t, strings.Index(text, `"summary"`), strings.Index(text, `"results"`))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))

	assert.Equal(t, true, doc["success"])
	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["updated"])
	assert.Equal(t, float64(1), summary["rolled_back"])
	results := doc["results"].([]any)
	require.Len(t, results, 3)
}

// TestMarkdownReport tests the Markdown rendering.
func TestMarkdownReport(t *testing.T) {
	md := Markdown(sampleSession())

	assert.Contains(t, md, "# Update Session Report")
	assert.Contains(t, md, "| requests | 2.31.0 | 2.32.0 | UPDATED | passed |")
	assert.Contains(t, md, "| flask | 2.0.1 | 3.0.0 | SKIPPED | - |")
	assert.Contains(t, md, "## Failure details")
	assert.Contains(t, md, "tests failed after update")
}

// TestMarkdownEmptySession tests rendering with zero results.
func TestMarkdownEmptySession(t *testing.T) {
	s := &session.UpdateSession{PreTestPassed: true}

	md := Markdown(s)
	assert.Contains(t, md, "No packages attempted")
	assert.NotContains(t, md, "## Results")
}

// TestWriteChoosesFormatByExtension tests format selection.
func TestWriteChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "report.md")
	require.NoError(t, Write(sampleSession(), mdPath))
	content, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# Update Session Report"))

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, Write(sampleSession(), jsonPath))
	content, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))
}
