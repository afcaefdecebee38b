// Package config handles configuration loading, validation, and defaults for covert.
// Configuration lives in a YAML file (covert.yml by default) with sections for
// the project, update behavior, testing, backups, and logging.
package config

// Config is the root configuration structure.
type Config struct {
	Project ProjectCfg `yaml:"project,omitempty"`
	Updates UpdatesCfg `yaml:"updates"`
	Testing TestingCfg `yaml:"testing"`
	Backup  BackupCfg  `yaml:"backup"`
	Logging LoggingCfg `yaml:"logging,omitempty"`
}

// ProjectCfg identifies the project being updated.
type ProjectCfg struct {
	// Name of the project, used in reports and log output.
	Name string `yaml:"name,omitempty"`

	// PythonVersion records the interpreter version the project targets.
	// Informational only; covert does not enforce it.
	PythonVersion string `yaml:"python_version,omitempty"`
}

// UpdatesCfg controls which updates are attempted and how they are scheduled.
type UpdatesCfg struct {
	// Strategy selects sequential (default) or parallel execution.
	Strategy string `yaml:"strategy,omitempty"`

	// MaxParallel bounds the number of concurrent installs when the
	// parallel strategy is selected.
	MaxParallel int `yaml:"max_parallel,omitempty"`

	// VersionPolicy names the rule set deciding which version deltas are
	// auto-approved: "safe", "latest", "minor", or "patch".
	VersionPolicy string `yaml:"version_policy,omitempty"`

	// IgnorePackages lists package name patterns that are never updated.
	IgnorePackages []string `yaml:"ignore_packages,omitempty"`

	// AllowOnlyPackages, when non-empty, switches filtering to exclusive
	// allow-list mode: anything not listed is silently skipped.
	AllowOnlyPackages []string `yaml:"allow_only_packages,omitempty"`

	// ZeroVerMinorBreaking treats minor bumps of 0.x versions as breaking
	// under the "safe" policy, per the "0.y.z has no stability guarantee"
	// convention. Enabled by default.
	ZeroVerMinorBreaking *bool `yaml:"zero_ver_minor_breaking,omitempty"`
}

// TestingCfg configures the validation test run.
type TestingCfg struct {
	// Enabled toggles both the pre-flight test and per-package validation.
	Enabled bool `yaml:"enabled"`

	// Command is the test executable to run (e.g. "pytest").
	Command string `yaml:"command,omitempty"`

	// Args are passed to the test command.
	Args []string `yaml:"args,omitempty"`

	// ExcludePaths are passed as --ignore arguments to the test command.
	ExcludePaths []string `yaml:"exclude_paths,omitempty"`

	// TimeoutSeconds bounds a single test run. Exceeding it is treated as
	// a test failure, not a distinct outcome.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// BackupCfg configures session-level requirement snapshots.
type BackupCfg struct {
	// Enabled toggles snapshot creation before the first install.
	Enabled bool `yaml:"enabled"`

	// Location is the directory where snapshots are written.
	Location string `yaml:"location,omitempty"`

	// RetentionDays controls how long old snapshots are kept by Prune.
	RetentionDays int `yaml:"retention_days,omitempty"`

	// Format is the snapshot file format: "txt" (pip freeze lines) or "json".
	Format string `yaml:"format,omitempty"`
}

// LoggingCfg configures the structured logger.
type LoggingCfg struct {
	// Level is the log level name: "debug", "info", "warn", or "error".
	Level string `yaml:"level,omitempty"`

	// File is an optional path for a JSON log file.
	File string `yaml:"file,omitempty"`

	// Console toggles human-readable output on stderr.
	Console *bool `yaml:"console,omitempty"`
}

// ZeroVerMinorIsBreaking reports whether the safe policy should treat 0.x
// minor bumps as breaking changes. Defaults to true when unset.
func (u UpdatesCfg) ZeroVerMinorIsBreaking() bool {
	if u.ZeroVerMinorBreaking == nil {
		return true
	}
	return *u.ZeroVerMinorBreaking
}

// ConsoleEnabled reports whether console logging is on. Defaults to true
// when unset.
func (l LoggingCfg) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}
