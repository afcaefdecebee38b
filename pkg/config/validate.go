package config

import (
	"github.com/covert-tool/covert/pkg/errors"
)

// validStrategies enumerates accepted update strategies.
var validStrategies = map[string]bool{
	"sequential": true,
	"parallel":   true,
}

// validPolicies enumerates accepted version policy names.
var validPolicies = map[string]bool{
	"safe":   true,
	"latest": true,
	"minor":  true,
	"patch":  true,
}

// validBackupFormats enumerates accepted snapshot formats.
var validBackupFormats = map[string]bool{
	BackupFormatTxt:  true,
	BackupFormatJSON: true,
}

// Validate checks a configuration for invalid values.
//
// Validation runs after defaults are applied, so empty strings never reach
// it from LoadConfig; the checks still guard programmatic construction.
//
// Parameters:
//   - cfg: Configuration to validate
//
// Returns:
//   - error: *errors.ValidationError describing the first invalid value, or nil
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.NewValidationErrorf("configuration is required")
	}

	if !validStrategies[cfg.Updates.Strategy] {
		return errors.NewValidationErrorf("invalid update strategy: %q (expected sequential or parallel)", cfg.Updates.Strategy)
	}

	if cfg.Updates.MaxParallel < 1 {
		return errors.NewValidationErrorf("max_parallel must be at least 1, got %d", cfg.Updates.MaxParallel)
	}

	if !validPolicies[cfg.Updates.VersionPolicy] {
		return errors.NewValidationErrorf("invalid version policy: %q (expected safe, latest, minor, or patch)", cfg.Updates.VersionPolicy)
	}

	if cfg.Testing.Enabled {
		if cfg.Testing.Command == "" {
			return errors.NewValidationErrorf("testing is enabled but no test command is configured")
		}
		if cfg.Testing.TimeoutSeconds <= 0 {
			return errors.NewValidationErrorf("test timeout must be positive, got %d", cfg.Testing.TimeoutSeconds)
		}
	}

	if cfg.Backup.Enabled {
		if cfg.Backup.Location == "" {
			return errors.NewValidationErrorf("backup is enabled but no backup location is configured")
		}
		if !validBackupFormats[cfg.Backup.Format] {
			return errors.NewValidationErrorf("invalid backup format: %q (expected txt or json)", cfg.Backup.Format)
		}
		if cfg.Backup.RetentionDays < 0 {
			return errors.NewValidationErrorf("backup retention days cannot be negative, got %d", cfg.Backup.RetentionDays)
		}
	}

	return nil
}
